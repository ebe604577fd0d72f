// SPDX-License-Identifier: MPL-2.0

package taskaudit

import (
	"fmt"
	"io"
	"strings"

	"github.com/taskdeps/taskdeps/internal/buildgraph"
	"github.com/taskdeps/taskdeps/internal/workspace"
	"github.com/taskdeps/taskdeps/pkg/manifest"

	"github.com/charmbracelet/log"
)

type (
	// Auditor checks declared task dependencies against one build database.
	Auditor struct {
		db       *buildgraph.Database
		defaults map[string][]string
		logger   *log.Logger
	}

	// Options configures an Auditor.
	Options struct {
		// DefaultTasks is the definition used for scripts a package does not
		// define. A "..." entry in a package definition splices it in.
		DefaultTasks map[string][]string
		Logger       *log.Logger
	}
)

// New creates an auditor over db.
func New(db *buildgraph.Database, opts Options) *Auditor {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Auditor{db: db, defaults: opts.DefaultTasks, logger: logger}
}

// Requirements computes what the named task must declare: the producers of
// referenced projects, the producers of its inputs, and one same-format
// candidate group per linked dependency. Only compiler tasks have
// requirements.
func (a *Auditor) Requirements(pkgName, script string) ([]Requirement, error) {
	task, err := a.db.Task(pkgName, script)
	if err != nil {
		return nil, err
	}
	if task == nil || !task.IsCompiler() {
		return nil, nil
	}

	var reqs requirementSet
	for _, ref := range task.References() {
		if err := a.addReference(&reqs, task, ref); err != nil {
			return nil, err
		}
	}

	for _, in := range task.Inputs() {
		owner, ok, err := a.db.Producer(in)
		if err != nil {
			return nil, err
		}
		if ok && owner != task {
			reqs.add(Single(owner.ID))
		}
	}

	groups, err := a.db.PossiblePredecessorTasks(pkgName, script)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g = withoutTask(g, task); len(g) > 0 {
			reqs.add(Group(g))
		}
	}

	result := reqs.list()
	a.logger.Debug("computed requirements", "task", task.ID, "count", len(result))
	return result, nil
}

// addReference requires the producers of a referenced project's declaration
// files, or the task compiling the project when it emits nothing.
func (a *Auditor) addReference(reqs *requirementSet, task *buildgraph.Task, ref string) error {
	outputs, err := a.db.ProjectOutputs(ref)
	if err != nil {
		return err
	}
	if len(outputs) > 0 {
		preds, err := a.db.PredecessorTasks(task.ID, outputs)
		if err != nil {
			return err
		}
		for _, p := range preds {
			if p != task {
				reqs.add(Single(p.ID))
			}
		}
		return nil
	}

	builders, err := a.db.TasksForProject(ref)
	if err != nil {
		return err
	}
	builders = withoutTask(builders, task)
	if len(builders) == 0 {
		return &buildgraph.NoProducerError{Path: ref, Requester: task.ID}
	}
	reqs.add(Group(builders))
	return nil
}

// CheckTaskDeps returns the missing-dependency message of script, or "" when
// every requirement is declared. m is the manifest as currently on disk.
func (a *Auditor) CheckTaskDeps(pkg *workspace.Package, m *manifest.Manifest, script string, reqs []Requirement) (string, error) {
	missing, err := a.missing(pkg, m, script, reqs)
	if err != nil || len(missing) == 0 {
		return "", err
	}
	return missingMessage(pkg.Name, script, missing), nil
}

// PatchTaskDeps appends every missing single requirement to the definition
// of script. Missing candidate groups are left alone and reported with an
// AmbiguousCandidatesError after the single requirements were recorded.
func (a *Auditor) PatchTaskDeps(pkg *workspace.Package, e *manifest.Editor, m *manifest.Manifest, script string, reqs []Requirement) error {
	missing, err := a.missing(pkg, m, script, reqs)
	if err != nil || len(missing) == 0 {
		return err
	}

	var (
		specs  []string
		groups []string
	)
	for _, r := range missing {
		if r.IsGroup() {
			groups = append(groups, r.Render(pkg.Name))
			continue
		}
		specs = append(specs, r.Render(pkg.Name))
	}

	if len(specs) > 0 {
		// A new definition replaces the default one, so keep it spliced in.
		if _, defined := m.TaskDefinition(script); !defined && len(a.defaults[script]) > 0 {
			specs = append([]string{manifest.Inherit().String()}, specs...)
		}
		e.AppendTaskDependencies(script, specs...)
		a.logger.Debug("patched task", "package", pkg.Name, "script", script, "added", specs)
	}
	if len(groups) > 0 {
		return &AmbiguousCandidatesError{Script: script, Groups: groups}
	}
	return nil
}

func (a *Auditor) missing(pkg *workspace.Package, m *manifest.Manifest, script string, reqs []Requirement) ([]Requirement, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	declared, err := a.declared(pkg, m, script)
	if err != nil {
		return nil, err
	}
	var missing []Requirement
	for _, r := range reqs {
		if !r.SatisfiedBy(declared) {
			missing = append(missing, r)
		}
	}
	return missing, nil
}

func missingMessage(pkg, script string, missing []Requirement) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "'%s' task is missing the following dependencies:", script)
	for _, r := range missing {
		sb.WriteString("\n\t- ")
		sb.WriteString(r.Render(pkg))
	}
	return sb.String()
}

func withoutTask(tasks []*buildgraph.Task, skip *buildgraph.Task) []*buildgraph.Task {
	out := make([]*buildgraph.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != skip {
			out = append(out, t)
		}
	}
	return out
}
