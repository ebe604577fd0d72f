// SPDX-License-Identifier: MPL-2.0

package taskaudit

import (
	"errors"
	"strings"

	"github.com/taskdeps/taskdeps/internal/buildgraph"
	"github.com/taskdeps/taskdeps/internal/dag"
	"github.com/taskdeps/taskdeps/internal/workspace"
	"github.com/taskdeps/taskdeps/pkg/manifest"
)

type (
	// PatchResult is the outcome of patching one manifest. Message explains
	// what could not be resolved automatically.
	PatchResult struct {
		Resolved bool
		Message  string
	}

	// PlanEntry is a task of one package with its requirements.
	PlanEntry struct {
		Task         *buildgraph.Task
		Requirements []Requirement
	}
)

// Audit checks every task of the package whose manifest is at path. It
// returns the joined missing-dependency messages, "" when all pass. The
// manifest is read from disk so edits made since indexing are seen.
func (a *Auditor) Audit(path string) (string, error) {
	pkg, err := a.db.Index().PackageForManifest(path)
	if err != nil {
		return "", err
	}
	m, err := manifest.Read(path)
	if err != nil {
		return "", err
	}

	var messages []string
	for _, script := range m.ScriptNames() {
		reqs, err := a.Requirements(pkg.Name, script)
		if err != nil {
			return "", err
		}
		msg, err := a.CheckTaskDeps(pkg, m, script, reqs)
		if err != nil {
			return "", err
		}
		if msg != "" {
			messages = append(messages, msg)
		}
	}
	return strings.Join(messages, "\n"), nil
}

// Patch adds every missing single requirement to the manifest at path and
// writes it once. Candidate groups that are still missing make the result
// unresolved.
func (a *Auditor) Patch(path string) (PatchResult, error) {
	pkg, err := a.db.Index().PackageForManifest(path)
	if err != nil {
		return PatchResult{}, err
	}

	var unresolved []string
	err = manifest.Update(path, func(m *manifest.Manifest, e *manifest.Editor) error {
		for _, script := range m.ScriptNames() {
			reqs, err := a.Requirements(pkg.Name, script)
			if err != nil {
				return err
			}
			err = a.PatchTaskDeps(pkg, e, m, script, reqs)
			var ambiguous *AmbiguousCandidatesError
			switch {
			case errors.As(err, &ambiguous):
				unresolved = append(unresolved, ambiguous.Error())
			case err != nil:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PatchResult{}, err
	}

	if len(unresolved) > 0 {
		return PatchResult{Resolved: false, Message: strings.Join(unresolved, "\n")}, nil
	}
	return PatchResult{Resolved: true}, nil
}

// Plan returns the build tasks of a package ordered so that a task comes
// after the same-package tasks it requires.
func (a *Auditor) Plan(pkgName string) ([]PlanEntry, error) {
	tasks, err := a.db.Tasks(pkgName)
	if err != nil {
		return nil, err
	}

	g := dag.New()
	entries := make(map[string]PlanEntry, len(tasks))
	for _, task := range tasks {
		reqs, err := a.Requirements(pkgName, task.ID.Script)
		if err != nil {
			return nil, err
		}
		id := task.ID.String()
		entries[id] = PlanEntry{Task: task, Requirements: reqs}
		g.AddNode(id)
		for _, r := range reqs {
			for _, c := range r.Choices {
				if c.Package == pkgName {
					g.AddEdge(c.String(), id)
				}
			}
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	plan := make([]PlanEntry, 0, len(order))
	for _, id := range order {
		if e, ok := entries[id]; ok {
			plan = append(plan, e)
		}
	}
	return plan, nil
}

// Handler runs audits per manifest file, sharing one database per
// repository root.
type Handler struct {
	sessions *buildgraph.Sessions
	opts     Options
}

// NewHandler creates a handler over sessions.
func NewHandler(sessions *buildgraph.Sessions, opts Options) *Handler {
	return &Handler{sessions: sessions, opts: opts}
}

// Audit checks the manifest at path in the repository at root.
func (h *Handler) Audit(path, root string) (string, error) {
	a, err := h.auditor(root)
	if err != nil {
		return "", err
	}
	return a.Audit(path)
}

// Patch repairs the manifest at path in the repository at root.
func (h *Handler) Patch(path, root string) (PatchResult, error) {
	a, err := h.auditor(root)
	if err != nil {
		return PatchResult{}, err
	}
	return a.Patch(path)
}

// auditor binds a new Auditor to the database of root.
func (h *Handler) auditor(root string) (*Auditor, error) {
	db, err := h.sessions.Get(root)
	if err != nil {
		return nil, err
	}
	return New(db, h.opts), nil
}

// Index returns the package index of root.
func (h *Handler) Index(root string) (*workspace.Index, error) {
	db, err := h.sessions.Get(root)
	if err != nil {
		return nil, err
	}
	return db.Index(), nil
}

// Plan orders the tasks of a package in the repository at root.
func (h *Handler) Plan(pkgName, root string) ([]PlanEntry, error) {
	a, err := h.auditor(root)
	if err != nil {
		return nil, err
	}
	return a.Plan(pkgName)
}
