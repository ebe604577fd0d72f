// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/taskdeps/taskdeps/internal/buildcmd"
	"github.com/taskdeps/taskdeps/internal/dag"
	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"

	"github.com/charmbracelet/log"
)

type (
	// Database holds the tasks and output ownership of the packages loaded so
	// far. It is safe for concurrent use.
	Database struct {
		mu       sync.Mutex
		index    *workspace.Index
		parser   *tsconfig.Parser
		logger   *log.Logger
		packages map[string]*packageEntry
		owners   map[string]*Task
	}

	packageEntry struct {
		// loading is set while the package or its dependencies are loading.
		loading bool
		tasks   map[string]*Task
	}
)

// New creates an empty database over index. A nil logger discards output.
func New(index *workspace.Index, parser *tsconfig.Parser, logger *log.Logger) *Database {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Database{
		index:    index,
		parser:   parser,
		logger:   logger,
		packages: make(map[string]*packageEntry),
		owners:   make(map[string]*Task),
	}
}

// Index returns the package index the database was built over.
func (db *Database) Index() *workspace.Index {
	return db.index
}

// LoadPackage loads the named package and everything it depends on.
func (db *Database) LoadPackage(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.ensureLoaded(name)
	return err
}

func (db *Database) ensureLoaded(name string) (*packageEntry, error) {
	pkg, ok := db.index.Package(name)
	if !ok {
		return nil, fmt.Errorf("package %q: %w", name, workspace.ErrPackageNotFound)
	}
	if err := db.load(pkg, nil); err != nil {
		return nil, err
	}
	return db.packages[name], nil
}

// load resolves the tasks of pkg and then recurses into its combined
// dependencies. Re-entering a package that is still loading is a cycle.
// On failure the package is discarded so a later call starts over.
func (db *Database) load(pkg *workspace.Package, path []string) error {
	if entry, ok := db.packages[pkg.Name]; ok {
		if entry.loading {
			return dag.NewPathCycle(path, pkg.Name)
		}
		return nil
	}

	entry := &packageEntry{loading: true, tasks: make(map[string]*Task)}
	db.packages[pkg.Name] = entry
	path = append(path, pkg.Name)

	if err := db.loadTasks(pkg, entry); err != nil {
		db.discard(pkg.Name)
		return err
	}
	for _, dep := range db.index.DependencyPackages(pkg) {
		if err := db.load(dep, path); err != nil {
			db.discard(pkg.Name)
			return err
		}
	}

	entry.loading = false
	db.logger.Debug("loaded package", "package", pkg.Name, "tasks", len(entry.tasks))
	return nil
}

func (db *Database) loadTasks(pkg *workspace.Package, entry *packageEntry) error {
	for _, script := range pkg.Manifest.ScriptNames() {
		task, err := db.resolveTask(pkg, script)
		if err != nil {
			return err
		}
		if task == nil {
			continue
		}
		// Register into the package first so discard also releases
		// outputs claimed before a conflict.
		entry.tasks[script] = task
		for _, out := range task.Outputs {
			if owner, ok := db.owners[out]; ok && owner != task {
				return &DuplicateOutputError{Path: out, First: owner.ID, Second: task.ID}
			}
			db.owners[out] = task
		}
	}
	return nil
}

// resolveTask classifies every command of the script and combines their
// formats and outputs. It returns nil for scripts without build commands.
func (db *Database) resolveTask(pkg *workspace.Package, script string) (*Task, error) {
	id := TaskID{Package: pkg.Name, Script: script}
	line := pkg.Manifest.Scripts[script]

	commands, err := buildcmd.ClassifyScript(line)
	if err != nil {
		db.logger.Warn("skipping script that cannot be parsed", "task", id, "error", err)
		return nil, nil
	}
	if len(commands) == 0 {
		return nil, nil
	}

	task := &Task{ID: id, Command: line}
	var formatSource string
	for _, cmd := range commands {
		res, err := cmd.Resolve(pkg, db.parser)
		if err != nil {
			return nil, &TaskError{Task: id, Err: err}
		}

		merged, ok := task.Format.Merge(res.Format)
		if !ok {
			return nil, &buildcmd.FormatConflictError{
				Subject:      "task " + id.String(),
				First:        task.Format,
				FirstSource:  formatSource,
				Second:       res.Format,
				SecondSource: cmd.String(),
			}
		}
		if res.Format.IsKnown() && formatSource == "" {
			formatSource = cmd.String()
		}
		task.Format = merged
		task.Outputs = append(task.Outputs, res.Outputs...)
		if res.Project != nil {
			task.Projects = append(task.Projects, res.Project)
		}
	}
	slices.Sort(task.Outputs)
	task.Outputs = slices.Compact(task.Outputs)

	db.logger.Debug("resolved task", "task", id, "format", task.Format, "outputs", len(task.Outputs))
	return task, nil
}

func (db *Database) discard(name string) {
	entry, ok := db.packages[name]
	if !ok {
		return
	}
	for _, task := range entry.tasks {
		for _, out := range task.Outputs {
			if db.owners[out] == task {
				delete(db.owners, out)
			}
		}
	}
	delete(db.packages, name)
}

func sortedTasks(entry *packageEntry) []*Task {
	tasks := make([]*Task, 0, len(entry.tasks))
	for _, script := range slices.Sorted(maps.Keys(entry.tasks)) {
		tasks = append(tasks, entry.tasks[script])
	}
	return tasks
}
