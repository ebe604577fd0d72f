// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"fmt"
	"slices"

	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"
)

// Task returns the build task for script in the named package, loading the
// package if needed. It returns nil when the script has no build command.
func (db *Database) Task(pkgName, script string) (*Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	entry, err := db.ensureLoaded(pkgName)
	if err != nil {
		return nil, err
	}
	return entry.tasks[script], nil
}

// Tasks returns the build tasks of the named package sorted by script.
func (db *Database) Tasks(pkgName string) ([]*Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	entry, err := db.ensureLoaded(pkgName)
	if err != nil {
		return nil, err
	}
	return sortedTasks(entry), nil
}

// Producer returns the task owning path. The package containing path is
// loaded first so files of packages not yet visited are found.
func (db *Database) Producer(path string) (*Task, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.producer(path)
}

func (db *Database) producer(path string) (*Task, bool, error) {
	if task, ok := db.owners[path]; ok {
		return task, true, nil
	}
	pkg, ok := db.index.PackageContaining(path)
	if !ok {
		return nil, false, nil
	}
	if err := db.load(pkg, nil); err != nil {
		return nil, false, err
	}
	task, ok := db.owners[path]
	return task, ok, nil
}

// PredecessorTasks returns the tasks producing each required input of
// requester, deduplicated in first-seen order. An input without a producer
// is a NoProducerError.
func (db *Database) PredecessorTasks(requester TaskID, inputs []string) ([]*Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var tasks []*Task
	for _, in := range inputs {
		task, ok, err := db.producer(in)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &NoProducerError{Path: in, Requester: requester}
		}
		if !slices.Contains(tasks, task) {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// PossiblePredecessorTasks returns one candidate group per linked dependency
// of the package: the dependency tasks whose format is unknown or equal to
// the format of the named task. Dependencies without candidates are omitted.
func (db *Database) PossiblePredecessorTasks(pkgName, script string) ([][]*Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	entry, err := db.ensureLoaded(pkgName)
	if err != nil {
		return nil, err
	}
	task, ok := entry.tasks[script]
	if !ok {
		return nil, fmt.Errorf("%s#%s is not a build task", pkgName, script)
	}
	pkg, _ := db.index.Package(pkgName)

	var groups [][]*Task
	for _, dep := range db.index.LinkedDependencies(pkg) {
		depEntry, err := db.ensureLoaded(dep.Name)
		if err != nil {
			return nil, err
		}
		var group []*Task
		for _, cand := range sortedTasks(depEntry) {
			if cand.Format.Compatible(task.Format) {
				group = append(group, cand)
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// TasksForProject returns the tasks compiling the project at configPath,
// searching the package that contains it.
func (db *Database) TasksForProject(configPath string) ([]*Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	pkg, ok := db.index.PackageContaining(configPath)
	if !ok {
		return nil, nil
	}
	entry, err := db.ensureLoaded(pkg.Name)
	if err != nil {
		return nil, err
	}
	var tasks []*Task
	for _, task := range sortedTasks(entry) {
		if task.BuildsProject(configPath) {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// ProjectOutputs resolves a referenced project without command-line
// overrides and returns the declaration files it emits.
func (db *Database) ProjectOutputs(configPath string) ([]string, error) {
	proj, err := db.parser.Parse(configPath, tsconfig.CompilerOptions{})
	if err != nil {
		return nil, err
	}
	return proj.DeclarationOutputs()
}

// Package returns the indexed package with the given name.
func (db *Database) Package(name string) (*workspace.Package, bool) {
	return db.index.Package(name)
}
