// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"slices"

	"github.com/taskdeps/taskdeps/internal/buildcmd"
	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/pkg/manifest"
)

type (
	// TaskID identifies a task by package and script name.
	TaskID struct {
		Package string
		Script  string
	}

	// Task is a script with at least one recognized build command. Tasks are
	// never mutated after loading.
	Task struct {
		ID TaskID
		// Command is the raw script line.
		Command string
		Format  buildcmd.ModuleFormat
		// Outputs are the absolute declaration files the task writes, sorted.
		Outputs []string
		// Projects are the compiler projects the task builds, in command order.
		Projects []*tsconfig.Project
	}
)

// String renders the id as "package#script".
func (id TaskID) String() string {
	return id.Package + "#" + id.Script
}

// Spec returns the exact dependency spec naming the task.
func (id TaskID) Spec() manifest.DependencySpec {
	return manifest.Exact(id.Package, id.Script)
}

// IsCompiler reports whether the task runs the compiler.
func (t *Task) IsCompiler() bool {
	return len(t.Projects) > 0
}

// Inputs returns the input files of every compiled project, sorted.
func (t *Task) Inputs() []string {
	var inputs []string
	for _, p := range t.Projects {
		inputs = append(inputs, p.Files...)
	}
	slices.Sort(inputs)
	return slices.Compact(inputs)
}

// References returns the project files referenced by the compiled projects,
// in first-seen order.
func (t *Task) References() []string {
	var refs []string
	for _, p := range t.Projects {
		for _, r := range p.References {
			if !slices.Contains(refs, r) {
				refs = append(refs, r)
			}
		}
	}
	return refs
}

// BuildsProject reports whether the task compiles the project at configPath.
func (t *Task) BuildsProject(configPath string) bool {
	return slices.ContainsFunc(t.Projects, func(p *tsconfig.Project) bool {
		return p.ConfigPath == configPath
	})
}

// Owns reports whether path is one of the task outputs.
func (t *Task) Owns(path string) bool {
	_, found := slices.BinarySearch(t.Outputs, path)
	return found
}
