// SPDX-License-Identifier: MPL-2.0

package taskaudit

import (
	"slices"
	"strings"

	"github.com/taskdeps/taskdeps/internal/buildgraph"
	"github.com/taskdeps/taskdeps/pkg/manifest"
)

// Requirement is one entry a task must declare. A single choice must be
// declared itself; for a candidate group any one choice is enough.
type Requirement struct {
	Choices []manifest.DependencySpec
}

// Single returns the requirement naming exactly one task.
func Single(id buildgraph.TaskID) Requirement {
	return Requirement{Choices: []manifest.DependencySpec{id.Spec()}}
}

// Group returns a candidate group over tasks. A group of one is a single
// requirement.
func Group(tasks []*buildgraph.Task) Requirement {
	choices := make([]manifest.DependencySpec, 0, len(tasks))
	for _, t := range tasks {
		choices = append(choices, t.ID.Spec())
	}
	return Requirement{Choices: choices}
}

// IsGroup reports whether the requirement offers several choices.
func (r Requirement) IsGroup() bool {
	return len(r.Choices) > 1
}

// SatisfiedBy reports whether any choice is in the declared set.
func (r Requirement) SatisfiedBy(declared map[string]bool) bool {
	return slices.ContainsFunc(r.Choices, func(s manifest.DependencySpec) bool {
		return declared[s.String()]
	})
}

// Render lists the choices joined by "or", naming tasks of pkg by script.
func (r Requirement) Render(pkg string) string {
	parts := make([]string, 0, len(r.Choices))
	for _, c := range r.Choices {
		parts = append(parts, c.RelativeTo(pkg).String())
	}
	return strings.Join(parts, " or ")
}

func (r Requirement) key() string {
	keys := make([]string, 0, len(r.Choices))
	for _, c := range r.Choices {
		keys = append(keys, c.String())
	}
	slices.Sort(keys)
	return strings.Join(keys, "|")
}

// requirementSet keeps requirements unique in insertion order.
type requirementSet struct {
	items []Requirement
	seen  map[string]bool
}

func (s *requirementSet) add(r Requirement) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	k := r.key()
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	s.items = append(s.items, r)
}

// list drops groups already covered by a single requirement.
func (s *requirementSet) list() []Requirement {
	singles := make(map[string]bool)
	for _, r := range s.items {
		if !r.IsGroup() {
			singles[r.Choices[0].String()] = true
		}
	}
	out := make([]Requirement, 0, len(s.items))
	for _, r := range s.items {
		if r.IsGroup() && r.SatisfiedBy(singles) {
			continue
		}
		out = append(out, r)
	}
	return out
}
