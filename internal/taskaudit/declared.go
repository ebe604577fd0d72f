// SPDX-License-Identifier: MPL-2.0

package taskaudit

import (
	"github.com/taskdeps/taskdeps/internal/workspace"
	"github.com/taskdeps/taskdeps/pkg/manifest"
)

// definition returns the declared specs of script with the default
// definition applied: used as-is when the package defines nothing, spliced
// in at each "..." otherwise.
func (a *Auditor) definition(m *manifest.Manifest, script string) ([]manifest.DependencySpec, error) {
	defaults, err := parseSpecs(a.defaults[script])
	if err != nil {
		return nil, err
	}
	def, ok := m.TaskDefinition(script)
	if !ok {
		return defaults, nil
	}
	specs, err := def.Specs()
	if err != nil {
		return nil, err
	}

	out := make([]manifest.DependencySpec, 0, len(specs))
	for _, s := range specs {
		if s.Kind == manifest.SpecInherit {
			out = append(out, defaults...)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// declared expands the definition of script into the set of exact task
// names it covers. Same-package specs are expanded one level deep.
func (a *Auditor) declared(pkg *workspace.Package, m *manifest.Manifest, script string) (map[string]bool, error) {
	specs, err := a.definition(m, script)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	for _, s := range specs {
		if err := a.expand(pkg, m, s, set, true); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (a *Auditor) expand(pkg *workspace.Package, m *manifest.Manifest, s manifest.DependencySpec, set map[string]bool, nested bool) error {
	switch s.Kind {
	case manifest.SpecLocal:
		set[manifest.Exact(pkg.Name, s.Script).String()] = true
		if !nested {
			return nil
		}
		inner, err := a.definition(m, s.Script)
		if err != nil {
			return err
		}
		for _, is := range inner {
			if err := a.expand(pkg, m, is, set, false); err != nil {
				return err
			}
		}
	case manifest.SpecExact:
		set[s.String()] = true
	case manifest.SpecWildcardScript:
		for _, dep := range a.db.Index().DependencyPackages(pkg) {
			set[manifest.Exact(dep.Name, s.Script).String()] = true
		}
	case manifest.SpecWildcardAll:
		for _, dep := range a.db.Index().DependencyPackages(pkg) {
			for _, script := range dep.Manifest.ScriptNames() {
				set[manifest.Exact(dep.Name, script).String()] = true
			}
		}
	case manifest.SpecInherit:
		// Spliced by definition.
	}
	return nil
}

func parseSpecs(raw []string) ([]manifest.DependencySpec, error) {
	specs := make([]manifest.DependencySpec, 0, len(raw))
	for _, r := range raw {
		s, err := manifest.ParseDependencySpec(r)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}
