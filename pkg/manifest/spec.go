// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SpecLocal is a task in the same package: "build".
	SpecLocal SpecKind = iota + 1
	// SpecExact is a task in a named package: "pkg#build".
	SpecExact
	// SpecWildcardScript is a named task in every dependency: "^build".
	SpecWildcardScript
	// SpecWildcardAll is every task in every dependency: "^*".
	SpecWildcardAll
	// SpecInherit splices in the default definition: "...".
	SpecInherit
)

const (
	wildcardPrefix = "^"
	wildcardAll    = "^*"
	inheritToken   = "..."
	packageSep     = "#"
)

// ErrInvalidDependencySpec is returned for malformed dependency spec strings.
var ErrInvalidDependencySpec = errors.New("invalid dependency spec")

type (
	// SpecKind identifies the variant of a DependencySpec.
	SpecKind int

	// DependencySpec is one entry of a task's dependency list.
	// Package is only set for SpecExact; Script is empty for SpecWildcardAll
	// and SpecInherit.
	DependencySpec struct {
		Kind    SpecKind
		Package string
		Script  string
	}

	// InvalidDependencySpecError wraps ErrInvalidDependencySpec with the raw value.
	InvalidDependencySpecError struct {
		Value  string
		Reason string
	}
)

// Local returns a same-package spec.
func Local(script string) DependencySpec {
	return DependencySpec{Kind: SpecLocal, Script: script}
}

// Exact returns a cross-package spec.
func Exact(pkg, script string) DependencySpec {
	return DependencySpec{Kind: SpecExact, Package: pkg, Script: script}
}

// WildcardScript returns a "^script" spec.
func WildcardScript(script string) DependencySpec {
	return DependencySpec{Kind: SpecWildcardScript, Script: script}
}

// WildcardAll returns the "^*" spec.
func WildcardAll() DependencySpec {
	return DependencySpec{Kind: SpecWildcardAll}
}

// Inherit returns the spec splicing in the default definition.
func Inherit() DependencySpec {
	return DependencySpec{Kind: SpecInherit}
}

// ParseDependencySpec parses the string form of a dependency spec. Package
// names may be scoped, so the package/script separator is the last '#'.
func ParseDependencySpec(s string) (DependencySpec, error) {
	switch {
	case s == "":
		return DependencySpec{}, &InvalidDependencySpecError{Value: s, Reason: "empty"}
	case s == inheritToken:
		return DependencySpec{Kind: SpecInherit}, nil
	case s == wildcardAll:
		return WildcardAll(), nil
	case strings.HasPrefix(s, wildcardPrefix):
		script := strings.TrimPrefix(s, wildcardPrefix)
		if script == "" {
			return DependencySpec{}, &InvalidDependencySpecError{Value: s, Reason: "missing script name after ^"}
		}
		return WildcardScript(script), nil
	}

	if idx := strings.LastIndex(s, packageSep); idx >= 0 {
		pkg, script := s[:idx], s[idx+1:]
		if pkg == "" || script == "" {
			return DependencySpec{}, &InvalidDependencySpecError{Value: s, Reason: "expected <package>#<script>"}
		}
		return Exact(pkg, script), nil
	}
	return Local(s), nil
}

// String renders the spec in manifest form.
func (d DependencySpec) String() string {
	switch d.Kind {
	case SpecLocal:
		return d.Script
	case SpecExact:
		return d.Package + packageSep + d.Script
	case SpecWildcardScript:
		return wildcardPrefix + d.Script
	case SpecWildcardAll:
		return wildcardAll
	case SpecInherit:
		return inheritToken
	default:
		return fmt.Sprintf("<invalid spec kind %d>", int(d.Kind))
	}
}

// RelativeTo renders an exact spec as a local one when it names pkg.
func (d DependencySpec) RelativeTo(pkg string) DependencySpec {
	if d.Kind == SpecExact && d.Package == pkg {
		return Local(d.Script)
	}
	return d
}

// Error implements the error interface.
func (e *InvalidDependencySpecError) Error() string {
	return fmt.Sprintf("invalid dependency spec %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidDependencySpec for errors.Is() compatibility.
func (e *InvalidDependencySpecError) Unwrap() error { return ErrInvalidDependencySpec }
