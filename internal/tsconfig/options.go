// SPDX-License-Identifier: MPL-2.0

package tsconfig

import "strings"

// CompilerOptions is the subset of compiler options that decides module
// format and emitted files. Directory options are absolute; an empty string
// or nil pointer means the option is unset.
type CompilerOptions struct {
	Module         string
	OutDir         string
	DeclarationDir string
	RootDir        string
	NoEmit         *bool
	Declaration    *bool
	Composite      *bool
}

// Overlay returns o with every option set in over replacing its value.
func (o CompilerOptions) Overlay(over CompilerOptions) CompilerOptions {
	if over.Module != "" {
		o.Module = strings.ToLower(over.Module)
	}
	if over.OutDir != "" {
		o.OutDir = over.OutDir
	}
	if over.DeclarationDir != "" {
		o.DeclarationDir = over.DeclarationDir
	}
	if over.RootDir != "" {
		o.RootDir = over.RootDir
	}
	if over.NoEmit != nil {
		o.NoEmit = over.NoEmit
	}
	if over.Declaration != nil {
		o.Declaration = over.Declaration
	}
	if over.Composite != nil {
		o.Composite = over.Composite
	}
	return o
}

// IsNoEmit reports whether noEmit is enabled.
func (o CompilerOptions) IsNoEmit() bool {
	return o.NoEmit != nil && *o.NoEmit
}

// IsComposite reports whether composite is enabled.
func (o CompilerOptions) IsComposite() bool {
	return o.Composite != nil && *o.Composite
}

// EmitsDeclarations reports whether declaration files are emitted. An unset
// declaration option counts as enabled; composite projects always emit.
func (o CompilerOptions) EmitsDeclarations() bool {
	if o.IsNoEmit() {
		return false
	}
	return o.IsComposite() || o.Declaration == nil || *o.Declaration
}

// Bool returns a pointer to b, for building overrides.
func Bool(b bool) *bool {
	return &b
}
