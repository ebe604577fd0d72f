// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrDuplicatePackage is returned when two directories declare the same package name.
	ErrDuplicatePackage = errors.New("duplicate package")
	// ErrPackageNotFound is returned when a path or name does not resolve to an indexed package.
	ErrPackageNotFound = errors.New("package not found")
)

type (
	// Index is the repo-wide package index. It is never mutated after construction.
	Index struct {
		root   string
		byName map[string]*Package
		byDir  map[string]*Package
	}

	// DuplicatePackageError wraps ErrDuplicatePackage with both directories.
	DuplicatePackageError struct {
		Name   string
		First  string
		Second string
	}
)

// NewIndex indexes pkgs under root. Directories must be absolute.
func NewIndex(root string, pkgs []*Package) (*Index, error) {
	idx := &Index{
		root:   filepath.Clean(root),
		byName: make(map[string]*Package, len(pkgs)),
		byDir:  make(map[string]*Package, len(pkgs)),
	}
	for _, p := range pkgs {
		p.Directory = filepath.Clean(p.Directory)
		if prev, ok := idx.byName[p.Name]; ok {
			return nil, &DuplicatePackageError{Name: p.Name, First: prev.Directory, Second: p.Directory}
		}
		if prev, ok := idx.byDir[p.Directory]; ok {
			return nil, fmt.Errorf("directory %s holds both %s and %s: %w", p.Directory, prev.Name, p.Name, ErrDuplicatePackage)
		}
		idx.byName[p.Name] = p
		idx.byDir[p.Directory] = p
	}
	return idx, nil
}

// Root returns the repository root directory.
func (i *Index) Root() string { return i.root }

// Package looks up a package by name.
func (i *Index) Package(name string) (*Package, bool) {
	p, ok := i.byName[name]
	return p, ok
}

// Packages returns every package sorted by name.
func (i *Index) Packages() []*Package {
	pkgs := make([]*Package, 0, len(i.byName))
	for _, name := range slices.Sorted(maps.Keys(i.byName)) {
		pkgs = append(pkgs, i.byName[name])
	}
	return pkgs
}

// PackageForManifest returns the package whose manifest is at path.
func (i *Index) PackageForManifest(path string) (*Package, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if p, ok := i.byDir[filepath.Dir(abs)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrPackageNotFound)
}

// PackageContaining returns the package whose directory is the closest
// ancestor of path.
func (i *Index) PackageContaining(path string) (*Package, bool) {
	dir := filepath.Clean(path)
	for {
		if p, ok := i.byDir[dir]; ok {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir || !i.contains(parent) {
			return nil, false
		}
		dir = parent
	}
}

// contains reports whether path is the root or lies below it.
func (i *Index) contains(path string) bool {
	rel, err := filepath.Rel(i.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// DependencyPackages returns every combined dependency of p that is an
// in-repo package, without any version filtering.
func (i *Index) DependencyPackages(p *Package) []*Package {
	var pkgs []*Package
	for _, dep := range p.Dependencies() {
		if d, ok := i.byName[dep.Name]; ok {
			pkgs = append(pkgs, d)
		}
	}
	return pkgs
}

// LinkedDependencies returns the in-repo dependencies of p that the
// installed tree actually links to. A "workspace:" spec always links. A plain
// range links only when the dependency's version satisfies it and both
// packages belong to the same release group.
func (i *Index) LinkedDependencies(p *Package) []*Package {
	var pkgs []*Package
	for _, dep := range p.Dependencies() {
		d, ok := i.byName[dep.Name]
		if !ok {
			continue
		}
		if IsWorkspaceLink(dep.Range) {
			pkgs = append(pkgs, d)
			continue
		}
		if !Satisfies(dep.Range, d.Version) {
			continue
		}
		if p.Group == "" || p.Group != d.Group {
			continue
		}
		pkgs = append(pkgs, d)
	}
	return pkgs
}

// Error implements the error interface.
func (e *DuplicatePackageError) Error() string {
	return fmt.Sprintf("package %q is declared in both %s and %s", e.Name, e.First, e.Second)
}

// Unwrap returns ErrDuplicatePackage for errors.Is() compatibility.
func (e *DuplicatePackageError) Unwrap() error { return ErrDuplicatePackage }
