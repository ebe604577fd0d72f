// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"maps"
	"path/filepath"
	"slices"

	"github.com/taskdeps/taskdeps/pkg/manifest"
)

const (
	// DependencyRegular is an entry of "dependencies".
	DependencyRegular DependencyKind = "dependencies"
	// DependencyDev is an entry of "devDependencies".
	DependencyDev DependencyKind = "devDependencies"
	// DependencyPeer is an entry of "peerDependencies".
	DependencyPeer DependencyKind = "peerDependencies"
)

type (
	// DependencyKind names the manifest map a dependency was declared in.
	DependencyKind string

	// Package is one in-repo package. It is immutable once indexed.
	Package struct {
		Name      string
		Directory string
		Version   string
		// Group is the release group name, empty when the package belongs to none.
		Group    string
		Manifest *manifest.Manifest
	}

	// Dependency is one declared dependency of a package.
	Dependency struct {
		Name  string
		Range string
		Kind  DependencyKind
	}
)

// ManifestPath returns the absolute path of the package manifest.
func (p *Package) ManifestPath() string {
	return filepath.Join(p.Directory, manifest.FileName)
}

// Dependencies returns the combined regular, dev and peer dependencies sorted
// by name. A name declared in several maps is reported once, preferring the
// regular entry, then dev, then peer.
func (p *Package) Dependencies() []Dependency {
	seen := make(map[string]Dependency)
	for _, group := range []struct {
		kind DependencyKind
		deps map[string]string
	}{
		{DependencyRegular, p.Manifest.Dependencies},
		{DependencyDev, p.Manifest.DevDependencies},
		{DependencyPeer, p.Manifest.PeerDependencies},
	} {
		for name, rng := range group.deps {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = Dependency{Name: name, Range: rng, Kind: group.kind}
		}
	}

	deps := make([]Dependency, 0, len(seen))
	for _, name := range slices.Sorted(maps.Keys(seen)) {
		deps = append(deps, seen[name])
	}
	return deps
}

// IsESModule reports whether the package declares "type": "module".
func (p *Package) IsESModule() bool {
	return p.Manifest.Type == manifest.TypeModule
}
