// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/taskdeps/taskdeps/pkg/manifest"
)

func testPackage(root, name, version, group string, deps map[string]string) *Package {
	return &Package{
		Name:      name,
		Directory: filepath.Join(root, "packages", name),
		Version:   version,
		Group:     group,
		Manifest:  &manifest.Manifest{Name: name, Version: version, Dependencies: deps},
	}
}

func names(pkgs []*Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Name)
	}
	return out
}

func TestLinkedDependencies(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	app := testPackage(root, "app", "1.0.0", "client", map[string]string{
		"linked":      "workspace:*",
		"same-group":  "^1.0.0",
		"other-group": "^1.0.0",
		"stale":       "^1.0.0",
		"external":    "^5.0.0",
	})
	app.Manifest.DevDependencies = map[string]string{"no-group": "^1.0.0"}

	idx, err := NewIndex(root, []*Package{
		app,
		testPackage(root, "linked", "9.0.0", "server", nil),
		testPackage(root, "same-group", "1.3.0", "client", nil),
		testPackage(root, "other-group", "1.3.0", "server", nil),
		testPackage(root, "stale", "2.0.0", "client", nil),
		testPackage(root, "no-group", "1.0.0", "", nil),
	})
	if err != nil {
		t.Fatalf("NewIndex() error: %v", err)
	}

	got := names(idx.LinkedDependencies(app))
	want := []string{"linked", "same-group"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("LinkedDependencies() = %v, want %v", got, want)
	}

	all := names(idx.DependencyPackages(app))
	if len(all) != 5 {
		t.Errorf("DependencyPackages() = %v, want 5 in-repo packages", all)
	}
}

func TestLinkedDependencies_UngroupedPackagesNeedWorkspaceLinks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	app := testPackage(root, "app", "1.0.0", "", map[string]string{"lib": "^1.0.0"})
	idx, err := NewIndex(root, []*Package{app, testPackage(root, "lib", "1.0.0", "", nil)})
	if err != nil {
		t.Fatal(err)
	}
	if got := idx.LinkedDependencies(app); len(got) != 0 {
		t.Errorf("expected no linked dependencies, got %v", names(got))
	}
}

func TestDependencies_PrefersRegularOverDevAndPeer(t *testing.T) {
	t.Parallel()

	p := &Package{Name: "p", Manifest: &manifest.Manifest{
		Dependencies:     map[string]string{"b": "^1.0.0"},
		DevDependencies:  map[string]string{"b": "workspace:*", "a": "^2.0.0"},
		PeerDependencies: map[string]string{"c": ">=1"},
	}}
	deps := p.Dependencies()
	if len(deps) != 3 {
		t.Fatalf("Dependencies() = %+v", deps)
	}
	if deps[0].Name != "a" || deps[0].Kind != DependencyDev {
		t.Errorf("deps[0] = %+v", deps[0])
	}
	if deps[1].Name != "b" || deps[1].Kind != DependencyRegular || deps[1].Range != "^1.0.0" {
		t.Errorf("deps[1] = %+v", deps[1])
	}
	if deps[2].Name != "c" || deps[2].Kind != DependencyPeer {
		t.Errorf("deps[2] = %+v", deps[2])
	}
}

func TestNewIndex_DuplicateName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := testPackage(root, "a", "1.0.0", "", nil)
	b := testPackage(root, "b", "1.0.0", "", nil)
	b.Name = "a"

	_, err := NewIndex(root, []*Package{a, b})
	if !errors.Is(err, ErrDuplicatePackage) {
		t.Errorf("NewIndex() error = %v, want ErrDuplicatePackage", err)
	}
}

func TestPackageLookups(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := testPackage(root, "a", "1.0.0", "", nil)
	idx, err := NewIndex(root, []*Package{a})
	if err != nil {
		t.Fatal(err)
	}

	got, err := idx.PackageForManifest(a.ManifestPath())
	if err != nil || got != a {
		t.Errorf("PackageForManifest() = %v, %v", got, err)
	}
	if _, err := idx.PackageForManifest(filepath.Join(root, "package.json")); !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("PackageForManifest(root) error = %v, want ErrPackageNotFound", err)
	}

	if got, ok := idx.PackageContaining(filepath.Join(a.Directory, "lib", "index.d.ts")); !ok || got != a {
		t.Errorf("PackageContaining() = %v, %v", got, ok)
	}
	if _, ok := idx.PackageContaining(filepath.Join(root, "tools", "x.ts")); ok {
		t.Error("PackageContaining() matched a path outside every package")
	}
}

func TestPackageContaining_StopsAtRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "repo")
	sibling := &Package{
		Name:      "sibling",
		Directory: filepath.Join(base, "repo2"),
		Manifest:  &manifest.Manifest{Name: "sibling"},
	}
	idx, err := NewIndex(root, []*Package{sibling})
	if err != nil {
		t.Fatal(err)
	}

	if got, ok := idx.PackageContaining(filepath.Join(base, "repo2", "src", "index.ts")); ok {
		t.Errorf("PackageContaining() = %s for a path outside the root", got.Name)
	}
}
