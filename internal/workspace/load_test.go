// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"testing"

	"github.com/taskdeps/taskdeps/internal/testutil"
)

func TestLoad_PnpmWorkspaceAndReleaseGroups(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.WriteFile("pnpm-workspace.yaml", "packages:\n  - \"packages/*\"\n  - \"tools/**\"\n  - \"!tools/legacy\"\n")
	repo.Package("a", map[string]any{"name": "@scope/a", "version": "2.0.0"})
	repo.Package("b", nil)
	repo.WriteJSON("tools/cli/package.json", map[string]any{"name": "cli", "version": "0.1.0"})
	repo.WriteJSON("tools/legacy/package.json", map[string]any{"name": "legacy", "version": "0.1.0"})

	idx, err := Load(repo.Root, Options{ReleaseGroups: []ReleaseGroup{
		{Name: "client", Directory: "packages"},
		{Name: "b-only", Directory: "packages/b"},
	}})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	got := names(idx.Packages())
	want := []string{"@scope/a", "b", "cli"}
	if len(got) != len(want) {
		t.Fatalf("Packages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Packages()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	a, _ := idx.Package("@scope/a")
	if a.Group != "client" || a.Version != "2.0.0" {
		t.Errorf("a = %+v", a)
	}
	b, _ := idx.Package("b")
	if b.Group != "b-only" {
		t.Errorf("b group = %q, want longest-prefix group b-only", b.Group)
	}
	cli, _ := idx.Package("cli")
	if cli.Group != "" {
		t.Errorf("cli group = %q, want none", cli.Group)
	}
}

func TestLoad_RootWorkspacesField(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.WriteFile("pnpm-workspace.yaml", "")
	repo.WriteJSON("package.json", map[string]any{"name": "root", "workspaces": []string{"libs/*"}})
	repo.WriteJSON("libs/x/package.json", map[string]any{"name": "x", "version": "1.0.0"})

	idx, err := Load(repo.Root, Options{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := idx.Package("x"); !ok {
		t.Error("expected package x from root workspaces field")
	}
	if _, ok := idx.Package("root"); ok {
		t.Error("root package should not be indexed")
	}
}

func TestDiscoverPatterns_NoWorkspace(t *testing.T) {
	t.Parallel()

	_, err := DiscoverPatterns(t.TempDir())
	if !errors.Is(err, ErrNoWorkspace) {
		t.Errorf("DiscoverPatterns() error = %v, want ErrNoWorkspace", err)
	}
}

func TestFindRoot(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.Package("a", nil)

	root, ok := FindRoot(repo.Path("packages", "a"))
	if !ok || root != repo.Root {
		t.Errorf("FindRoot() = %q, %v, want %q", root, ok, repo.Root)
	}
}
