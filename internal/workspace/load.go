// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taskdeps/taskdeps/pkg/manifest"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// PnpmWorkspaceFile is the pnpm workspace definition at the repository root.
const PnpmWorkspaceFile = "pnpm-workspace.yaml"

// ErrNoWorkspace is returned when no package globs could be determined.
var ErrNoWorkspace = errors.New("no workspace package globs found")

type (
	// ReleaseGroup assigns every package under Directory to a named group.
	ReleaseGroup struct {
		Name string
		// Directory is relative to the repository root.
		Directory string
	}

	// Options controls how the index is built.
	Options struct {
		// Patterns overrides workspace discovery when non-empty.
		Patterns []string
		// ReleaseGroups lists the release groups of the repository.
		ReleaseGroups []ReleaseGroup
	}

	pnpmWorkspace struct {
		Packages []string `yaml:"packages"`
	}
)

// Load discovers and reads every workspace package under root.
func Load(root string, opts Options) (*Index, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns, err = DiscoverPatterns(root)
		if err != nil {
			return nil, err
		}
	}

	dirs, err := expandPatterns(root, patterns)
	if err != nil {
		return nil, err
	}

	pkgs := make([]*Package, 0, len(dirs))
	for _, dir := range dirs {
		m, err := manifest.Read(filepath.Join(dir, manifest.FileName))
		if err != nil {
			return nil, err
		}
		if m.Name == "" {
			return nil, fmt.Errorf("%s: package has no name", filepath.Join(dir, manifest.FileName))
		}
		pkgs = append(pkgs, &Package{
			Name:      m.Name,
			Directory: dir,
			Version:   m.Version,
			Group:     groupFor(root, dir, opts.ReleaseGroups),
			Manifest:  m,
		})
	}
	return NewIndex(root, pkgs)
}

// DiscoverPatterns reads package globs from pnpm-workspace.yaml, falling back
// to the "workspaces" field of the root package.json.
func DiscoverPatterns(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, PnpmWorkspaceFile))
	switch {
	case err == nil:
		var ws pnpmWorkspace
		if err := yaml.Unmarshal(data, &ws); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", PnpmWorkspaceFile, err)
		}
		if len(ws.Packages) > 0 {
			return ws.Packages, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", PnpmWorkspaceFile, err)
	}

	rootManifest := filepath.Join(root, manifest.FileName)
	if _, err := os.Stat(rootManifest); err == nil {
		m, err := manifest.Read(rootManifest)
		if err != nil {
			return nil, err
		}
		patterns, err := m.WorkspacePatterns()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rootManifest, err)
		}
		if len(patterns) > 0 {
			return patterns, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", root, ErrNoWorkspace)
}

// FindRoot walks up from dir to the first directory that defines a workspace.
func FindRoot(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		if _, err := DiscoverPatterns(dir); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// expandPatterns resolves workspace globs to sorted absolute package
// directories. Patterns starting with '!' exclude matches.
func expandPatterns(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	var include, exclude []string
	for _, p := range patterns {
		p = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(p)), "./")
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			exclude = append(exclude, strings.TrimPrefix(neg, "./"))
			continue
		}
		include = append(include, strings.TrimSuffix(p, "/"))
	}

	found := make(map[string]bool)
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern+"/"+manifest.FileName)
		if err != nil {
			return nil, fmt.Errorf("invalid workspace pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			rel := pathDir(match)
			if rel == "." || strings.Contains("/"+rel+"/", "/node_modules/") || excluded(rel, exclude) {
				continue
			}
			found[filepath.Join(root, filepath.FromSlash(rel))] = true
		}
	}

	dirs := make([]string, 0, len(found))
	for dir := range found {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs, nil
}

func pathDir(slashPath string) string {
	idx := strings.LastIndex(slashPath, "/")
	if idx < 0 {
		return "."
	}
	return slashPath[:idx]
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.TrimSuffix(p, "/"), rel); ok {
			return true
		}
	}
	return false
}

// groupFor returns the release group whose directory is the longest prefix of dir.
func groupFor(root, dir string, groups []ReleaseGroup) string {
	best, bestLen := "", -1
	for _, g := range groups {
		gdir := filepath.Join(root, filepath.FromSlash(g.Directory))
		if dir != gdir && !strings.HasPrefix(dir, gdir+string(filepath.Separator)) {
			continue
		}
		if len(gdir) > bestLen {
			best, bestLen = g.Name, len(gdir)
		}
	}
	return best
}
