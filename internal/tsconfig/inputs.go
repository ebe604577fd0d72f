// SPDX-License-Identifier: MPL-2.0

package tsconfig

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	supportedExtensions = []string{".ts", ".tsx", ".mts", ".cts"}

	// wildcardSkippedDirs are never entered by wildcard include expansion.
	wildcardSkippedDirs = []string{"node_modules", "bower_components", "jspm_packages"}
)

// collectInputs expands files/include/exclude of a merged project.
func collectInputs(dir string, merged *configFile) ([]string, error) {
	found := make(map[string]bool)

	if merged.files != nil {
		for _, f := range merged.files.patterns {
			abs := joinPath(merged.files.dir, f)
			if !fileExists(abs) {
				return nil, fmt.Errorf("file %s listed in files: %w", f, fs.ErrNotExist)
			}
			found[abs] = true
		}
	}

	include := merged.include
	if include == nil && merged.files == nil {
		include = &patternList{dir: dir, patterns: []string{"**/*"}}
	}

	excludes := excludePatterns(dir, merged)
	if include != nil {
		for _, pattern := range include.patterns {
			if err := expandInclude(includePattern(include.dir, pattern), excludes, found); err != nil {
				return nil, err
			}
		}
	}

	files := make([]string, 0, len(found))
	for f := range found {
		files = append(files, f)
	}
	slices.Sort(files)
	return files, nil
}

// includePattern turns an include entry into an absolute slash pattern.
// An entry whose last segment has neither a wildcard nor an extension names
// a directory and matches everything below it.
func includePattern(dir, pattern string) string {
	abs := filepath.ToSlash(joinPath(dir, pattern))
	last := path.Base(abs)
	if !strings.ContainsAny(last, "*?") && path.Ext(last) == "" {
		abs += "/**/*"
	}
	return abs
}

func excludePatterns(dir string, merged *configFile) []string {
	var patterns []string
	if merged.exclude != nil {
		for _, p := range merged.exclude.patterns {
			patterns = append(patterns, filepath.ToSlash(joinPath(merged.exclude.dir, p)))
		}
		return patterns
	}
	for _, name := range wildcardSkippedDirs {
		patterns = append(patterns, filepath.ToSlash(filepath.Join(dir, name)))
	}
	for _, out := range []string{merged.options.OutDir, merged.options.DeclarationDir} {
		if out != "" {
			patterns = append(patterns, filepath.ToSlash(out))
		}
	}
	return patterns
}

func expandInclude(pattern string, excludes []string, found map[string]bool) error {
	base, _ := doublestar.SplitPattern(pattern)
	root := filepath.FromSlash(base)
	if _, err := os.Stat(root); err != nil {
		return nil
	}

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		slashPath := filepath.ToSlash(p)
		if d.IsDir() {
			if p != root && (skippedByWildcard(d.Name()) || isExcluded(slashPath, excludes)) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !hasSupportedExtension(d.Name()) {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, slashPath); !ok || isExcluded(slashPath, excludes) {
			return nil
		}
		found[p] = true
		return nil
	})
}

func skippedByWildcard(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(wildcardSkippedDirs, name)
}

func isExcluded(slashPath string, excludes []string) bool {
	for _, ex := range excludes {
		if ok, _ := doublestar.Match(ex, slashPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(ex+"/**", slashPath); ok {
			return true
		}
	}
	return false
}

func hasSupportedExtension(name string) bool {
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func joinPath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}
