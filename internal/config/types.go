// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"
	"github.com/taskdeps/taskdeps/pkg/manifest"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the effective taskdeps configuration.
	Config struct {
		Workspaces        []string            `mapstructure:"workspaces"`
		ReleaseGroups     []ReleaseGroup      `mapstructure:"releaseGroups"`
		DefaultTasks      map[string][]string `mapstructure:"-"`
		TSConfigCacheSize int                 `mapstructure:"tsconfigCacheSize"`
		Verbose           bool                `mapstructure:"verbose"`

		// Source is the file the configuration was read from, empty when only
		// defaults and environment apply.
		Source string `mapstructure:"-"`
	}

	// ReleaseGroup assigns the packages under Directory to a named group.
	ReleaseGroup struct {
		Name      string `mapstructure:"name"`
		Directory string `mapstructure:"directory"`
	}

	// InvalidConfigError lists every validation failure of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		TSConfigCacheSize: tsconfig.DefaultCacheSize,
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the constraints the schema cannot express: unique release
// groups with relative directories, and parseable default task specs.
func (c *Config) Validate() error {
	var errs []error
	names := make(map[string]bool)
	dirs := make(map[string]string)
	for i, g := range c.ReleaseGroups {
		if names[g.Name] {
			errs = append(errs, fmt.Errorf("releaseGroups[%d]: duplicate name %q", i, g.Name))
		}
		names[g.Name] = true

		dir := filepath.Clean(filepath.FromSlash(g.Directory))
		if filepath.IsAbs(dir) || dir == ".." || strings.HasPrefix(dir, ".."+string(filepath.Separator)) {
			errs = append(errs, fmt.Errorf("releaseGroups[%d]: directory %q must be relative to the repository root", i, g.Directory))
		}
		if other, ok := dirs[dir]; ok {
			errs = append(errs, fmt.Errorf("releaseGroups[%d]: directory %q already belongs to %q", i, g.Directory, other))
		}
		dirs[dir] = g.Name
	}

	for _, script := range slices.Sorted(maps.Keys(c.DefaultTasks)) {
		for _, raw := range c.DefaultTasks[script] {
			if _, err := manifest.ParseDependencySpec(raw); err != nil {
				errs = append(errs, fmt.Errorf("defaultTasks.%s: %w", script, err))
			}
		}
	}

	if c.TSConfigCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("tsconfigCacheSize must be positive, got %d", c.TSConfigCacheSize))
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// WorkspaceOptions converts the configuration into package index options.
func (c *Config) WorkspaceOptions() workspace.Options {
	groups := make([]workspace.ReleaseGroup, 0, len(c.ReleaseGroups))
	for _, g := range c.ReleaseGroups {
		groups = append(groups, workspace.ReleaseGroup{Name: g.Name, Directory: g.Directory})
	}
	return workspace.Options{Patterns: c.Workspaces, ReleaseGroups: groups}
}
