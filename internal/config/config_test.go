// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taskdeps/taskdeps/internal/issue"
	"github.com/taskdeps/taskdeps/internal/tsconfig"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.TSConfigCacheSize != tsconfig.DefaultCacheSize {
		t.Errorf("expected default cache size %d, got %d", tsconfig.DefaultCacheSize, cfg.TSConfigCacheSize)
	}
	if cfg.Verbose {
		t.Error("expected default verbose to be false")
	}
	if len(cfg.Workspaces) != 0 || len(cfg.ReleaseGroups) != 0 || len(cfg.DefaultTasks) != 0 {
		t.Errorf("expected empty defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("expected no source, got %q", cfg.Source)
	}
	if cfg.TSConfigCacheSize != tsconfig.DefaultCacheSize {
		t.Errorf("expected default cache size, got %d", cfg.TSConfigCacheSize)
	}
}

func TestLoad_FromRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeConfig(t, root, `
workspaces: ["packages/*", "tools/*"]
releaseGroups: [{name: "client", directory: "packages"}]
defaultTasks: {
	"build:esm": ["^build:esm", "typetests:gen"]
}
tsconfigCacheSize: 16
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if got := strings.Join(cfg.Workspaces, ","); got != "packages/*,tools/*" {
		t.Errorf("Workspaces = %q", got)
	}
	if len(cfg.ReleaseGroups) != 1 || cfg.ReleaseGroups[0] != (ReleaseGroup{Name: "client", Directory: "packages"}) {
		t.Errorf("ReleaseGroups = %+v", cfg.ReleaseGroups)
	}
	if cfg.TSConfigCacheSize != 16 {
		t.Errorf("TSConfigCacheSize = %d, want 16", cfg.TSConfigCacheSize)
	}

	// Script names keep their case.
	deps, ok := cfg.DefaultTasks["build:esm"]
	if !ok {
		t.Fatalf("DefaultTasks = %v, missing build:esm", cfg.DefaultTasks)
	}
	if got := strings.Join(deps, ","); got != "^build:esm,typetests:gen" {
		t.Errorf("DefaultTasks[build:esm] = %q", got)
	}

	opts := cfg.WorkspaceOptions()
	if len(opts.Patterns) != 2 || len(opts.ReleaseGroups) != 1 || opts.ReleaseGroups[0].Name != "client" {
		t.Errorf("WorkspaceOptions() = %+v", opts)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ActionableError, got %T", err)
	}
	if ae.Resource != missing {
		t.Errorf("Resource = %q, want %q", ae.Resource, missing)
	}
	if !ae.HasSuggestions() {
		t.Error("expected suggestions on a missing config error")
	}
}

func TestLoad_ExplicitFileWinsOverRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, "tsconfigCacheSize: 8\n")
	other := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(other, []byte("tsconfigCacheSize: 32\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: other, RootDir: root})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TSConfigCacheSize != 32 {
		t.Errorf("TSConfigCacheSize = %d, want 32", cfg.TSConfigCacheSize)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "containerEngine: \"podman\"\n"},
		{"negative cache size", "tsconfigCacheSize: -1\n"},
		{"wrong type", "verbose: \"yes\"\n"},
		{"empty group directory", "releaseGroups: [{name: \"client\", directory: \"\"}]\n"},
		{"syntax error", "workspaces: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			path := writeConfig(t, root, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error should name the file, got %v", err)
			}
		})
	}
}

func TestLoad_InvalidSemantics(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, `
releaseGroups: [
	{name: "client", directory: "packages"},
	{name: "client", directory: "../outside"},
]
defaultTasks: build: ["pkg#"]
`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	var ice *InvalidConfigError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidConfigError, got %T", err)
	}
	if len(ice.FieldErrors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(ice.FieldErrors), ice.FieldErrors)
	}
}

// Not parallel: modifies the process environment.
func TestLoad_EnvOverride(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "verbose: false\n")
	t.Setenv("TASKDEPS_VERBOSE", "true")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Verbose {
		t.Error("expected TASKDEPS_VERBOSE to override the file")
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{RootDir: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Workspaces = []string{"packages/*"}
	cfg.ReleaseGroups = []ReleaseGroup{{Name: "build-tools", Directory: "build-tools"}}
	cfg.DefaultTasks = map[string][]string{
		"tsc":       {"^tsc"},
		"build:esm": {"...", "^build:esm"},
	}
	cfg.TSConfigCacheSize = 64

	generated := GenerateCUE(cfg)
	if !strings.Contains(generated, `"build:esm": ["...", "^build:esm"]`) {
		t.Errorf("generated CUE missing default tasks:\n%s", generated)
	}

	root := t.TempDir()
	writeConfig(t, root, generated)
	loaded, err := NewProvider().Load(context.Background(), LoadOptions{RootDir: root})
	if err != nil {
		t.Fatalf("generated config failed to load: %v\n%s", err, generated)
	}

	if loaded.TSConfigCacheSize != 64 || len(loaded.ReleaseGroups) != 1 || len(loaded.DefaultTasks) != 2 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestCUEPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		parts []string
		want  string
	}{
		{nil, ""},
		{[]string{"verbose"}, "verbose"},
		{[]string{"releaseGroups", "1", "name"}, "releaseGroups[1].name"},
		{[]string{"defaultTasks", "build:esm", "0"}, "defaultTasks.build:esm[0]"},
	}
	for _, tt := range tests {
		if got := cuePath(tt.parts); got != tt.want {
			t.Errorf("cuePath(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}
