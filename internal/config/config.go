// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/taskdeps/taskdeps/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
)

const (
	// FileName is the configuration file looked up at the repository root.
	FileName = "taskdeps.cue"
	// EnvPrefix prefixes environment overrides, e.g. TASKDEPS_VERBOSE.
	EnvPrefix = "TASKDEPS"

	// maxFileSize bounds the configuration file read into memory.
	maxFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// loadWithOptions reads defaults, the configuration file and the environment,
// in increasing precedence.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("workspaces", defaults.Workspaces)
	v.SetDefault("releaseGroups", defaults.ReleaseGroups)
	v.SetDefault("tsconfigCacheSize", defaults.TSConfigCacheSize)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path == "" && opts.RootDir != "" {
		if candidate := filepath.Join(opts.RootDir, FileName); fileExists(candidate) {
			path = candidate
		}
	}

	var fileValue cue.Value
	if path != "" {
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'taskdeps config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		val, err := loadCUEIntoViper(v, path)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
		fileValue = val
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path

	// Viper lowercases map keys; script names are case-sensitive.
	if path != "" {
		if tasks := fileValue.LookupPath(cue.ParsePath("defaultTasks")); tasks.Exists() {
			if err := tasks.Decode(&cfg.DefaultTasks); err != nil {
				return nil, formatCUEError(err, path)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Give every release group a unique name and directory").
			WithSuggestion("Write default task entries as \"script\", \"pkg#script\", \"^script\", \"^*\" or \"...\"").
			Wrap(err).
			BuildError()
	}
	return cfg, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. The unified value is returned for
// fields Viper cannot carry unchanged.
func loadCUEIntoViper(v *viper.Viper, path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxFileSize {
		return cue.Value{}, fmt.Errorf("%s: file size %d exceeds the %d byte limit", path, len(data), maxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cue.Value{}, formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cue.Value{}, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cue.Value{}, formatCUEError(err, path)
	}
	delete(configMap, "defaultTasks")

	if err := v.MergeConfigMap(configMap); err != nil {
		return cue.Value{}, fmt.Errorf("failed to merge config: %w", err)
	}
	return unified, nil
}

// formatCUEError flattens CUE errors into "path: message" lines.
func formatCUEError(err error, path string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		field := cuePath(cueerrors.Path(e))
		msg := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(e.Error(), field), ":"))
		if field != "" {
			lines = append(lines, field+": "+msg)
			continue
		}
		lines = append(lines, msg)
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", path, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", path, strings.Join(lines, "\n  "))
}

// cuePath renders ["releaseGroups", "1", "name"] as "releaseGroups[1].name".
func cuePath(parts []string) string {
	var sb strings.Builder
	for i, part := range parts {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg in the configuration file format.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// taskdeps configuration\n\n")

	if len(cfg.Workspaces) > 0 {
		sb.WriteString("workspaces: [\n")
		for _, w := range cfg.Workspaces {
			fmt.Fprintf(&sb, "\t%q,\n", w)
		}
		sb.WriteString("]\n\n")
	}

	if len(cfg.ReleaseGroups) > 0 {
		sb.WriteString("releaseGroups: [\n")
		for _, g := range cfg.ReleaseGroups {
			fmt.Fprintf(&sb, "\t{name: %q, directory: %q},\n", g.Name, g.Directory)
		}
		sb.WriteString("]\n\n")
	}

	if len(cfg.DefaultTasks) > 0 {
		sb.WriteString("defaultTasks: {\n")
		for _, script := range slices.Sorted(maps.Keys(cfg.DefaultTasks)) {
			quoted := make([]string, 0, len(cfg.DefaultTasks[script]))
			for _, spec := range cfg.DefaultTasks[script] {
				quoted = append(quoted, fmt.Sprintf("%q", spec))
			}
			fmt.Fprintf(&sb, "\t%q: [%s]\n", script, strings.Join(quoted, ", "))
		}
		sb.WriteString("}\n\n")
	}

	fmt.Fprintf(&sb, "tsconfigCacheSize: %d\n", cfg.TSConfigCacheSize)
	fmt.Fprintf(&sb, "verbose: %v\n", cfg.Verbose)
	return sb.String()
}
