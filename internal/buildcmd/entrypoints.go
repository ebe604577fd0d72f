// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"
	"github.com/taskdeps/taskdeps/pkg/manifest"
)

const (
	defaultEntrypointsOutDir     = "./lib"
	defaultEntrypointsFileSuffix = ".d.ts"
)

var (
	// apiLevels are the generated bundle names, one file per level.
	apiLevels = []string{"public", "beta", "alpha", "legacy", "internal"}

	entrypointsValueOptions = map[string]bool{
		"outdir":         true,
		"outfileprefix":  true,
		"outfilesuffix":  true,
		"mainentrypoint": true,
	}
)

// Entrypoints generates declaration bundles for the package export map.
type Entrypoints struct {
	Args []string
}

type entrypointsOptions struct {
	outDir string
	prefix string
	suffix string
}

func (*Entrypoints) isCommand() {}

// String returns the command line.
func (e *Entrypoints) String() string {
	return commandLine(entrypointsExecutable+" generate entrypoints", e.Args)
}

// Resolve maps the generated bundle files onto the export map. A file only
// reachable through "import" is ESModule output, one only reachable through
// "require" is CommonJS, and a file reachable through both or neither has
// unknown format.
func (e *Entrypoints) Resolve(pkg *workspace.Package, _ *tsconfig.Parser) (*Result, error) {
	opts, err := e.parseArgs()
	if err != nil {
		return nil, err
	}

	generated := make(map[string]bool, len(apiLevels))
	outDir := filepath.Join(pkg.Directory, opts.outDir)
	for _, level := range apiLevels {
		generated[filepath.Join(outDir, opts.prefix+level+opts.suffix)] = true
	}

	targets, err := pkg.Manifest.TypesTargets()
	if err != nil {
		return nil, &UnsupportedCommandError{Command: e.String(), Reason: err.Error()}
	}

	type conditions struct{ imported, required bool }
	files := make(map[string]*conditions)
	for _, target := range targets {
		path := filepath.Join(pkg.Directory, filepath.FromSlash(target.Path))
		if !generated[path] {
			continue
		}
		c, ok := files[path]
		if !ok {
			c = &conditions{}
			files[path] = c
		}
		c.imported = c.imported || target.HasCondition(manifest.ConditionImport)
		c.required = c.required || target.HasCondition(manifest.ConditionRequire)
	}

	result := &Result{Format: FormatUnknown}
	var formatSource string
	for _, path := range slices.Sorted(maps.Keys(files)) {
		c := files[path]
		format := FormatUnknown
		switch {
		case c.imported && !c.required:
			format = FormatESModule
		case c.required && !c.imported:
			format = FormatCommonJS
		}

		merged, ok := result.Format.Merge(format)
		if !ok {
			return nil, &FormatConflictError{
				Subject:      e.String(),
				First:        result.Format,
				FirstSource:  formatSource,
				Second:       format,
				SecondSource: path,
			}
		}
		if format.IsKnown() && !result.Format.IsKnown() {
			formatSource = path
		}
		result.Format = merged
		result.Outputs = append(result.Outputs, path)
	}
	return result, nil
}

func (e *Entrypoints) parseArgs() (entrypointsOptions, error) {
	opts := entrypointsOptions{
		outDir: defaultEntrypointsOutDir,
		suffix: defaultEntrypointsFileSuffix,
	}
	args := e.Args
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		name = strings.ToLower(name)
		if !entrypointsValueOptions[name] {
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return opts, &UnsupportedCommandError{Command: e.String(), Reason: "missing value for " + arg}
			}
			i++
			value = args[i]
		}

		switch name {
		case "outdir":
			opts.outDir = value
		case "outfileprefix":
			opts.prefix = value
		case "outfilesuffix":
			opts.suffix = value
		}
	}
	return opts, nil
}
