// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"path/filepath"
	"strings"

	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"
)

// compilerValueOptions are compiler flags that consume the next argument
// without affecting emitted declarations.
var compilerValueOptions = map[string]bool{
	"target":             true,
	"t":                  true,
	"lib":                true,
	"moduleresolution":   true,
	"moduledetection":    true,
	"jsx":                true,
	"jsxfactory":         true,
	"jsxfragmentfactory": true,
	"jsximportsource":    true,
	"outfile":            true,
	"tsbuildinfofile":    true,
	"types":              true,
	"typeroots":          true,
	"baseurl":            true,
	"sourceroot":         true,
	"maproot":            true,
	"newline":            true,
	"locale":             true,
	"generatetrace":      true,
	"generatecpuprofile": true,
	"ignoredeprecations": true,
}

// Compiler is a compiler invocation. Wrapper is the format forced by the
// wrapper executable, FormatUnknown for a plain compiler run.
type Compiler struct {
	Wrapper ModuleFormat
	Args    []string
}

func (*Compiler) isCommand() {}

// String returns the command line.
func (c *Compiler) String() string {
	switch c.Wrapper {
	case FormatCommonJS:
		return commandLine(compilerWrapperExecutable+" commonjs", c.Args)
	case FormatESModule:
		return commandLine(compilerWrapperExecutable+" module", c.Args)
	default:
		return commandLine(compilerExecutable, c.Args)
	}
}

// Resolve parses the project selected by the command and derives its format
// and declaration outputs.
func (c *Compiler) Resolve(pkg *workspace.Package, parser *tsconfig.Parser) (*Result, error) {
	project, overrides, err := c.parseArgs(pkg.Directory)
	if err != nil {
		return nil, err
	}
	if project == "" {
		project = tsconfig.DefaultFileName
	}

	proj, err := parser.Parse(tsconfig.ResolveProjectPath(pkg.Directory, project), overrides)
	if err != nil {
		return nil, err
	}
	format, err := c.format(proj, pkg)
	if err != nil {
		return nil, err
	}
	outputs, err := proj.DeclarationOutputs()
	if err != nil {
		return nil, err
	}
	return &Result{Format: format, Outputs: outputs, Project: proj}, nil
}

func (c *Compiler) format(proj *tsconfig.Project, pkg *workspace.Package) (ModuleFormat, error) {
	module := proj.Options.Module
	if module == "" {
		return FormatUnknown, &MissingModuleFormatError{ConfigPath: proj.ConfigPath}
	}
	if c.Wrapper.IsKnown() {
		return c.Wrapper, nil
	}

	switch module {
	case "commonjs":
		return FormatCommonJS, nil
	case "es6", "es2015", "es2020", "es2022", "esnext", "preserve":
		return FormatESModule, nil
	case "node16", "node18", "nodenext":
		return packageFormat(pkg.IsESModule()), nil
	default:
		return FormatUnknown, &UnsupportedModuleError{ConfigPath: proj.ConfigPath, Module: module}
	}
}

// parseArgs extracts the project path and the option overrides. Directory
// overrides are made absolute against dir.
func (c *Compiler) parseArgs(dir string) (string, tsconfig.CompilerOptions, error) {
	var (
		project   string
		overrides tsconfig.CompilerOptions
	)
	args := c.Args
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return "", overrides, &UnsupportedCommandError{
				Command: c.String(),
				Reason:  "compiling individual files (" + arg + ") bypasses the project file",
			}
		}

		name := strings.ToLower(strings.TrimLeft(arg, "-"))
		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", &UnsupportedCommandError{Command: c.String(), Reason: "missing value for " + arg}
			}
			i++
			return args[i], nil
		}
		flag := func() *bool {
			if i+1 < len(args) {
				switch args[i+1] {
				case "true":
					i++
					return tsconfig.Bool(true)
				case "false":
					i++
					return tsconfig.Bool(false)
				}
			}
			return tsconfig.Bool(true)
		}

		var err error
		switch name {
		case "p", "project":
			project, err = value()
		case "outdir":
			overrides.OutDir, err = dirValue(dir, value)
		case "declarationdir":
			overrides.DeclarationDir, err = dirValue(dir, value)
		case "rootdir":
			overrides.RootDir, err = dirValue(dir, value)
		case "m", "module":
			overrides.Module, err = value()
		case "noemit":
			overrides.NoEmit = flag()
		case "declaration", "d":
			overrides.Declaration = flag()
		case "composite":
			overrides.Composite = flag()
		default:
			if compilerValueOptions[name] {
				_, err = value()
			} else {
				// Boolean switches may carry an explicit true/false.
				flag()
			}
		}
		if err != nil {
			return "", overrides, err
		}
	}
	return project, overrides, nil
}

func dirValue(dir string, value func() (string, error)) (string, error) {
	v, err := value()
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(v) {
		return filepath.Clean(v), nil
	}
	return filepath.Join(dir, v), nil
}
