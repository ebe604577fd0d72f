// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"slices"
	"strings"

	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"
)

const (
	compilerExecutable        = "tsc"
	compilerWrapperExecutable = "fluid-tsc"
	entrypointsExecutable     = "flub"
)

type (
	// Command is a recognized build command. The set of implementations is
	// closed: *Compiler and *Entrypoints.
	Command interface {
		// Resolve computes the format and declaration outputs of the command
		// when run from the package directory.
		Resolve(pkg *workspace.Package, parser *tsconfig.Parser) (*Result, error)
		// String returns the command line.
		String() string
		isCommand()
	}

	// Result is the resolved effect of one build command.
	Result struct {
		Format ModuleFormat
		// Outputs are absolute declaration file paths, sorted.
		Outputs []string
		// Project is the compiler project; nil for other commands.
		Project *tsconfig.Project
	}
)

// Classify recognizes a build command from its argument vector. It returns
// nil for commands that are not build commands or that never complete a
// build (watch mode, build mode, informational flags).
func Classify(argv []string) Command {
	if len(argv) == 0 || slices.ContainsFunc(argv, isWatchFlag) {
		return nil
	}

	switch argv[0] {
	case compilerExecutable:
		if slices.ContainsFunc(argv[1:], isNonEmittingCompilerFlag) {
			return nil
		}
		return &Compiler{Args: argv[1:]}
	case compilerWrapperExecutable:
		if len(argv) < 2 {
			return nil
		}
		var wrapper ModuleFormat
		switch argv[1] {
		case "commonjs":
			wrapper = FormatCommonJS
		case "module":
			wrapper = FormatESModule
		default:
			return nil
		}
		if slices.ContainsFunc(argv[2:], isNonEmittingCompilerFlag) {
			return nil
		}
		return &Compiler{Wrapper: wrapper, Args: argv[2:]}
	case entrypointsExecutable:
		if len(argv) >= 3 && argv[1] == "generate" && argv[2] == "entrypoints" {
			return &Entrypoints{Args: argv[3:]}
		}
	}
	return nil
}

// ClassifyScript splits a script line and classifies each simple command,
// keeping the recognized ones in order.
func ClassifyScript(script string) ([]Command, error) {
	argvs, err := Split(script)
	if err != nil {
		return nil, err
	}
	var commands []Command
	for _, argv := range argvs {
		if cmd := Classify(argv); cmd != nil {
			commands = append(commands, cmd)
		}
	}
	return commands, nil
}

func isWatchFlag(arg string) bool {
	return arg == "--watch" || arg == "-w"
}

func isNonEmittingCompilerFlag(arg string) bool {
	switch strings.ToLower(arg) {
	case "-b", "--build", "--init", "--version", "-v", "--help", "-h", "-?", "--all", "--showconfig", "--listfilesonly":
		return true
	}
	return false
}

func commandLine(executable string, args []string) string {
	return strings.Join(append([]string{executable}, args...), " ")
}
