// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingModuleFormat is returned when a compiler project has no module option.
	ErrMissingModuleFormat = errors.New("missing module format")
	// ErrUnsupportedModule is returned for module kinds that are neither CommonJS nor ESM.
	ErrUnsupportedModule = errors.New("unsupported module kind")
	// ErrFormatConflict is returned when one unit of work yields two module formats.
	ErrFormatConflict = errors.New("conflicting module formats")
	// ErrUnsupportedCommand is returned for recognized commands used in a way
	// whose outputs cannot be determined.
	ErrUnsupportedCommand = errors.New("unsupported build command")
)

type (
	// MissingModuleFormatError wraps ErrMissingModuleFormat.
	MissingModuleFormatError struct {
		ConfigPath string
	}

	// UnsupportedModuleError wraps ErrUnsupportedModule.
	UnsupportedModuleError struct {
		ConfigPath string
		Module     string
	}

	// FormatConflictError wraps ErrFormatConflict. Subject names the script
	// or command; the sources say where each format came from.
	FormatConflictError struct {
		Subject      string
		First        ModuleFormat
		FirstSource  string
		Second       ModuleFormat
		SecondSource string
	}

	// UnsupportedCommandError wraps ErrUnsupportedCommand.
	UnsupportedCommandError struct {
		Command string
		Reason  string
	}
)

// Error implements the error interface.
func (e *MissingModuleFormatError) Error() string {
	return fmt.Sprintf("compiler project %s does not set compilerOptions.module; the module format must be explicit", e.ConfigPath)
}

// Unwrap returns ErrMissingModuleFormat for errors.Is() compatibility.
func (e *MissingModuleFormatError) Unwrap() error { return ErrMissingModuleFormat }

// Error implements the error interface.
func (e *UnsupportedModuleError) Error() string {
	return fmt.Sprintf("compiler project %s uses module %q (valid: commonjs, es2015..esnext, preserve, node16, node18, nodenext)", e.ConfigPath, e.Module)
}

// Unwrap returns ErrUnsupportedModule for errors.Is() compatibility.
func (e *UnsupportedModuleError) Unwrap() error { return ErrUnsupportedModule }

// Error implements the error interface.
func (e *FormatConflictError) Error() string {
	return fmt.Sprintf("%s produces both %s (%s) and %s (%s) output",
		e.Subject, e.First, e.FirstSource, e.Second, e.SecondSource)
}

// Unwrap returns ErrFormatConflict for errors.Is() compatibility.
func (e *FormatConflictError) Unwrap() error { return ErrFormatConflict }

// Error implements the error interface.
func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("unsupported build command %q: %s", e.Command, e.Reason)
}

// Unwrap returns ErrUnsupportedCommand for errors.Is() compatibility.
func (e *UnsupportedCommandError) Unwrap() error { return ErrUnsupportedCommand }
