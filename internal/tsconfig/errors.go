// SPDX-License-Identifier: MPL-2.0

package tsconfig

import (
	"errors"
	"fmt"
)

// ErrProjectConfig is the sentinel wrapped by every ProjectConfigError.
var ErrProjectConfig = errors.New("invalid compiler project")

// ProjectConfigError reports a project file that cannot be read, parsed or
// resolved. It wraps ErrProjectConfig for errors.Is() compatibility.
type ProjectConfigError struct {
	Path string
	Err  error
}

func projectError(path string, format string, args ...any) error {
	return &ProjectConfigError{Path: path, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *ProjectConfigError) Error() string {
	return fmt.Sprintf("compiler project %s: %v", e.Path, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *ProjectConfigError) Unwrap() []error {
	return []error{ErrProjectConfig, e.Err}
}
