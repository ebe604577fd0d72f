// SPDX-License-Identifier: MPL-2.0

package taskaudit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAmbiguousCandidates is returned when patching would have to pick one
// task out of a candidate group.
var ErrAmbiguousCandidates = errors.New("ambiguous candidate predecessors")

// AmbiguousCandidatesError wraps ErrAmbiguousCandidates. Groups holds the
// rendered candidate groups that are still missing.
type AmbiguousCandidatesError struct {
	Script string
	Groups []string
}

// Error implements the error interface.
func (e *AmbiguousCandidatesError) Error() string {
	return fmt.Sprintf("'%s' task needs one of each of the following, pick manually:\n\t- %s",
		e.Script, strings.Join(e.Groups, "\n\t- "))
}

// Unwrap returns ErrAmbiguousCandidates for errors.Is() compatibility.
func (e *AmbiguousCandidatesError) Unwrap() error { return ErrAmbiguousCandidates }
