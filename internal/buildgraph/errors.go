// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateOutput is returned when two tasks claim one output path.
	ErrDuplicateOutput = errors.New("output produced by two tasks")
	// ErrNoProducer is returned when a required input has no producing task.
	ErrNoProducer = errors.New("no task produces required input")
)

type (
	// DuplicateOutputError wraps ErrDuplicateOutput.
	DuplicateOutputError struct {
		Path   string
		First  TaskID
		Second TaskID
	}

	// NoProducerError wraps ErrNoProducer.
	NoProducerError struct {
		Path string
		// Requester is the task that needs the file.
		Requester TaskID
	}

	// TaskError attaches the failing task to a resolution error.
	TaskError struct {
		Task TaskID
		Err  error
	}
)

// Error implements the error interface.
func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("%s is produced by two tasks: %s and %s", e.Path, e.First, e.Second)
}

// Unwrap returns ErrDuplicateOutput for errors.Is() compatibility.
func (e *DuplicateOutputError) Unwrap() error { return ErrDuplicateOutput }

// Error implements the error interface.
func (e *NoProducerError) Error() string {
	return fmt.Sprintf("no task produces %s, which is required by %s", e.Path, e.Requester)
}

// Unwrap returns ErrNoProducer for errors.Is() compatibility.
func (e *NoProducerError) Unwrap() error { return ErrNoProducer }

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

// Unwrap returns the underlying error.
func (e *TaskError) Unwrap() error { return e.Err }
