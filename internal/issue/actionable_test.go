// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load workspace"},
			expected: "failed to load workspace",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "audit", Resource: "packages/b/package.json"},
			expected: "failed to audit: packages/b/package.json",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "audit",
				Resource:  "packages/b/package.json",
				Cause:     errors.New("no task produces a/dist/index.d.ts"),
			},
			expected: "failed to audit: packages/b/package.json: no task produces a/dist/index.d.ts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("module option missing")
	err := NewErrorContext().
		WithOperation("resolve task").
		WithResource("a#tsc").
		WithIssue(MissingModuleFormatId).
		WithSuggestion("Set compilerOptions.module").
		WithSuggestion("Run with --verbose for details").
		Wrap(fmt.Errorf("tsconfig.json: %w", root)).
		Build()

	plain := err.Format(false)
	if !strings.HasPrefix(plain, "failed to resolve task: a#tsc: tsconfig.json: module option missing") {
		t.Errorf("Format(false) = %q", plain)
	}
	if strings.Count(plain, "  • ") != 2 {
		t.Errorf("Format(false) should list both suggestions, got %q", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. module option missing") {
		t.Errorf("Format(true) = %q", verbose)
	}
	if err.Issue != MissingModuleFormatId || !err.HasSuggestions() {
		t.Error("builder fields not carried over")
	}
	if !errors.Is(err, root) {
		t.Error("ActionableError should unwrap to its cause")
	}
}

func TestErrorContext_RequiresOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}
	if WrapWithContext(nil, "audit", "x") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
	if got := WrapWithContext(errors.New("boom"), "audit", "x").Error(); got != "failed to audit: x: boom" {
		t.Errorf("WrapWithContext() = %q", got)
	}
}
