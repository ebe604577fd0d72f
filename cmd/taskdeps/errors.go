// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/taskdeps/taskdeps/internal/buildcmd"
	"github.com/taskdeps/taskdeps/internal/buildgraph"
	"github.com/taskdeps/taskdeps/internal/config"
	"github.com/taskdeps/taskdeps/internal/dag"
	"github.com/taskdeps/taskdeps/internal/issue"
	"github.com/taskdeps/taskdeps/internal/taskaudit"
	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"
	"github.com/taskdeps/taskdeps/pkg/manifest"
)

// issueRule maps a sentinel error to its catalog entry and a short hint.
type issueRule struct {
	target     error
	id         issue.Id
	suggestion string
}

var issueRules = []issueRule{
	{workspace.ErrNoWorkspace, issue.WorkspaceNotFoundId, "Run taskdeps from inside the repository or pass --root"},
	{workspace.ErrPackageNotFound, issue.PackageNotFoundId, "Check the workspaces globs in taskdeps.cue or pnpm-workspace.yaml"},
	{workspace.ErrDuplicatePackage, issue.ManifestInvalidId, "Give every package a unique name"},
	{config.ErrInvalidConfig, issue.ConfigLoadFailedId, "Run 'taskdeps config show' to inspect the effective configuration"},
	{manifest.ErrInvalidDependencySpec, issue.ManifestInvalidId, "Write dependencies as \"script\", \"pkg#script\", \"^script\", \"^*\" or \"...\""},
	{buildcmd.ErrMissingModuleFormat, issue.MissingModuleFormatId, "Set compilerOptions.module in the project file or one it extends"},
	{buildcmd.ErrUnsupportedModule, issue.UnsupportedModuleId, "Use a CommonJS or ES module kind"},
	{buildcmd.ErrFormatConflict, issue.FormatConflictId, "Split the script so each one emits a single module format"},
	{buildcmd.ErrUnsupportedCommand, issue.UnsupportedCommandId, "Move unsupported compiler flags into the project file"},
	{buildgraph.ErrDuplicateOutput, issue.DuplicateOutputId, "Point the two tasks at different output directories"},
	{buildgraph.ErrNoProducer, issue.NoProducerId, "Add a build script that compiles the referenced project"},
	{dag.ErrCycle, issue.DependencyCycleId, "Remove one dependency of the cycle"},
	{taskaudit.ErrAmbiguousCandidates, issue.AmbiguousCandidatesId, "Add one task of each group to the script's dependsOn list"},
	{tsconfig.ErrProjectConfig, issue.ProjectConfigInvalidId, "Check the project file and every file it extends"},
}

// lookupRule finds the first rule whose sentinel err wraps.
func lookupRule(err error) (issueRule, bool) {
	for _, rule := range issueRules {
		if errors.Is(err, rule.target) {
			return rule, true
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return issueRule{id: issue.ManifestInvalidId, suggestion: "Fix the JSON syntax of the manifest"}, true
	}
	return issueRule{}, false
}

// issueFor returns the catalog entry explaining err, or 0 when none applies.
func issueFor(err error) issue.Id {
	rule, _ := lookupRule(err)
	return rule.id
}

// actionable wraps err with operation context unless it already carries it.
func actionable(err error, operation, resource string) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		Wrap(err)
	if rule, ok := lookupRule(err); ok {
		ctx = ctx.WithIssue(rule.id).WithSuggestion(rule.suggestion)
	}
	return ctx.BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssue prints the catalog entry for id, if any.
func renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		fmt.Fprintf(w, "failed to render issue %d: %v\n", id, err)
		return
	}
	fmt.Fprint(w, rendered)
}
