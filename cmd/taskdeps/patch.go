// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "patch [package.json|dir...]",
		Short: "Add missing build task dependencies",
		Long: `Add every missing build task dependency to the package task definitions.

A task that needs one of several candidate tasks is left unchanged and
reported; pick the right candidate by hand. Exit status is 1 when any such
choice remains.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			return runPatch(cmd, app, args)
		},
	}
}

func runPatch(cmd *cobra.Command, app *App, args []string) error {
	s, err := app.newSession(cmd.Context())
	if err != nil {
		return app.fail(actionable(err, "load workspace", app.flags.root), ExitFatal, app.flags.verbose)
	}

	paths, err := s.manifestPaths(args)
	if err != nil {
		return app.fail(actionable(err, "load workspace", s.root), ExitFatal, s.verbose)
	}

	unresolved := 0
	for _, path := range paths {
		result, err := s.handler.Patch(path, s.root)
		if err != nil {
			return app.fail(actionable(err, "patch task dependencies", s.display(path)), ExitFatal, s.verbose)
		}
		if result.Resolved {
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), SubtitleStyle.Render(s.display(path)))
			continue
		}
		unresolved++
		fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("!"), s.display(path))
		fmt.Fprintln(app.stdout, detailStyle.Render(strings.ReplaceAll(result.Message, "\t", "  ")))
	}

	if unresolved > 0 {
		fmt.Fprintf(app.stdout, "\n%s\n", WarningStyle.Render(fmt.Sprintf("%d of %d manifests need a manual choice", unresolved, len(paths))))
		return &ExitError{Code: ExitViolations}
	}
	return nil
}
