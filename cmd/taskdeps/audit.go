// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskdeps/taskdeps/internal/watch"

	"github.com/spf13/cobra"
)

func newAuditCommand(app *App) *cobra.Command {
	var watchMode bool

	auditCmd := &cobra.Command{
		Use:   "audit [package.json|dir...]",
		Short: "Report build tasks with missing dependencies",
		Long: `Report build tasks whose declared dependencies miss a task they need.

With no arguments every package of the workspace is audited. Exit status is
1 when any task misses a dependency and 2 when the audit could not run.

With --watch the audit runs again whenever a manifest, compiler project file,
source file or taskdeps.cue changes, until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			if watchMode {
				return watchAudit(cmd.Context(), app, args)
			}
			return runAudit(cmd.Context(), app, args)
		},
	}
	auditCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-run the audit when inputs change")
	return auditCmd
}

func runAudit(ctx context.Context, app *App, args []string) error {
	s, err := app.newSession(ctx)
	if err != nil {
		return app.fail(actionable(err, "load workspace", app.flags.root), ExitFatal, app.flags.verbose)
	}

	paths, err := s.manifestPaths(args)
	if err != nil {
		return app.fail(actionable(err, "load workspace", s.root), ExitFatal, s.verbose)
	}

	violations := 0
	for _, path := range paths {
		msg, err := s.handler.Audit(path, s.root)
		if err != nil {
			return app.fail(actionable(err, "audit task dependencies", s.display(path)), ExitFatal, s.verbose)
		}
		if msg == "" {
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), SubtitleStyle.Render(s.display(path)))
			continue
		}
		violations++
		fmt.Fprintf(app.stdout, "%s %s\n", ErrorStyle.Render("✗"), s.display(path))
		fmt.Fprintln(app.stdout, detailStyle.Render(strings.ReplaceAll(msg, "\t", "  ")))
	}

	if violations > 0 {
		fmt.Fprintf(app.stdout, "\n%s\n", ErrorStyle.Render(fmt.Sprintf("%d of %d manifests have missing task dependencies", violations, len(paths))))
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("Run 'taskdeps patch' to add them."))
		return &ExitError{Code: ExitViolations}
	}
	return nil
}

// watchAudit audits once, then again after every change until ctx ends.
// Each run opens a fresh session so edited manifests and project files are
// read again.
func watchAudit(ctx context.Context, app *App, args []string) error {
	s, err := app.newSession(ctx)
	if err != nil {
		return app.fail(actionable(err, "load workspace", app.flags.root), ExitFatal, app.flags.verbose)
	}

	rerun := func(ctx context.Context) {
		// Violations and fatal errors are already printed.
		_ = runAudit(ctx, app, args)
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("\nWatching for changes, press Ctrl+C to stop."))
	}

	w, err := watch.New(watch.Config{
		Root:   s.root,
		Logger: s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "\n%s %s\n", TitleStyle.Render("Changed:"), strings.Join(changed, ", "))
			rerun(ctx)
			return nil
		},
	})
	if err != nil {
		return app.fail(actionable(err, "watch repository", s.root), ExitFatal, s.verbose)
	}

	rerun(ctx)
	if err := w.Run(ctx); err != nil {
		return app.fail(actionable(err, "watch repository", s.root), ExitFatal, s.verbose)
	}
	return nil
}
