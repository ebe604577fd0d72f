// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTasksCommand(app *App) *cobra.Command {
	var showOutputs bool

	tasksCmd := &cobra.Command{
		Use:   "tasks <package>",
		Short: "List the build tasks of a package",
		Long: `List the build tasks of a package with their module format and the
dependencies each one needs, ordered so a task follows the tasks of the same
package it depends on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			return runTasks(cmd, app, args[0], showOutputs)
		},
	}
	tasksCmd.Flags().BoolVar(&showOutputs, "outputs", false, "list the declaration files each task writes")
	return tasksCmd
}

func runTasks(cmd *cobra.Command, app *App, pkgName string, showOutputs bool) error {
	s, err := app.newSession(cmd.Context())
	if err != nil {
		return app.fail(actionable(err, "load workspace", app.flags.root), ExitFatal, app.flags.verbose)
	}

	plan, err := s.handler.Plan(pkgName, s.root)
	if err != nil {
		return app.fail(actionable(err, "plan build tasks", pkgName), ExitFatal, s.verbose)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render(pkgName))
	if len(plan) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(no build tasks)"))
		return nil
	}

	for _, entry := range plan {
		task := entry.Task
		fmt.Fprintf(app.stdout, "\n%s %s\n", TaskStyle.Render(task.ID.Script), SubtitleStyle.Render("["+task.Format.String()+"]"))
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render(task.Command))
		if showOutputs {
			for _, out := range task.Outputs {
				fmt.Fprintf(app.stdout, "  > %s\n", s.display(out))
			}
		}
		for _, req := range entry.Requirements {
			fmt.Fprintf(app.stdout, "  - %s\n", req.Render(pkgName))
		}
	}
	return nil
}
