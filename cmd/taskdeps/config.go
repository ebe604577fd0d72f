// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/taskdeps/taskdeps/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `taskdeps config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect taskdeps configuration",
		Long: `Inspect taskdeps configuration.

Configuration is read from taskdeps.cue at the repository root, or from the
file given with --config. TASKDEPS_* environment variables override it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var raw bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return app.fail(actionable(err, "load configuration", app.flags.configPath), ExitFatal, app.flags.verbose)
			}
			if raw {
				fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
				return nil
			}
			showConfig(app, s)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&raw, "cue", false, "print the configuration as CUE")
	cfgCmd.AddCommand(showCmd)

	return cfgCmd
}

func showConfig(app *App, s *session) {
	w := app.stdout
	keyStyle := TaskStyle
	valueStyle := SuccessStyle
	none := SubtitleStyle.Render("(none configured)")

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Root"), s.root)
	if s.cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), s.cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("workspaces"))
	if len(s.cfg.Workspaces) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(discovered from pnpm-workspace.yaml or package.json)"))
	}
	for _, pattern := range s.cfg.Workspaces {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(pattern))
	}

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("releaseGroups"))
	if len(s.cfg.ReleaseGroups) == 0 {
		fmt.Fprintf(w, "  %s\n", none)
	}
	for _, g := range s.cfg.ReleaseGroups {
		fmt.Fprintf(w, "  - %s (directory: %s)\n", valueStyle.Render(g.Name), valueStyle.Render(g.Directory))
	}

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("defaultTasks"))
	if len(s.cfg.DefaultTasks) == 0 {
		fmt.Fprintf(w, "  %s\n", none)
	}
	for _, script := range slices.Sorted(maps.Keys(s.cfg.DefaultTasks)) {
		fmt.Fprintf(w, "  %s: %s\n", script, valueStyle.Render(strings.Join(s.cfg.DefaultTasks[script], ", ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("tsconfigCacheSize"), valueStyle.Render(fmt.Sprint(s.cfg.TSConfigCacheSize)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("verbose"), valueStyle.Render(fmt.Sprint(s.verbose)))
}
