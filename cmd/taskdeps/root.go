// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskdeps",
		Short: "Audit build task dependencies in a monorepo",
		Long: TitleStyle.Render("taskdeps") + SubtitleStyle.Render(" - Audit build task dependencies in a monorepo") + `

taskdeps reads every package.json script, works out which files each build
task compiles and emits, and checks that the task declares a dependency on
every task producing its inputs. The patch command writes the missing
entries into the package's task definitions.

` + SubtitleStyle.Render("Examples:") + `
  taskdeps audit                          Audit every package
  taskdeps audit packages/client/a        Audit one package
  taskdeps patch                          Add missing dependencies
  taskdeps tasks @scope/a                 List a package's build tasks
  taskdeps config show                    Show the effective configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is <root>/taskdeps.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.root, "root", "", "repository root (default is the nearest workspace root)")

	rootCmd.AddCommand(newAuditCommand(app))
	rootCmd.AddCommand(newPatchCommand(app))
	rootCmd.AddCommand(newTasksCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	// A missing .env is fine.
	_ = godotenv.Load()

	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFatal)
	}
}
