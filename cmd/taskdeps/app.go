// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taskdeps/taskdeps/internal/buildgraph"
	"github.com/taskdeps/taskdeps/internal/config"
	"github.com/taskdeps/taskdeps/internal/issue"
	"github.com/taskdeps/taskdeps/internal/taskaudit"
	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"
	"github.com/taskdeps/taskdeps/pkg/manifest"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra command
	// handler receives an App reference and opens a session through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		getwd  func() (string, error)
		flags  rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
		// Getwd overrides os.Getwd for root discovery.
		Getwd func() (string, error)
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	rootFlags struct {
		root       string
		configPath string
		verbose    bool
	}

	// session is the state of one command invocation: the resolved root, the
	// effective configuration and the audit handler bound to both.
	session struct {
		root    string
		cfg     *config.Config
		verbose bool
		logger  *log.Logger
		handler *taskaudit.Handler
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		getwd:  deps.Getwd,
	}
}

// newSession resolves the repository root, loads configuration and builds
// the audit handler.
func (a *App) newSession(ctx context.Context) (*session, error) {
	root, err := a.resolveRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath, RootDir: root})
	if err != nil {
		return nil, err
	}

	verbose := a.flags.verbose || cfg.Verbose
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: "taskdeps"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	parser, err := tsconfig.NewParser(cfg.TSConfigCacheSize)
	if err != nil {
		return nil, err
	}
	opts := cfg.WorkspaceOptions()
	sessions := buildgraph.NewSessions(func(root string) (*buildgraph.Database, error) {
		idx, err := workspace.Load(root, opts)
		if err != nil {
			return nil, err
		}
		logger.Debug("workspace indexed", "root", root, "packages", len(idx.Packages()))
		return buildgraph.New(idx, parser, logger), nil
	})

	return &session{
		root:    root,
		cfg:     cfg,
		verbose: verbose,
		logger:  logger,
		handler: taskaudit.NewHandler(sessions, taskaudit.Options{DefaultTasks: cfg.DefaultTasks, Logger: logger}),
	}, nil
}

// resolveRoot returns --root when given, else the nearest enclosing workspace
// root, else the working directory.
func (a *App) resolveRoot() (string, error) {
	if a.flags.root != "" {
		root, err := filepath.Abs(a.flags.root)
		if err != nil {
			return "", fmt.Errorf("failed to resolve --root: %w", err)
		}
		return root, nil
	}
	cwd, err := a.getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if root, ok := workspace.FindRoot(cwd); ok {
		return root, nil
	}
	return cwd, nil
}

// manifestPaths returns the manifests named by args, or every indexed
// package manifest when args is empty. A directory argument stands for the
// manifest inside it.
func (s *session) manifestPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		idx, err := s.handler.Index(s.root)
		if err != nil {
			return nil, err
		}
		pkgs := idx.Packages()
		paths := make([]string, 0, len(pkgs))
		for _, pkg := range pkgs {
			paths = append(paths, pkg.ManifestPath())
		}
		return paths, nil
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, manifest.FileName)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// display shortens path relative to the session root when it lies inside it.
func (s *session) display(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// fail prints err as an error card and returns the exit error for code.
func (a *App) fail(err error, code int, verbose bool) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	if verbose {
		var ae *issue.ActionableError
		if errors.As(err, &ae) && ae.Issue != 0 {
			renderIssue(a.stderr, ae.Issue)
		}
	}
	return &ExitError{Code: code, Err: err}
}
