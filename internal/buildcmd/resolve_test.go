// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/taskdeps/taskdeps/internal/testutil"
	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"
	"github.com/taskdeps/taskdeps/pkg/manifest"
)

func loadPackage(t *testing.T, repo *testutil.Repo, dir string) *workspace.Package {
	t.Helper()
	path := repo.Path("packages", dir, manifest.FileName)
	m, err := manifest.Read(path)
	if err != nil {
		t.Fatalf("manifest.Read() error: %v", err)
	}
	return &workspace.Package{Name: m.Name, Directory: filepath.Dir(path), Version: m.Version, Manifest: m}
}

func newParser(t *testing.T) *tsconfig.Parser {
	t.Helper()
	p, err := tsconfig.NewParser(8)
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	return p
}

func resolveScript(t *testing.T, pkg *workspace.Package, script string) (*Result, error) {
	t.Helper()
	cmds, err := ClassifyScript(script)
	if err != nil {
		t.Fatalf("ClassifyScript() error: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("ClassifyScript(%q) found %d commands, want 1", script, len(cmds))
	}
	return cmds[0].Resolve(pkg, newParser(t))
}

func TestCompiler_ModuleFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pkgType string
		module  string
		script  string
		want    ModuleFormat
		wantErr error
	}{
		{"commonjs", "", "commonjs", "tsc", FormatCommonJS, nil},
		{"esnext", "", "ESNext", "tsc", FormatESModule, nil},
		{"es2020", "module", "es2020", "tsc", FormatESModule, nil},
		{"node16 in cjs package", "", "Node16", "tsc", FormatCommonJS, nil},
		{"nodenext in esm package", "module", "NodeNext", "tsc", FormatESModule, nil},
		{"wrapper forces cjs", "module", "nodenext", "fluid-tsc commonjs", FormatCommonJS, nil},
		{"wrapper forces esm", "", "commonjs", "fluid-tsc module", FormatESModule, nil},
		{"module override flag", "", "commonjs", "tsc --module esnext", FormatESModule, nil},
		{"missing module", "", "", "tsc", FormatUnknown, ErrMissingModuleFormat},
		{"missing module with wrapper", "", "", "fluid-tsc module", FormatUnknown, ErrMissingModuleFormat},
		{"amd", "", "amd", "tsc", FormatUnknown, ErrUnsupportedModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := testutil.NewRepo(t)
			fields := map[string]any{}
			if tt.pkgType != "" {
				fields["type"] = tt.pkgType
			}
			repo.Package("a", fields)
			opts := map[string]any{"outDir": "./lib"}
			if tt.module != "" {
				opts["module"] = tt.module
			}
			repo.TSConfig("a", "tsconfig.json", map[string]any{"compilerOptions": opts})
			repo.Source("a", "src/index.ts")

			res, err := resolveScript(t, loadPackage(t, repo, "a"), tt.script)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if res.Format != tt.want {
				t.Errorf("format = %s, want %s", res.Format, tt.want)
			}
		})
	}
}

func TestCompiler_OutputsAndOverrides(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.Package("a", nil)
	repo.TSConfig("a", "tsconfig.json", map[string]any{
		"compilerOptions": map[string]any{"module": "commonjs", "outDir": "./dist", "rootDir": "./src"},
		"include":         []string{"src"},
	})
	repo.TSConfig("a", "tsconfig.esm.json", map[string]any{
		"extends":         "./tsconfig.json",
		"compilerOptions": map[string]any{"module": "esnext", "outDir": "./lib"},
	})
	repo.Source("a", "src/index.ts")
	repo.Source("a", "src/inner/helper.cts")
	pkg := loadPackage(t, repo, "a")

	res, err := resolveScript(t, pkg, "tsc")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := []string{
		repo.Path("packages", "a", "dist", "index.d.ts"),
		repo.Path("packages", "a", "dist", "inner", "helper.d.cts"),
	}
	if !slices.Equal(res.Outputs, want) {
		t.Errorf("outputs = %v, want %v", res.Outputs, want)
	}
	if res.Project == nil || res.Project.ConfigPath != repo.Path("packages", "a", "tsconfig.json") {
		t.Errorf("project = %+v", res.Project)
	}

	res, err = resolveScript(t, pkg, "tsc -p tsconfig.esm.json --outDir ./types --target es2022")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Format != FormatESModule {
		t.Errorf("format = %s, want ESModule", res.Format)
	}
	if len(res.Outputs) != 2 || res.Outputs[0] != repo.Path("packages", "a", "types", "index.d.ts") {
		t.Errorf("outputs = %v, want under types/", res.Outputs)
	}

	res, err = resolveScript(t, pkg, "tsc --noEmit")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(res.Outputs) != 0 || res.Format != FormatCommonJS {
		t.Errorf("noEmit result = %+v, want no outputs with a CommonJS format", res)
	}
}

func TestCompiler_UnsupportedArguments(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.Package("a", nil)
	repo.TSConfig("a", "tsconfig.json", map[string]any{"compilerOptions": map[string]any{"module": "commonjs"}})
	pkg := loadPackage(t, repo, "a")

	for _, script := range []string{"tsc src/index.ts", "tsc --project"} {
		if _, err := resolveScript(t, pkg, script); !errors.Is(err, ErrUnsupportedCommand) {
			t.Errorf("Resolve(%q) error = %v, want ErrUnsupportedCommand", script, err)
		}
	}

	if _, err := resolveScript(t, pkg, "tsc -p missing.json"); !errors.Is(err, tsconfig.ErrProjectConfig) {
		t.Errorf("Resolve() error = %v, want ErrProjectConfig", err)
	}
}

func TestCompiler_BooleanSwitchValues(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.Package("a", nil)
	repo.TSConfig("a", "tsconfig.json", map[string]any{"compilerOptions": map[string]any{"module": "commonjs"}})
	pkg := loadPackage(t, repo, "a")

	for _, script := range []string{"tsc --strict false", "tsc --strict true --incremental", "tsc --skipLibCheck"} {
		res, err := resolveScript(t, pkg, script)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", script, err)
			continue
		}
		if res.Format != FormatCommonJS {
			t.Errorf("Resolve(%q) format = %v, want CommonJS", script, res.Format)
		}
	}
}

func TestEntrypoints_Resolve(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.Package("a", map[string]any{
		"exports": map[string]any{
			".": map[string]any{
				"import":  map[string]any{"types": "./lib/public.d.ts", "default": "./lib/index.js"},
				"require": map[string]any{"types": "./dist/public.d.ts", "default": "./dist/index.js"},
			},
			"./beta": map[string]any{
				"import": map[string]any{"types": "./lib/beta.d.ts"},
			},
			"./internal": map[string]any{
				"types": "./lib/internal.d.ts",
			},
		},
	})
	pkg := loadPackage(t, repo, "a")

	res, err := resolveScript(t, pkg, "flub generate entrypoints")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := []string{
		repo.Path("packages", "a", "lib", "beta.d.ts"),
		repo.Path("packages", "a", "lib", "internal.d.ts"),
		repo.Path("packages", "a", "lib", "public.d.ts"),
	}
	if !slices.Equal(res.Outputs, want) {
		t.Errorf("outputs = %v, want %v", res.Outputs, want)
	}
	if res.Format != FormatESModule {
		t.Errorf("format = %s, want ESModule", res.Format)
	}

	res, err = resolveScript(t, pkg, "flub generate entrypoints --outDir ./dist --outFileSuffix=.d.ts")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Format != FormatCommonJS || len(res.Outputs) != 1 {
		t.Errorf("result = %+v, want a single CommonJS output", res)
	}
}

func TestEntrypoints_FormatConflict(t *testing.T) {
	t.Parallel()

	repo := testutil.NewRepo(t)
	repo.Package("a", map[string]any{
		"exports": map[string]any{
			".": map[string]any{
				"import":  map[string]any{"types": "./lib/public.d.ts"},
				"require": map[string]any{"types": "./lib/legacy.d.ts"},
			},
		},
	})

	_, err := resolveScript(t, loadPackage(t, repo, "a"), "flub generate entrypoints")
	var conflict *FormatConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Resolve() error = %v, want FormatConflictError", err)
	}
	if !errors.Is(err, ErrFormatConflict) {
		t.Error("error should wrap ErrFormatConflict")
	}
}
