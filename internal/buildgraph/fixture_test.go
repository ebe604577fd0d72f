// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"testing"

	"github.com/taskdeps/taskdeps/internal/testutil"
	"github.com/taskdeps/taskdeps/internal/tsconfig"
	"github.com/taskdeps/taskdeps/internal/workspace"

	"github.com/stretchr/testify/require"
)

// compilerPackage writes a package whose script "tsc" compiles a single
// source file with the given module kind into dist/.
func compilerPackage(repo *testutil.Repo, name, module string, fields map[string]any, references ...string) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["scripts"] = map[string]any{"tsc": "tsc"}
	repo.Package(name, fields)

	cfg := map[string]any{
		"compilerOptions": map[string]any{"module": module, "outDir": "./dist", "rootDir": "./src", "composite": true},
		"include":         []string{"src/**/*"},
	}
	if len(references) > 0 {
		refs := make([]map[string]string, 0, len(references))
		for _, r := range references {
			refs = append(refs, map[string]string{"path": r})
		}
		cfg["references"] = refs
	}
	repo.TSConfig(name, "tsconfig.json", cfg)
	repo.Source(name, "src/index.ts")
}

func openDatabase(t *testing.T, repo *testutil.Repo, groups ...workspace.ReleaseGroup) *Database {
	t.Helper()
	idx, err := workspace.Load(repo.Root, workspace.Options{ReleaseGroups: groups})
	require.NoError(t, err)
	parser, err := tsconfig.NewParser(32)
	require.NoError(t, err)
	return New(idx, parser, nil)
}

func taskIDs(tasks []*Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID.String())
	}
	return ids
}
