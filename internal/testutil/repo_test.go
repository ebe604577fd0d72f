// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRepo_Package(t *testing.T) {
	t.Parallel()

	r := NewRepo(t)
	path := r.Package("a", map[string]any{"version": "2.0.0", "type": "module"})

	if path != filepath.Join(r.Root, "packages", "a", "package.json") {
		t.Errorf("Package() path = %q", path)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(r.ReadFile("packages/a/package.json")), &m); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if m["name"] != "a" || m["version"] != "2.0.0" || m["type"] != "module" {
		t.Errorf("unexpected manifest fields: %v", m)
	}
}

func TestRepo_WorkspaceAndSources(t *testing.T) {
	t.Parallel()

	r := NewRepo(t)
	if got := r.ReadFile("pnpm-workspace.yaml"); got != "packages:\n  - \"packages/*\"\n" {
		t.Errorf("workspace file = %q", got)
	}

	src := r.Source("a", "src/nested/index.ts")
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source not written: %v", err)
	}
	if r.ReadFile("packages/a/src/nested/index.ts") != "export {};\n" {
		t.Error("unexpected source content")
	}
}
