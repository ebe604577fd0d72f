// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Repo is a throwaway monorepo fixture rooted in a test temp directory.
type Repo struct {
	t    testing.TB
	Root string
}

// NewRepo creates a fixture whose pnpm workspace covers packages/*.
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	r := &Repo{t: t, Root: t.TempDir()}
	r.WriteFile("pnpm-workspace.yaml", "packages:\n  - \"packages/*\"\n")
	return r
}

// Path joins rel onto the fixture root.
func (r *Repo) Path(rel ...string) string {
	return filepath.Join(append([]string{r.Root}, rel...)...)
}

// WriteFile writes content at rel, creating parent directories.
func (r *Repo) WriteFile(rel, content string) string {
	r.t.Helper()
	path := r.Path(filepath.FromSlash(rel))
	MustMkdirAll(r.t, filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteJSON writes v as tab-indented JSON at rel.
func (r *Repo) WriteJSON(rel string, v any) string {
	r.t.Helper()
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		r.t.Fatalf("failed to encode %s: %v", rel, err)
	}
	return r.WriteFile(rel, string(data)+"\n")
}

// Package writes packages/<dir>/package.json. The name defaults to dir and
// the version to 1.0.0. It returns the manifest path.
func (r *Repo) Package(dir string, fields map[string]any) string {
	r.t.Helper()
	m := map[string]any{"name": dir, "version": "1.0.0"}
	for k, v := range fields {
		m[k] = v
	}
	return r.WriteJSON("packages/"+dir+"/package.json", m)
}

// TSConfig writes packages/<dir>/<name> with the given content.
func (r *Repo) TSConfig(dir, name string, cfg map[string]any) string {
	r.t.Helper()
	return r.WriteJSON("packages/"+dir+"/"+name, cfg)
}

// Source writes an empty TypeScript module at packages/<dir>/<rel>.
func (r *Repo) Source(dir, rel string) string {
	r.t.Helper()
	return r.WriteFile("packages/"+dir+"/"+rel, "export {};\n")
}

// ReadFile returns the content at rel.
func (r *Repo) ReadFile(rel string) string {
	r.t.Helper()
	data, err := os.ReadFile(r.Path(filepath.FromSlash(rel)))
	if err != nil {
		r.t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}
