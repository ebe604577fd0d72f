// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/tailscale/hujson"
)

const (
	// FileName is the manifest file name inside a package directory.
	FileName = "package.json"

	// TypeModule is the package "type" value that makes .js files ES modules.
	TypeModule = "module"
)

type (
	// Manifest is the decoded subset of a package.json file.
	Manifest struct {
		Name             string            `json:"name"`
		Version          string            `json:"version"`
		Type             string            `json:"type,omitempty"`
		Scripts          map[string]string `json:"scripts,omitempty"`
		Dependencies     map[string]string `json:"dependencies,omitempty"`
		DevDependencies  map[string]string `json:"devDependencies,omitempty"`
		PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
		Exports          json.RawMessage   `json:"exports,omitempty"`
		Workspaces       json.RawMessage   `json:"workspaces,omitempty"`
		FluidBuild       *FluidBuild       `json:"fluidBuild,omitempty"`
	}

	// FluidBuild is the build orchestrator metadata block.
	FluidBuild struct {
		Tasks map[string]*TaskDefinition `json:"tasks,omitempty"`
	}
)

// Read loads and decodes the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes manifest bytes. Comments and trailing commas are tolerated.
func Parse(data []byte) (*Manifest, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest JSON: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

// ScriptNames returns the script names in sorted order.
func (m *Manifest) ScriptNames() []string {
	return slices.Sorted(maps.Keys(m.Scripts))
}

// TaskDefinition returns the declared task definition for script, if any.
func (m *Manifest) TaskDefinition(script string) (*TaskDefinition, bool) {
	if m.FluidBuild == nil || m.FluidBuild.Tasks == nil {
		return nil, false
	}
	def, ok := m.FluidBuild.Tasks[script]
	if !ok || def == nil {
		return nil, false
	}
	return def, true
}

// WorkspacePatterns returns the package globs from the "workspaces" field,
// accepting both the array form and the {"packages": [...]} form.
func (m *Manifest) WorkspacePatterns() ([]string, error) {
	if len(m.Workspaces) == 0 {
		return nil, nil
	}
	var patterns []string
	if err := json.Unmarshal(m.Workspaces, &patterns); err == nil {
		return patterns, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(m.Workspaces, &obj); err != nil {
		return nil, fmt.Errorf("invalid workspaces field: %w", err)
	}
	return obj.Packages, nil
}
