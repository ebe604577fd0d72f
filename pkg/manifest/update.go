// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

const defaultIndent = "\t"

type (
	// Editor records edits to the fluidBuild task block of one manifest.
	// Edits are expressed as JSON patch operations so the rest of the
	// document is preserved byte-for-byte apart from re-indentation.
	Editor struct {
		m   *Manifest
		ops []patchOp
	}

	patchOp struct {
		Op    string `json:"op"`
		Path  string `json:"path"`
		Value any    `json:"value"`
	}
)

// Update reads the manifest at path, hands it to fn together with an Editor,
// and writes the result back when fn recorded any edit. Nothing is written
// when fn returns an error.
func Update(path string, fn func(m *Manifest, e *Editor) error) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat manifest: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	e := &Editor{m: m}
	if err := fn(m, e); err != nil {
		return err
	}
	if !e.Changed() {
		return nil
	}

	out, err := e.apply(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Changed reports whether any edit was recorded.
func (e *Editor) Changed() bool {
	return len(e.ops) > 0
}

// AppendTaskDependencies appends specs to the dependency list of script,
// creating the fluidBuild block, the tasks map or the definition as needed.
// The in-memory manifest is updated as well so later calls see the result.
func (e *Editor) AppendTaskDependencies(script string, specs ...string) {
	if len(specs) == 0 {
		return
	}
	specs = append([]string(nil), specs...)
	taskPath := "/fluidBuild/tasks/" + escapePointer(script)

	switch {
	case e.m.FluidBuild == nil:
		e.add("/fluidBuild", map[string]any{"tasks": map[string]any{script: specs}})
		e.m.FluidBuild = &FluidBuild{}
	case e.m.FluidBuild.Tasks == nil:
		e.add("/fluidBuild/tasks", map[string]any{script: specs})
	default:
		def, ok := e.m.FluidBuild.Tasks[script]
		switch {
		case !ok || def == nil:
			e.add(taskPath, specs)
		case def.ObjectForm && !def.HasDependsOn:
			e.add(taskPath+"/dependsOn", specs)
			def.DependsOn = specs
			def.HasDependsOn = true
			return
		default:
			listPath := taskPath
			if def.ObjectForm {
				listPath += "/dependsOn"
			}
			for _, spec := range specs {
				e.add(listPath+"/-", spec)
			}
			def.DependsOn = append(def.DependsOn, specs...)
			return
		}
	}

	if e.m.FluidBuild.Tasks == nil {
		e.m.FluidBuild.Tasks = make(map[string]*TaskDefinition)
	}
	e.m.FluidBuild.Tasks[script] = &TaskDefinition{DependsOn: specs, HasDependsOn: true}
}

func (e *Editor) add(path string, value any) {
	e.ops = append(e.ops, patchOp{Op: "add", Path: path, Value: value})
}

func (e *Editor) apply(original []byte) ([]byte, error) {
	v, err := hujson.Parse(original)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest JSON: %w", err)
	}
	patch, err := json.Marshal(e.ops)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest patch: %w", err)
	}
	if err := v.Patch(patch); err != nil {
		return nil, fmt.Errorf("failed to apply manifest patch: %w", err)
	}
	v.Standardize()

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(v.Pack()), "", detectIndent(original)); err != nil {
		return nil, fmt.Errorf("failed to format manifest: %w", err)
	}
	if bytes.HasSuffix(original, []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// detectIndent returns the leading whitespace of the first indented line.
func detectIndent(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || len(trimmed) == len(line) {
			continue
		}
		return line[:len(line)-len(trimmed)]
	}
	return defaultIndent
}

// escapePointer escapes a JSON pointer reference token (RFC 6901).
func escapePointer(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}
