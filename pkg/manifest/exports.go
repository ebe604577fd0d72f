// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	// ConditionImport is the export condition used by ESM importers.
	ConditionImport = "import"
	// ConditionRequire is the export condition used by CommonJS importers.
	ConditionRequire = "require"
	// ConditionTypes selects the declaration file of an export.
	ConditionTypes = "types"
)

// ExportTarget is a declaration file reachable through the export map.
type ExportTarget struct {
	// Subpath is the export key, "." for the package root.
	Subpath string
	// Path is the target as written, relative to the package directory.
	Path string
	// Conditions lists the condition keys walked to reach the target,
	// outermost first, ending with "types".
	Conditions []string
}

// HasCondition reports whether cond was walked to reach the target.
func (t ExportTarget) HasCondition(cond string) bool {
	return slices.Contains(t.Conditions, cond)
}

// TypesTargets walks the export map and returns every "types" target.
// Object keys are visited in sorted order so the result is deterministic.
func (m *Manifest) TypesTargets() ([]ExportTarget, error) {
	if len(m.Exports) == 0 {
		return nil, nil
	}
	var root any
	if err := json.Unmarshal(m.Exports, &root); err != nil {
		return nil, fmt.Errorf("invalid exports field: %w", err)
	}

	var targets []ExportTarget
	obj, isObj := root.(map[string]any)
	if isObj && hasSubpathKeys(obj) {
		for _, key := range slices.Sorted(maps.Keys(obj)) {
			walkExport(key, obj[key], nil, &targets)
		}
		return targets, nil
	}
	walkExport(".", root, nil, &targets)
	return targets, nil
}

func hasSubpathKeys(obj map[string]any) bool {
	for key := range obj {
		if strings.HasPrefix(key, ".") {
			return true
		}
	}
	return false
}

func walkExport(subpath string, node any, conditions []string, out *[]ExportTarget) {
	switch v := node.(type) {
	case string:
		if len(conditions) > 0 && conditions[len(conditions)-1] == ConditionTypes {
			*out = append(*out, ExportTarget{
				Subpath:    subpath,
				Path:       v,
				Conditions: slices.Clone(conditions),
			})
		}
	case []any:
		for _, item := range v {
			walkExport(subpath, item, conditions, out)
		}
	case map[string]any:
		for _, cond := range slices.Sorted(maps.Keys(v)) {
			walkExport(subpath, v[cond], append(slices.Clone(conditions), cond), out)
		}
	}
}
