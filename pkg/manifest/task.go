// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TaskDefinition is one entry of fluidBuild.tasks. It is written either as a
// flat list of dependency specs or as an object carrying a dependsOn list.
type TaskDefinition struct {
	// DependsOn holds the raw dependency spec strings in declaration order.
	DependsOn []string
	// ObjectForm records that the definition was written as an object.
	ObjectForm bool
	// HasDependsOn is false for the object form without a dependsOn key.
	HasDependsOn bool
}

// UnmarshalJSON accepts both the list and the object form.
func (d *TaskDefinition) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty task definition")
	}
	switch trimmed[0] {
	case '[':
		var deps []string
		if err := json.Unmarshal(trimmed, &deps); err != nil {
			return fmt.Errorf("invalid task definition list: %w", err)
		}
		*d = TaskDefinition{DependsOn: deps, HasDependsOn: true}
		return nil
	case '{':
		var obj struct {
			DependsOn *[]string `json:"dependsOn"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("invalid task definition object: %w", err)
		}
		*d = TaskDefinition{ObjectForm: true}
		if obj.DependsOn != nil {
			d.DependsOn = *obj.DependsOn
			d.HasDependsOn = true
		}
		return nil
	default:
		return fmt.Errorf("task definition must be a list or an object, got %s", trimmed)
	}
}

// MarshalJSON writes the definition back in the form it was read in.
func (d TaskDefinition) MarshalJSON() ([]byte, error) {
	deps := d.DependsOn
	if deps == nil {
		deps = []string{}
	}
	if !d.ObjectForm {
		return json.Marshal(deps)
	}
	if !d.HasDependsOn {
		return []byte("{}"), nil
	}
	return json.Marshal(struct {
		DependsOn []string `json:"dependsOn"`
	}{deps})
}

// Specs parses every declared dependency spec.
func (d *TaskDefinition) Specs() ([]DependencySpec, error) {
	specs := make([]DependencySpec, 0, len(d.DependsOn))
	for _, raw := range d.DependsOn {
		spec, err := ParseDependencySpec(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
