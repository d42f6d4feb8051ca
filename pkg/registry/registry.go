// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"childcare-assistant/internal/common/validation"
)

// DefaultPath is where the worker manager and CLI look for the registry.
const DefaultPath = "configs/activity-registry.json"

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// TaskTypes lists the registered task types in sorted order.
func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	sort.Strings(out)
	return out
}

// Missing returns the task types with no registry entry.
func (r *ActivityRegistry) Missing(taskTypes []string) []string {
	var out []string
	for _, tt := range taskTypes {
		if _, ok := r.Find(tt); !ok {
			out = append(out, tt)
		}
	}
	return out
}

// Validate checks the registry for duplicate task types, unparsable
// timeouts, unknown error codes and schemas that do not compile.
func (r *ActivityRegistry) Validate() []error {
	var errs []error
	seen := map[string]bool{}
	for _, a := range r.Activities {
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %q: taskType is required", a.Name))
			continue
		}
		if seen[a.TaskType] {
			errs = append(errs, fmt.Errorf("activity %q: duplicate taskType", a.TaskType))
		}
		seen[a.TaskType] = true

		if _, err := a.TimeoutDuration(); err != nil {
			errs = append(errs, fmt.Errorf("activity %q: timeout: %w", a.TaskType, err))
		}
		for _, code := range a.ErrorCodes {
			if !bpmnErrorCodes[code] {
				errs = append(errs, fmt.Errorf("activity %q: unknown error code %s", a.TaskType, code))
			}
		}
		for name, schema := range map[string]map[string]interface{}{"input": a.Input, "output": a.Output} {
			if len(schema) == 0 {
				continue
			}
			if _, err := validation.Compile(schema); err != nil {
				errs = append(errs, fmt.Errorf("activity %q: %s schema: %w", a.TaskType, name, err))
			}
		}
	}
	return errs
}

// ValidateInput checks job variables against the activity's input schema.
// Activities without a schema accept anything.
func (a *Activity) ValidateInput(variables interface{}) (*validation.ValidationResult, error) {
	return validateAgainst(a.Input, variables)
}

func (a *Activity) ValidateOutput(variables interface{}) (*validation.ValidationResult, error) {
	return validateAgainst(a.Output, variables)
}

func validateAgainst(schema map[string]interface{}, doc interface{}) (*validation.ValidationResult, error) {
	if len(schema) == 0 {
		return &validation.ValidationResult{Valid: true}, nil
	}
	compiled, err := validation.Compile(schema)
	if err != nil {
		return nil, err
	}
	return compiled.Validate(doc), nil
}
