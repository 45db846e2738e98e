// Package schema holds the in-memory blueprint model: blueprints, steps,
// fields, validation rules, and the ordering and uniqueness invariants the
// rest of the engine relies on. The model is read-only from the engine's
// perspective; authoring happens elsewhere.
package schema

import (
	"fmt"
	"sort"
)

// Validate checks the structural invariants a loaded blueprint must satisfy
// before the engine may use it. Most importantly, field names must be unique
// across the entire blueprint regardless of which step owns them: the derived
// initial value map and rule dispatch are both keyed by field name, and a
// silent overwrite during flattening would be a latent correctness bug.
func (b *Blueprint) Validate() error {
	if b == nil {
		return fmt.Errorf("schema: blueprint is nil")
	}
	if b.Key == "" {
		return fmt.Errorf("schema: blueprint key is required")
	}
	switch b.Status {
	case StatusDraft, StatusActive, StatusDeprecated, "":
	default:
		return fmt.Errorf("schema: blueprint %q: unknown status %q", b.Key, b.Status)
	}

	stepKeys := make(map[string]struct{}, len(b.Steps))
	for _, step := range b.Steps {
		if step.Key == "" {
			return fmt.Errorf("schema: blueprint %q: step key is required", b.Key)
		}
		if _, dup := stepKeys[step.Key]; dup {
			return fmt.Errorf("schema: blueprint %q: duplicate step key %q", b.Key, step.Key)
		}
		stepKeys[step.Key] = struct{}{}
		if step.OrderIndex < 0 {
			return fmt.Errorf("schema: blueprint %q: step %q: negative order index", b.Key, step.Key)
		}
	}

	fieldNames := make(map[string]struct{})
	validateField := func(f Field, owner string) error {
		if f.Name == "" {
			return fmt.Errorf("schema: blueprint %q: %s: field name is required", b.Key, owner)
		}
		if _, dup := fieldNames[f.Name]; dup {
			return fmt.Errorf("schema: blueprint %q: duplicate field name %q", b.Key, f.Name)
		}
		fieldNames[f.Name] = struct{}{}
		switch f.DataType {
		case DataTypeString, DataTypeNumber, DataTypeInteger, DataTypeBoolean, DataTypeJSON, "":
		default:
			return fmt.Errorf("schema: blueprint %q: field %q: unknown data type %q", b.Key, f.Name, f.DataType)
		}
		if f.OrderIndex < 0 {
			return fmt.Errorf("schema: blueprint %q: field %q: negative order index", b.Key, f.Name)
		}
		for _, rule := range f.Rules {
			if rule.Type == "" {
				return fmt.Errorf("schema: blueprint %q: field %q: rule type is required", b.Key, f.Name)
			}
			switch rule.Severity {
			case SeverityError, SeverityWarning, "":
			default:
				return fmt.Errorf("schema: blueprint %q: field %q: unknown severity %q", b.Key, f.Name, rule.Severity)
			}
		}
		return nil
	}

	for _, f := range b.Fields {
		if err := validateField(f, "top level"); err != nil {
			return err
		}
	}
	for _, step := range b.Steps {
		for _, f := range step.Fields {
			if err := validateField(f, fmt.Sprintf("step %q", step.Key)); err != nil {
				return err
			}
		}
	}
	return nil
}

// FindField locates a field by name, searching top-level fields first and
// then each step in declared order. Returns nil when the blueprint does not
// manage the name.
func (b *Blueprint) FindField(name string) *Field {
	if b == nil || name == "" {
		return nil
	}
	for i := range b.Fields {
		if b.Fields[i].Name == name {
			return &b.Fields[i]
		}
	}
	for s := range b.Steps {
		for i := range b.Steps[s].Fields {
			if b.Steps[s].Fields[i].Name == name {
				return &b.Steps[s].Fields[i]
			}
		}
	}
	return nil
}

// AllFields flattens top-level and step-nested fields into presentation
// order: top-level fields first, then each step's fields, every group sorted
// by order index.
func (b *Blueprint) AllFields() []Field {
	if b == nil {
		return nil
	}
	out := make([]Field, 0, len(b.Fields))
	out = append(out, SortedFields(b.Fields)...)
	for _, step := range b.SortedSteps() {
		out = append(out, SortedFields(step.Fields)...)
	}
	return out
}

// SortedSteps returns the steps ordered by OrderIndex. The sort is stable so
// ties fall back to declaration order, keeping output deterministic across
// repeated calls.
func (b *Blueprint) SortedSteps() []Step {
	if b == nil || len(b.Steps) == 0 {
		return nil
	}
	out := make([]Step, len(b.Steps))
	copy(out, b.Steps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// SortedFields returns a copy of fields ordered by OrderIndex with stable
// tie-breaking.
func SortedFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// SortedRules returns the field's rule chain in evaluation order. Rule order
// is fixed at authoring time and is never re-ordered at runtime.
func (f *Field) SortedRules() []Rule {
	if f == nil || len(f.Rules) == 0 {
		return nil
	}
	out := make([]Rule, len(f.Rules))
	copy(out, f.Rules)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}
