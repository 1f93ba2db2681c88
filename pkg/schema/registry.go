package schema

import (
	"errors"
	"fmt"
)

var (
	errNoFieldsets = errors.New("schema: registry requires at least one fieldset")
	errNoFields    = errors.New("schema: registry requires at least one field")
)

// Registry is the process-wide immutable field catalogue. It is constructed
// once at startup, validated for integrity, and safely shared by reference
// across request-scoped submissions. No mutation is exposed after New.
type Registry struct {
	fields    map[string]Field
	fieldsets []Fieldset
	order     []string
}

// New builds a Registry from the declared fieldsets and fields, validating
// catalogue integrity. A failure here means the schema is corrupt and the
// process must refuse to start.
func New(fieldsets []Fieldset, fields []Field) (*Registry, error) {
	if len(fieldsets) == 0 {
		return nil, errNoFieldsets
	}
	if len(fields) == 0 {
		return nil, errNoFields
	}

	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("schema: field with empty name")
		}
		if !f.Kind.Valid() {
			return nil, fmt.Errorf("schema: field %q: unknown kind %q", f.Name, f.Kind)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate field %q", f.Name)
		}
		switch f.Kind {
		case KindSingleChoice, KindMultiChoice:
			if len(f.Choices) == 0 {
				return nil, fmt.Errorf("schema: choice field %q declares no choices", f.Name)
			}
		case KindFile, KindUpload:
			if len(f.Extensions) == 0 {
				return nil, fmt.Errorf("schema: file field %q declares no allowed extensions", f.Name)
			}
		case KindShortText, KindLongText, KindNotes, KindAddress, KindEmail,
			KindPhone, KindPhoneIntl, KindDate:
			// no kind-specific declaration requirements
		}
		byName[f.Name] = f
	}

	order, err := flattenFieldsets(fieldsets, byName)
	if err != nil {
		return nil, err
	}

	if err := validateConditions(byName); err != nil {
		return nil, err
	}

	return &Registry{
		fields:    byName,
		fieldsets: cloneFieldsets(fieldsets),
		order:     order,
	}, nil
}

// flattenFieldsets computes the canonical traversal order and enforces that
// every field belongs to exactly one fieldset.
func flattenFieldsets(fieldsets []Fieldset, fields map[string]Field) ([]string, error) {
	order := make([]string, 0, len(fields))
	owner := make(map[string]string, len(fields))

	for _, fs := range fieldsets {
		if fs.Name == "" {
			return nil, errors.New("schema: fieldset with empty name")
		}
		if len(fs.Legend) < 1 {
			return nil, fmt.Errorf("schema: fieldset %q has no legend", fs.Name)
		}
		if len(fs.Legend) > 6 {
			return nil, fmt.Errorf("schema: fieldset %q legend exceeds six lines", fs.Name)
		}
		for _, name := range fs.Fields {
			if _, ok := fields[name]; !ok {
				return nil, fmt.Errorf("schema: fieldset %q lists unknown field %q", fs.Name, name)
			}
			if prev, claimed := owner[name]; claimed {
				return nil, fmt.Errorf("schema: field %q appears in fieldsets %q and %q", name, prev, fs.Name)
			}
			owner[name] = fs.Name
			order = append(order, name)
		}
	}

	for name := range fields {
		if _, ok := owner[name]; !ok {
			return nil, fmt.Errorf("schema: field %q belongs to no fieldset", name)
		}
	}
	return order, nil
}

// validateConditions checks the dependent→controlling graph: every condition
// must reference a declared field other than its own, and the graph must be
// acyclic regardless of declaration order.
func validateConditions(fields map[string]Field) error {
	for name, f := range fields {
		if f.Condition == nil {
			continue
		}
		target := f.Condition.Field
		if target == name {
			return fmt.Errorf("schema: field %q condition references itself", name)
		}
		if _, ok := fields[target]; !ok {
			return fmt.Errorf("schema: field %q condition references unknown field %q", name, target)
		}
		if len(f.Condition.Values) == 0 {
			return fmt.Errorf("schema: field %q condition has no activating values", name)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(fields))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("schema: condition cycle through field %q", name)
		case done:
			return nil
		}
		state[name] = visiting
		if f := fields[name]; f.Condition != nil {
			if err := visit(f.Condition.Field); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for name := range fields {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// Field returns the definition for name.
func (r *Registry) Field(name string) (Field, bool) {
	f, ok := r.fields[name]
	return f, ok
}

// Names returns the canonical field order: fieldsets in registration order,
// fields in declaration order within each fieldset. The returned slice is a
// copy.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Fieldsets returns the registered fieldsets in order. The returned slice is
// a copy.
func (r *Registry) Fieldsets() []Fieldset {
	return cloneFieldsets(r.fieldsets)
}

// Len reports the number of registered fields.
func (r *Registry) Len() int {
	return len(r.fields)
}

func cloneFieldsets(src []Fieldset) []Fieldset {
	out := make([]Fieldset, len(src))
	for i, fs := range src {
		out[i] = Fieldset{
			Name:   fs.Name,
			Legend: append([]string(nil), fs.Legend...),
			Fields: append([]string(nil), fs.Fields...),
		}
	}
	return out
}
