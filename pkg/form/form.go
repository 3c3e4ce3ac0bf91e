package form

import (
	"fmt"
	"strings"

	"github.com/azeruya/autoletter/pkg/schema"
)

// Values maps field names to user-entered scalar values (string, number, or
// date string). After a successful submit the key set matches the schema's
// declared field names, minus optional fields that were never touched.
type Values map[string]any

// Form binds a validated schema to a value store. It is the schema-to-form
// engine: widget resolution, required-field validation, and submission live
// here so interactive and markup renderers share one contract.
type Form struct {
	schema schema.Schema
	fields []schema.Field
	index  map[string]int
	values map[string]any
}

// New builds a form from a schema. Schemas with duplicate or empty field
// names are rejected here, at load time; a later duplicate must never
// silently win the binding.
func New(s schema.Schema) (*Form, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	fields := s.Fields()
	index := make(map[string]int, len(fields))
	for i, field := range fields {
		index[field.Name] = i
	}
	return &Form{
		schema: s,
		fields: fields,
		index:  index,
		values: make(map[string]any),
	}, nil
}

// Schema returns the schema this form was built from.
func (f *Form) Schema() schema.Schema {
	return f.schema
}

// Fields returns the flattened fields in declaration order.
func (f *Form) Fields() []schema.Field {
	return f.fields
}

// Set stores a value under a declared field name. Unknown names are an
// error; the schema is the single source of binding keys.
func (f *Form) Set(name string, value any) error {
	if _, ok := f.index[name]; !ok {
		return fmt.Errorf("form: unknown field %q", name)
	}
	f.values[name] = value
	return nil
}

// Get reads the current value of a field.
func (f *Form) Get(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

// SetValues applies a batch of values, ignoring keys the schema does not
// declare. Used to re-seed a form after a failed generation attempt.
func (f *Form) SetValues(values Values) {
	for name, value := range values {
		if _, ok := f.index[name]; ok {
			f.values[name] = value
		}
	}
}

// Reset clears all entered values.
func (f *Form) Reset() {
	f.values = make(map[string]any)
}

// RequiredMessage is the deterministic validation message for an empty
// required field.
func RequiredMessage(field schema.Field) string {
	return field.DisplayLabel() + " is required"
}

// Validate checks every required field and returns the messages keyed by
// field name. Non-required fields carry no constraint; there are no
// cross-field rules.
func (f *Form) Validate() map[string]string {
	errs := make(map[string]string)
	for _, field := range f.fields {
		if !field.Required {
			continue
		}
		value, ok := f.values[field.Name]
		if !ok || isEmpty(value) {
			errs[field.Name] = RequiredMessage(field)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit validates and, on success, produces the Values payload containing
// exactly the declared field names, with optional untouched fields omitted.
// On validation failure it returns the field errors and no values.
func (f *Form) Submit() (Values, map[string]string) {
	if errs := f.Validate(); errs != nil {
		return nil, errs
	}
	out := make(Values, len(f.fields))
	for _, field := range f.fields {
		value, ok := f.values[field.Name]
		if !ok {
			continue
		}
		out[field.Name] = value
	}
	return out, nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}
