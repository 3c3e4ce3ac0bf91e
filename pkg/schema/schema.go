package schema

import (
	"fmt"
	"strings"
)

// FieldType is the closed set of input kinds the letter service emits for
// parsed template placeholders.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeNumber   FieldType = "number"
)

// Field describes a single input inside a template form. Name is the binding
// key for both value storage and error lookup, so it must be unique across the
// whole schema, not just its section.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required" yaml:"required"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// DisplayLabel returns the human-facing label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// Section groups fields under a display title ("Kop Surat", "Penerima", ...).
// Order is meaningful and preserved end to end.
type Section struct {
	Name   string  `json:"name" yaml:"name"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Schema is the form shape extracted from one uploaded template: ordered
// sections of ordered fields.
type Schema struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

// Fields flattens the schema into declaration order across sections.
func (s Schema) Fields() []Field {
	var out []Field
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// FieldCount reports the number of fields across all sections.
func (s Schema) FieldCount() int {
	count := 0
	for _, section := range s.Sections {
		count += len(section.Fields)
	}
	return count
}

// FieldNames returns the declared field names in declaration order.
func (s Schema) FieldNames() []string {
	fields := s.Fields()
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Name)
	}
	return out
}

// Validate rejects schemas that cannot produce an unambiguous form binding.
// Duplicate field names are an error even across sections: a later field would
// silently overwrite the earlier field's value binding otherwise.
func (s Schema) Validate() error {
	seen := make(map[string]string)
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				return fmt.Errorf("schema: section %q contains a field without a name", section.Name)
			}
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("schema: duplicate field name %q (sections %q and %q)", name, prev, section.Name)
			}
			seen[name] = section.Name
		}
	}
	return nil
}
