package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleSchema() Schema {
	return Schema{
		Sections: []Section{
			{
				Name:  "personal",
				Title: "Data Pribadi",
				Fields: []Field{
					{Name: "nama", Label: "Nama", Type: FieldTypeText, Required: true, Placeholder: "Nama Lengkap"},
					{Name: "nim", Label: "NIM", Type: FieldTypeText, Required: true},
				},
			},
			{
				Name:  "content",
				Title: "Isi Surat",
				Fields: []Field{
					{Name: "judul", Label: "Judul", Type: FieldTypeTextarea, Required: false},
					{Name: "tanggal", Label: "Tanggal", Type: FieldTypeDate, Required: true},
				},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	if err := sampleSchema().Validate(); err != nil {
		t.Fatalf("expected valid schema, got %v", err)
	}
}

func TestValidate_DuplicateAcrossSections(t *testing.T) {
	s := sampleSchema()
	s.Sections[1].Fields = append(s.Sections[1].Fields, Field{Name: "nama", Type: FieldTypeText})

	err := s.Validate()
	if err == nil {
		t.Fatal("expected duplicate field name to be rejected")
	}
	if !strings.Contains(err.Error(), `"nama"`) {
		t.Fatalf("error should name the offending field, got %v", err)
	}
}

func TestValidate_EmptyName(t *testing.T) {
	s := Schema{Sections: []Section{{Name: "other", Fields: []Field{{Name: "  "}}}}}
	if err := s.Validate(); err == nil {
		t.Fatal("expected empty field name to be rejected")
	}
}

func TestFields_FlattensInDeclarationOrder(t *testing.T) {
	got := sampleSchema().FieldNames()
	want := []string{"nama", "nim", "judul", "tanggal"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if count := sampleSchema().FieldCount(); count != 4 {
		t.Fatalf("expected 4 fields, got %d", count)
	}
}

func TestDisplayLabel_FallsBackToName(t *testing.T) {
	f := Field{Name: "perihal"}
	if got := f.DisplayLabel(); got != "perihal" {
		t.Fatalf("expected name fallback, got %q", got)
	}
	f.Label = "Perihal"
	if got := f.DisplayLabel(); got != "Perihal" {
		t.Fatalf("expected label, got %q", got)
	}
}

func TestFromJSON(t *testing.T) {
	payload := []byte(`{
		"sections": [
			{
				"name": "info",
				"title": "Informasi",
				"fields": [
					{"name": "nama", "label": "Nama", "type": "text", "required": true, "placeholder": "Nama Lengkap"}
				]
			}
		]
	}`)

	got, err := FromJSON(payload)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	want := Schema{Sections: []Section{{
		Name:  "info",
		Title: "Informasi",
		Fields: []Field{{
			Name: "nama", Label: "Nama", Type: FieldTypeText, Required: true, Placeholder: "Nama Lengkap",
		}},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestFromJSON_RejectsDuplicates(t *testing.T) {
	payload := []byte(`{
		"sections": [
			{"name": "a", "fields": [{"name": "nama", "type": "text"}]},
			{"name": "b", "fields": [{"name": "nama", "type": "text"}]}
		]
	}`)
	if _, err := FromJSON(payload); err == nil {
		t.Fatal("expected duplicate rejection at load time")
	}
}

func TestFromYAML(t *testing.T) {
	payload := []byte(`
sections:
  - name: recipient
    title: Penerima
    fields:
      - name: kepada
        label: Kepada
        type: text
        required: true
      - name: alamat
        label: Alamat
        type: textarea
`)
	got, err := FromYAML(payload)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if got.FieldCount() != 2 {
		t.Fatalf("expected 2 fields, got %d", got.FieldCount())
	}
	if got.Sections[0].Fields[1].Type != FieldTypeTextarea {
		t.Fatalf("expected textarea type, got %q", got.Sections[0].Fields[1].Type)
	}
}

func TestFromReader_UnsupportedFormat(t *testing.T) {
	if _, err := FromReader(strings.NewReader("{}"), "toml"); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
