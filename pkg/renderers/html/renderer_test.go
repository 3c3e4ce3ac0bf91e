package html

import (
	"context"
	"strings"
	"testing"

	"github.com/azeruya/autoletter/pkg/form"
	"github.com/azeruya/autoletter/pkg/render"
	"github.com/azeruya/autoletter/pkg/schema"
)

func buildForm(t *testing.T) *form.Form {
	t.Helper()
	f, err := form.New(schema.Schema{
		Sections: []schema.Section{
			{
				Name:  "personal",
				Title: "Data Pribadi",
				Fields: []schema.Field{
					{Name: "nama", Label: "Nama", Type: schema.FieldTypeText, Required: true, Placeholder: "Nama Lengkap"},
					{Name: "email", Label: "Email", Type: schema.FieldTypeEmail},
					{Name: "catatan", Label: "Catatan", Type: schema.FieldTypeTextarea},
					{Name: "tanggal", Label: "Tanggal", Type: schema.FieldTypeDate, Required: true},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("form.New: %v", err)
	}
	return f
}

func TestRender_Markup(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := r.Render(context.Background(), buildForm(t), render.Options{Title: "Surat Izin"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	markup := string(out)

	for _, want := range []string{
		"<h1>Surat Izin</h1>",
		"<legend>Data Pribadi</legend>",
		`name="nama"`,
		`type="text"`,
		`type="email"`,
		`type="date"`,
		"<textarea",
		`placeholder="Nama Lengkap"`,
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q:\n%s", want, markup)
		}
	}

	// required flag renders on required fields only
	if !strings.Contains(markup, `id="nama" name="nama" type="text" value="" placeholder="Nama Lengkap" required`) {
		t.Errorf("required attribute missing on nama input:\n%s", markup)
	}
}

func TestRender_ValuesAndErrors(t *testing.T) {
	r, _ := New()
	out, err := r.Render(context.Background(), buildForm(t), render.Options{
		Values: form.Values{"nama": "Budi"},
		Errors: map[string]string{"tanggal": "Tanggal is required"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	markup := string(out)

	if !strings.Contains(markup, `value="Budi"`) {
		t.Errorf("prefilled value missing:\n%s", markup)
	}
	if !strings.Contains(markup, "Tanggal is required") {
		t.Errorf("field error missing:\n%s", markup)
	}
	if !strings.Contains(markup, "has-error") {
		t.Errorf("error class missing:\n%s", markup)
	}
}

func TestRender_SanitizesServerText(t *testing.T) {
	f, err := form.New(schema.Schema{Sections: []schema.Section{{
		Name:  "other",
		Title: `Lainnya<script>alert(1)</script>`,
		Fields: []schema.Field{
			{Name: "isi", Label: `<img src=x onerror=alert(1)>Isi`, Type: schema.FieldTypeText},
		},
	}}})
	if err != nil {
		t.Fatalf("form.New: %v", err)
	}

	r, _ := New()
	out, err := r.Render(context.Background(), f, render.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	markup := string(out)

	if strings.Contains(markup, "<script>") || strings.Contains(markup, "<img") {
		t.Fatalf("unsanitized markup leaked:\n%s", markup)
	}
	if !strings.Contains(markup, "Lainnya") || !strings.Contains(markup, "Isi") {
		t.Fatalf("visible text lost during sanitization:\n%s", markup)
	}
}
