// Package html renders a template schema as a static HTML form. Schema text
// (labels, titles, placeholders) arrives from the letter service and is
// sanitized before it reaches markup.
package html

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/azeruya/autoletter/pkg/form"
	"github.com/azeruya/autoletter/pkg/render"
)

const formTemplate = "form.html.tpl"

// Option configures the renderer during construction.
type Option func(*config)

type config struct {
	templateFS fs.FS
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// Renderer emits HTML form markup for a schema.
type Renderer struct {
	templateSet *pongo2.TemplateSet
	sanitizer   *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	set := pongo2.NewSet("autoletter-html", pongo2.NewFSLoader(cfg.templateFS))
	return &Renderer{
		templateSet: set,
		sanitizer:   bluemonday.StrictPolicy(),
	}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup. Values and errors from opts are threaded
// into the matching inputs.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("html: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("html: form is required")
	}

	tmpl, err := r.templateSet.FromFile(formTemplate)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", formTemplate, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(r.templateContext(f, opts), &buf); err != nil {
		return nil, fmt.Errorf("html: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) templateContext(f *form.Form, opts render.Options) pongo2.Context {
	sections := make([]map[string]any, 0, len(f.Schema().Sections))
	for _, section := range f.Schema().Sections {
		fields := make([]map[string]any, 0, len(section.Fields))
		for _, field := range section.Fields {
			widget := form.WidgetFor(field.Type)

			value := ""
			if opts.Values != nil {
				if v, ok := opts.Values[field.Name]; ok && v != nil {
					value = fmt.Sprint(v)
				}
			} else if v, ok := f.Get(field.Name); ok && v != nil {
				value = fmt.Sprint(v)
			}

			fields = append(fields, map[string]any{
				"name":        field.Name,
				"label":       r.clean(field.DisplayLabel()),
				"placeholder": r.clean(field.Placeholder),
				"required":    field.Required,
				"widget":      string(widget),
				"input_type":  inputType(widget),
				"value":       r.clean(value),
				"error":       r.clean(opts.Errors[field.Name]),
			})
		}
		sections = append(sections, map[string]any{
			"name":   section.Name,
			"title":  r.clean(section.Title),
			"fields": fields,
		})
	}

	return pongo2.Context{
		"title":    r.clean(opts.Title),
		"sections": sections,
	}
}

func (r *Renderer) clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(r.sanitizer.Sanitize(trimmed))
}

// inputType maps widgets onto HTML input type attributes. Textarea is handled
// structurally in the template and never reaches this switch in practice.
func inputType(w form.Widget) string {
	switch w {
	case form.WidgetDatePicker:
		return "date"
	case form.WidgetEmailInput:
		return "email"
	case form.WidgetTelInput:
		return "tel"
	case form.WidgetNumberInput:
		return "number"
	default:
		return "text"
	}
}
