// Package tui collects form values through an interactive terminal session.
// The prompt kind per field follows the same widget table the HTML renderer
// uses, so a schema renders consistently across surfaces.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/azeruya/autoletter/pkg/form"
	"github.com/azeruya/autoletter/pkg/render"
	"github.com/azeruya/autoletter/pkg/schema"
)

const dateLayout = "2006-01-02"

// telPattern accepts the loose phone shapes the service's tel fields carry:
// digits with optional +, separators, and grouping.
var telPattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-().]{4,}$`)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// Renderer drives prompts for every schema field and emits the collected
// values as JSON.
type Renderer struct {
	driver PromptDriver
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with the survey-backed driver by default.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{driver: newSurveyDriver()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render collects values interactively and serializes them as JSON.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.Options) ([]byte, error) {
	values, err := r.Collect(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(values)
}

// Collect walks the form section by section, prompting per field and applying
// the form's own validation on submit. Required fields re-prompt with the
// deterministic "<label> is required" message; optional fields accept an
// empty response and stay untouched.
func (r *Renderer) Collect(ctx context.Context, f *form.Form, opts render.Options) (form.Values, error) {
	if ctx == nil {
		return nil, fmt.Errorf("tui: context is required")
	}
	if f == nil {
		return nil, fmt.Errorf("tui: form is required")
	}
	if opts.Values != nil {
		f.SetValues(opts.Values)
	}

	for _, section := range f.Schema().Sections {
		if title := strings.TrimSpace(section.Title); title != "" {
			if err := r.driver.Info(ctx, "== "+title+" =="); err != nil {
				return nil, err
			}
		}
		for _, field := range section.Fields {
			if err := r.promptField(ctx, f, field); err != nil {
				return nil, err
			}
		}
	}

	values, errs := f.Submit()
	if errs != nil {
		// Prompt loops enforce per-field rules already; a leftover error
		// means a prefilled value was empty. Report instead of looping.
		for _, field := range f.Fields() {
			if msg, ok := errs[field.Name]; ok {
				return nil, fmt.Errorf("tui: %s", msg)
			}
		}
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field schema.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	label := field.DisplayLabel()
	defaultVal := ""
	if v, ok := f.Get(field.Name); ok && v != nil {
		defaultVal = fmt.Sprint(v)
	}

	widget := form.WidgetFor(field.Type)

	for {
		var response string
		var err error
		if widget == form.WidgetTextArea {
			response, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: defaultVal,
				Help:    field.Placeholder,
			})
		} else {
			response, err = r.driver.Input(ctx, InputConfig{
				Message: promptMessage(label, widget),
				Default: defaultVal,
				Help:    field.Placeholder,
			})
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(response)
		if trimmed == "" {
			if field.Required {
				if err := r.driver.Info(ctx, form.RequiredMessage(field)); err != nil {
					return err
				}
				continue
			}
			// optional and untouched: omit from values
			return nil
		}

		value, err := parseValue(widget, trimmed)
		if err != nil {
			if infoErr := r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", label, err)); infoErr != nil {
				return infoErr
			}
			continue
		}
		return f.Set(field.Name, value)
	}
}

func promptMessage(label string, widget form.Widget) string {
	switch widget {
	case form.WidgetDatePicker:
		return label + " (YYYY-MM-DD)"
	default:
		return label
	}
}

// parseValue validates and coerces a non-empty response for its widget.
// Text-flavored widgets pass through unchanged.
func parseValue(widget form.Widget, raw string) (any, error) {
	switch widget {
	case form.WidgetDatePicker:
		if _, err := time.Parse(dateLayout, raw); err != nil {
			return nil, fmt.Errorf("expected a date in YYYY-MM-DD form")
		}
		return raw, nil
	case form.WidgetEmailInput:
		if _, err := mail.ParseAddress(raw); err != nil {
			return nil, fmt.Errorf("expected a valid email address")
		}
		return raw, nil
	case form.WidgetTelInput:
		if !telPattern.MatchString(raw) {
			return nil, fmt.Errorf("expected a phone number")
		}
		return raw, nil
	case form.WidgetNumberInput:
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number")
		}
		return parsed, nil
	default:
		return raw, nil
	}
}
