package render

import (
	"context"

	"github.com/azeruya/autoletter/pkg/form"
)

// Options carries per-render state: prefilled values and validation errors
// keyed by field name, plus the display title for the form.
type Options struct {
	Title  string
	Values form.Values
	Errors map[string]string
}

// Renderer converts a form into a byte representation. The HTML renderer
// emits markup; the TUI renderer drives an interactive session and emits the
// collected values.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form, opts Options) ([]byte, error)
}
