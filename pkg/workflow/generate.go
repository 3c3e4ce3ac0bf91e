package workflow

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/azeruya/autoletter/pkg/form"
)

// GenerationState enumerates the generation workflow states. Failure is not
// terminal: a failed attempt returns to Idle with the entered values intact
// so the user can correct and resubmit.
type GenerationState string

const (
	GenerationStateIdle       GenerationState = "idle"
	GenerationStateGenerating GenerationState = "generating"
	GenerationStateGenerated  GenerationState = "generated"
)

var (
	// ErrGenerationInFlight guards against resubmission while generating.
	ErrGenerationInFlight = errors.New("workflow: generation already in progress")
	// ErrValidationFailed reports that required fields blocked submission.
	// Field-level messages are available via FieldErrors; nothing reached
	// the network.
	ErrValidationFailed = errors.New("workflow: form validation failed")
)

// Generator is the slice of the API client the generation workflow consumes.
type Generator interface {
	GenerateDocument(ctx context.Context, id int, values map[string]any) ([]byte, error)
}

// GenerationOption configures a generation workflow during construction.
type GenerationOption func(*GenerationWorkflow)

// WithGenerationClock overrides the clock used for the artifact filename.
func WithGenerationClock(now func() time.Time) GenerationOption {
	return func(w *GenerationWorkflow) {
		if now != nil {
			w.now = now
		}
	}
}

// WithGenerationLogger attaches a logger to the workflow.
func WithGenerationLogger(logger *zap.Logger) GenerationOption {
	return func(w *GenerationWorkflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// GenerationWorkflow orchestrates form submission → generation → download for
// one template detail view. At most one generation is in flight per instance.
type GenerationWorkflow struct {
	generator Generator
	sink      DownloadSink
	logger    *zap.Logger
	now       func() time.Time

	templateID   int
	templateName string
	form         *form.Form

	mu        sync.Mutex
	state     GenerationState
	fieldErrs map[string]string
	lastErr   error
	savedPath string
	closed    bool
}

// NewGeneration constructs a generation workflow bound to one template and
// its form.
func NewGeneration(generator Generator, sink DownloadSink, templateID int, templateName string, f *form.Form, options ...GenerationOption) *GenerationWorkflow {
	w := &GenerationWorkflow{
		generator:    generator,
		sink:         sink,
		logger:       zap.NewNop(),
		now:          time.Now,
		templateID:   templateID,
		templateName: templateName,
		form:         f,
		state:        GenerationStateIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w
}

// Form exposes the bound form so callers can enter values before Generate.
func (w *GenerationWorkflow) Form() *form.Form {
	return w.form
}

// Generate validates the form and, when it passes, exchanges the values for
// the artifact and saves it through the sink. A validation failure keeps the
// workflow in its current state and never issues a network call. A backend
// failure returns the workflow to Idle with the form values preserved.
func (w *GenerationWorkflow) Generate(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.state == GenerationStateGenerating {
		w.mu.Unlock()
		return ErrGenerationInFlight
	}

	values, errs := w.form.Submit()
	if errs != nil {
		w.fieldErrs = errs
		w.mu.Unlock()
		return ErrValidationFailed
	}
	w.fieldErrs = nil
	w.lastErr = nil
	w.state = GenerationStateGenerating
	w.mu.Unlock()

	artifact, err := w.generator.GenerateDocument(ctx, w.templateID, values)
	if err != nil {
		w.fail(err)
		return err
	}

	// the view may have gone away while the call was in flight; discard the
	// artifact before any save side effect
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	w.mu.Unlock()

	filename := Filename(w.templateName, w.now())
	path, err := w.sink.Save(filename, artifact)
	if err != nil {
		w.fail(err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}
	w.state = GenerationStateGenerated
	w.savedPath = path
	w.logger.Info("document generated",
		zap.Int("template_id", w.templateID),
		zap.String("path", path))
	return nil
}

func (w *GenerationWorkflow) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	// back to Idle; entered values stay on the form for correction
	w.state = GenerationStateIdle
	w.lastErr = err
	w.logger.Warn("generation failed", zap.Error(err))
}

// Close tears the instance down. A generation settling afterwards must not
// mutate state or write the artifact; the backend call still completes
// server-side.
func (w *GenerationWorkflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// State reports the current workflow state.
func (w *GenerationWorkflow) State() GenerationState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// FieldErrors returns the validation messages from the last blocked attempt,
// keyed by field name.
func (w *GenerationWorkflow) FieldErrors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fieldErrs
}

// LastError returns the normalized failure from the last attempt.
func (w *GenerationWorkflow) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// SavedPath reports where the artifact was written after a success.
func (w *GenerationWorkflow) SavedPath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.savedPath
}

// unsafeNameChars collapses anything outside the filesystem-safe set.
var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename builds the deterministic artifact name
// generated_<template-name>_<ISO-date>.docx with the template name sanitized
// for filesystem safety while staying recognizable.
func Filename(templateName string, t time.Time) string {
	name := unsafeNameChars.ReplaceAllString(strings.TrimSpace(templateName), "_")
	name = strings.Trim(name, "._-")
	if name == "" {
		name = "template"
	}
	return "generated_" + name + "_" + t.Format("2006-01-02") + acceptedExtension
}
