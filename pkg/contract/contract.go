// Package contract verifies that a backend's published OpenAPI document
// still exposes every endpoint this client depends on. It is a preflight
// aid: run it against /openapi.json before pointing the client at an
// unfamiliar deployment.
package contract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
)

// Requirement names one endpoint the client calls.
type Requirement struct {
	Method string
	Path   string
}

func (r Requirement) String() string {
	return r.Method + " " + r.Path
}

// required is the full surface pkg/api touches. Template identifiers are
// path parameters, matching the backend's route declarations verbatim.
var required = []Requirement{
	{http.MethodGet, "/health"},
	{http.MethodPost, "/api/templates/upload"},
	{http.MethodGet, "/api/templates"},
	{http.MethodGet, "/api/templates/{template_id}"},
	{http.MethodDelete, "/api/templates/{template_id}"},
	{http.MethodPost, "/api/documents/generate/{template_id}"},
}

// Required returns the endpoints the client depends on, in call order.
func Required() []Requirement {
	return append([]Requirement(nil), required...)
}

// Report lists the required endpoints the document failed to declare.
type Report struct {
	Missing []Requirement
}

// OK reports whether the backend satisfies the client contract.
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// Check loads an OpenAPI document from an http(s) URL or a local file path
// and verifies it against the client contract.
func Check(ctx context.Context, location string) (Report, error) {
	loader := &openapi3.Loader{Context: ctx}

	var (
		doc *openapi3.T
		err error
	)
	if u, uerr := url.Parse(location); uerr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(location)
	}
	if err != nil {
		return Report{}, fmt.Errorf("contract: load document: %w", err)
	}
	return verify(ctx, doc)
}

// CheckData verifies an in-memory OpenAPI document (JSON or YAML).
func CheckData(ctx context.Context, data []byte) (Report, error) {
	if len(data) == 0 {
		return Report{}, errors.New("contract: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Report{}, fmt.Errorf("contract: load document: %w", err)
	}
	return verify(ctx, doc)
}

func verify(ctx context.Context, doc *openapi3.T) (Report, error) {
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Report{}, fmt.Errorf("contract: validate document: %w", err)
	}

	var report Report
	for _, req := range required {
		item := doc.Paths.Find(req.Path)
		if item == nil || item.GetOperation(req.Method) == nil {
			report.Missing = append(report.Missing, req)
		}
	}
	return report, nil
}
