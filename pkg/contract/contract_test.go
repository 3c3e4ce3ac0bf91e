package contract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const idParam = `[{"name": "template_id", "in": "path", "required": true, "schema": {"type": "integer"}}]`

const okResponse = `{"200": {"description": "OK"}}`

func fullDocument() []byte {
	return []byte(`{
  "openapi": "3.0.3",
  "info": {"title": "AutoLetter API", "version": "1.0.0"},
  "paths": {
    "/health": {
      "get": {"responses": ` + okResponse + `}
    },
    "/api/templates/upload": {
      "post": {"responses": ` + okResponse + `}
    },
    "/api/templates": {
      "get": {"responses": ` + okResponse + `}
    },
    "/api/templates/{template_id}": {
      "parameters": ` + idParam + `,
      "get": {"responses": ` + okResponse + `},
      "delete": {"responses": ` + okResponse + `}
    },
    "/api/documents/generate/{template_id}": {
      "parameters": ` + idParam + `,
      "post": {"responses": ` + okResponse + `}
    }
  }
}`)
}

func withoutDelete() []byte {
	return []byte(`{
  "openapi": "3.0.3",
  "info": {"title": "AutoLetter API", "version": "1.0.0"},
  "paths": {
    "/health": {
      "get": {"responses": ` + okResponse + `}
    },
    "/api/templates/upload": {
      "post": {"responses": ` + okResponse + `}
    },
    "/api/templates": {
      "get": {"responses": ` + okResponse + `}
    },
    "/api/templates/{template_id}": {
      "parameters": ` + idParam + `,
      "get": {"responses": ` + okResponse + `}
    },
    "/api/documents/generate/{template_id}": {
      "parameters": ` + idParam + `,
      "post": {"responses": ` + okResponse + `}
    }
  }
}`)
}

func TestCheckData_FullSurface(t *testing.T) {
	report, err := CheckData(context.Background(), fullDocument())
	if err != nil {
		t.Fatalf("CheckData: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected contract satisfied, missing: %v", report.Missing)
	}
}

func TestCheckData_ReportsMissingEndpoints(t *testing.T) {
	report, err := CheckData(context.Background(), withoutDelete())
	if err != nil {
		t.Fatalf("CheckData: %v", err)
	}
	if report.OK() {
		t.Fatal("expected missing endpoint to be reported")
	}
	want := []Requirement{{"DELETE", "/api/templates/{template_id}"}}
	if diff := cmp.Diff(want, report.Missing); diff != "" {
		t.Fatalf("missing endpoints mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckData_EmptyPayload(t *testing.T) {
	if _, err := CheckData(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestCheck_LoadsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := os.WriteFile(path, fullDocument(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	report, err := Check(context.Background(), path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected contract satisfied, missing: %v", report.Missing)
	}
}

func TestRequired_IsACopy(t *testing.T) {
	first := Required()
	first[0] = Requirement{"PUT", "/mutated"}
	if got := Required()[0]; got != (Requirement{"GET", "/health"}) {
		t.Fatalf("Required must return a copy, got %v", got)
	}
}
