package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromJSON decodes a schema from its service JSON payload and validates it.
func FromJSON(data []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("schema: decode json: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// FromYAML decodes a schema from a YAML document and validates it. YAML is
// the convenient shape for hand-maintained local schema files.
func FromYAML(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("schema: decode yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// FromReader reads an entire stream and decodes it according to format
// ("json" or "yaml").
func FromReader(r io.Reader, format string) (Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: read: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return FromJSON(data)
	case "yaml", "yml":
		return FromYAML(data)
	default:
		return Schema{}, fmt.Errorf("schema: unsupported format %q", format)
	}
}

// FromFile loads a schema from disk, picking the decoder from the file
// extension. Unknown extensions fall back to JSON.
func FromFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return FromJSON(data)
	}
}
