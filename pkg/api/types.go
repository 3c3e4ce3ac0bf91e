package api

import (
	"encoding/json"
	"time"

	"github.com/azeruya/autoletter/pkg/schema"
)

// Template is the transient client-side read model of a registered document
// definition. The server is always the source of truth; instances only exist
// between a list/detail fetch and the next refresh.
type Template struct {
	ID               int
	Name             string
	Category         string
	OriginalFilename string
	FieldCount       int
	Schema           *schema.Schema
	CreatedAt        *time.Time
}

// createdAtLayouts covers RFC 3339 plus the zone-less isoformat the service
// emits for naive timestamps.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

type templateJSON struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	Category         string         `json:"category"`
	OriginalFilename string         `json:"original_filename"`
	FieldCount       int            `json:"field_count"`
	Schema           *schema.Schema `json:"schema"`
	CreatedAt        string         `json:"created_at"`
}

// UnmarshalJSON tolerates absent or zone-less created_at values.
func (t *Template) UnmarshalJSON(data []byte) error {
	var raw templateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Template{
		ID:               raw.ID,
		Name:             raw.Name,
		Category:         raw.Category,
		OriginalFilename: raw.OriginalFilename,
		FieldCount:       raw.FieldCount,
		Schema:           raw.Schema,
	}
	if raw.CreatedAt != "" {
		for _, layout := range createdAtLayouts {
			if parsed, err := time.Parse(layout, raw.CreatedAt); err == nil {
				t.CreatedAt = &parsed
				break
			}
		}
	}
	return nil
}

// UploadResult is the acknowledgment for a successful template upload,
// carrying the parsed schema so callers can render the form without a second
// fetch.
type UploadResult struct {
	Success    bool           `json:"success"`
	TemplateID int            `json:"template_id"`
	Name       string         `json:"name"`
	FieldCount int            `json:"field_count"`
	Schema     *schema.Schema `json:"schema"`
	Message    string         `json:"message"`
}

// HealthStatus reports service liveness.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
