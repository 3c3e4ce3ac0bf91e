// Package catalog holds the client-side list of known templates. The server
// list is the source of truth; this cache only exists so views share one
// snapshot between refreshes.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/azeruya/autoletter/pkg/api"
)

// recentWindow bounds the "recent" stat: templates created within the last
// seven days measured at read time.
const recentWindow = 7 * 24 * time.Hour

// Service is the slice of the API client the catalog consumes.
type Service interface {
	ListTemplates(ctx context.Context) ([]api.Template, error)
	DeleteTemplate(ctx context.Context, id int) (string, error)
}

// Option configures the catalog during construction.
type Option func(*Catalog)

// WithClock overrides the wall clock used for the recent stat.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// Catalog caches the current template summaries in server order.
type Catalog struct {
	svc Service
	now func() time.Time

	mu        sync.Mutex
	templates []api.Template
}

// New constructs a catalog over the given service.
func New(svc Service, options ...Option) *Catalog {
	c := &Catalog{
		svc: svc,
		now: time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Refresh replaces the whole list on success. On failure the error is
// returned for the caller to surface; the last good list stays cached so an
// explicit retry has something to fall back to, but it must not be presented
// as fresh.
func (c *Catalog) Refresh(ctx context.Context) ([]api.Template, error) {
	templates, err := c.svc.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.templates = templates
	c.mu.Unlock()
	return c.Templates(), nil
}

// Templates returns a copy of the cached list.
func (c *Catalog) Templates() []api.Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Template(nil), c.templates...)
}

// Remove deletes a template server-side. The local entry is dropped only
// after the server acknowledges; a failed delete leaves the catalog visibly
// unchanged.
func (c *Catalog) Remove(ctx context.Context, id int) error {
	if _, err := c.svc.DeleteTemplate(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.templates[:0]
	for _, tpl := range c.templates {
		if tpl.ID != id {
			kept = append(kept, tpl)
		}
	}
	c.templates = kept
	return nil
}

// Stats summarizes the cached list. Values are computed at read time, never
// stored.
type Stats struct {
	Total      int
	Recent     int
	Categories int
}

// Stats derives total count, recent count (created within the last seven
// days), and the number of distinct categories present.
func (c *Catalog) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-recentWindow)
	categories := make(map[string]struct{})
	stats := Stats{Total: len(c.templates)}

	for _, tpl := range c.templates {
		if tpl.CreatedAt != nil && tpl.CreatedAt.After(cutoff) {
			stats.Recent++
		}
		if tpl.Category != "" {
			categories[tpl.Category] = struct{}{}
		}
	}
	stats.Categories = len(categories)
	return stats
}
