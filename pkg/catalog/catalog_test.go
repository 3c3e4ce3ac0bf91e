package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/azeruya/autoletter/pkg/api"
)

type fakeService struct {
	templates []api.Template
	listErr   error
	deleteErr error
	deleted   []int
}

func (f *fakeService) ListTemplates(ctx context.Context) ([]api.Template, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]api.Template(nil), f.templates...), nil
}

func (f *fakeService) DeleteTemplate(ctx context.Context, id int) (string, error) {
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return "Template deleted successfully", nil
}

func ids(templates []api.Template) []int {
	out := make([]int, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, tpl.ID)
	}
	return out
}

func TestRefresh_ReplacesList(t *testing.T) {
	svc := &fakeService{templates: []api.Template{{ID: 3}, {ID: 7}, {ID: 9}}}
	c := New(svc)

	got, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if diff := cmp.Diff([]int{3, 7, 9}, ids(got)); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRefresh_FailureKeepsLastGoodAndReturnsError(t *testing.T) {
	svc := &fakeService{templates: []api.Template{{ID: 3}}}
	c := New(svc)
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	svc.listErr = &api.Error{Kind: api.ErrorKindNetwork, Message: "Network error occurred"}
	if _, err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh failure to surface")
	}
	// last good snapshot stays for a manual retry
	if diff := cmp.Diff([]int{3}, ids(c.Templates())); diff != "" {
		t.Fatalf("last good list lost (-want +got):\n%s", diff)
	}
}

func TestRemove_DropsEntryOnlyAfterAck(t *testing.T) {
	svc := &fakeService{templates: []api.Template{{ID: 3}, {ID: 7}, {ID: 9}}}
	c := New(svc)
	_, _ = c.Refresh(context.Background())

	if err := c.Remove(context.Background(), 7); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff([]int{3, 9}, ids(c.Templates())); diff != "" {
		t.Fatalf("list after delete mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{7}, svc.deleted); diff != "" {
		t.Fatalf("delete call mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove_FailureLeavesCatalogUnchanged(t *testing.T) {
	svc := &fakeService{templates: []api.Template{{ID: 3}, {ID: 7}, {ID: 9}}}
	c := New(svc)
	_, _ = c.Refresh(context.Background())

	svc.deleteErr = &api.Error{Kind: api.ErrorKindNotFound, Message: "Template not found"}
	if err := c.Remove(context.Background(), 7); err == nil {
		t.Fatal("expected delete failure to surface")
	}
	if diff := cmp.Diff([]int{3, 7, 9}, ids(c.Templates())); diff != "" {
		t.Fatalf("failed delete must not mutate the list (-want +got):\n%s", diff)
	}
}

func TestStats(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * 24 * time.Hour)
	old := now.Add(-30 * 24 * time.Hour)

	svc := &fakeService{templates: []api.Template{
		{ID: 1, Category: "general", CreatedAt: &recent},
		{ID: 2, Category: "akademik", CreatedAt: &old},
		{ID: 3, Category: "general", CreatedAt: nil},
	}}
	c := New(svc, WithClock(func() time.Time { return now }))
	_, _ = c.Refresh(context.Background())

	got := c.Stats()
	want := Stats{Total: 3, Recent: 1, Categories: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}
