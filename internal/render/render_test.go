package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"routehub-client/internal/domain"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf).WithClock(func() time.Time { return now }), &buf
}

func TestThread(t *testing.T) {
	p, buf := newTestPrinter()

	c := &domain.CommentNode{ID: "c", ParentID: "b", Content: "deep", Author: domain.Author{UserName: "carol"}, CreatedAt: now.Add(-time.Minute)}
	b := &domain.CommentNode{ID: "b", ParentID: "a", Content: "agreed", Author: domain.Author{FirstName: "Bob"}, CreatedAt: now.Add(-time.Hour), Children: []*domain.CommentNode{c}}
	a := &domain.CommentNode{ID: "a", Content: "line one\nline two", Author: domain.Author{FirstName: "Ada", LastName: "Lovelace"}, CreatedAt: now.Add(-3 * time.Hour), Children: []*domain.CommentNode{b}}

	p.Thread([]*domain.CommentNode{a}, "b")

	want := strings.Join([]string{
		"Comments (3)",
		"• Ada Lovelace · 3 hours ago  [a]",
		"  line one",
		"  line two",
		"  2 replies",
		"  ↳ Bob · 1 hour ago  [b]  ← replying",
		"    agreed",
		"    ↳ carol · 1 minute ago  [c]",
		"      deep",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestThread_Empty(t *testing.T) {
	p, buf := newTestPrinter()
	p.Thread(nil, "")
	assert.Equal(t, "Comments (0)\nNo comments yet. Be the first to comment!\n", buf.String())
}

func TestRoutes(t *testing.T) {
	p, buf := newTestPrinter()
	p.Routes([]domain.Route{{
		ID:           "r1",
		Title:        "Lycian Way",
		Status:       domain.RouteStatusActive,
		ViewCount:    12345,
		CommentCount: 3,
		CreatedAt:    now.Add(-48 * time.Hour),
		Categories:   []domain.Category{{Name: "Nature"}, {Name: "Coast"}},
	}})

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Lycian Way")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "Nature, Coast")
}

func TestRoutes_Empty(t *testing.T) {
	p, buf := newTestPrinter()
	p.Routes(nil)
	assert.Equal(t, "No routes found.\n", buf.String())
}

func TestRouteDetail(t *testing.T) {
	p, buf := newTestPrinter()
	p.RouteDetail(&domain.RouteDetail{
		Route: domain.Route{
			Title:     "Old Town",
			RouteLink: "old-town",
			Status:    domain.RouteStatusDraft,
			Owner:     &domain.Author{UserName: "ada"},
			CreatedAt: now.Add(-time.Hour),
		},
		Stops: []domain.Stop{
			{Title: "Clock Tower", Address: "Main Sq.", Duration: 30},
			{Title: "Museum", Description: "Closed on Mondays", Duration: 90},
		},
	})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Old Town\n========\n"))
	assert.Contains(t, out, "By:")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "draft")
	assert.Contains(t, out, "Stops (2)")
	assert.Contains(t, out, "1. Clock Tower · Main Sq. (30 min)")
	assert.Contains(t, out, "2. Museum (1 h 30 min)")
	assert.Contains(t, out, "   Closed on Mondays")
	assert.Contains(t, out, "Total time: 2 h")
}

func TestCategories(t *testing.T) {
	p, buf := newTestPrinter()
	p.Categories([]domain.Category{{ID: "c1", Name: "Nature", Slug: "nature", Icon: "🌲"}})
	assert.Contains(t, buf.String(), "🌲 Nature")
	assert.Contains(t, buf.String(), "nature")
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, "45 min", minutes(45))
	assert.Equal(t, "2 h", minutes(120))
	assert.Equal(t, "1 h 5 min", minutes(65))
}
