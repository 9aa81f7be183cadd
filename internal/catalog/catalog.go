// Package catalog filters and orders route listings.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"routehub-client/internal/domain"
)

// SortOption is a route list ordering
type SortOption string

const (
	SortNewest  SortOption = "newest"
	SortPopular SortOption = "popular"
	SortViews   SortOption = "views"
)

// ParseSort parses a sort option name. Empty means newest.
func ParseSort(s string) (SortOption, error) {
	switch opt := SortOption(strings.ToLower(strings.TrimSpace(s))); opt {
	case "":
		return SortNewest, nil
	case SortNewest, SortPopular, SortViews:
		return opt, nil
	default:
		return "", fmt.Errorf("unknown sort option %q (want newest, popular or views)", s)
	}
}

// Filter narrows a route list. Zero fields match everything.
type Filter struct {
	CategoryID string
	// Query matches title, description or category name, case-insensitively
	Query   string
	OwnerID string
	Sort    SortOption
}

// Apply returns the routes matching f in f.Sort order. The input is not modified.
func Apply(routes []domain.Route, f Filter) []domain.Route {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Route, 0, len(routes))
	for i := range routes {
		r := &routes[i]
		if f.CategoryID != "" && !r.HasCategory(f.CategoryID) {
			continue
		}
		if f.OwnerID != "" && (r.Owner == nil || r.Owner.ID != f.OwnerID) {
			continue
		}
		if query != "" && !matches(r, query) {
			continue
		}
		out = append(out, *r)
	}

	Sort(out, f.Sort)
	return out
}

func matches(r *domain.Route, query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) ||
		strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, c := range r.Categories {
		if strings.Contains(strings.ToLower(c.Name), query) {
			return true
		}
	}
	return false
}

// Sort orders routes in place. Ties keep their input order.
func Sort(routes []domain.Route, opt SortOption) {
	var less func(a, b *domain.Route) bool
	switch opt {
	case SortPopular:
		less = func(a, b *domain.Route) bool { return a.CommentCount > b.CommentCount }
	case SortViews:
		less = func(a, b *domain.Route) bool { return a.ViewCount > b.ViewCount }
	default:
		less = func(a, b *domain.Route) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return less(&routes[i], &routes[j])
	})
}
