package domain

import "time"

// RouteStatus represents the publication state of a route
type RouteStatus int

const (
	RouteStatusDraft    RouteStatus = 1
	RouteStatusActive   RouteStatus = 2
	RouteStatusArchived RouteStatus = 3
)

// String returns the lower-case name of the status
func (s RouteStatus) String() string {
	switch s {
	case RouteStatusDraft:
		return "draft"
	case RouteStatusActive:
		return "active"
	case RouteStatusArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// ParseRouteStatus parses a status name
func ParseRouteStatus(s string) (RouteStatus, bool) {
	switch s {
	case "draft":
		return RouteStatusDraft, true
	case "active":
		return RouteStatusActive, true
	case "archived":
		return RouteStatusArchived, true
	}
	return 0, false
}

// Route is a shareable travel route
type Route struct {
	ID           string
	Title        string
	Description  string
	RouteLink    string
	IsPublic     bool
	ViewCount    int
	ThumbnailURL string
	Status       RouteStatus
	StopCount    int
	CommentCount int
	CreatedAt    time.Time
	Owner        *Author
	Categories   []Category
}

// HasCategory reports whether the route is tagged with the given category
func (r *Route) HasCategory(categoryID string) bool {
	for _, c := range r.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

// RouteDetail is a route together with its ordered stops.
// The comment thread is loaded separately through the thread engine.
type RouteDetail struct {
	Route
	Stops []Stop
}

// Stop is one ordered point of a route
type Stop struct {
	ID          string
	RouteID     string
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	Address     string
	OrderNumber int
	ImageURL    string
	// Duration is the planned stay in minutes
	Duration  int
	CreatedAt time.Time
}

// Category groups routes
type Category struct {
	ID        string
	Name      string
	Slug      string
	Icon      string
	CreatedAt time.Time
}

// User is a registered RouteHub user
type User struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	UserName        string
	ProfileImageURL string
}
