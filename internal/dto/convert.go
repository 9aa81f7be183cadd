package dto

import (
	"sort"

	"routehub-client/internal/domain"
)

// ToAuthor converts the user summary into a domain author snapshot
func (u *UserBasicDto) ToAuthor() domain.Author {
	if u == nil {
		return domain.Author{}
	}
	a := domain.Author{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		UserName:        u.UserName,
		ProfileImageURL: u.ProfileImageURL,
	}
	if a.FirstName == "" && a.LastName == "" && u.FullName != "" {
		a.FirstName = u.FullName
	}
	return a
}

// ToCategory converts a category DTO
func (c CategoryDto) ToCategory() domain.Category {
	return domain.Category{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Icon:      c.Icon,
		CreatedAt: c.CreatedDate.Time,
	}
}

// ToRoute converts a route DTO
func (r RouteDto) ToRoute() domain.Route {
	route := domain.Route{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		RouteLink:    r.RouteLink,
		IsPublic:     r.IsPublic,
		ViewCount:    r.ViewCount,
		ThumbnailURL: r.ThumbnailURL,
		Status:       domain.RouteStatus(r.Status),
		StopCount:    r.StopCount,
		CommentCount: r.CommentCount,
		CreatedAt:    r.CreatedDate.Time,
	}
	if r.User != nil {
		owner := r.User.ToAuthor()
		route.Owner = &owner
	}
	for _, c := range r.Categories {
		route.Categories = append(route.Categories, domain.Category{
			ID:   c.ID,
			Name: c.Name,
			Slug: c.Slug,
			Icon: c.Icon,
		})
	}
	return route
}

// ToRoutes converts a list of route DTOs
func ToRoutes(in []RouteDto) []domain.Route {
	out := make([]domain.Route, 0, len(in))
	for _, r := range in {
		out = append(out, r.ToRoute())
	}
	return out
}

// ToStop converts a stop DTO
func (s StopDto) ToStop() domain.Stop {
	return domain.Stop{
		ID:          s.ID,
		RouteID:     s.RouteID,
		Title:       s.Title,
		Description: s.Description,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		Address:     s.Address,
		OrderNumber: s.OrderNumber,
		ImageURL:    s.ImageURL,
		Duration:    s.Duration,
		CreatedAt:   s.CreatedDate.Time,
	}
}

// ToStops converts stops and orders them by OrderNumber
func ToStops(in []StopDto) []domain.Stop {
	out := make([]domain.Stop, 0, len(in))
	for _, s := range in {
		out = append(out, s.ToStop())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderNumber < out[j].OrderNumber
	})
	return out
}
