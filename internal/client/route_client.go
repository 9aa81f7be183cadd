package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
)

// RouteService calls the /routes endpoints
type RouteService struct {
	c *Client
}

// NewRouteService creates a new RouteService
func NewRouteService(c *Client) *RouteService {
	return &RouteService{c: c}
}

func (s *RouteService) list(ctx context.Context, path string) ([]domain.Route, error) {
	routes, err := fetch[[]dto.RouteDto](ctx, s.c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return dto.ToRoutes(routes), nil
}

// List returns all routes
func (s *RouteService) List(ctx context.Context) ([]domain.Route, error) {
	return s.list(ctx, "/routes")
}

// ListPublic returns published public routes
func (s *RouteService) ListPublic(ctx context.Context) ([]domain.Route, error) {
	return s.list(ctx, "/routes/public")
}

// ListPopular returns the most popular routes
func (s *RouteService) ListPopular(ctx context.Context) ([]domain.Route, error) {
	return s.list(ctx, "/routes/popular")
}

// ListByCategory returns routes tagged with a category
func (s *RouteService) ListByCategory(ctx context.Context, categoryID string) ([]domain.Route, error) {
	return s.list(ctx, "/routes/category/"+url.PathEscape(categoryID))
}

// ListByStatus returns routes in a status
func (s *RouteService) ListByStatus(ctx context.Context, status domain.RouteStatus) ([]domain.Route, error) {
	return s.list(ctx, "/routes/status/"+strconv.Itoa(int(status)))
}

// Get returns a route with stops and comments
func (s *RouteService) Get(ctx context.Context, id string) (*domain.RouteDetail, error) {
	return s.detail(ctx, "/routes/"+url.PathEscape(id))
}

// GetByLink returns a route by its public link
func (s *RouteService) GetByLink(ctx context.Context, link string) (*domain.RouteDetail, error) {
	return s.detail(ctx, "/routes/link/"+url.PathEscape(link))
}

func (s *RouteService) detail(ctx context.Context, path string) (*domain.RouteDetail, error) {
	d, err := fetch[dto.RouteDetailDto](ctx, s.c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	detail := &domain.RouteDetail{
		Route: d.RouteDto.ToRoute(),
		Stops: dto.ToStops(d.Stops),
	}
	return detail, nil
}

// Create creates a route and returns its id when the server sends one
func (s *RouteService) Create(ctx context.Context, req dto.CreateRouteRequest) (string, error) {
	created, err := fetch[dto.CreatedDto](ctx, s.c, http.MethodPost, "/routes", req)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// Delete removes a route
func (s *RouteService) Delete(ctx context.Context, id string) error {
	return send(ctx, s.c, http.MethodDelete, "/routes/"+url.PathEscape(id), nil)
}

// IncrementView records a view of the route
func (s *RouteService) IncrementView(ctx context.Context, id string) error {
	return send(ctx, s.c, http.MethodPost, "/routes/"+url.PathEscape(id)+"/increment-view", struct{}{})
}

// Publish moves a route to active
func (s *RouteService) Publish(ctx context.Context, id string) error {
	return send(ctx, s.c, http.MethodPost, "/routes/"+url.PathEscape(id)+"/publish", struct{}{})
}

// Archive moves a route to archived
func (s *RouteService) Archive(ctx context.Context, id string) error {
	return send(ctx, s.c, http.MethodPost, "/routes/"+url.PathEscape(id)+"/archive", struct{}{})
}
