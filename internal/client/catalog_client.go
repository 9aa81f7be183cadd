package client

import (
	"context"
	"net/http"
	"net/url"

	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
)

// CategoryService calls the /categories endpoints
type CategoryService struct {
	c *Client
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(c *Client) *CategoryService {
	return &CategoryService{c: c}
}

// List returns every category
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	items, err := fetch[[]dto.CategoryDto](ctx, s.c, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(items))
	for _, c := range items {
		out = append(out, c.ToCategory())
	}
	return out, nil
}

// Get returns a category by id
func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	c, err := fetch[dto.CategoryDto](ctx, s.c, http.MethodGet, "/categories/"+url.PathEscape(id), nil)
	return c.ToCategory(), err
}

// GetBySlug returns a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (domain.Category, error) {
	c, err := fetch[dto.CategoryDto](ctx, s.c, http.MethodGet, "/categories/slug/"+url.PathEscape(slug), nil)
	return c.ToCategory(), err
}

// Create creates a category
func (s *CategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (string, error) {
	created, err := fetch[dto.CreatedDto](ctx, s.c, http.MethodPost, "/categories", req)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// StopService calls the /stops endpoints
type StopService struct {
	c *Client
}

// NewStopService creates a new StopService
func NewStopService(c *Client) *StopService {
	return &StopService{c: c}
}

// ListByRoute returns a route's stops ordered by OrderNumber
func (s *StopService) ListByRoute(ctx context.Context, routeID string) ([]domain.Stop, error) {
	stops, err := fetch[[]dto.StopDto](ctx, s.c, http.MethodGet, "/stops/route/"+url.PathEscape(routeID), nil)
	if err != nil {
		return nil, err
	}
	return dto.ToStops(stops), nil
}

// Create adds a stop to a route
func (s *StopService) Create(ctx context.Context, req dto.CreateStopRequest) (string, error) {
	created, err := fetch[dto.CreatedDto](ctx, s.c, http.MethodPost, "/stops", req)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// Delete removes a stop
func (s *StopService) Delete(ctx context.Context, id string) error {
	return send(ctx, s.c, http.MethodDelete, "/stops/"+url.PathEscape(id), nil)
}

// UserService calls the /users endpoints
type UserService struct {
	c *Client
}

// NewUserService creates a new UserService
func NewUserService(c *Client) *UserService {
	return &UserService{c: c}
}

// Login exchanges credentials for a token
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	return fetch[dto.LoginResponse](ctx, s.c, http.MethodPost, "/users/login", req)
}

// Register creates an account
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) error {
	return send(ctx, s.c, http.MethodPost, "/users/register", req)
}
