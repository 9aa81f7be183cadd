package client

import (
	"context"
	"net/http"
	"net/url"

	"routehub-client/internal/dto"
)

// CommentService calls the /comments endpoints
type CommentService struct {
	c *Client
}

// NewCommentService creates a new CommentService
func NewCommentService(c *Client) *CommentService {
	return &CommentService{c: c}
}

// List returns every comment
func (s *CommentService) List(ctx context.Context) ([]dto.CommentDetailDto, error) {
	return fetch[[]dto.CommentDetailDto](ctx, s.c, http.MethodGet, "/comments", nil)
}

// Get returns one comment with its replies
func (s *CommentService) Get(ctx context.Context, id string) (dto.CommentDetailDto, error) {
	return fetch[dto.CommentDetailDto](ctx, s.c, http.MethodGet, "/comments/"+url.PathEscape(id), nil)
}

// ListByRoute returns the top-level comments of a route with nested replies
func (s *CommentService) ListByRoute(ctx context.Context, routeID string) ([]dto.CommentDetailDto, error) {
	return fetch[[]dto.CommentDetailDto](ctx, s.c, http.MethodGet, "/comments/route/"+url.PathEscape(routeID), nil)
}

// Create posts a comment or reply. The new id is returned when the server sends it.
func (s *CommentService) Create(ctx context.Context, req dto.CreateCommentRequest) (string, error) {
	created, err := fetch[dto.CreatedDto](ctx, s.c, http.MethodPost, "/comments", req)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// Update edits a comment's content
func (s *CommentService) Update(ctx context.Context, req dto.UpdateCommentRequest) error {
	return send(ctx, s.c, http.MethodPut, "/comments", req)
}

// Delete removes a comment
func (s *CommentService) Delete(ctx context.Context, id string) error {
	return send(ctx, s.c, http.MethodDelete, "/comments/"+url.PathEscape(id), nil)
}
