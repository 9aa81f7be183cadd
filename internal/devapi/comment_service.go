package devapi

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"routehub-client/internal/dto"
	"routehub-client/internal/response"
)

const minCommentLength = 3

// CommentService defines the business logic of comment threads
type CommentService interface {
	List(ctx context.Context) ([]dto.CommentDetailDto, error)
	Get(ctx context.Context, id string) (*dto.CommentDetailDto, error)
	ListByRoute(ctx context.Context, routeID string) ([]dto.CommentDetailDto, error)
	Create(ctx context.Context, userID string, req *dto.CreateCommentRequest) (*dto.CreatedDto, error)
	Update(ctx context.Context, userID string, req *dto.UpdateCommentRequest) error
	Delete(ctx context.Context, userID, id string) error
}

type commentServiceImpl struct {
	commentRepo CommentRepository
	routeRepo   RouteRepository
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(commentRepo CommentRepository, routeRepo RouteRepository, logger *zap.Logger) CommentService {
	return &commentServiceImpl{commentRepo: commentRepo, routeRepo: routeRepo, logger: logger}
}

// List returns every comment as a flat list
func (s *commentServiceImpl) List(ctx context.Context) ([]dto.CommentDetailDto, error) {
	rows, err := s.commentRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list comments", err.Error())
	}
	out := make([]dto.CommentDetailDto, 0, len(rows))
	for i := range rows {
		out = append(out, toCommentDetail(toCommentBasic(&rows[i])))
	}
	return out, nil
}

// Get returns one comment with its replies
func (s *commentServiceImpl) Get(ctx context.Context, id string) (*dto.CommentDetailDto, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find comment", err.Error())
	}

	rows, err := s.commentRepo.FindByRoute(ctx, comment.RouteID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load replies", err.Error())
	}
	for _, root := range nestComments(rows) {
		if found := findComment(root, id); found != nil {
			detail := toCommentDetail(*found)
			detail.ParentCommentID = comment.ParentCommentID
			return &detail, nil
		}
	}
	detail := toCommentDetail(toCommentBasic(comment))
	return &detail, nil
}

func findComment(node dto.CommentBasicDto, id string) *dto.CommentBasicDto {
	if node.ID == id {
		return &node
	}
	for _, r := range node.Replies {
		if found := findComment(r, id); found != nil {
			return found
		}
	}
	return nil
}

// ListByRoute returns the top-level comments of a route with nested replies
func (s *commentServiceImpl) ListByRoute(ctx context.Context, routeID string) ([]dto.CommentDetailDto, error) {
	if _, err := s.routeRepo.FindByID(ctx, routeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Route not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find route", err.Error())
	}

	rows, err := s.commentRepo.FindByRoute(ctx, routeID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list comments", err.Error())
	}
	roots := nestComments(rows)
	out := make([]dto.CommentDetailDto, 0, len(roots))
	for _, r := range roots {
		out = append(out, toCommentDetail(r))
	}
	return out, nil
}

// Create adds a comment, or a reply when a parent is given. The parent must belong to the same route.
func (s *commentServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateCommentRequest) (*dto.CreatedDto, error) {
	content := strings.TrimSpace(req.Content)
	if utf8.RuneCountInString(content) < minCommentLength {
		return nil, response.NewValidationError("Comment must be at least 3 characters")
	}

	if _, err := s.routeRepo.FindByID(ctx, req.RouteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Route not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find route", err.Error())
	}

	var parentID *string
	if req.ParentCommentID != nil && *req.ParentCommentID != "" {
		parent, err := s.commentRepo.FindByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Parent comment not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find parent comment", err.Error())
		}
		if parent.RouteID != req.RouteID {
			return nil, response.NewValidationError("Parent comment belongs to another route")
		}
		id := parent.ID
		parentID = &id
	}

	comment := &Comment{
		RouteID:         req.RouteID,
		UserID:          userID,
		ParentCommentID: parentID,
		Content:         content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	s.logger.Debug("Comment created",
		zap.String("comment_id", comment.ID),
		zap.String("route_id", comment.RouteID),
		zap.Bool("reply", parentID != nil),
	)
	return &dto.CreatedDto{ID: comment.ID}, nil
}

// Update replaces the content of a comment. Only its author may do so.
func (s *commentServiceImpl) Update(ctx context.Context, userID string, req *dto.UpdateCommentRequest) error {
	content := strings.TrimSpace(req.Content)
	if utf8.RuneCountInString(content) < minCommentLength {
		return response.NewValidationError("Comment must be at least 3 characters")
	}

	comment, err := s.commentRepo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find comment", err.Error())
	}
	if comment.UserID != userID {
		return response.NewAppError(response.ErrCodeForbidden, "You can only edit your own comments", "")
	}

	if err := s.commentRepo.UpdateContent(ctx, comment.ID, content); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to update comment", err.Error())
	}
	return nil
}

// Delete removes a comment and all of its replies. The author and the route owner may delete.
func (s *commentServiceImpl) Delete(ctx context.Context, userID, id string) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find comment", err.Error())
	}

	if comment.UserID != userID {
		route, err := s.routeRepo.FindByID(ctx, comment.RouteID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeInternal, "Failed to find route", err.Error())
		}
		if route == nil || route.UserID != userID {
			return response.NewAppError(response.ErrCodeForbidden, "You can only delete your own comments", "")
		}
	}

	deleted, err := s.commentRepo.DeleteSubtree(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
	}

	s.logger.Debug("Comment deleted",
		zap.String("comment_id", id),
		zap.Int("rows", deleted),
	)
	return nil
}
