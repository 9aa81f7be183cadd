package devapi

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
	"routehub-client/internal/response"
)

// RouteService defines the business logic of routes
type RouteService interface {
	List(ctx context.Context, q RouteQuery) ([]dto.RouteDto, error)
	Get(ctx context.Context, id string) (*dto.RouteDetailDto, error)
	GetByLink(ctx context.Context, link string) (*dto.RouteDetailDto, error)
	Create(ctx context.Context, userID string, req *dto.CreateRouteRequest) (*dto.CreatedDto, error)
	Delete(ctx context.Context, userID, id string) error
	IncrementView(ctx context.Context, id string) error
	SetStatus(ctx context.Context, userID, id string, status domain.RouteStatus) error
}

type routeServiceImpl struct {
	routeRepo    RouteRepository
	categoryRepo CategoryRepository
	commentRepo  CommentRepository
}

// NewRouteService creates a new instance of RouteService
func NewRouteService(routeRepo RouteRepository, categoryRepo CategoryRepository, commentRepo CommentRepository) RouteService {
	return &routeServiceImpl{routeRepo: routeRepo, categoryRepo: categoryRepo, commentRepo: commentRepo}
}

func (s *routeServiceImpl) List(ctx context.Context, q RouteQuery) ([]dto.RouteDto, error) {
	routes, err := s.routeRepo.Find(ctx, q)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list routes", err.Error())
	}

	ids := make([]string, 0, len(routes))
	for _, r := range routes {
		ids = append(ids, r.ID)
	}
	stopCounts, err := s.routeRepo.CountStops(ctx, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count stops", err.Error())
	}
	commentCounts, err := s.routeRepo.CountComments(ctx, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count comments", err.Error())
	}

	out := make([]dto.RouteDto, 0, len(routes))
	for i := range routes {
		r := &routes[i]
		out = append(out, toRouteDto(r, stopCounts[r.ID], commentCounts[r.ID]))
	}
	return out, nil
}

func (s *routeServiceImpl) Get(ctx context.Context, id string) (*dto.RouteDetailDto, error) {
	route, err := s.routeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, routeLookupError(err)
	}
	return s.detail(ctx, route)
}

func (s *routeServiceImpl) GetByLink(ctx context.Context, link string) (*dto.RouteDetailDto, error) {
	route, err := s.routeRepo.FindByLink(ctx, link)
	if err != nil {
		return nil, routeLookupError(err)
	}
	return s.detail(ctx, route)
}

func (s *routeServiceImpl) detail(ctx context.Context, route *Route) (*dto.RouteDetailDto, error) {
	comments, err := s.commentRepo.FindByRoute(ctx, route.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load comments", err.Error())
	}

	out := &dto.RouteDetailDto{
		RouteDto: toRouteDto(route, len(route.Stops), len(comments)),
		Comments: nestComments(comments),
	}
	for _, stop := range route.Stops {
		out.Stops = append(out.Stops, toStopDto(stop))
	}
	return out, nil
}

func (s *routeServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateRouteRequest) (*dto.CreatedDto, error) {
	title := strings.TrimSpace(req.Title)
	link := strings.TrimSpace(req.RouteLink)
	if title == "" {
		return nil, response.NewValidationError("Title is required")
	}
	if link == "" {
		return nil, response.NewValidationError("Route link is required")
	}

	taken, err := s.routeRepo.LinkExists(ctx, link)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check route link", err.Error())
	}
	if taken {
		return nil, response.NewAppError(response.ErrCodeConflict, "Route link is already taken", "")
	}

	categories, err := s.categoryRepo.FindByIDs(ctx, req.CategoryIDs)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find categories", err.Error())
	}
	if len(categories) != len(uniqueStrings(req.CategoryIDs)) {
		return nil, response.NewValidationError("Unknown category")
	}

	route := &Route{
		UserID:       userID,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		RouteLink:    link,
		IsPublic:     req.IsPublic,
		ThumbnailURL: req.ThumbnailURL,
		Status:       int(domain.RouteStatusDraft),
		Categories:   categories,
	}
	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create route", err.Error())
	}
	return &dto.CreatedDto{ID: route.ID}, nil
}

func (s *routeServiceImpl) owned(ctx context.Context, userID, id string) (*Route, error) {
	route, err := s.routeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, routeLookupError(err)
	}
	if route.UserID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You can only change your own routes", "")
	}
	return route, nil
}

func (s *routeServiceImpl) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.routeRepo.Delete(ctx, id); err != nil {
		return routeLookupError(err)
	}
	return nil
}

func (s *routeServiceImpl) IncrementView(ctx context.Context, id string) error {
	if err := s.routeRepo.IncrementView(ctx, id); err != nil {
		return routeLookupError(err)
	}
	return nil
}

func (s *routeServiceImpl) SetStatus(ctx context.Context, userID, id string, status domain.RouteStatus) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.routeRepo.UpdateStatus(ctx, id, int(status)); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to update route", err.Error())
	}
	return nil
}

func routeLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, "Route not found", "")
	}
	return response.NewAppError(response.ErrCodeInternal, "Failed to find route", err.Error())
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
