package devapi

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"routehub-client/internal/dto"
	"routehub-client/internal/response"
)

// CategoryService defines the business logic of categories
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryDto, error)
	Get(ctx context.Context, id string) (*dto.CategoryDto, error)
	GetBySlug(ctx context.Context, slug string) (*dto.CategoryDto, error)
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CreatedDto, error)
}

type categoryServiceImpl struct {
	categoryRepo CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo CategoryRepository) CategoryService {
	return &categoryServiceImpl{categoryRepo: categoryRepo}
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]dto.CategoryDto, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list categories", err.Error())
	}
	out := make([]dto.CategoryDto, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryDto(c))
	}
	return out, nil
}

func (s *categoryServiceImpl) Get(ctx context.Context, id string) (*dto.CategoryDto, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, categoryLookupError(err)
	}
	out := toCategoryDto(*category)
	return &out, nil
}

func (s *categoryServiceImpl) GetBySlug(ctx context.Context, slug string) (*dto.CategoryDto, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, categoryLookupError(err)
	}
	out := toCategoryDto(*category)
	return &out, nil
}

func (s *categoryServiceImpl) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CreatedDto, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if _, err := s.categoryRepo.FindBySlug(ctx, slug); err == nil {
		return nil, response.NewAppError(response.ErrCodeConflict, "Category slug is already taken", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check category", err.Error())
	}

	category := &Category{
		Name: strings.TrimSpace(req.Name),
		Slug: slug,
		Icon: req.Icon,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create category", err.Error())
	}
	return &dto.CreatedDto{ID: category.ID}, nil
}

func categoryLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, "Category not found", "")
	}
	return response.NewAppError(response.ErrCodeInternal, "Failed to find category", err.Error())
}

// StopService defines the business logic of route stops
type StopService interface {
	ListByRoute(ctx context.Context, routeID string) ([]dto.StopDto, error)
	Create(ctx context.Context, userID string, req *dto.CreateStopRequest) (*dto.CreatedDto, error)
	Delete(ctx context.Context, userID, id string) error
}

type stopServiceImpl struct {
	stopRepo  StopRepository
	routeRepo RouteRepository
}

// NewStopService creates a new instance of StopService
func NewStopService(stopRepo StopRepository, routeRepo RouteRepository) StopService {
	return &stopServiceImpl{stopRepo: stopRepo, routeRepo: routeRepo}
}

func (s *stopServiceImpl) ListByRoute(ctx context.Context, routeID string) ([]dto.StopDto, error) {
	stops, err := s.stopRepo.FindByRoute(ctx, routeID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list stops", err.Error())
	}
	out := make([]dto.StopDto, 0, len(stops))
	for _, stop := range stops {
		out = append(out, toStopDto(stop))
	}
	return out, nil
}

func (s *stopServiceImpl) requireOwner(ctx context.Context, userID, routeID string) error {
	route, err := s.routeRepo.FindByID(ctx, routeID)
	if err != nil {
		return routeLookupError(err)
	}
	if route.UserID != userID {
		return response.NewAppError(response.ErrCodeForbidden, "You can only change your own routes", "")
	}
	return nil
}

func (s *stopServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateStopRequest) (*dto.CreatedDto, error) {
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return nil, response.NewValidationError("Coordinates are out of range")
	}
	if err := s.requireOwner(ctx, userID, req.RouteID); err != nil {
		return nil, err
	}

	stop := &Stop{
		RouteID:     req.RouteID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		OrderNumber: req.OrderNumber,
		ImageURL:    req.ImageURL,
		Duration:    req.Duration,
	}
	if err := s.stopRepo.Create(ctx, stop); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create stop", err.Error())
	}
	return &dto.CreatedDto{ID: stop.ID}, nil
}

func (s *stopServiceImpl) Delete(ctx context.Context, userID, id string) error {
	stop, err := s.stopRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Stop not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find stop", err.Error())
	}
	if err := s.requireOwner(ctx, userID, stop.RouteID); err != nil {
		return err
	}
	if err := s.stopRepo.Delete(ctx, id); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete stop", err.Error())
	}
	return nil
}
