package devapi

import (
	"context"

	"gorm.io/gorm"
)

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, email, userName string) (bool, error)
}

type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepositoryImpl) FindByID(ctx context.Context, id string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) Exists(ctx context.Context, email, userName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("LOWER(email) = LOWER(?) OR LOWER(user_name) = LOWER(?)", email, userName).
		Count(&count).Error
	return count > 0, err
}

// CategoryRepository defines data access for categories
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindAll(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]Category, error)
}

type categoryRepositoryImpl struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepositoryImpl{db: db}
}

func (r *categoryRepositoryImpl) Create(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepositoryImpl) FindAll(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepositoryImpl) FindByID(ctx context.Context, id string) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepositoryImpl) FindByIDs(ctx context.Context, ids []string) ([]Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// RouteQuery narrows a route listing
type RouteQuery struct {
	PublicOnly bool
	Status     int
	CategoryID string
	// Popular orders by view count instead of creation time
	Popular bool
}

// RouteRepository defines data access for routes
type RouteRepository interface {
	Create(ctx context.Context, route *Route) error
	Find(ctx context.Context, q RouteQuery) ([]Route, error)
	FindByID(ctx context.Context, id string) (*Route, error)
	FindByLink(ctx context.Context, link string) (*Route, error)
	LinkExists(ctx context.Context, link string) (bool, error)
	Delete(ctx context.Context, id string) error
	IncrementView(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status int) error
	CountStops(ctx context.Context, routeIDs []string) (map[string]int, error)
	CountComments(ctx context.Context, routeIDs []string) (map[string]int, error)
}

type routeRepositoryImpl struct {
	db *gorm.DB
}

// NewRouteRepository creates a new instance of RouteRepository
func NewRouteRepository(db *gorm.DB) RouteRepository {
	return &routeRepositoryImpl{db: db}
}

func (r *routeRepositoryImpl) Create(ctx context.Context, route *Route) error {
	return r.db.WithContext(ctx).Create(route).Error
}

func (r *routeRepositoryImpl) Find(ctx context.Context, q RouteQuery) ([]Route, error) {
	query := r.db.WithContext(ctx).Preload("User").Preload("Categories")
	if q.PublicOnly {
		query = query.Where("routes.is_public = ?", true)
	}
	if q.Status != 0 {
		query = query.Where("routes.status = ?", q.Status)
	}
	if q.CategoryID != "" {
		query = query.Where("routes.id IN (?)",
			r.db.Table("route_categories").Select("route_id").Where("category_id = ?", q.CategoryID))
	}
	if q.Popular {
		query = query.Order("routes.view_count DESC").Order("routes.created_at DESC")
	} else {
		query = query.Order("routes.created_at DESC")
	}

	var routes []Route
	if err := query.Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

func (r *routeRepositoryImpl) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Categories").
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("stops.order_number ASC")
		})
}

func (r *routeRepositoryImpl) FindByID(ctx context.Context, id string) (*Route, error) {
	var route Route
	if err := r.preloaded(ctx).Where("id = ?", id).First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepositoryImpl) FindByLink(ctx context.Context, link string) (*Route, error) {
	var route Route
	if err := r.preloaded(ctx).Where("route_link = ?", link).First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepositoryImpl) LinkExists(ctx context.Context, link string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Route{}).Where("route_link = ?", link).Count(&count).Error
	return count > 0, err
}

// Delete removes the route together with its stops, comments and category links
func (r *routeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		route := Route{BaseModel: BaseModel{ID: id}}
		if err := tx.Model(&route).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Where("route_id = ?", id).Delete(&Stop{}).Error; err != nil {
			return err
		}
		if err := tx.Where("route_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Route{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *routeRepositoryImpl) IncrementView(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&Route{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *routeRepositoryImpl) UpdateStatus(ctx context.Context, id string, status int) error {
	return r.db.WithContext(ctx).Model(&Route{}).Where("id = ?", id).Update("status", status).Error
}

type groupCount struct {
	RouteID string
	Count   int
}

func (r *routeRepositoryImpl) countBy(ctx context.Context, model interface{}, routeIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(routeIDs))
	if len(routeIDs) == 0 {
		return counts, nil
	}
	var rows []groupCount
	if err := r.db.WithContext(ctx).Model(model).
		Select("route_id, COUNT(*) AS count").
		Where("route_id IN ?", routeIDs).
		Group("route_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.RouteID] = row.Count
	}
	return counts, nil
}

func (r *routeRepositoryImpl) CountStops(ctx context.Context, routeIDs []string) (map[string]int, error) {
	return r.countBy(ctx, &Stop{}, routeIDs)
}

func (r *routeRepositoryImpl) CountComments(ctx context.Context, routeIDs []string) (map[string]int, error) {
	return r.countBy(ctx, &Comment{}, routeIDs)
}

// StopRepository defines data access for stops
type StopRepository interface {
	Create(ctx context.Context, stop *Stop) error
	FindByID(ctx context.Context, id string) (*Stop, error)
	FindByRoute(ctx context.Context, routeID string) ([]Stop, error)
	Delete(ctx context.Context, id string) error
}

type stopRepositoryImpl struct {
	db *gorm.DB
}

// NewStopRepository creates a new instance of StopRepository
func NewStopRepository(db *gorm.DB) StopRepository {
	return &stopRepositoryImpl{db: db}
}

func (r *stopRepositoryImpl) Create(ctx context.Context, stop *Stop) error {
	return r.db.WithContext(ctx).Create(stop).Error
}

func (r *stopRepositoryImpl) FindByID(ctx context.Context, id string) (*Stop, error) {
	var stop Stop
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&stop).Error; err != nil {
		return nil, err
	}
	return &stop, nil
}

func (r *stopRepositoryImpl) FindByRoute(ctx context.Context, routeID string) ([]Stop, error) {
	var stops []Stop
	if err := r.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Order("order_number ASC").
		Find(&stops).Error; err != nil {
		return nil, err
	}
	return stops, nil
}

func (r *stopRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Stop{}).Error
}

// CommentRepository defines data access for comments
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id string) (*Comment, error)
	FindAll(ctx context.Context) ([]Comment, error)
	FindByRoute(ctx context.Context, routeID string) ([]Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	DeleteSubtree(ctx context.Context, id string) (int, error)
}

type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

func (r *commentRepositoryImpl) Create(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepositoryImpl) FindByID(ctx context.Context, id string) (*Comment, error) {
	var comment Comment
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepositoryImpl) FindAll(ctx context.Context) ([]Comment, error) {
	var comments []Comment
	if err := r.db.WithContext(ctx).Preload("User").Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepositoryImpl) FindByRoute(ctx context.Context, routeID string) ([]Comment, error) {
	var comments []Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("route_id = ?", routeID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepositoryImpl) UpdateContent(ctx context.Context, id, content string) error {
	return r.db.WithContext(ctx).Model(&Comment{}).Where("id = ?", id).Update("content", content).Error
}

// DeleteSubtree removes the comment and every reply below it and returns how many rows went
func (r *commentRepositoryImpl) DeleteSubtree(ctx context.Context, id string) (int, error) {
	deleted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []string{id}
		seen := map[string]bool{id: true}
		for frontier := []string{id}; len(frontier) > 0; {
			var children []string
			if err := tx.Model(&Comment{}).Where("parent_comment_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			frontier = frontier[:0]
			for _, child := range children {
				if !seen[child] {
					seen[child] = true
					ids = append(ids, child)
					frontier = append(frontier, child)
				}
			}
		}

		result := tx.Where("id IN ?", ids).Delete(&Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		deleted = int(result.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
