// Package devapi is a local stand-in for the RouteHub API. It serves the same
// endpoints and envelope as the real backend from a sqlite or postgres database.
package devapi

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the id and timestamps shared by every table
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a UUID when none is set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// User is a registered account
type User struct {
	BaseModel
	FirstName       string `gorm:"type:varchar(100);not null"`
	LastName        string `gorm:"type:varchar(100);not null"`
	Email           string `gorm:"type:varchar(255);not null;uniqueIndex"`
	UserName        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash    string `gorm:"type:varchar(255);not null"`
	ProfileImageURL string `gorm:"type:varchar(500)"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Category groups routes
type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Icon string `gorm:"type:varchar(50)"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// Route is a shareable travel route
type Route struct {
	BaseModel
	UserID       string     `gorm:"type:varchar(36);not null;index:idx_routes_user_id"`
	Title        string     `gorm:"type:varchar(255);not null"`
	Description  string     `gorm:"type:text"`
	RouteLink    string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	IsPublic     bool       `gorm:"not null;default:false"`
	ViewCount    int        `gorm:"not null;default:0"`
	ThumbnailURL string     `gorm:"type:varchar(500)"`
	Status       int        `gorm:"not null;default:1;index:idx_routes_status"`
	User         User       `gorm:"foreignKey:UserID"`
	Categories   []Category `gorm:"many2many:route_categories;constraint:OnDelete:CASCADE"`
	Stops        []Stop     `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Route
func (Route) TableName() string {
	return "routes"
}

// Stop is one ordered point of a route
type Stop struct {
	BaseModel
	RouteID     string  `gorm:"type:varchar(36);not null;index:idx_stops_route_id"`
	Title       string  `gorm:"type:varchar(255);not null"`
	Description string  `gorm:"type:text"`
	Latitude    float64 `gorm:"not null"`
	Longitude   float64 `gorm:"not null"`
	Address     string  `gorm:"type:varchar(500)"`
	OrderNumber int     `gorm:"not null"`
	ImageURL    string  `gorm:"type:varchar(500)"`
	Duration    int
}

// TableName specifies the table name for Stop
func (Stop) TableName() string {
	return "stops"
}

// Comment is a comment or, when ParentCommentID is set, a reply
type Comment struct {
	BaseModel
	RouteID         string  `gorm:"type:varchar(36);not null;index:idx_comments_route_id"`
	UserID          string  `gorm:"type:varchar(36);not null;index:idx_comments_user_id"`
	ParentCommentID *string `gorm:"type:varchar(36);index:idx_comments_parent_id"`
	Content         string  `gorm:"type:text;not null"`
	User            User    `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// models lists every table in migration order
func models() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Route{},
		&Stop{},
		&Comment{},
	}
}
