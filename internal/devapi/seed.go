package devapi

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"routehub-client/internal/domain"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "password123"

// Seed fills an empty database with demo users, categories, routes and threads.
// It does nothing when any user exists.
func Seed(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		alice := &User{FirstName: "Alice", LastName: "Martin", Email: "alice@example.com", UserName: "alice", PasswordHash: string(hash)}
		bob := &User{FirstName: "Bob", LastName: "Keller", Email: "bob@example.com", UserName: "bob", PasswordHash: string(hash)}
		if err := tx.Create([]*User{alice, bob}).Error; err != nil {
			return err
		}

		hiking := &Category{Name: "Hiking", Slug: "hiking", Icon: "🥾"}
		food := &Category{Name: "Food", Slug: "food", Icon: "🍜"}
		city := &Category{Name: "City", Slug: "city", Icon: "🏙"}
		if err := tx.Create([]*Category{hiking, food, city}).Error; err != nil {
			return err
		}

		lakes := &Route{
			UserID:      alice.ID,
			Title:       "Three Lakes Loop",
			Description: "A day hike past three alpine lakes.",
			RouteLink:   "three-lakes-loop",
			IsPublic:    true,
			ViewCount:   42,
			Status:      int(domain.RouteStatusActive),
			Categories:  []Category{*hiking},
			Stops: []Stop{
				{Title: "Trailhead", Latitude: 46.5603, Longitude: 8.0417, OrderNumber: 1, Duration: 10},
				{Title: "Bachalpsee", Latitude: 46.6692, Longitude: 8.0243, OrderNumber: 2, Duration: 45},
				{Title: "Summit hut", Latitude: 46.6810, Longitude: 8.0125, OrderNumber: 3, Duration: 65},
			},
		}
		market := &Route{
			UserID:      bob.ID,
			Title:       "Old Town Food Walk",
			Description: "Street food stops through the old town.",
			RouteLink:   "old-town-food-walk",
			IsPublic:    true,
			ViewCount:   17,
			Status:      int(domain.RouteStatusActive),
			Categories:  []Category{*food, *city},
			Stops: []Stop{
				{Title: "Market hall", Latitude: 47.3769, Longitude: 8.5417, OrderNumber: 1, Duration: 30},
				{Title: "Bakery lane", Latitude: 47.3722, Longitude: 8.5440, OrderNumber: 2, Duration: 20},
			},
		}
		draft := &Route{
			UserID:    alice.ID,
			Title:     "Unfinished coast trip",
			RouteLink: "unfinished-coast-trip",
			IsPublic:  false,
			Status:    int(domain.RouteStatusDraft),
		}
		if err := tx.Create([]*Route{lakes, market, draft}).Error; err != nil {
			return err
		}

		base := time.Now().UTC().Add(-48 * time.Hour)
		thread := []struct {
			key, parent string
			author      *User
			content     string
		}{
			{"c1", "", bob, "Did this last summer, the second lake is the best."},
			{"c2", "c1", alice, "Agreed, go early to get it without crowds."},
			{"c3", "c2", bob, "Good tip, the first cable car is at 8."},
			{"c4", "", alice, "Trail was snow free in late June."},
		}
		ids := map[string]string{}
		for i, t := range thread {
			c := &Comment{RouteID: lakes.ID, UserID: t.author.ID, Content: t.content}
			c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
			if t.parent != "" {
				parentID := ids[t.parent]
				c.ParentCommentID = &parentID
			}
			if err := tx.Create(c).Error; err != nil {
				return err
			}
			ids[t.key] = c.ID
		}
		return nil
	})
}
