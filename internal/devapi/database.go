package devapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"routehub-client/internal/metrics"
)

// OpenDatabase opens dsn with the postgres driver when it looks like a postgres
// URL or keyword DSN, and with sqlite otherwise
func OpenDatabase(dsn string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if !isPostgresDSN(dsn) {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// CloseDatabase closes the underlying connection pool
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

const queryStartKey = "metrics:query_start_time"

// RegisterMetricsCallbacks times every create, query, update and delete
func RegisterMetricsCallbacks(db *gorm.DB, m *metrics.Metrics) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			start, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			m.RecordDBQuery(operation, tx.Statement.Table, time.Since(start.(time.Time)), tx.Error)
		}
	}

	cb := db.Callback()
	steps := []struct {
		operation string
		register  func(name string, before, after func(*gorm.DB)) error
	}{
		{"select", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register(name+"_before", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register(name+"_after", a)
		}},
		{"insert", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register(name+"_before", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register(name+"_after", a)
		}},
		{"update", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register(name+"_before", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register(name+"_after", a)
		}},
		{"delete", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register(name+"_before", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register(name+"_after", a)
		}},
	}

	for _, s := range steps {
		if err := s.register("metrics:"+s.operation, before, after(s.operation)); err != nil {
			return fmt.Errorf("failed to register %s metrics callback: %w", s.operation, err)
		}
	}
	return nil
}

// StartDBStatsCollector samples the connection pool until ctx is done
func StartDBStatsCollector(ctx context.Context, db *gorm.DB, m *metrics.Metrics, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				m.UpdateDBStats(sqlDB.Stats())
			case <-ctx.Done():
				return
			}
		}
	}()
}
