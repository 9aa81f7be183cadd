package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"routehub-client/internal/config"
	"routehub-client/internal/devapi"
	"routehub-client/internal/logger"
	"routehub-client/internal/metrics"
)

func main() {
	path := os.Getenv("ROUTEHUB_CONFIG")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log = logger.ForService(log, "routehub-devapi")
	defer log.Sync()

	if cfg.DevAPI.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting RouteHub dev API",
		zap.Int("port", cfg.DevAPI.Port),
		zap.String("mode", cfg.DevAPI.Mode),
		zap.String("dsn", cfg.DevAPI.DSN),
	)

	db, err := devapi.OpenDatabase(cfg.DevAPI.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer devapi.CloseDatabase(db)

	if err := devapi.AutoMigrate(db); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	m := metrics.NewWithRegistry(prometheus.DefaultRegisterer, log)
	if err := devapi.RegisterMetricsCallbacks(db, m); err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}

	statsCtx, stopStats := context.WithCancel(context.Background())
	defer stopStats()
	devapi.StartDBStatsCollector(statsCtx, db, m, 15*time.Second)

	if cfg.DevAPI.Seed {
		if err := devapi.Seed(context.Background(), db); err != nil {
			log.Warn("Failed to seed demo data", zap.Error(err))
		} else {
			log.Info("Demo data ready", zap.String("password", devapi.DemoPassword))
		}
	}

	r := devapi.Setup(devapi.Config{
		DB:        db,
		Logger:    log,
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
		JWTSecret: cfg.DevAPI.JWTSecret,
		TokenTTL:  cfg.DevAPI.TokenTTL,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.DevAPI.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Dev API listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DevAPI.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
