package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"routehub-client/internal/client"
	"routehub-client/internal/config"
	"routehub-client/internal/logger"
	"routehub-client/internal/metrics"
	"routehub-client/internal/notify"
	"routehub-client/internal/render"
	"routehub-client/internal/session"
	"routehub-client/internal/thread"
)

// App holds everything a command needs
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Session *session.Manager
	Sink    notify.Sink
	Printer *render.Printer

	Comments   *client.CommentService
	Routes     *client.RouteService
	Categories *client.CategoryService
	Stops      *client.StopService
	Users      *client.UserService
	Engine     *thread.Engine

	registry *prometheus.Registry
	closers  []func() error
}

// NewApp wires the application from configuration
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer, verbose bool) (*App, error) {
	level := cfg.Logger.Level
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Each run gets its own registry, dumped by --metrics
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, log)

	app := &App{
		Config:   cfg,
		Logger:   log,
		Metrics:  m,
		Printer:  render.New(out),
		registry: registry,
	}
	app.closers = append(app.closers, func() error {
		_ = log.Sync()
		return nil
	})

	store, err := app.openSessionStore(ctx)
	if err != nil {
		return nil, err
	}
	app.Session = session.NewManager(store, log)
	if err := app.Session.Load(ctx); err != nil {
		log.Warn("Failed to load stored session", zap.Error(err))
	}

	sink := notify.Sink(notify.NewWriterSink(out))
	if verbose {
		sink = notify.Multi{sink, notify.NewLogSink(log)}
	}
	app.Sink = sink

	c := client.New(client.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		Tokens:         app.Session,
		OnUnauthorized: app.Session.Invalidate,
		Logger:         log,
		Metrics:        m,
	})
	app.Comments = client.NewCommentService(c)
	app.Routes = client.NewRouteService(c)
	app.Categories = client.NewCategoryService(c)
	app.Stops = client.NewStopService(c)
	app.Users = client.NewUserService(c)
	app.Engine = thread.NewEngine(app.Comments, app.Session, sink, log, m)

	log.Debug("Application initialized",
		zap.String("api_url", cfg.API.BaseURL),
		zap.Duration("timeout", cfg.API.Timeout),
		zap.String("session_backend", cfg.Session.Backend),
	)
	return app, nil
}

func (a *App) openSessionStore(ctx context.Context) (session.Store, error) {
	switch a.Config.Session.Backend {
	case "redis":
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		store, err := session.NewRedisStore(connectCtx, a.Config.Session.RedisURL, a.Config.Session.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis session store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return session.NewFileStore(a.Config.Session.File), nil
	}
}

// WriteMetrics writes the metrics collected during this run in the
// Prometheus text format
func (a *App) WriteMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Close releases connections and flushes the logger
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// fail reports err through the sink and marks it as already shown
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}
	a.Sink.Notify(messageOf(err), notify.KindError)
	return reported{err}
}

// warn reports a local problem and marks it as already shown
func (a *App) warn(err error) error {
	a.Sink.Notify(messageOf(err), notify.KindWarning)
	return reported{err}
}
