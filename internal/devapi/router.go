package devapi

import (
	"net/http"
	"time"

	"github.com/OrangesCloud/wealist-advanced-go-pkg/health"
	commonmw "github.com/OrangesCloud/wealist-advanced-go-pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"routehub-client/internal/domain"
	"routehub-client/internal/metrics"
)

// Config holds router configuration
type Config struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	JWTSecret string
	TokenTTL  time.Duration
	BasePath  string
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewWithRegistry(prometheus.NewRegistry(), cfg.Logger)
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/api"
	}

	r := gin.New()

	// Recovery stays local so panics still answer with the BaseResult envelope
	r.Use(Recovery(cfg.Logger))
	r.Use(commonmw.Logger(cfg.Logger))
	r.Use(commonmw.DefaultCORS())
	r.Use(Metrics(cfg.Metrics))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	healthHandler := health.NewHandler()
	healthHandler.AddChecker(health.NewDatabaseChecker(cfg.DB))
	healthHandler.RegisterRoutes(r)

	// Initialize repositories
	userRepo := NewUserRepository(cfg.DB)
	categoryRepo := NewCategoryRepository(cfg.DB)
	routeRepo := NewRouteRepository(cfg.DB)
	stopRepo := NewStopRepository(cfg.DB)
	commentRepo := NewCommentRepository(cfg.DB)

	// Initialize services
	issuer := NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	h := NewHandler(
		NewUserService(userRepo, issuer),
		NewCategoryService(categoryRepo),
		NewRouteService(routeRepo, categoryRepo, commentRepo),
		NewStopService(stopRepo, routeRepo),
		NewCommentService(commentRepo, routeRepo, cfg.Logger),
		cfg.Logger,
	)
	auth := Auth(issuer)

	api := r.Group(cfg.BasePath)
	{
		api.GET("/health", healthHandler.HealthHandler())
		api.GET("/ready", healthHandler.ReadyHandler())

		users := api.Group("/users")
		{
			users.POST("/register", h.Register)
			users.POST("/login", h.Login)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", h.ListCategories)
			categories.GET("/:id", h.GetCategory)
			categories.GET("/slug/:slug", h.GetCategoryBySlug)
			categories.POST("", auth, h.CreateCategory)
		}

		routes := api.Group("/routes")
		{
			routes.GET("", h.ListRoutes)
			routes.GET("/public", h.ListPublicRoutes)
			routes.GET("/popular", h.ListPopularRoutes)
			routes.GET("/category/:categoryId", h.ListRoutesByCategory)
			routes.GET("/status/:status", h.ListRoutesByStatus)
			routes.GET("/link/:link", h.GetRouteByLink)
			routes.GET("/:id", h.GetRoute)
			routes.POST("", auth, h.CreateRoute)
			routes.DELETE("/:id", auth, h.DeleteRoute)
			routes.POST("/:id/increment-view", h.IncrementRouteView)
			routes.POST("/:id/publish", auth, h.setRouteStatus(domain.RouteStatusActive))
			routes.POST("/:id/archive", auth, h.setRouteStatus(domain.RouteStatusArchived))
		}

		stops := api.Group("/stops")
		{
			stops.GET("/route/:routeId", h.ListStopsByRoute)
			stops.POST("", auth, h.CreateStop)
			stops.DELETE("/:id", auth, h.DeleteStop)
		}

		comments := api.Group("/comments")
		{
			comments.GET("", h.ListComments)
			comments.GET("/route/:routeId", h.ListCommentsByRoute)
			comments.GET("/:id", h.GetComment)
			comments.POST("", auth, h.CreateComment)
			comments.PUT("", auth, h.UpdateComment)
			comments.DELETE("/:id", auth, h.DeleteComment)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		SendError(c, http.StatusNotFound, "Endpoint not found")
	})

	return r
}
