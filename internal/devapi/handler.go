package devapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
)

// Handler serves the REST endpoints
type Handler struct {
	users      UserService
	categories CategoryService
	routes     RouteService
	stops      StopService
	comments   CommentService
	logger     *zap.Logger
}

// NewHandler creates a Handler
func NewHandler(users UserService, categories CategoryService, routes RouteService, stops StopService, comments CommentService, logger *zap.Logger) *Handler {
	return &Handler{
		users:      users,
		categories: categories,
		routes:     routes,
		stops:      stops,
		comments:   comments,
		logger:     logger,
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	handleServiceError(c, h.logger, err)
}

// requireUser reads the authenticated user id; Auth guarantees it on protected routes
func (h *Handler) requireUser(c *gin.Context) (string, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		SendError(c, http.StatusUnauthorized, "User not authenticated")
	}
	return userID, ok
}

// Register handles POST /users/register
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusCreated, dto.CreatedDto{ID: user.ID})
}

// Login handles POST /users/login
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	resp, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, resp)
}

// ListCategories handles GET /categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, categories)
}

// GetCategory handles GET /categories/:id
func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, category)
}

// GetCategoryBySlug handles GET /categories/slug/:slug
func (h *Handler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, category)
}

// CreateCategory handles POST /categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	created, err := h.categories.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusCreated, created)
}

func (h *Handler) listRoutes(c *gin.Context, q RouteQuery) {
	routes, err := h.routes.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, routes)
}

// ListRoutes handles GET /routes
func (h *Handler) ListRoutes(c *gin.Context) {
	h.listRoutes(c, RouteQuery{})
}

// ListPublicRoutes handles GET /routes/public
func (h *Handler) ListPublicRoutes(c *gin.Context) {
	h.listRoutes(c, RouteQuery{PublicOnly: true})
}

// ListPopularRoutes handles GET /routes/popular
func (h *Handler) ListPopularRoutes(c *gin.Context) {
	h.listRoutes(c, RouteQuery{PublicOnly: true, Popular: true})
}

// ListRoutesByCategory handles GET /routes/category/:categoryId
func (h *Handler) ListRoutesByCategory(c *gin.Context) {
	h.listRoutes(c, RouteQuery{CategoryID: c.Param("categoryId")})
}

// ListRoutesByStatus handles GET /routes/status/:status
func (h *Handler) ListRoutesByStatus(c *gin.Context) {
	status, err := strconv.Atoi(c.Param("status"))
	if err != nil || domain.RouteStatus(status).String() == "unknown" {
		SendError(c, http.StatusBadRequest, "Invalid route status")
		return
	}
	h.listRoutes(c, RouteQuery{Status: status})
}

// GetRoute handles GET /routes/:id
func (h *Handler) GetRoute(c *gin.Context) {
	route, err := h.routes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, route)
}

// GetRouteByLink handles GET /routes/link/:link
func (h *Handler) GetRouteByLink(c *gin.Context) {
	route, err := h.routes.GetByLink(c.Request.Context(), c.Param("link"))
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, route)
}

// CreateRoute handles POST /routes
func (h *Handler) CreateRoute(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	created, err := h.routes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusCreated, created)
}

// DeleteRoute handles DELETE /routes/:id
func (h *Handler) DeleteRoute(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	if err := h.routes.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, true)
}

// IncrementRouteView handles POST /routes/:id/increment-view
func (h *Handler) IncrementRouteView(c *gin.Context) {
	if err := h.routes.IncrementView(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, true)
}

func (h *Handler) setRouteStatus(status domain.RouteStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := h.requireUser(c)
		if !ok {
			return
		}
		if err := h.routes.SetStatus(c.Request.Context(), userID, c.Param("id"), status); err != nil {
			h.fail(c, err)
			return
		}
		SendSuccess(c, http.StatusOK, true)
	}
}

// ListStopsByRoute handles GET /stops/route/:routeId
func (h *Handler) ListStopsByRoute(c *gin.Context) {
	stops, err := h.stops.ListByRoute(c.Request.Context(), c.Param("routeId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, stops)
}

// CreateStop handles POST /stops
func (h *Handler) CreateStop(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	created, err := h.stops.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusCreated, created)
}

// DeleteStop handles DELETE /stops/:id
func (h *Handler) DeleteStop(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	if err := h.stops.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, true)
}

// ListComments handles GET /comments
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.comments.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, comments)
}

// GetComment handles GET /comments/:id
func (h *Handler) GetComment(c *gin.Context) {
	comment, err := h.comments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, comment)
}

// ListCommentsByRoute handles GET /comments/route/:routeId
func (h *Handler) ListCommentsByRoute(c *gin.Context) {
	comments, err := h.comments.ListByRoute(c.Request.Context(), c.Param("routeId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, comments)
}

// CreateComment handles POST /comments
func (h *Handler) CreateComment(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	created, err := h.comments.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusCreated, created)
}

// UpdateComment handles PUT /comments
func (h *Handler) UpdateComment(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	if err := h.comments.Update(c.Request.Context(), userID, &req); err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, true)
}

// DeleteComment handles DELETE /comments/:id
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, true)
}
