package devapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"routehub-client/internal/dto"
	"routehub-client/internal/metrics"
	"routehub-client/internal/response"
)

type testAPI struct {
	server   *httptest.Server
	db       *gorm.DB
	registry *prometheus.Registry
}

// setupTestAPI serves a seeded in-memory database
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := OpenDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())
	require.NoError(t, RegisterMetricsCallbacks(db, m))
	require.NoError(t, Seed(context.Background(), db))

	router := Setup(Config{
		DB:        db,
		Logger:    zap.NewNop(),
		Metrics:   m,
		Gatherer:  registry,
		JWTSecret: "test-secret",
	})
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = CloseDatabase(db)
	})
	return &testAPI{server: server, db: db, registry: registry}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, response.Envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	status, env := a.do(t, http.MethodPost, "/api/users/login", "", dto.LoginRequest{Email: email, Password: DemoPassword})
	require.Equal(t, http.StatusOK, status, env.ErrorMessage())
	var resp dto.LoginResponse
	require.NoError(t, env.DecodeData(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (a *testAPI) routeByLink(t *testing.T, link string) dto.RouteDetailDto {
	t.Helper()
	status, env := a.do(t, http.MethodGet, "/api/routes/link/"+link, "", nil)
	require.Equal(t, http.StatusOK, status)
	var route dto.RouteDetailDto
	require.NoError(t, env.DecodeData(&route))
	return route
}

func (a *testAPI) thread(t *testing.T, routeID string) []dto.CommentDetailDto {
	t.Helper()
	status, env := a.do(t, http.MethodGet, "/api/comments/route/"+routeID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var roots []dto.CommentDetailDto
	require.NoError(t, env.DecodeData(&roots))
	return roots
}

func TestLogin(t *testing.T) {
	api := setupTestAPI(t)

	status, env := api.do(t, http.MethodPost, "/api/users/login", "", dto.LoginRequest{Email: "alice@example.com", Password: DemoPassword})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Succeeded())

	var resp dto.LoginResponse
	require.NoError(t, env.DecodeData(&resp))
	assert.Equal(t, "alice", resp.User.UserName)
	assert.False(t, resp.ExpirationTime.IsZero())

	issuer := NewTokenIssuer("test-secret", 0)
	userID, err := issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	status, env = api.do(t, http.MethodPost, "/api/users/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid email or password", env.ErrorMessage())
}

func TestRegister(t *testing.T) {
	api := setupTestAPI(t)

	req := dto.RegisterRequest{UserName: "carol", Email: "carol@example.com", Password: "secret1", FirstName: "Carol", LastName: "Ng"}
	status, env := api.do(t, http.MethodPost, "/api/users/register", "", req)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Succeeded())

	status, env = api.do(t, http.MethodPost, "/api/users/register", "", req)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Succeeded())

	status, env = api.do(t, http.MethodPost, "/api/users/register", "", dto.RegisterRequest{UserName: "dd", Email: "bad"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotEmpty(t, env.Messages)
	props := make([]string, 0, len(env.Messages))
	for _, m := range env.Messages {
		props = append(props, m.PropertyName)
	}
	assert.Contains(t, props, "userName")
	assert.Contains(t, props, "email")
	assert.Contains(t, props, "password")
}

func TestListByRouteNestsReplies(t *testing.T) {
	api := setupTestAPI(t)
	route := api.routeByLink(t, "three-lakes-loop")

	roots := api.thread(t, route.ID)
	require.Len(t, roots, 2)

	first := roots[0]
	assert.Equal(t, "Did this last summer, the second lake is the best.", first.Content)
	assert.Nil(t, first.ParentCommentID)
	require.NotNil(t, first.User)
	assert.Equal(t, "bob", first.User.UserName)
	require.Len(t, first.Replies, 1)
	require.Len(t, first.Replies[0].Replies, 1)
	assert.Equal(t, "Good tip, the first cable car is at 8.", first.Replies[0].Replies[0].Content)

	assert.Empty(t, roots[1].Replies)
	assert.Len(t, route.Comments, 2)
	assert.Equal(t, 4, route.CommentCount)
}

func TestCreateComment(t *testing.T) {
	api := setupTestAPI(t)
	route := api.routeByLink(t, "three-lakes-loop")
	other := api.routeByLink(t, "old-town-food-walk")
	token := api.login(t, "bob@example.com")
	c2 := api.thread(t, route.ID)[0].Replies[0].ID

	t.Run("requires a token", func(t *testing.T) {
		status, _ := api.do(t, http.MethodPost, "/api/comments", "", dto.CreateCommentRequest{RouteID: route.ID, Content: "hello"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("rejects short content", func(t *testing.T) {
		status, env := api.do(t, http.MethodPost, "/api/comments", token, dto.CreateCommentRequest{RouteID: route.ID, Content: "ab"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "content must be at least 3 characters", env.ErrorMessage())

		status, env = api.do(t, http.MethodPost, "/api/comments", token, dto.CreateCommentRequest{RouteID: route.ID, Content: "  a  "})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Comment must be at least 3 characters", env.ErrorMessage())
	})

	t.Run("rejects a parent from another route", func(t *testing.T) {
		status, env := api.do(t, http.MethodPost, "/api/comments", token, dto.CreateCommentRequest{RouteID: other.ID, Content: "wrong place", ParentCommentID: &c2})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Parent comment belongs to another route", env.ErrorMessage())
	})

	t.Run("unknown route", func(t *testing.T) {
		status, _ := api.do(t, http.MethodPost, "/api/comments", token, dto.CreateCommentRequest{RouteID: "missing", Content: "hello"})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("reply lands under its parent", func(t *testing.T) {
		status, env := api.do(t, http.MethodPost, "/api/comments", token, dto.CreateCommentRequest{RouteID: route.ID, Content: "  third level reply  ", ParentCommentID: &c2})
		require.Equal(t, http.StatusCreated, status)
		var created dto.CreatedDto
		require.NoError(t, env.DecodeData(&created))
		require.NotEmpty(t, created.ID)

		replies := api.thread(t, route.ID)[0].Replies[0].Replies
		require.Len(t, replies, 2)
		assert.Equal(t, created.ID, replies[1].ID)
		assert.Equal(t, "third level reply", replies[1].Content)
		require.NotNil(t, replies[1].ParentCommentID)
		assert.Equal(t, c2, *replies[1].ParentCommentID)
	})
}

func TestDeleteComment(t *testing.T) {
	api := setupTestAPI(t)
	route := api.routeByLink(t, "three-lakes-loop")
	alice := api.login(t, "alice@example.com")
	bob := api.login(t, "bob@example.com")

	roots := api.thread(t, route.ID)
	c1, c4 := roots[0].ID, roots[1].ID

	status, _ := api.do(t, http.MethodDelete, "/api/comments/"+c4, bob, nil)
	assert.Equal(t, http.StatusForbidden, status, "bob neither wrote c4 nor owns the route")

	// alice owns the route, so she may remove bob's comment
	status, env := api.do(t, http.MethodDelete, "/api/comments/"+c1, alice, nil)
	require.Equal(t, http.StatusOK, status, env.ErrorMessage())

	roots = api.thread(t, route.ID)
	require.Len(t, roots, 1)
	assert.Equal(t, c4, roots[0].ID)

	var remaining int64
	require.NoError(t, api.db.Model(&Comment{}).Where("route_id = ?", route.ID).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining, "replies go with their parent")

	status, _ = api.do(t, http.MethodDelete, "/api/comments/"+c1, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateComment(t *testing.T) {
	api := setupTestAPI(t)
	route := api.routeByLink(t, "three-lakes-loop")
	alice := api.login(t, "alice@example.com")
	c1 := api.thread(t, route.ID)[0].ID

	status, _ := api.do(t, http.MethodPut, "/api/comments", alice, dto.UpdateCommentRequest{ID: c1, Content: "edited by someone else"})
	assert.Equal(t, http.StatusForbidden, status)

	bob := api.login(t, "bob@example.com")
	status, _ = api.do(t, http.MethodPut, "/api/comments", bob, dto.UpdateCommentRequest{ID: c1, Content: "edited"})
	require.Equal(t, http.StatusOK, status)

	status, env := api.do(t, http.MethodGet, "/api/comments/"+c1, "", nil)
	require.Equal(t, http.StatusOK, status)
	var got dto.CommentDetailDto
	require.NoError(t, env.DecodeData(&got))
	assert.Equal(t, "edited", got.Content)
	assert.Len(t, got.Replies, 1)
}

func TestRouteListings(t *testing.T) {
	api := setupTestAPI(t)

	titles := func(path string) []string {
		status, env := api.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, status)
		var routes []dto.RouteDto
		require.NoError(t, env.DecodeData(&routes))
		out := make([]string, 0, len(routes))
		for _, r := range routes {
			out = append(out, r.RouteLink)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"three-lakes-loop", "old-town-food-walk", "unfinished-coast-trip"}, titles("/api/routes"))
	assert.ElementsMatch(t, []string{"three-lakes-loop", "old-town-food-walk"}, titles("/api/routes/public"))
	assert.Equal(t, []string{"three-lakes-loop", "old-town-food-walk"}, titles("/api/routes/popular"))
	assert.Equal(t, []string{"unfinished-coast-trip"}, titles("/api/routes/status/1"))

	status, env := api.do(t, http.MethodGet, "/api/categories/slug/food", "", nil)
	require.Equal(t, http.StatusOK, status)
	var food dto.CategoryDto
	require.NoError(t, env.DecodeData(&food))
	assert.Equal(t, []string{"old-town-food-walk"}, titles("/api/routes/category/"+food.ID))

	status, _ = api.do(t, http.MethodGet, "/api/routes/status/9", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouteCounts(t *testing.T) {
	api := setupTestAPI(t)

	status, env := api.do(t, http.MethodGet, "/api/routes/public", "", nil)
	require.Equal(t, http.StatusOK, status)
	var routes []dto.RouteDto
	require.NoError(t, env.DecodeData(&routes))

	counts := map[string][2]int{}
	for _, r := range routes {
		counts[r.RouteLink] = [2]int{r.StopCount, r.CommentCount}
	}
	assert.Equal(t, [2]int{3, 4}, counts["three-lakes-loop"])
	assert.Equal(t, [2]int{2, 0}, counts["old-town-food-walk"])

	detail := api.routeByLink(t, "three-lakes-loop")
	require.Len(t, detail.Stops, 3)
	for i, s := range detail.Stops {
		assert.Equal(t, i+1, s.OrderNumber)
	}
}

func TestRouteOwnership(t *testing.T) {
	api := setupTestAPI(t)
	draft := api.routeByLink(t, "unfinished-coast-trip")
	alice := api.login(t, "alice@example.com")
	bob := api.login(t, "bob@example.com")

	status, _ := api.do(t, http.MethodPost, "/api/routes/"+draft.ID+"/publish", bob, struct{}{})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(t, http.MethodPost, "/api/routes/"+draft.ID+"/publish", alice, struct{}{})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, api.routeByLink(t, "unfinished-coast-trip").Status)

	status, _ = api.do(t, http.MethodPost, "/api/routes/"+draft.ID+"/archive", alice, struct{}{})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, api.routeByLink(t, "unfinished-coast-trip").Status)

	status, _ = api.do(t, http.MethodDelete, "/api/routes/"+draft.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = api.do(t, http.MethodDelete, "/api/routes/"+draft.ID, alice, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = api.do(t, http.MethodGet, "/api/routes/"+draft.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateRouteAndStops(t *testing.T) {
	api := setupTestAPI(t)
	bob := api.login(t, "bob@example.com")

	status, env := api.do(t, http.MethodGet, "/api/categories/slug/city", "", nil)
	require.Equal(t, http.StatusOK, status)
	var city dto.CategoryDto
	require.NoError(t, env.DecodeData(&city))

	req := dto.CreateRouteRequest{Title: "Night walk", RouteLink: "night-walk", IsPublic: true, CategoryIDs: []string{city.ID}}
	status, env = api.do(t, http.MethodPost, "/api/routes", bob, req)
	require.Equal(t, http.StatusCreated, status, env.ErrorMessage())
	var created dto.CreatedDto
	require.NoError(t, env.DecodeData(&created))

	status, _ = api.do(t, http.MethodPost, "/api/routes", bob, req)
	assert.Equal(t, http.StatusConflict, status)

	req.RouteLink = "other-link"
	req.CategoryIDs = []string{"nope"}
	status, _ = api.do(t, http.MethodPost, "/api/routes", bob, req)
	assert.Equal(t, http.StatusBadRequest, status)

	stop := dto.CreateStopRequest{RouteID: created.ID, Title: "Bridge", Latitude: 47.1, Longitude: 8.5, OrderNumber: 1}
	status, env = api.do(t, http.MethodPost, "/api/stops", bob, stop)
	require.Equal(t, http.StatusCreated, status, env.ErrorMessage())
	var stopID dto.CreatedDto
	require.NoError(t, env.DecodeData(&stopID))

	alice := api.login(t, "alice@example.com")
	status, _ = api.do(t, http.MethodPost, "/api/stops", alice, stop)
	assert.Equal(t, http.StatusForbidden, status)

	stop.Latitude = 120
	status, _ = api.do(t, http.MethodPost, "/api/stops", bob, stop)
	assert.Equal(t, http.StatusBadRequest, status)

	detail := api.routeByLink(t, "night-walk")
	assert.Equal(t, 1, detail.Status)
	require.Len(t, detail.Categories, 1)
	assert.Equal(t, "city", detail.Categories[0].Slug)
	require.Len(t, detail.Stops, 1)

	status, _ = api.do(t, http.MethodDelete, "/api/stops/"+stopID.ID, bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, api.routeByLink(t, "night-walk").Stops)
}

func TestCreatePrivateRouteStaysPrivate(t *testing.T) {
	api := setupTestAPI(t)
	bob := api.login(t, "bob@example.com")

	req := dto.CreateRouteRequest{Title: "Secret cove", RouteLink: "secret-cove", IsPublic: false}
	status, env := api.do(t, http.MethodPost, "/api/routes", bob, req)
	require.Equal(t, http.StatusCreated, status, env.ErrorMessage())

	var stored Route
	require.NoError(t, api.db.Where("route_link = ?", "secret-cove").First(&stored).Error)
	assert.False(t, stored.IsPublic)
	assert.False(t, api.routeByLink(t, "secret-cove").IsPublic)

	for _, path := range []string{"/api/routes/public", "/api/routes/popular"} {
		status, env := api.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, status)
		var routes []dto.RouteDto
		require.NoError(t, env.DecodeData(&routes))
		for _, r := range routes {
			assert.NotEqual(t, "secret-cove", r.RouteLink, path)
			assert.NotEqual(t, "unfinished-coast-trip", r.RouteLink, path)
		}
	}
}

func TestIncrementView(t *testing.T) {
	api := setupTestAPI(t)
	route := api.routeByLink(t, "old-town-food-walk")

	status, _ := api.do(t, http.MethodPost, "/api/routes/"+route.ID+"/increment-view", "", struct{}{})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, route.ViewCount+1, api.routeByLink(t, "old-town-food-walk").ViewCount)

	status, _ = api.do(t, http.MethodPost, "/api/routes/missing/increment-view", "", struct{}{})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthMiddleware(t *testing.T) {
	api := setupTestAPI(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"bad token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodDelete, api.server.URL+"/api/comments/x", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			var env response.Envelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
			assert.Equal(t, response.OutcomeFailure, env.Classify())
		})
	}

	other := NewTokenIssuer("another-secret", 0)
	token, _, err := other.Issue("someone")
	require.NoError(t, err)
	status, _ := api.do(t, http.MethodDelete, "/api/comments/x", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMetricsEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	api.routeByLink(t, "three-lakes-loop")

	resp, err := http.Get(api.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "routehub_http_requests_total"))
	assert.True(t, strings.Contains(string(body), "routehub_db_query_duration_seconds"))

}

func TestHealthEndpoints(t *testing.T) {
	api := setupTestAPI(t)

	for _, path := range []string{"/health", "/ready", "/api/health", "/api/ready"} {
		resp, err := http.Get(api.server.URL + path)
		require.NoError(t, err)
		var body struct {
			Status string `json:"status"`
			Checks map[string]struct {
				Status string `json:"status"`
			} `json:"checks"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "healthy", body.Status, path)
		if strings.HasSuffix(path, "/ready") {
			assert.Equal(t, "healthy", body.Checks["database"].Status, path)
		}
	}

	resp, err := http.Get(api.server.URL + "/api/routes")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"), "requests are tagged by the logging middleware")
}

func TestNestComments(t *testing.T) {
	ptr := func(s string) *string { return &s }
	rows := []Comment{
		{BaseModel: BaseModel{ID: "a"}},
		{BaseModel: BaseModel{ID: "b"}, ParentCommentID: ptr("a")},
		{BaseModel: BaseModel{ID: "orphan"}, ParentCommentID: ptr("gone")},
		{BaseModel: BaseModel{ID: "self"}, ParentCommentID: ptr("self")},
		{BaseModel: BaseModel{ID: "c"}, ParentCommentID: ptr("b")},
	}

	roots := nestComments(rows)
	require.Len(t, roots, 3)
	assert.Equal(t, "a", roots[0].ID)
	assert.Equal(t, "orphan", roots[1].ID)
	assert.Nil(t, roots[1].ParentCommentID)
	assert.Equal(t, "self", roots[2].ID)
	assert.Nil(t, roots[2].ParentCommentID)

	require.Len(t, roots[0].Replies, 1)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, "c", roots[0].Replies[0].Replies[0].ID)
	assert.Nil(t, toUserBasic(&rows[0].User), "rows without a loaded author carry no user")
}
