package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"routehub-client/internal/dto"
	"routehub-client/internal/metrics"
	"routehub-client/internal/response"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...func(*Options)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	o := Options{
		BaseURL: srv.URL + "/api",
		Timeout: 2 * time.Second,
		Logger:  zap.NewNop(),
		Metrics: metrics.NewWithRegistry(prometheus.NewRegistry(), nil),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return New(o)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_ListByRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/comments/route/r1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, `{
			"isSuccess": true,
			"data": [
				{"id": "c1", "routeId": "r1", "userId": "u1", "content": "first", "createdDate": "2024-05-01T10:00:00",
				 "replies": [{"id": "c2", "content": "reply", "createdDate": "2024-05-01T11:00:00Z"}]}
			]
		}`)
	}, func(o *Options) { o.Tokens = staticToken("tok") })

	comments, err := NewCommentService(c).ListByRoute(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "c2", comments[0].Replies[0].ID)
	assert.Equal(t, 10, comments[0].CreatedDate.Hour())
}

func TestClient_CreateSendsParent(t *testing.T) {
	var got dto.CreateCommentRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, `{"data": {"id": "new"}, "messages": []}`)
	})

	parent := "p1"
	id, err := NewCommentService(c).Create(context.Background(), dto.CreateCommentRequest{
		RouteID: "r1", UserID: "u1", Content: "hello", ParentCommentID: &parent,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", id)
	require.NotNil(t, got.ParentCommentID)
	assert.Equal(t, "p1", *got.ParentCommentID)
}

func TestClient_EnvelopeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"isSuccess": false, "errorMessages": ["Content too short"]}`)
	})

	_, err := NewCommentService(c).Create(context.Background(), dto.CreateCommentRequest{RouteID: "r1", Content: "abc"})
	require.Error(t, err)
	assert.Equal(t, response.ErrCodeServer, response.CodeOf(err))
	assert.Equal(t, "Content too short", response.MessageOf(err))
}

func TestClient_EmptyEnvelopeIsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	err := NewCommentService(c).Delete(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, response.ErrCodeInconsistent, response.CodeOf(err))
	assert.Equal(t, response.GenericErrorMessage, response.MessageOf(err))
}

func TestClient_StatusMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{"forbidden", http.StatusForbidden, `{}`, response.ErrCodeForbidden, "You are not allowed to do this."},
		{"not found", http.StatusNotFound, ``, response.ErrCodeNotFound, "The requested resource was not found."},
		{"server error", http.StatusInternalServerError, `{"errorMessages": ["db down"]}`, response.ErrCodeServer, "Server error. Please try again later."},
		{"bad request field messages", http.StatusBadRequest, `{"messages": [{"propertyName": "Content", "message": "Content is required"}]}`, response.ErrCodeValidation, "Content is required"},
		{"bad request error strings", http.StatusBadRequest, `{"errorMessages": ["a", "b"]}`, response.ErrCodeValidation, "a, b"},
		{"conflict message field", http.StatusConflict, `{"message": "Already exists"}`, response.ErrCodeValidation, "Already exists"},
		{"bare status", http.StatusBadGateway, `not json`, response.ErrCodeServer, "Error code: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			err := NewCommentService(c).Delete(context.Background(), "c1")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, response.CodeOf(err))
			assert.Equal(t, tt.wantMsg, response.MessageOf(err))
		})
	}
}

func TestClient_UnauthorizedHook(t *testing.T) {
	var cleared atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{}`)
	}, func(o *Options) { o.OnUnauthorized = func() { cleared.Store(true) } })

	err := NewCommentService(c).Delete(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, response.ErrCodeUnauthorized, response.CodeOf(err))
	assert.True(t, cleared.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, func(o *Options) { o.Timeout = 50 * time.Millisecond })
	defer close(release)

	_, err := NewCommentService(c).ListByRoute(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, response.ErrCodeTimeout, response.CodeOf(err))
	assert.Equal(t, response.NetworkErrorMessage, response.MessageOf(err))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url, Timeout: time.Second})
	_, err := NewCommentService(c).ListByRoute(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, response.ErrCodeNetwork, response.CodeOf(err))
	assert.Equal(t, response.NetworkErrorMessage, response.MessageOf(err))
}

func TestRouteService_GetByLinkOrdersStops(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/routes/link/old-town", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"isSuccess": true, "data": {
			"id": "r1", "title": "Old Town", "routeLink": "old-town", "status": 2,
			"stops": [
				{"id": "s2", "title": "Bridge", "orderNumber": 2},
				{"id": "s1", "title": "Square", "orderNumber": 1}
			]
		}}`)
	})

	detail, err := NewRouteService(c).GetByLink(context.Background(), "old-town")
	require.NoError(t, err)
	assert.Equal(t, "Old Town", detail.Title)
	require.Len(t, detail.Stops, 2)
	assert.Equal(t, "s1", detail.Stops[0].ID)
	assert.Equal(t, "active", detail.Status.String())
}
