package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"routehub-client/internal/metrics"
	"routehub-client/internal/response"
)

const maxResponseBytes = 10 << 20

// HTTP status messages shown to the user, keyed by status code
var statusMessages = map[int]string{
	http.StatusUnauthorized:        "Your session has expired. Please sign in again.",
	http.StatusForbidden:           "You are not allowed to do this.",
	http.StatusNotFound:            "The requested resource was not found.",
	http.StatusInternalServerError: "Server error. Please try again later.",
}

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means the request is sent anonymously.
type TokenSource interface {
	Token() string
}

// Options configures a Client
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	// OnUnauthorized runs after any 401 response, before the error is returned
	OnUnauthorized func()
	HTTPClient     *http.Client
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

// Client is the transport for the RouteHub REST API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// New creates a new RouteHub API client
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	} else if opts.Timeout > 0 && httpClient.Timeout == 0 {
		httpClient.Timeout = opts.Timeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpClient:     httpClient,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logger,
		metrics:        opts.Metrics,
	}
}

// Do sends a request and decodes the response envelope.
// Transport failures, timeouts and non-2xx statuses are returned as *response.AppError.
// A 2xx response is returned as-is; callers classify it with Envelope.Err.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*response.Envelope, error) {
	url := c.baseURL + path
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			c.logger.Error("Failed to marshal request body",
				zap.Error(err),
				zap.String("path", path),
			)
			return nil, &response.AppError{Code: response.ErrCodeInternal, Message: response.GenericErrorMessage, Err: err}
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err), zap.String("url", url))
		return nil, &response.AppError{Code: response.ErrCodeInternal, Message: response.GenericErrorMessage, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordExternalAPICall(path, method, statusCode, duration, err)

	if err != nil {
		c.logger.Warn("RouteHub API request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("duration", duration),
		)
		if isTimeout(err) {
			return nil, response.NewTimeoutError(err)
		}
		return nil, response.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Warn("Failed to read response body",
			zap.Error(err),
			zap.String("path", path),
			zap.String("request_id", requestID),
		)
		if isTimeout(err) {
			return nil, response.NewTimeoutError(err)
		}
		return nil, response.NewNetworkError(err)
	}

	c.logger.Debug("RouteHub API response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		appErr := statusError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		c.logger.Warn("RouteHub API returned non-success status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("path", path),
			zap.String("message", appErr.Message),
			zap.String("request_id", requestID),
		)
		return nil, appErr
	}

	env := &response.Envelope{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			c.logger.Warn("Failed to decode response envelope",
				zap.Error(err),
				zap.String("path", path),
				zap.String("request_id", requestID),
			)
			return nil, &response.AppError{
				Code:       response.ErrCodeInconsistent,
				Message:    response.GenericErrorMessage,
				StatusCode: resp.StatusCode,
				Err:        err,
			}
		}
	}
	return env, nil
}

// statusError maps a non-2xx response to an AppError. Well-known statuses get
// fixed messages; anything else uses the body's field messages, then its error
// strings, then its message field, then the bare status code.
func statusError(status int, raw []byte) *response.AppError {
	appErr := &response.AppError{
		Code:       codeForStatus(status),
		StatusCode: status,
	}
	if msg, ok := statusMessages[status]; ok {
		appErr.Message = msg
		return appErr
	}

	var env response.Envelope
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &env) == nil {
		if msg := env.ErrorMessage(); msg != response.GenericErrorMessage {
			appErr.Message = msg
			return appErr
		}
		if env.Message != "" {
			appErr.Message = env.Message
			return appErr
		}
	}
	appErr.Message = fmt.Sprintf("Error code: %d", status)
	return appErr
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return response.ErrCodeUnauthorized
	case status == http.StatusForbidden:
		return response.ErrCodeForbidden
	case status == http.StatusNotFound:
		return response.ErrCodeNotFound
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return response.ErrCodeTimeout
	case status >= 400 && status < 500:
		return response.ErrCodeValidation
	default:
		return response.ErrCodeServer
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// fetch runs a request, checks the envelope and decodes its payload into T
func fetch[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	env, err := c.Do(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	if err := env.Err(); err != nil {
		return out, err
	}
	if err := env.DecodeData(&out); err != nil {
		return out, &response.AppError{
			Code:    response.ErrCodeInconsistent,
			Message: response.GenericErrorMessage,
			Err:     err,
		}
	}
	return out, nil
}

// send runs a request whose payload is not needed
func send(ctx context.Context, c *Client, method, path string, body any) error {
	env, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	return env.Err()
}
