package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"gorm.io/gorm"
)

func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), nil)
}

// Helper function to get counter value
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

// Helper function to get gauge value
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()

	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal should not be nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration should not be nil")
	}
	if m.ExternalAPIRequestDuration == nil {
		t.Error("ExternalAPIRequestDuration should not be nil")
	}
	if m.ExternalAPIRequestsTotal == nil {
		t.Error("ExternalAPIRequestsTotal should not be nil")
	}
	if m.ExternalAPIErrors == nil {
		t.Error("ExternalAPIErrors should not be nil")
	}
	if m.ThreadLoadsTotal == nil {
		t.Error("ThreadLoadsTotal should not be nil")
	}
	if m.StaleLoadsDiscardedTotal == nil {
		t.Error("StaleLoadsDiscardedTotal should not be nil")
	}
}

func TestRecordExternalAPICall(t *testing.T) {
	m := getTestMetrics()

	m.RecordExternalAPICall("/comments/route/3F2504E0-4F89-11D3-9A0C-0305E82C3301", "GET", 200, 20*time.Millisecond, nil)
	m.RecordExternalAPICall("/comments/route/3f2504e0-4f89-11d3-9a0c-0305e82c3301", "GET", 404, 10*time.Millisecond, nil)

	total := getCounterValue(t, m.ExternalAPIRequestsTotal.WithLabelValues("/comments/route/{id}", "GET", "200"))
	if total != 1 {
		t.Errorf("Expected 1 successful call, got %f", total)
	}
	errs := getCounterValue(t, m.ExternalAPIErrors.WithLabelValues("/comments/route/{id}", "not_found"))
	if errs != 1 {
		t.Errorf("Expected 1 not_found error, got %f", errs)
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		status int
		err    error
		want   string
	}{
		{400, nil, "bad_request"},
		{401, nil, "unauthorized"},
		{418, nil, "client_error"},
		{503, nil, "service_unavailable"},
		{599, nil, "server_error"},
		{0, context.DeadlineExceeded, "timeout"},
		{0, fmt.Errorf("wrapped: %w", context.DeadlineExceeded), "timeout"},
		{0, errors.New("dial tcp: connection refused"), "connection_refused"},
		{0, errors.New("lookup api: no such host"), "dns_error"},
		{0, errors.New("unexpected EOF"), "connection_reset"},
		{0, errors.New("something else"), "network_error"},
		{0, nil, "unknown"},
	}

	for _, tt := range tests {
		if got := getErrorType(tt.status, tt.err); got != tt.want {
			t.Errorf("getErrorType(%d, %v) = %s, want %s", tt.status, tt.err, got, tt.want)
		}
	}
}

func TestThreadMetrics(t *testing.T) {
	m := getTestMetrics()

	m.RecordThreadLoad(ResultSuccess)
	m.RecordThreadLoad(ResultStale)
	m.IncrementStaleLoadsDiscarded()
	m.SetThreadNodes(7)
	m.RecordCommentMutation("create", ResultSuccess)
	m.RecordValidationRejection("content_too_short")

	if v := getCounterValue(t, m.ThreadLoadsTotal.WithLabelValues(ResultSuccess)); v != 1 {
		t.Errorf("Expected 1 successful load, got %f", v)
	}
	if v := getCounterValue(t, m.StaleLoadsDiscardedTotal); v != 1 {
		t.Errorf("Expected 1 stale load, got %f", v)
	}
	if v := getGaugeValue(t, m.ThreadNodes); v != 7 {
		t.Errorf("Expected 7 nodes, got %f", v)
	}
	if v := getCounterValue(t, m.CommentMutationsTotal.WithLabelValues("create", ResultSuccess)); v != 1 {
		t.Errorf("Expected 1 create, got %f", v)
	}
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	m.RecordThreadLoad(ResultSuccess)
	m.RecordExternalAPICall("/x", "GET", 200, time.Millisecond, nil)
	m.RecordHTTPRequest("GET", "/x", 200, time.Millisecond)
}

func TestCategorizeStatus(t *testing.T) {
	cases := map[int]string{200: "2xx", 302: "3xx", 404: "4xx", 500: "5xx", 100: "unknown"}
	for code, want := range cases {
		if got := categorizeStatus(code); got != want {
			t.Errorf("categorizeStatus(%d) = %s, want %s", code, got, want)
		}
	}
}

func TestDatabaseMetrics(t *testing.T) {
	m := getTestMetrics()

	m.RecordDBQuery("SELECT", "comments", 5*time.Millisecond, nil)
	m.RecordDBQuery("select", "comments", time.Millisecond, gorm.ErrRecordNotFound)
	m.RecordDBQuery("delete", "", time.Millisecond, errors.New("locked"))
	m.UpdateDBStats(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2})

	if v := getCounterValue(t, m.DBQueryErrors.WithLabelValues("select", "comments")); v != 0 {
		t.Errorf("Expected not-found to be ignored, got %f errors", v)
	}
	if v := getCounterValue(t, m.DBQueryErrors.WithLabelValues("delete", "unknown")); v != 1 {
		t.Errorf("Expected 1 delete error, got %f", v)
	}
	if v := getGaugeValue(t, m.DBConnectionsOpen); v != 3 {
		t.Errorf("Expected 3 open connections, got %f", v)
	}
	if v := getGaugeValue(t, m.DBConnectionsIdle); v != 2 {
		t.Errorf("Expected 2 idle connections, got %f", v)
	}
}
