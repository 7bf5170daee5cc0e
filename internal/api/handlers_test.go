package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FairForge/lakeguard/internal/anomaly"
	"github.com/FairForge/lakeguard/internal/config"
	"github.com/FairForge/lakeguard/internal/database"
)

type fakeExecutor struct {
	result   *database.ResultSet
	err      error
	pingErr  error
	gotQuery string
}

func (f *fakeExecutor) Execute(_ context.Context, query string) (*database.ResultSet, error) {
	f.gotQuery = query
	return f.result, f.err
}

func (f *fakeExecutor) Ping(_ context.Context) error { return f.pingErr }

type fakeScanner struct {
	records []anomaly.Record
	report  *anomaly.Report
	err     error

	gotDays        int
	gotSensitivity string
}

func (f *fakeScanner) Scan(_ context.Context, windowDays int, sensitivity string) ([]anomaly.Record, *anomaly.Report, error) {
	f.gotDays = windowDays
	f.gotSensitivity = sensitivity
	return f.records, f.report, f.err
}

func newTestServer(executor Executor, scanner Scanner) *Server {
	return NewServer(config.Default(), zap.NewNop(), executor, scanner)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHandleQuery_RejectsUnsafeSQL(t *testing.T) {
	executor := &fakeExecutor{}
	s := newTestServer(executor, &fakeScanner{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/query",
		`{"query":"DROP TABLE access_history"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unsafe_operation", resp["kind"])
	assert.Empty(t, executor.gotQuery, "rejected queries never reach the warehouse")
}

func TestHandleQuery_RejectsNonReadSQL(t *testing.T) {
	s := newTestServer(&fakeExecutor{}, &fakeScanner{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/query", `{"query":"SHOW TABLES"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_a_read_query", resp["kind"])
}

func TestHandleQuery_BoundsAndExecutes(t *testing.T) {
	executor := &fakeExecutor{
		result: &database.ResultSet{
			Columns: []string{"user_name", "query_count"},
			Rows:    [][]interface{}{{"alice", int64(12)}},
		},
	}
	s := newTestServer(executor, &fakeScanner{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/query",
		`{"query":"SELECT user_name, query_count FROM usage_stats"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SELECT user_name, query_count FROM usage_stats LIMIT 1000", executor.gotQuery)

	var resp struct {
		Columns  []string `json:"columns"`
		RowCount int      `json:"row_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"user_name", "query_count"}, resp.Columns)
	assert.Equal(t, 1, resp.RowCount)
}

func TestHandleQuery_CallerRowLimitOverride(t *testing.T) {
	executor := &fakeExecutor{result: &database.ResultSet{}}
	s := newTestServer(executor, &fakeScanner{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/query",
		`{"query":"SELECT 1","row_limit":25}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SELECT 1 LIMIT 25", executor.gotQuery)
}

func TestHandleQuery_InvalidBody(t *testing.T) {
	s := newTestServer(&fakeExecutor{}, &fakeScanner{})

	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{"row_limit":10}`},
		{"wrong type", `{"query":42}`},
		{"unknown field", `{"query":"SELECT 1","format":"csv"}`},
		{"not json", `select 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/api/v1/query", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleQuery_UpstreamFailurePropagates(t *testing.T) {
	executor := &fakeExecutor{err: errors.New("warehouse execution: connection refused")}
	s := newTestServer(executor, &fakeScanner{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/query", `{"query":"SELECT 1"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestHandleAnomalies(t *testing.T) {
	scanner := &fakeScanner{
		records: []anomaly.Record{{User: "alice", Kind: anomaly.KindUnusualHours}},
		report:  &anomaly.Report{TotalRecords: 1, AffectedUsers: 1},
	}
	s := newTestServer(&fakeExecutor{}, scanner)

	w := doJSON(t, s, http.MethodGet, "/api/v1/anomalies?days=14&sensitivity=high", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 14, scanner.gotDays)
	assert.Equal(t, "high", scanner.gotSensitivity)
	assert.Contains(t, w.Body.String(), "unusual_hours")
}

func TestHandleAnomalies_Defaults(t *testing.T) {
	scanner := &fakeScanner{report: &anomaly.Report{}}
	s := newTestServer(&fakeExecutor{}, scanner)

	w := doJSON(t, s, http.MethodGet, "/api/v1/anomalies", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, scanner.gotDays)
	assert.Equal(t, "medium", scanner.gotSensitivity)
}

func TestHandleAnomalies_BadDays(t *testing.T) {
	s := newTestServer(&fakeExecutor{}, &fakeScanner{report: &anomaly.Report{}})

	for _, days := range []string{"abc", "-1", "0"} {
		w := doJSON(t, s, http.MethodGet, "/api/v1/anomalies?days="+days, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "days=%s", days)
	}
}

func TestHandleAnomalies_ScanFailure(t *testing.T) {
	scanner := &fakeScanner{err: errors.New("fetch access events: timeout")}
	s := newTestServer(&fakeExecutor{}, scanner)

	w := doJSON(t, s, http.MethodGet, "/api/v1/anomalies", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeExecutor{}, &fakeScanner{})

	w := doJSON(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHandleReady_WarehouseDown(t *testing.T) {
	s := newTestServer(&fakeExecutor{pingErr: errors.New("no route to host")}, &fakeScanner{})

	w := doJSON(t, s, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleQuery_RateLimited(t *testing.T) {
	executor := &fakeExecutor{result: &database.ResultSet{}}
	s := newTestServer(executor, &fakeScanner{})

	limited := 0
	for i := 0; i < 40; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/query",
			strings.NewReader(`{"query":"SELECT 1"}`))
		req.RemoteAddr = "10.0.0.9:1234"
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Positive(t, limited, "burst above the bucket size must hit the limiter")
}
