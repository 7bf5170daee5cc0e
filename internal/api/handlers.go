package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/FairForge/lakeguard/internal/gate"
)

// QueryRequest is the body for POST /api/v1/query.
type QueryRequest struct {
	Query    string `json:"query"`
	RowLimit int    `json:"row_limit,omitempty"`
}

// handleQuery gates a caller-authored SQL statement and executes it.
// Rejections come back as structured refusals, never partial executions.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	if !s.limiter.Allow(caller) {
		s.metrics.RateLimitHits.WithLabelValues(caller).Inc()
		s.respondError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
		return
	}

	var req QueryRequest
	if err := decodeQueryRequest(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	rowLimit := req.RowLimit
	if rowLimit <= 0 {
		rowLimit = s.config.Query.RowLimit
	}

	bounded, err := gate.ValidateAndBound(req.Query, rowLimit)
	if err != nil {
		var rejection *gate.RejectionError
		if errors.As(err, &rejection) {
			s.metrics.GateRejections.WithLabelValues(string(rejection.Kind)).Inc()
			s.respondJSON(w, http.StatusForbidden, map[string]string{
				"error": rejection.Reason,
				"kind":  string(rejection.Kind),
			})
			return
		}
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.executor.Execute(r.Context(), bounded)
	if err != nil {
		// Upstream failures propagate unchanged; no retry, no recovery.
		s.respondError(w, http.StatusBadGateway, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"columns":   result.Columns,
		"rows":      result.Rows,
		"row_count": len(result.Rows),
	})
}

// handleAnomalies runs a full access-pattern scan for the requested
// window and sensitivity.
func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	windowDays := s.config.Analysis.WindowDays
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, errors.New("days must be a positive integer"))
			return
		}
		windowDays = n
	}

	sensitivity := r.URL.Query().Get("sensitivity")
	if sensitivity == "" {
		sensitivity = s.config.Analysis.Sensitivity
	}

	start := time.Now()
	records, report, err := s.scanner.Scan(r.Context(), windowDays, sensitivity)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err)
		return
	}
	s.metrics.ScanDuration.Observe(time.Since(start).Seconds())
	for kind, count := range report.KindCounts {
		s.metrics.AnomaliesDetected.WithLabelValues(string(kind)).Add(float64(count))
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"report":  report,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.executor.Ping(r.Context()); err != nil {
		s.respondError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// callerID identifies the requester for rate limiting: the authenticated
// subject when present, otherwise the remote address.
func callerID(r *http.Request) string {
	if sub, ok := SubjectFromContext(r.Context()); ok {
		return sub
	}
	return r.RemoteAddr
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.logger.Error("API error", zap.Error(err), zap.Int("status", status))
	s.respondJSON(w, status, map[string]string{
		"error": err.Error(),
	})
}
