package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// defaultUserID is assumed when the X-User-ID header is absent.
const defaultUserID int64 = 1

// userIDFromRequest reads the acting user from the X-User-ID header.
func userIDFromRequest(r *http.Request) int64 {
	v := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if v == "" {
		return defaultUserID
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return defaultUserID
	}
	return id
}

// pathMonth parses the {month} path segment as a "YYYY-MM" key.
func pathMonth(r *http.Request) (core.MonthKey, error) {
	return core.ParseMonthKey(r.PathValue("month"))
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeInternalError logs the real error and sends a generic body.
func writeInternalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.ErrorContext(r.Context(), "Request failed",
		"operation", op, "url", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// analyticsCacheKey scopes cached responses by user, endpoint and argument.
func analyticsCacheKey(userID int64, endpoint, arg string) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":" + endpoint + ":" + arg
}

// invalidateAnalytics drops every cached analytics response for one user.
// Called after any write that can change derived numbers.
func (s *Server) invalidateAnalytics(userID int64) {
	s.analyticsCache.DeletePrefix("user:" + strconv.FormatInt(userID, 10) + ":")
}

// serveCachedJSON returns the cached body for key, or computes it via fn,
// caches and serves it.
func (s *Server) serveCachedJSON(w http.ResponseWriter, r *http.Request, key string, fn func() (any, error)) {
	if body, ok := s.analyticsCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	v, err := fn()
	if err != nil {
		writeInternalError(w, r, "analytics", err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		writeInternalError(w, r, "analytics", err)
		return
	}
	body = append(body, '\n')
	s.analyticsCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
