package http

import (
	"net/http"
	"strconv"
)

const (
	defaultComparisonMonths = 6
	maxComparisonMonths     = 24
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	month, err := pathMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month key, expected YYYY-MM")
		return
	}

	key := analyticsCacheKey(userID, "summary", month.String())
	s.serveCachedJSON(w, r, key, func() (any, error) {
		return s.engine.MonthlySummary(r.Context(), userID, month)
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	month, err := pathMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month key, expected YYYY-MM")
		return
	}

	key := analyticsCacheKey(userID, "breakdown", month.String())
	s.serveCachedJSON(w, r, key, func() (any, error) {
		return s.engine.CategoryBreakdown(r.Context(), userID, month)
	})
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	// An unparsable count falls back to the default rather than failing.
	months := defaultComparisonMonths
	if n, err := strconv.Atoi(r.PathValue("months")); err == nil {
		months = n
	}
	if months < 1 {
		months = 1
	}
	if months > maxComparisonMonths {
		months = maxComparisonMonths
	}

	key := analyticsCacheKey(userID, "comparison", strconv.Itoa(months))
	s.serveCachedJSON(w, r, key, func() (any, error) {
		return s.engine.MonthlyComparison(r.Context(), userID, months)
	})
}
