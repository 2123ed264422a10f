package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	month, err := pathMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month key, expected YYYY-MM")
		return
	}

	budget, err := s.budgetSvc.GetBudget(r.Context(), userID, month)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no budget for "+month.String())
		return
	}
	if err != nil {
		writeInternalError(w, r, "get budget", err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	var budget core.Budget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	budget.UserID = userID

	if _, err := core.ParseMonthKey(budget.MonthYear); err != nil {
		writeError(w, http.StatusBadRequest, "monthYear must be a YYYY-MM key")
		return
	}

	stored, err := s.budgetSvc.SetBudget(r.Context(), budget)
	if err != nil {
		writeInternalError(w, r, "set budget", err)
		return
	}

	s.invalidateAnalytics(userID)
	writeJSON(w, http.StatusOK, stored)
}

// recommendationRequest carries the income the allocation is computed from.
type recommendationRequest struct {
	Income *float64 `json:"income"`
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Income == nil || *req.Income <= 0 {
		writeError(w, http.StatusBadRequest, "income must be a number greater than 0")
		return
	}

	income := core.Money{Cents: int64(*req.Income*100 + 0.5)}
	writeJSON(w, http.StatusOK, core.Recommend(income))
}
