package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fintrack/internal/store"
)

// settingsRequest is a partial update: only set fields change.
type settingsRequest struct {
	Currency             *string   `json:"currency"`
	EnableBudgetWarnings *bool     `json:"enableBudgetWarnings"`
	PaymentIntegrations  *[]string `json:"paymentIntegrations"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	user, err := s.store.GetUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeInternalError(w, r, "get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeInternalError(w, r, "update settings", err)
		return
	}

	if req.Currency != nil {
		user.Currency = sanitizeInput(*req.Currency)
	}
	if req.EnableBudgetWarnings != nil {
		user.EnableBudgetWarnings = *req.EnableBudgetWarnings
	}
	if req.PaymentIntegrations != nil {
		user.PaymentIntegrations = *req.PaymentIntegrations
	}

	updated, err := s.store.UpdateUser(r.Context(), userID, user)
	if err != nil {
		writeInternalError(w, r, "update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
