package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/csvimport"
	"fintrack/internal/store"
)

// transactionRequest is the write shape for single-transaction endpoints.
type transactionRequest struct {
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
	Merchant    string     `json:"merchant"`
	Notes       string     `json:"notes"`
}

var transactionDateLayouts = []string{time.RFC3339, "2006-01-02"}

func (req transactionRequest) toTransaction(userID int64) (core.Transaction, error) {
	var date time.Time
	var err error
	for _, layout := range transactionDateLayouts {
		if date, err = time.Parse(layout, req.Date); err == nil {
			break
		}
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date %q", req.Date)
	}

	desc := sanitizeInput(req.Description)
	category := core.CategoryOther
	if req.Category != "" {
		category = core.ParseCategory(req.Category)
	} else if desc != "" {
		category = core.Classify(desc)
	}

	return core.Transaction{
		UserID:      userID,
		Date:        date.UTC(),
		Description: desc,
		Amount:      req.Amount,
		Category:    category,
		Merchant:    sanitizeInput(req.Merchant),
		Notes:       sanitizeInput(req.Notes),
	}, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	txs, err := s.store.GetTransactionsByUser(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, "list transactions", err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleListTransactionsByMonth(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	month, err := pathMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month key, expected YYYY-MM")
		return
	}

	txs, err := s.store.GetTransactionsByUserAndMonth(r.Context(), userID, month)
	if err != nil {
		writeInternalError(w, r, "list transactions by month", err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := req.toTransaction(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.importSvc.CreateTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeInternalError(w, r, "create transaction", err)
		return
	}

	s.invalidateAnalytics(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := req.toTransaction(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateTransaction(r.Context(), id, tx)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		writeInternalError(w, r, "update transaction", err)
		return
	}

	s.invalidateAnalytics(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeInternalError(w, r, "delete transaction", err)
		return
	}

	s.invalidateAnalytics(userID)
	w.WriteHeader(http.StatusNoContent)
}

// uploadResponse is the body of a successful CSV import.
type uploadResponse struct {
	Message      string             `json:"message"`
	Transactions []core.Transaction `json:"transactions"`
	Errors       []string           `json:"errors,omitempty"`
}

func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)

	var rows []csvimport.RawRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		// Structural error: the batch is rejected before any row runs.
		writeError(w, http.StatusBadRequest, "request body must be a JSON array of rows")
		return
	}

	created, diags, err := s.importSvc.ImportCSV(r.Context(), userID, rows)
	if err != nil {
		writeInternalError(w, r, "import csv", err)
		return
	}
	if created == nil {
		created = []core.Transaction{}
	}

	s.invalidateAnalytics(userID)
	s.reqLog.LogImportCompleted(r.Context(), userID, len(created), len(diags))
	writeJSON(w, http.StatusCreated, uploadResponse{
		Message:      fmt.Sprintf("Imported %d transactions", len(created)),
		Transactions: created,
		Errors:       diags,
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrInvalidCategory)
}
