package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/csvimport"
	"fintrack/internal/store"
)

// ImportService orchestrates transaction writes: normalization, persistence
// and the follow-up budget-warning check.
type ImportService struct {
	store     store.Store
	publisher AlertPublisher
}

func NewImportService(store store.Store, publisher AlertPublisher) *ImportService {
	return &ImportService{
		store:     store,
		publisher: publisher,
	}
}

// ImportCSV normalizes raw CSV rows into transactions and stores them in one
// batch. Rows that cannot be parsed become placeholder entries; the returned
// diagnostics describe them. After a successful import the budget-warning
// check runs for every month the batch touched.
func (s *ImportService) ImportCSV(ctx context.Context, userID int64, rows []csvimport.RawRow) ([]core.Transaction, []string, error) {
	txs, diags := csvimport.Normalize(rows, userID)
	if len(txs) == 0 {
		return nil, diags, nil
	}

	created, err := s.store.CreateTransactions(ctx, txs)
	if err != nil {
		return nil, diags, fmt.Errorf("store imported transactions: %w", err)
	}

	for _, month := range affectedMonths(created) {
		publishBudgetWarning(ctx, s.store, s.publisher, userID, month)
	}

	return created, diags, nil
}

// CreateTransaction stores a single transaction and runs the budget-warning
// check for its month.
func (s *ImportService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransactions(ctx, []core.Transaction{tx})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("store transaction: %w", err)
	}

	publishBudgetWarning(ctx, s.store, s.publisher, tx.UserID, core.MonthKeyOf(tx.Date))

	return created[0], nil
}

// affectedMonths returns the distinct months of a batch, in first-seen order.
func affectedMonths(txs []core.Transaction) []core.MonthKey {
	seen := map[core.MonthKey]struct{}{}
	out := make([]core.MonthKey, 0, 1)
	for _, tx := range txs {
		month := core.MonthKeyOf(tx.Date)
		if _, ok := seen[month]; ok {
			continue
		}
		seen[month] = struct{}{}
		out = append(out, month)
	}
	return out
}
