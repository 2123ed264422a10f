package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// BudgetService wraps budget writes with the budget-warning check.
type BudgetService struct {
	store     store.Store
	publisher AlertPublisher
}

func NewBudgetService(store store.Store, publisher AlertPublisher) *BudgetService {
	return &BudgetService{
		store:     store,
		publisher: publisher,
	}
}

// GetBudget returns the user's budget for one month.
func (s *BudgetService) GetBudget(ctx context.Context, userID int64, month core.MonthKey) (core.Budget, error) {
	return s.store.GetBudgetByUserAndMonth(ctx, userID, month.String())
}

// SetBudget creates or replaces the budget for (b.UserID, b.MonthYear) and
// runs the budget-warning check for that month.
func (s *BudgetService) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	stored, err := s.store.UpsertBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	month, err := core.ParseMonthKey(stored.MonthYear)
	if err != nil {
		// Validate above guarantees a parseable key; log and move on.
		slog.ErrorContext(ctx, "Stored budget has invalid month key",
			"budgetId", stored.ID, "monthYear", stored.MonthYear, "error", err)
		return stored, nil
	}
	publishBudgetWarning(ctx, s.store, s.publisher, stored.UserID, month)

	return stored, nil
}
