package services

import (
	"context"
	"errors"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// AlertPublisher publishes budget-alert messages for async delivery.
// *amqp.Client satisfies it; tests substitute a fake.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// publishBudgetWarning checks the user's spending for one month against the
// stored budget and publishes an alert when the budget is exceeded. Best
// effort: every failure is logged and swallowed, the caller's write has
// already succeeded.
func publishBudgetWarning(ctx context.Context, st store.Store, publisher AlertPublisher, userID int64, month core.MonthKey) {
	if publisher == nil {
		slog.WarnContext(ctx, "Alert publisher not available, skipping budget warning")
		return
	}

	user, err := st.GetUser(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load user for budget warning",
			"userId", userID, "error", err)
		return
	}
	if !user.EnableBudgetWarnings {
		return
	}

	budget, err := st.GetBudgetByUserAndMonth(ctx, userID, month.String())
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load budget for budget warning",
			"userId", userID, "month", month.String(), "error", err)
		return
	}
	if budget.TotalBudget.Cents <= 0 {
		return
	}

	txs, err := st.GetTransactionsByUserAndMonth(ctx, userID, month)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load transactions for budget warning",
			"userId", userID, "month", month.String(), "error", err)
		return
	}

	var spent core.Money
	for _, tx := range txs {
		spent = spent.Add(tx.Amount)
	}
	// Amounts are signed, so spending shows up as a negative sum.
	if -spent.Cents <= budget.TotalBudget.Cents {
		return
	}

	msg := amqp.NewBudgetAlertMessage(userID, month.String(), spent.Cents, budget.TotalBudget.Cents)
	if err := publisher.PublishBudgetAlert(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"userId", userID, "month", month.String(), "error", err)
	}
}
