package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
	"fintrack/internal/store"
)

// AlertWorker consumes budget-alert messages and appends them to the
// external alert log. Before writing it re-reads the current state, so
// alerts that are stale by the time they are consumed get dropped.
type AlertWorker struct {
	store  store.Store
	writer sheets.AlertWriter
}

// HandleAlertMessage is the handler fed to the AMQP consume loop.
var _ amqp.AlertHandler = (&AlertWorker{}).HandleAlertMessage

func NewAlertWorker(st store.Store, writer sheets.AlertWriter) *AlertWorker {
	return &AlertWorker{
		store:  st,
		writer: writer,
	}
}

// HandleAlertMessage processes a single budget-alert message.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	slog.InfoContext(ctx, "Processing budget alert",
		"userId", msg.UserID,
		"month", msg.MonthYear)

	month, err := core.ParseMonthKey(msg.MonthYear)
	if err != nil {
		// Malformed month key can never become processable; drop it.
		slog.ErrorContext(ctx, "Dropping alert with invalid month key",
			"monthYear", msg.MonthYear, "error", err)
		return nil
	}

	user, err := w.store.GetUser(ctx, msg.UserID)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Dropping alert for unknown user", "userId", msg.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !user.EnableBudgetWarnings {
		slog.InfoContext(ctx, "User disabled budget warnings since publish, dropping alert",
			"userId", msg.UserID)
		return nil
	}

	spent, budget, over, err := w.currentOverspend(ctx, msg.UserID, month)
	if err != nil {
		return err
	}
	if !over {
		slog.InfoContext(ctx, "Alert no longer applies, dropping",
			"userId", msg.UserID, "month", msg.MonthYear)
		return nil
	}

	row := sheets.AlertRow{
		UserID:    msg.UserID,
		MonthYear: msg.MonthYear,
		Spent:     spent,
		Budget:    budget,
		Timestamp: msg.Timestamp,
	}
	if err := w.writer.AppendAlert(ctx, row); err != nil {
		return fmt.Errorf("append alert: %w", err)
	}

	slog.InfoContext(ctx, "Budget alert recorded",
		"userId", msg.UserID,
		"month", msg.MonthYear,
		"spent_cents", spent.Cents,
		"budget_cents", budget.Cents)
	return nil
}

// currentOverspend re-reads budget and transactions for the month and reports
// whether spending still exceeds the budget.
func (w *AlertWorker) currentOverspend(ctx context.Context, userID int64, month core.MonthKey) (spent, budget core.Money, over bool, err error) {
	b, err := w.store.GetBudgetByUserAndMonth(ctx, userID, month.String())
	if errors.Is(err, store.ErrNotFound) {
		return core.Money{}, core.Money{}, false, nil
	}
	if err != nil {
		return core.Money{}, core.Money{}, false, fmt.Errorf("get budget: %w", err)
	}
	if b.TotalBudget.Cents <= 0 {
		return core.Money{}, b.TotalBudget, false, nil
	}

	txs, err := w.store.GetTransactionsByUserAndMonth(ctx, userID, month)
	if err != nil {
		return core.Money{}, b.TotalBudget, false, fmt.Errorf("get transactions: %w", err)
	}
	for _, tx := range txs {
		spent = spent.Add(tx.Amount)
	}
	return spent, b.TotalBudget, -spent.Cents > b.TotalBudget.Cents, nil
}
