package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	sheetsmem "fintrack/internal/sheets/memory"
	storemem "fintrack/internal/store/memory"
)

func seedOverspentMonth(t *testing.T, st *storemem.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := st.UpsertBudget(ctx, core.Budget{
		UserID:      1,
		MonthYear:   "2024-03",
		TotalBudget: core.Money{Cents: 100000},
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	if _, err := st.CreateTransactions(ctx, []core.Transaction{
		{UserID: 1, Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Description: "Rent", Amount: core.Money{Cents: -150000}, Category: core.CategoryHousing},
	}); err != nil {
		t.Fatalf("seed transactions: %v", err)
	}
}

func TestHandleAlertMessageIsAnAlertHandler(t *testing.T) {
	st := storemem.New()
	writer := sheetsmem.New()
	w := NewAlertWorker(st, writer)
	seedOverspentMonth(t, st)

	// The consume loop receives the method through this type; drive it the
	// same way here.
	var handler amqp.AlertHandler = w.HandleAlertMessage
	msg := amqp.NewBudgetAlertMessage(1, "2024-03", -150000, 100000)
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(writer.Rows()) != 1 {
		t.Fatalf("recorded %d rows, want 1", len(writer.Rows()))
	}
}

func TestAlertWorkerRecordsAlert(t *testing.T) {
	st := storemem.New()
	writer := sheetsmem.New()
	w := NewAlertWorker(st, writer)
	seedOverspentMonth(t, st)

	msg := amqp.NewBudgetAlertMessage(1, "2024-03", -150000, 100000)
	if err := w.HandleAlertMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleAlertMessage: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("recorded %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.UserID != 1 || row.MonthYear != "2024-03" {
		t.Errorf("row key = %d/%s, want 1/2024-03", row.UserID, row.MonthYear)
	}
	if row.Spent.Cents != -150000 {
		t.Errorf("Spent = %d, want -150000", row.Spent.Cents)
	}
	if row.Budget.Cents != 100000 {
		t.Errorf("Budget = %d, want 100000", row.Budget.Cents)
	}
}

func TestAlertWorkerUsesCurrentState(t *testing.T) {
	st := storemem.New()
	writer := sheetsmem.New()
	w := NewAlertWorker(st, writer)
	seedOverspentMonth(t, st)
	ctx := context.Background()

	// Since publish, another transaction landed in the month.
	if _, err := st.CreateTransactions(ctx, []core.Transaction{
		{UserID: 1, Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), Description: "Groceries", Amount: core.Money{Cents: -20000}, Category: core.CategoryFood},
	}); err != nil {
		t.Fatalf("seed transactions: %v", err)
	}

	msg := amqp.NewBudgetAlertMessage(1, "2024-03", -150000, 100000)
	if err := w.HandleAlertMessage(ctx, msg); err != nil {
		t.Fatalf("HandleAlertMessage: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("recorded %d rows, want 1", len(rows))
	}
	if rows[0].Spent.Cents != -170000 {
		t.Errorf("Spent = %d, want re-read value -170000", rows[0].Spent.Cents)
	}
}

func TestAlertWorkerDropsStaleAlert(t *testing.T) {
	st := storemem.New()
	writer := sheetsmem.New()
	w := NewAlertWorker(st, writer)
	ctx := context.Background()

	// Budget was raised after the alert was published; no longer overspent.
	if _, err := st.UpsertBudget(ctx, core.Budget{
		UserID:      1,
		MonthYear:   "2024-03",
		TotalBudget: core.Money{Cents: 500000},
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	if _, err := st.CreateTransactions(ctx, []core.Transaction{
		{UserID: 1, Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Description: "Rent", Amount: core.Money{Cents: -150000}, Category: core.CategoryHousing},
	}); err != nil {
		t.Fatalf("seed transactions: %v", err)
	}

	msg := amqp.NewBudgetAlertMessage(1, "2024-03", -150000, 100000)
	if err := w.HandleAlertMessage(ctx, msg); err != nil {
		t.Fatalf("HandleAlertMessage: %v", err)
	}
	if len(writer.Rows()) != 0 {
		t.Error("stale alert should be dropped without a row")
	}
}

func TestAlertWorkerDropsWhenWarningsDisabled(t *testing.T) {
	st := storemem.New()
	writer := sheetsmem.New()
	w := NewAlertWorker(st, writer)
	seedOverspentMonth(t, st)
	ctx := context.Background()

	user, err := st.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	user.EnableBudgetWarnings = false
	if _, err := st.UpdateUser(ctx, 1, user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	msg := amqp.NewBudgetAlertMessage(1, "2024-03", -150000, 100000)
	if err := w.HandleAlertMessage(ctx, msg); err != nil {
		t.Fatalf("HandleAlertMessage: %v", err)
	}
	if len(writer.Rows()) != 0 {
		t.Error("alert should be dropped when warnings are disabled")
	}
}

func TestAlertWorkerDropsBadMonthAndUnknownUser(t *testing.T) {
	st := storemem.New()
	writer := sheetsmem.New()
	w := NewAlertWorker(st, writer)
	ctx := context.Background()

	if err := w.HandleAlertMessage(ctx, amqp.NewBudgetAlertMessage(1, "garbage", 0, 0)); err != nil {
		t.Errorf("invalid month key should be dropped, not retried: %v", err)
	}
	if err := w.HandleAlertMessage(ctx, amqp.NewBudgetAlertMessage(42, "2024-03", 0, 0)); err != nil {
		t.Errorf("unknown user should be dropped, not retried: %v", err)
	}
	if len(writer.Rows()) != 0 {
		t.Error("no rows should be recorded")
	}
}
