package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrationsSeedDefaultUser(t *testing.T) {
	repo := newTestRepo(t)

	u, err := repo.GetUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUser(1): %v", err)
	}
	if u.Username != "testuser" || u.Currency != "USD" || !u.EnableBudgetWarnings {
		t.Errorf("seed user = %+v, want testuser/USD/warnings on", u)
	}
	if len(u.PaymentIntegrations) != 0 {
		t.Errorf("seed integrations = %v, want empty", u.PaymentIntegrations)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := []core.Transaction{
		{
			UserID:      1,
			Date:        time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			Description: "Grocery run",
			Amount:      core.Money{Cents: -5425},
			Category:    core.CategoryFood,
			Merchant:    "Local Market",
			Notes:       "weekly",
		},
		{
			UserID:      1,
			Date:        time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC),
			Description: "Paycheck",
			Amount:      core.Money{Cents: 250000},
			Category:    core.CategoryIncome,
		},
		{
			UserID:      1,
			Date:        time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Description: "April rent",
			Amount:      core.Money{Cents: -120000},
			Category:    core.CategoryHousing,
		},
	}

	created, err := repo.CreateTransactions(ctx, in)
	if err != nil {
		t.Fatalf("CreateTransactions: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created %d transactions, want 3", len(created))
	}
	for i, tx := range created {
		if tx.ID == 0 {
			t.Errorf("created[%d] has no id", i)
		}
		if tx.Description != in[i].Description {
			t.Errorf("created[%d] order mismatch: %q", i, tx.Description)
		}
	}

	march, err := repo.GetTransactionsByUserAndMonth(ctx, 1, core.MonthKey{Year: 2024, Month: 3})
	if err != nil {
		t.Fatalf("GetTransactionsByUserAndMonth: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("march transactions = %d, want 2 (April rent excluded)", len(march))
	}
	if march[0].Amount.Cents != -5425 || march[0].Category != core.CategoryFood {
		t.Errorf("march[0] = %+v, want grocery -54.25 food", march[0])
	}
	if !march[0].Date.Equal(in[0].Date) {
		t.Errorf("march[0].Date = %v, want %v", march[0].Date, in[0].Date)
	}
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTransactions(ctx, []core.Transaction{{
		UserID:      1,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "typo",
		Amount:      core.Money{Cents: -100},
		Category:    core.CategoryOther,
	}})
	if err != nil {
		t.Fatalf("CreateTransactions: %v", err)
	}
	id := created[0].ID

	updated := created[0]
	updated.Description = "fixed"
	updated.Category = core.CategoryFood
	got, err := repo.UpdateTransaction(ctx, id, updated)
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if got.Description != "fixed" || got.Category != core.CategoryFood {
		t.Errorf("updated = %+v, want fixed/food", got)
	}

	if err := repo.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetTransaction after delete = %v, want store.ErrNotFound", err)
	}
	if err := repo.DeleteTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete = %v, want store.ErrNotFound", err)
	}
}

func TestBudgetUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	housing := core.Money{Cents: 120000}
	first, err := repo.UpsertBudget(ctx, core.Budget{
		UserID:        1,
		MonthYear:     "2024-03",
		TotalBudget:   core.Money{Cents: 350000},
		HousingBudget: &housing,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := repo.UpsertBudget(ctx, core.Budget{
		UserID:      1,
		MonthYear:   "2024-03",
		TotalBudget: core.Money{Cents: 400000},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created duplicate: ids %d and %d", first.ID, second.ID)
	}
	if second.TotalBudget.Cents != 400000 {
		t.Errorf("total = %d, want the second call's 400000", second.TotalBudget.Cents)
	}
	if second.HousingBudget != nil {
		t.Errorf("housing budget = %v, want cleared by second upsert", second.HousingBudget)
	}

	stored, err := repo.GetBudgetByUserAndMonth(ctx, 1, "2024-03")
	if err != nil {
		t.Fatalf("GetBudgetByUserAndMonth: %v", err)
	}
	if stored.ID != first.ID || stored.TotalBudget.Cents != 400000 {
		t.Errorf("stored = %+v, want single record with latest values", stored)
	}
}

func TestBudgetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetBudgetByUserAndMonth(context.Background(), 1, "2031-01"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want store.ErrNotFound", err)
	}
}

func TestUpdateUserIntegrations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u, err := repo.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	u.Currency = "EUR"
	u.EnableBudgetWarnings = false
	u.PaymentIntegrations = []string{"stripe", "paypal", "stripe"}

	updated, err := repo.UpdateUser(ctx, 1, u)
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Currency != "EUR" || updated.EnableBudgetWarnings {
		t.Errorf("updated = %+v, want EUR with warnings off", updated)
	}
	if len(updated.PaymentIntegrations) != 2 {
		t.Errorf("integrations = %v, want deduplicated pair", updated.PaymentIntegrations)
	}

	if _, err := repo.GetUser(ctx, 99); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUser(99) = %v, want store.ErrNotFound", err)
	}
}
