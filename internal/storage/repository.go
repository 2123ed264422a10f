// Package storage implements the store contract on SQLite. Monetary values
// are persisted as integer cents; dates as RFC3339 UTC strings, which keeps
// lexicographic range scans correct.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = "id, user_id, date, description, amount_cents, category, merchant, notes"

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	return scanTransaction(row)
}

func (r *SQLiteRepository) GetTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) GetTransactionsByUserAndMonth(ctx context.Context, userID int64, month core.MonthKey) ([]core.Transaction, error) {
	start := time.Date(month.Year, time.Month(month.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? AND date >= ? AND date < ? ORDER BY id",
		userID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("query transactions for %s: %w", month, err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// CreateTransactions inserts the batch inside one database transaction so a
// bulk import is atomic from the caller's point of view.
func (r *SQLiteRepository) CreateTransactions(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx,
		"INSERT INTO transactions (user_id, date, description, amount_cents, category, merchant, notes) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		res, err := stmt.ExecContext(ctx,
			tx.UserID, tx.Date.UTC().Format(time.RFC3339), tx.Description,
			tx.Amount.Cents, string(tx.Category), tx.Merchant, tx.Notes)
		if err != nil {
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		tx.ID = id
		out = append(out, tx)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET date = ?, description = ?, amount_cents = ?, category = ?, merchant = ?, notes = ? WHERE id = ?",
		tx.Date.UTC().Format(time.RFC3339), tx.Description, tx.Amount.Cents,
		string(tx.Category), tx.Merchant, tx.Notes, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, store.ErrNotFound
	}
	return r.GetTransaction(ctx, id)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

const budgetColumns = `id, user_id, month_year, total_budget_cents,
	housing_budget_cents, food_budget_cents, transportation_budget_cents,
	utilities_budget_cents, entertainment_budget_cents, shopping_budget_cents,
	healthcare_budget_cents, education_budget_cents, personal_budget_cents,
	travel_budget_cents, other_budget_cents, savings_goal_cents`

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE id = ?", id)
	return scanBudget(row)
}

func (r *SQLiteRepository) GetBudgetByUserAndMonth(ctx context.Context, userID int64, monthYear string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? AND month_year = ?", userID, monthYear)
	return scanBudget(row)
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO budgets
		(user_id, month_year, total_budget_cents,
		 housing_budget_cents, food_budget_cents, transportation_budget_cents,
		 utilities_budget_cents, entertainment_budget_cents, shopping_budget_cents,
		 healthcare_budget_cents, education_budget_cents, personal_budget_cents,
		 travel_budget_cents, other_budget_cents, savings_goal_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		budgetArgs(b)...)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("last insert id: %w", err)
	}
	b.ID = id
	return b, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, id int64, b core.Budget) (core.Budget, error) {
	args := append(budgetArgs(b)[2:], id) // skip user_id, month_year
	res, err := r.db.ExecContext(ctx, `UPDATE budgets SET total_budget_cents = ?,
		housing_budget_cents = ?, food_budget_cents = ?, transportation_budget_cents = ?,
		utilities_budget_cents = ?, entertainment_budget_cents = ?, shopping_budget_cents = ?,
		healthcare_budget_cents = ?, education_budget_cents = ?, personal_budget_cents = ?,
		travel_budget_cents = ?, other_budget_cents = ?, savings_goal_cents = ?
		WHERE id = ?`, args...)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Budget{}, store.ErrNotFound
	}
	return r.GetBudget(ctx, id)
}

// UpsertBudget relies on the unique (user_id, month_year) index: the insert
// and the conflict update are a single atomic statement, so concurrent
// submissions for the same month can never produce duplicates.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO budgets
		(user_id, month_year, total_budget_cents,
		 housing_budget_cents, food_budget_cents, transportation_budget_cents,
		 utilities_budget_cents, entertainment_budget_cents, shopping_budget_cents,
		 healthcare_budget_cents, education_budget_cents, personal_budget_cents,
		 travel_budget_cents, other_budget_cents, savings_goal_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, month_year) DO UPDATE SET
		 total_budget_cents = excluded.total_budget_cents,
		 housing_budget_cents = excluded.housing_budget_cents,
		 food_budget_cents = excluded.food_budget_cents,
		 transportation_budget_cents = excluded.transportation_budget_cents,
		 utilities_budget_cents = excluded.utilities_budget_cents,
		 entertainment_budget_cents = excluded.entertainment_budget_cents,
		 shopping_budget_cents = excluded.shopping_budget_cents,
		 healthcare_budget_cents = excluded.healthcare_budget_cents,
		 education_budget_cents = excluded.education_budget_cents,
		 personal_budget_cents = excluded.personal_budget_cents,
		 travel_budget_cents = excluded.travel_budget_cents,
		 other_budget_cents = excluded.other_budget_cents,
		 savings_goal_cents = excluded.savings_goal_cents`,
		budgetArgs(b)...)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	return r.GetBudgetByUserAndMonth(ctx, b.UserID, b.MonthYear)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, currency, enable_budget_warnings, payment_integrations FROM users WHERE id = ?", id)

	var u core.User
	var warnings int64
	var integrations string
	if err := row.Scan(&u.ID, &u.Username, &u.Currency, &warnings, &integrations); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, store.ErrNotFound
		}
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.EnableBudgetWarnings = warnings != 0
	if err := json.Unmarshal([]byte(integrations), &u.PaymentIntegrations); err != nil {
		return core.User{}, fmt.Errorf("decode payment integrations: %w", err)
	}
	if u.PaymentIntegrations == nil {
		u.PaymentIntegrations = []string{}
	}
	return u, nil
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, id int64, u core.User) (core.User, error) {
	warnings := 0
	if u.EnableBudgetWarnings {
		warnings = 1
	}
	integrations, err := json.Marshal(core.NormalizeIntegrations(u.PaymentIntegrations))
	if err != nil {
		return core.User{}, fmt.Errorf("encode payment integrations: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET currency = ?, enable_budget_warnings = ?, payment_integrations = ? WHERE id = ?",
		u.Currency, warnings, string(integrations), id)
	if err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.User{}, store.ErrNotFound
	}
	return r.GetUser(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var date, category string
	err := row.Scan(&tx.ID, &tx.UserID, &date, &tx.Description, &tx.Amount.Cents, &category, &tx.Merchant, &tx.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, store.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Date, err = time.Parse(time.RFC3339, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	tx.Category = core.ParseCategory(category)
	return tx, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var b core.Budget
	optional := make([]sql.NullInt64, 12)
	dests := []any{&b.ID, &b.UserID, &b.MonthYear, &b.TotalBudget.Cents}
	for i := range optional {
		dests = append(dests, &optional[i])
	}
	if err := row.Scan(dests...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Budget{}, store.ErrNotFound
		}
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}

	fields := []**core.Money{
		&b.HousingBudget, &b.FoodBudget, &b.TransportationBudget,
		&b.UtilitiesBudget, &b.EntertainmentBudget, &b.ShoppingBudget,
		&b.HealthcareBudget, &b.EducationBudget, &b.PersonalBudget,
		&b.TravelBudget, &b.OtherBudget, &b.SavingsGoal,
	}
	for i, field := range fields {
		if optional[i].Valid {
			*field = &core.Money{Cents: optional[i].Int64}
		}
	}
	return b, nil
}

func budgetArgs(b core.Budget) []any {
	toNull := func(m *core.Money) any {
		if m == nil {
			return nil
		}
		return m.Cents
	}
	return []any{
		b.UserID, b.MonthYear, b.TotalBudget.Cents,
		toNull(b.HousingBudget), toNull(b.FoodBudget), toNull(b.TransportationBudget),
		toNull(b.UtilitiesBudget), toNull(b.EntertainmentBudget), toNull(b.ShoppingBudget),
		toNull(b.HealthcareBudget), toNull(b.EducationBudget), toNull(b.PersonalBudget),
		toNull(b.TravelBudget), toNull(b.OtherBudget), toNull(b.SavingsGoal),
	}
}
