package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrNotFound is returned by every store when the requested record does not
// exist. Callers translate it to a 404 at the HTTP boundary.
var ErrNotFound = errors.New("record not found")

// Ports for the persistence layer. The analytics engine and the import
// pipeline depend only on these contracts, never on a concrete backend.
type (
	TransactionStore interface {
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		GetTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
		GetTransactionsByUserAndMonth(ctx context.Context, userID int64, month core.MonthKey) ([]core.Transaction, error)
		// CreateTransactions bulk-inserts atomically, preserving input order
		// and assigning ids.
		CreateTransactions(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
	}

	BudgetStore interface {
		GetBudget(ctx context.Context, id int64) (core.Budget, error)
		GetBudgetByUserAndMonth(ctx context.Context, userID int64, monthYear string) (core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		UpdateBudget(ctx context.Context, id int64, b core.Budget) (core.Budget, error)
		// UpsertBudget creates or updates the budget keyed on
		// (userID, monthYear) as one atomic operation. Duplicate records for
		// the same key must never result.
		UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	}

	UserStore interface {
		GetUser(ctx context.Context, id int64) (core.User, error)
		UpdateUser(ctx context.Context, id int64, u core.User) (core.User, error)
	}

	// Store bundles the three record stores a backend must provide.
	Store interface {
		TransactionStore
		BudgetStore
		UserStore
	}
)
