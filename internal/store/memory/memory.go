// Package memory provides an in-memory store implementation used by tests
// and the "memory" backend. All operations hold a single mutex, which also
// makes the budget upsert's check-then-act atomic.
package memory

import (
	"context"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu            sync.Mutex
	users         map[int64]core.User
	transactions  map[int64]core.Transaction
	budgets       map[int64]core.Budget
	nextUserID    int64
	nextTxID      int64
	nextBudgetID  int64
	insertionByID []int64 // transaction ids in insertion order
}

var _ store.Store = (*Store)(nil)

// New returns an empty store pre-seeded with the default user (id 1), the
// stand-in for the single-user deployment.
func New() *Store {
	s := &Store{
		users:        make(map[int64]core.User),
		transactions: make(map[int64]core.Transaction),
		budgets:      make(map[int64]core.Budget),
		nextUserID:   1,
		nextTxID:     1,
		nextBudgetID: 1,
	}
	s.users[s.nextUserID] = core.User{
		ID:                   s.nextUserID,
		Username:             "testuser",
		Currency:             "USD",
		EnableBudgetWarnings: true,
		PaymentIntegrations:  []string{},
	}
	s.nextUserID++
	return s
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return tx, nil
}

func (s *Store) GetTransactionsByUser(_ context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, id := range s.insertionByID {
		if tx, ok := s.transactions[id]; ok && tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) GetTransactionsByUserAndMonth(_ context.Context, userID int64, month core.MonthKey) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, id := range s.insertionByID {
		tx, ok := s.transactions[id]
		if !ok {
			continue
		}
		if tx.UserID == userID && month.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) CreateTransactions(_ context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		tx.ID = s.nextTxID
		s.nextTxID++
		s.transactions[tx.ID] = tx
		s.insertionByID = append(s.insertionByID, tx.ID)
		out = append(out, tx)
	}
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	tx.ID = existing.ID
	s.transactions[id] = tx
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.transactions, id)
	for i, txID := range s.insertionByID {
		if txID == id {
			s.insertionByID = append(s.insertionByID[:i], s.insertionByID[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) GetBudget(_ context.Context, id int64) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) GetBudgetByUserAndMonth(_ context.Context, userID int64, monthYear string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.findBudgetLocked(userID, monthYear)
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextBudgetID
	s.nextBudgetID++
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, id int64, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.budgets[id]
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	b.ID = existing.ID
	s.budgets[id] = b
	return b, nil
}

// UpsertBudget keeps at most one budget per (userID, monthYear); the whole
// check-then-act runs under the store mutex.
func (s *Store) UpsertBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.findBudgetLocked(b.UserID, b.MonthYear); ok {
		b.ID = existing.ID
		s.budgets[b.ID] = b
		return b, nil
	}
	b.ID = s.nextBudgetID
	s.nextBudgetID++
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) findBudgetLocked(userID int64, monthYear string) (core.Budget, bool) {
	// Iterate in id order so lookups are deterministic.
	ids := make([]int64, 0, len(s.budgets))
	for id := range s.budgets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		b := s.budgets[id]
		if b.UserID == userID && b.MonthYear == monthYear {
			return b, true
		}
	}
	return core.Budget{}, false
}

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, id int64, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[id]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	u.ID = existing.ID
	u.Username = existing.Username
	u.PaymentIntegrations = core.NormalizeIntegrations(u.PaymentIntegrations)
	s.users[id] = u
	return u, nil
}
