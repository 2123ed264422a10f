// Package analytics derives monthly summaries, category breakdowns and
// multi-month comparisons from stored transactions. It is the only place
// with cross-record aggregation logic and depends solely on the store
// contract.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Engine answers analytics queries. Each query performs its own independent
// reads; there is no shared mutable computation state, so concurrent use is
// safe.
type Engine struct {
	transactions store.TransactionStore
	now          func() time.Time
}

// New creates an engine over the given transaction store. now may be nil,
// in which case time.Now is used; tests inject a fixed clock.
func New(transactions store.TransactionStore, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{transactions: transactions, now: now}
}

// MonthlySummary aggregates one calendar month. TotalSpent sums signed
// amounts, so income entries reduce the reported total; this mirrors the
// historical behavior and is preserved deliberately. A month with no
// transactions is a valid zero result, never an error.
func (e *Engine) MonthlySummary(ctx context.Context, userID int64, month core.MonthKey) (core.MonthlySummary, error) {
	txs, err := e.transactions.GetTransactionsByUserAndMonth(ctx, userID, month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("load transactions for %s: %w", month, err)
	}

	total, byCategory := sumByCategory(txs)

	prevTxs, err := e.transactions.GetTransactionsByUserAndMonth(ctx, userID, month.Prev())
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("load transactions for %s: %w", month.Prev(), err)
	}
	prevTotal, _ := sumByCategory(prevTxs)

	// Percent change is only meaningful against a positive base.
	var compared float64
	if prevTotal.Cents > 0 {
		compared = float64(total.Cents-prevTotal.Cents) / float64(prevTotal.Cents) * 100
	}

	return core.MonthlySummary{
		Month:              month.String(),
		TotalSpent:         total,
		ComparedToPrevious: compared,
		Categories:         byCategory,
	}, nil
}

// CategoryBreakdown returns per-category totals for the month with each
// category's share of the total, sorted descending by amount.
func (e *Engine) CategoryBreakdown(ctx context.Context, userID int64, month core.MonthKey) ([]core.CategoryBreakdown, error) {
	txs, err := e.transactions.GetTransactionsByUserAndMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("load transactions for %s: %w", month, err)
	}

	total, byCategory := sumByCategory(txs)

	breakdown := make([]core.CategoryBreakdown, 0, len(byCategory))
	for category, amount := range byCategory {
		var pct float64
		if total.Cents > 0 {
			pct = float64(amount.Cents) / float64(total.Cents) * 100
		}
		breakdown = append(breakdown, core.CategoryBreakdown{
			Category:   category,
			Amount:     amount,
			Percentage: pct,
			Color:      category.Color(),
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].Amount.Cents != breakdown[j].Amount.Cents {
			return breakdown[i].Amount.Cents > breakdown[j].Amount.Cents
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown, nil
}

// MonthlyComparison returns n summaries in reverse-chronological order:
// index 0 is always the current month, index n-1 the oldest.
func (e *Engine) MonthlyComparison(ctx context.Context, userID int64, n int) ([]core.MonthlySummary, error) {
	current := core.MonthKeyOf(e.now())
	summaries := make([]core.MonthlySummary, 0, n)
	for i := 0; i < n; i++ {
		summary, err := e.MonthlySummary(ctx, userID, current.AddMonths(-i))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func sumByCategory(txs []core.Transaction) (core.Money, map[core.Category]core.Money) {
	var total core.Money
	byCategory := make(map[core.Category]core.Money)
	for _, tx := range txs {
		total = total.Add(tx.Amount)
		byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
	}
	return total, byCategory
}
