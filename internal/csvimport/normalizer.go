// Package csvimport normalizes heterogeneous bank CSV exports into the
// canonical transaction shape. Banks disagree on header naming, so columns
// are detected heuristically instead of configured per institution.
package csvimport

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fintrack/internal/core"
)

// RawRow is one CSV record keyed by its original column headers.
type RawRow map[string]string

// Header aliases per semantic field, in priority order. The first alias that
// matches any header wins; exact (case-insensitive) matches are tried across
// the whole list before falling back to substring matches.
var (
	dateAliases        = []string{"date", "time", "posted", "transaction date"}
	descriptionAliases = []string{"description", "desc", "detail", "narration", "transaction", "memo"}
	amountAliases      = []string{"amount", "sum", "value", "transaction amount"}
	merchantAliases    = []string{"merchant", "payee", "vendor", "store", "retailer"}
	categoryAliases    = []string{"category", "type", "transaction type", "classification"}
	notesAliases       = []string{"notes", "note", "comment", "comments", "memo"}
	debitAliases       = []string{"debit", "withdrawal", "expense"}
	creditAliases      = []string{"credit", "deposit", "income"}
)

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
}

// Normalize maps raw CSV rows to transactions for the given user. Rows that
// fail validation are replaced with a placeholder record rather than
// dropped, and the specific error is appended to the returned diagnostics;
// one malformed row never aborts the batch. Output order matches input
// order.
func Normalize(rows []RawRow, userID int64) ([]core.Transaction, []string) {
	txs := make([]core.Transaction, 0, len(rows))
	var diags []string

	for i, row := range rows {
		tx, err := normalizeRow(row, userID)
		if err != nil {
			diags = append(diags, fmt.Sprintf("row %d: %v", i+1, err))
			tx = invalidEntry(userID)
		}
		txs = append(txs, tx)
	}

	return txs, diags
}

func normalizeRow(row RawRow, userID int64) (core.Transaction, error) {
	keys := sortedKeys(row)
	dateKey := findKey(keys, dateAliases)
	descriptionKey := findKey(keys, descriptionAliases)
	amountKey := findKey(keys, amountAliases)
	merchantKey := findKey(keys, merchantAliases)
	categoryKey := findKey(keys, categoryAliases)
	notesKey := findKey(keys, notesAliases)
	debitKey := findKey(keys, debitAliases)
	creditKey := findKey(keys, creditAliases)

	description := strings.TrimSpace(row[descriptionKey])
	if description == "" {
		description = "Unknown transaction"
	}

	// Separate debit/credit columns take precedence over a unified amount
	// column; debit wins when both carry a value.
	var amountStr string
	switch {
	case debitKey != "" && strings.TrimSpace(row[debitKey]) != "":
		amountStr = "-" + stripExcept(row[debitKey], "0123456789.")
	case creditKey != "" && strings.TrimSpace(row[creditKey]) != "":
		amountStr = stripExcept(row[creditKey], "0123456789.")
	default:
		raw := row[amountKey]
		if strings.TrimSpace(raw) == "" {
			raw = "0"
		}
		amountStr = stripExcept(raw, "0123456789.-")
	}

	amount, err := core.ParseMoney(amountStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q: %w", row[amountKey], err)
	}

	var date time.Time
	if raw := strings.TrimSpace(row[dateKey]); raw != "" {
		date, err = parseDate(raw)
		if err != nil {
			return core.Transaction{}, err
		}
	} else {
		date = time.Now().UTC()
	}

	category := core.Classify(description)
	if raw := strings.TrimSpace(row[categoryKey]); raw != "" {
		category = core.ParseCategory(raw)
	}

	tx := core.Transaction{
		UserID:      userID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    category,
		Merchant:    strings.TrimSpace(row[merchantKey]),
		Notes:       strings.TrimSpace(row[notesKey]),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// invalidEntry is the placeholder stored in place of a row that failed
// validation, so the imported batch keeps its row count.
func invalidEntry(userID int64) core.Transaction {
	return core.Transaction{
		UserID:      userID,
		Date:        time.Now().UTC(),
		Description: "Invalid entry",
		Amount:      core.Money{},
		Category:    core.CategoryOther,
		Notes:       "Error in parsing",
	}
}

// findKey locates the actual column header for a semantic field. Exact
// case-insensitive matches are preferred; substring matches are the
// fallback. Keys must be pre-sorted so detection is deterministic when
// several headers contain the same alias. Returns "" when nothing matches.
func findKey(keys []string, aliases []string) string {
	for _, alias := range aliases {
		for _, key := range keys {
			if strings.EqualFold(key, alias) {
				return key
			}
		}
	}
	for _, alias := range aliases {
		for _, key := range keys {
			if strings.Contains(strings.ToLower(key), alias) {
				return key
			}
		}
	}
	return ""
}

func sortedKeys(row RawRow) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", s, core.ErrInvalidDate)
}

// stripExcept removes every rune not present in keep.
func stripExcept(s, keep string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(keep, r) {
			return r
		}
		return -1
	}, s)
}
