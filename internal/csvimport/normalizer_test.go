package csvimport

import (
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestNormalizeHeaderVariants(t *testing.T) {
	tests := []struct {
		name string
		row  RawRow
	}{
		{
			name: "lowercase headers",
			row:  RawRow{"date": "2024-03-15", "description": "Coffee shop", "amount": "-4.50"},
		},
		{
			name: "bank style headers",
			row:  RawRow{"Transaction Date": "2024-03-15", "Narration": "Coffee shop", "Transaction Amount": "-4.50"},
		},
		{
			name: "posted header",
			row:  RawRow{"Posted": "2024-03-15", "Detail": "Coffee shop", "Value": "-4.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, diags := Normalize([]RawRow{tt.row}, 1)
			if len(diags) != 0 {
				t.Fatalf("diagnostics = %v, want none", diags)
			}
			if len(txs) != 1 {
				t.Fatalf("got %d transactions, want 1", len(txs))
			}
			tx := txs[0]
			want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
			if !tx.Date.Equal(want) {
				t.Errorf("date = %v, want %v", tx.Date, want)
			}
			if tx.Description != "Coffee shop" {
				t.Errorf("description = %q, want Coffee shop", tx.Description)
			}
			if tx.Amount.Cents != -450 {
				t.Errorf("amount = %d cents, want -450", tx.Amount.Cents)
			}
		})
	}
}

func TestNormalizeAmountCleaning(t *testing.T) {
	txs, diags := Normalize([]RawRow{
		{"date": "2024-03-01", "description": "misc stuff", "amount": "-$1,234.56"},
	}, 1)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}
	if txs[0].Amount.Cents != -123456 {
		t.Errorf("amount = %d cents, want -123456", txs[0].Amount.Cents)
	}
}

func TestNormalizeDebitCreditColumns(t *testing.T) {
	tests := []struct {
		name string
		row  RawRow
		want int64
	}{
		{
			name: "debit only",
			row:  RawRow{"date": "2024-03-01", "description": "misc stuff", "Debit": "$25.00", "Credit": ""},
			want: -2500,
		},
		{
			name: "credit only",
			row:  RawRow{"date": "2024-03-01", "description": "misc stuff", "Debit": "", "Credit": "$100.00"},
			want: 10000,
		},
		{
			name: "debit wins over credit",
			row:  RawRow{"date": "2024-03-01", "description": "misc stuff", "Debit": "$25.00", "Credit": "$100.00"},
			want: -2500,
		},
		{
			name: "withdrawal header",
			row:  RawRow{"date": "2024-03-01", "description": "misc stuff", "Withdrawal": "42.00"},
			want: -4200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, diags := Normalize([]RawRow{tt.row}, 1)
			if len(diags) != 0 {
				t.Fatalf("diagnostics = %v, want none", diags)
			}
			if txs[0].Amount.Cents != tt.want {
				t.Errorf("amount = %d cents, want %d", txs[0].Amount.Cents, tt.want)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	txs, _ := Normalize([]RawRow{
		// Explicit category wins over the classifier.
		{"date": "2024-03-01", "description": "Uber trip", "amount": "-10", "Category": "Entertainment"},
		// No category column: classified from the description.
		{"date": "2024-03-01", "description": "Uber trip", "amount": "-10"},
		// Unknown explicit category falls back to other.
		{"date": "2024-03-01", "description": "Uber trip", "amount": "-10", "Category": "crypto"},
	}, 1)

	if txs[0].Category != core.CategoryEntertainment {
		t.Errorf("explicit category = %q, want entertainment", txs[0].Category)
	}
	if txs[1].Category != core.CategoryTransportation {
		t.Errorf("classified category = %q, want transportation", txs[1].Category)
	}
	if txs[2].Category != core.CategoryOther {
		t.Errorf("unknown category = %q, want other", txs[2].Category)
	}
}

func TestNormalizeContinuesPastBadRows(t *testing.T) {
	rows := make([]RawRow, 0, 10)
	for i := 0; i < 9; i++ {
		rows = append(rows, RawRow{"date": "2024-03-01", "description": "ok", "amount": "-1.00"})
	}
	rows = append(rows, RawRow{"date": "not a date", "description": "bad", "amount": "-1.00"})

	txs, diags := Normalize(rows, 1)

	if len(txs) != 10 {
		t.Fatalf("got %d transactions, want 10", len(txs))
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0], "row 10") {
		t.Errorf("diagnostic %q does not name row 10", diags[0])
	}

	placeholder := txs[9]
	if placeholder.Description != "Invalid entry" {
		t.Errorf("placeholder description = %q, want Invalid entry", placeholder.Description)
	}
	if !placeholder.Amount.IsZero() {
		t.Errorf("placeholder amount = %s, want 0.00", placeholder.Amount)
	}
	if placeholder.Category != core.CategoryOther {
		t.Errorf("placeholder category = %q, want other", placeholder.Category)
	}

	valid := 0
	for _, tx := range txs {
		if tx.Description == "ok" {
			valid++
		}
	}
	if valid != 9 {
		t.Errorf("valid transactions = %d, want 9", valid)
	}
}

func TestNormalizeBadAmount(t *testing.T) {
	txs, diags := Normalize([]RawRow{
		{"date": "2024-03-01", "description": "weird", "amount": "12.34.56"},
	}, 1)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if txs[0].Description != "Invalid entry" {
		t.Errorf("placeholder description = %q, want Invalid entry", txs[0].Description)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	txs, diags := Normalize([]RawRow{
		{"amount": "-5.00"},
	}, 1)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}
	if txs[0].Description != "Unknown transaction" {
		t.Errorf("description = %q, want Unknown transaction", txs[0].Description)
	}
	if txs[0].Date.IsZero() {
		t.Error("date is zero, want current time default")
	}
}

func TestNormalizeOrderPreserved(t *testing.T) {
	rows := []RawRow{
		{"date": "2024-03-03", "description": "third", "amount": "-3"},
		{"date": "2024-03-01", "description": "first", "amount": "-1"},
		{"date": "2024-03-02", "description": "second", "amount": "-2"},
	}
	txs, _ := Normalize(rows, 1)
	want := []string{"third", "first", "second"}
	for i, w := range want {
		if txs[i].Description != w {
			t.Errorf("txs[%d].Description = %q, want %q", i, txs[i].Description, w)
		}
	}
}
