package memory

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

func TestWriterAppendAndRows(t *testing.T) {
	w := New()
	ctx := context.Background()

	row := ports.AlertRow{
		UserID:    1,
		MonthYear: "2024-03",
		Spent:     core.Money{Cents: -190000},
		Budget:    core.Money{Cents: 100000},
		Timestamp: time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC),
	}
	if err := w.AppendAlert(ctx, row); err != nil {
		t.Fatalf("AppendAlert: %v", err)
	}
	if err := w.AppendAlert(ctx, ports.AlertRow{UserID: 2, MonthYear: "2024-04"}); err != nil {
		t.Fatalf("AppendAlert: %v", err)
	}

	rows := w.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0] != row {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], row)
	}

	// Rows returns a copy; mutating it must not affect the writer.
	rows[0].UserID = 99
	if w.Rows()[0].UserID != 1 {
		t.Error("Rows should return a copy")
	}
}
