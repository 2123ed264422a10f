package memory

import (
	"context"
	"sync"

	ports "fintrack/internal/sheets"
)

// Writer records alert rows in memory. Used by tests and by local runs
// without Google credentials.
type Writer struct {
	mu   sync.Mutex
	rows []ports.AlertRow
}

var _ ports.AlertWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) AppendAlert(_ context.Context, row ports.AlertRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, row)
	return nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []ports.AlertRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ports.AlertRow, len(w.rows))
	copy(out, w.rows)
	return out
}
