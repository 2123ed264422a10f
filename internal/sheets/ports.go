package sheets

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// AlertRow is one budget-alert record appended to the alert log.
type AlertRow struct {
	UserID    int64
	MonthYear string
	Spent     core.Money
	Budget    core.Money
	Timestamp time.Time
}

// AlertWriter appends budget-alert rows to an external log.
type AlertWriter interface {
	AppendAlert(ctx context.Context, row AlertRow) error
}
