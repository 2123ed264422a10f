package core

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month. Its canonical string form is
// "YYYY-MM".
type MonthKey struct {
	Year  int
	Month int // 1-12
}

// ParseMonthKey parses a "YYYY-MM" string.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	return MonthKey{Year: t.Year(), Month: int(t.Month())}, nil
}

// MonthKeyOf returns the month key containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: int(t.Month())}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// Prev returns the previous calendar month, rolling back across the year
// boundary (January -> December of the prior year).
func (k MonthKey) Prev() MonthKey {
	if k.Month == 1 {
		return MonthKey{Year: k.Year - 1, Month: 12}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// AddMonths returns the month n months after k; negative n goes backwards.
// Year rollover is handled for any n.
func (k MonthKey) AddMonths(n int) MonthKey {
	// Months since year zero, shifted to 0-based arithmetic.
	total := k.Year*12 + (k.Month - 1) + n
	return MonthKey{Year: total / 12, Month: total%12 + 1}
}

// Contains reports whether t falls inside the calendar month. Comparison is
// done on the UTC calendar date.
func (k MonthKey) Contains(t time.Time) bool {
	t = t.UTC()
	return t.Year() == k.Year && int(t.Month()) == k.Month
}

// IsZero reports whether the key is the zero value.
func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}
