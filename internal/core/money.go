// Package core provides the domain model for the finance tracker:
// transactions, budgets, categories and money handling.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and decimal representations.
package core

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a signed fixed-point amount in cents. Negative values are
// expenses, positive values income/credits by convention. It marshals to
// JSON as a plain number with two fractional digits.
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to signed cents with
// half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign. Returns an error for anything else.
//
// Examples:
//
//	ParseDecimalToCents("12.34")    -> 1234, nil
//	ParseDecimalToCents("-1234.56") -> -123456, nil
//	ParseDecimalToCents("12.346")   -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Split into integer and fractional part
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return cents, nil
}

// ParseMoney is a convenience wrapper around ParseDecimalToCents.
func ParseMoney(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// String formats the amount as a decimal with two fractional digits.
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Float64 returns the decimal value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "null" {
		return nil
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return fmt.Errorf("unmarshal money %q: %w", s, err)
	}
	m.Cents = cents
	return nil
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Percent returns pct percent of the amount, truncated to whole cents.
func (m Money) Percent(pct int64) Money {
	return Money{Cents: m.Cents * pct / 100}
}
