package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "simple dot", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "negative", input: "-1234.56", want: -123456},
		{name: "explicit plus", input: "+5.00", want: 500},
		{name: "no fraction", input: "42", want: 4200},
		{name: "single fraction digit", input: "3.5", want: 350},
		{name: "third digit rounds down", input: "12.344", want: 1234},
		{name: "third digit rounds up", input: "12.346", want: 1235},
		{name: "zero", input: "0", want: 0},
		{name: "negative zero fraction", input: "-0.99", want: -99},
		{name: "empty", input: "", wantErr: true},
		{name: "bare sign", input: "-", wantErr: true},
		{name: "letters", input: "12a.34", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{123456, "1234.56"},
		{-123456, "-1234.56"},
		{0, "0.00"},
		{5, "0.05"},
		{-5, "-0.05"},
		{150000, "1500.00"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	in := Money{Cents: -123456}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "-1234.56" {
		t.Fatalf("marshal = %s, want -1234.56", data)
	}

	var out Money
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	// Quoted strings are accepted too (CSV-sourced payloads).
	var fromString Money
	if err := json.Unmarshal([]byte(`"99.95"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if fromString.Cents != 9995 {
		t.Errorf("unmarshal string = %d cents, want 9995", fromString.Cents)
	}
}

func TestMoneyPercent(t *testing.T) {
	income := Money{Cents: 500000}
	if got := income.Percent(30); got.Cents != 150000 {
		t.Errorf("Percent(30) = %d, want 150000", got.Cents)
	}
	if got := income.Percent(15); got.Cents != 75000 {
		t.Errorf("Percent(15) = %d, want 75000", got.Cents)
	}
}
