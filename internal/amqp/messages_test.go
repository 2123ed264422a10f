package amqp

import (
	"testing"
	"time"
)

func TestNewBudgetAlertMessage(t *testing.T) {
	msg := NewBudgetAlertMessage(1, "2024-03", -380000, 350000)

	if msg.UserID != 1 || msg.MonthYear != "2024-03" {
		t.Errorf("message key = %d/%s, want 1/2024-03", msg.UserID, msg.MonthYear)
	}
	if msg.SpentCents != -380000 || msg.BudgetCents != 350000 {
		t.Errorf("amounts = %d/%d, want -380000/350000", msg.SpentCents, msg.BudgetCents)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("timestamp should be recent")
	}
}

func TestBudgetAlertMessageJSON(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &BudgetAlertMessage{
		UserID:      7,
		MonthYear:   "2024-03",
		SpentCents:  -400000,
		BudgetCents: 350000,
		Timestamp:   timestamp,
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := BudgetAlertMessageFromJSON(data)
	if err != nil {
		t.Fatalf("BudgetAlertMessageFromJSON: %v", err)
	}

	if parsed.UserID != msg.UserID || parsed.MonthYear != msg.MonthYear {
		t.Errorf("parsed key = %d/%s, want %d/%s", parsed.UserID, parsed.MonthYear, msg.UserID, msg.MonthYear)
	}
	if parsed.SpentCents != msg.SpentCents || parsed.BudgetCents != msg.BudgetCents {
		t.Errorf("parsed amounts = %d/%d, want %d/%d", parsed.SpentCents, parsed.BudgetCents, msg.SpentCents, msg.BudgetCents)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("parsed timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestBudgetAlertMessageInvalidJSON(t *testing.T) {
	if _, err := BudgetAlertMessageFromJSON([]byte(`{"userId": "not_a_number"}`)); err == nil {
		t.Error("BudgetAlertMessageFromJSON should fail on invalid JSON")
	}
}
