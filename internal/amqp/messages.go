package amqp

import (
	"encoding/json"
	"time"
)

// BudgetAlertMessage signals that a user's month-to-date spending crossed
// the stored budget. Amounts are cents; the worker re-reads current state
// from the database before notifying, so the snapshot here is informational.
type BudgetAlertMessage struct {
	UserID      int64     `json:"userId"`
	MonthYear   string    `json:"monthYear"`
	SpentCents  int64     `json:"spentCents"`
	BudgetCents int64     `json:"budgetCents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage creates an alert message stamped with the current time.
func NewBudgetAlertMessage(userID int64, monthYear string, spentCents, budgetCents int64) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		UserID:      userID,
		MonthYear:   monthYear,
		SpentCents:  spentCents,
		BudgetCents: budgetCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes.
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
