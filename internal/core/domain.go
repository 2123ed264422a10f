package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCategory  = errors.New("invalid category")
)

type (
	// Transaction is a single normalized ledger entry. Amount is signed:
	// negative for expenses, positive for income/credits.
	Transaction struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"userId"`
		Date        time.Time `json:"date"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Category    Category  `json:"category"`
		Merchant    string    `json:"merchant,omitempty"`
		Notes       string    `json:"notes,omitempty"`
	}

	// Budget holds the spending targets for one user and month. At most one
	// record exists per (UserID, MonthYear); writes go through an upsert.
	Budget struct {
		ID                   int64  `json:"id"`
		UserID               int64  `json:"userId"`
		MonthYear            string `json:"monthYear"` // "YYYY-MM"
		TotalBudget          Money  `json:"totalBudget"`
		HousingBudget        *Money `json:"housingBudget,omitempty"`
		FoodBudget           *Money `json:"foodBudget,omitempty"`
		TransportationBudget *Money `json:"transportationBudget,omitempty"`
		UtilitiesBudget      *Money `json:"utilitiesBudget,omitempty"`
		EntertainmentBudget  *Money `json:"entertainmentBudget,omitempty"`
		ShoppingBudget       *Money `json:"shoppingBudget,omitempty"`
		HealthcareBudget     *Money `json:"healthcareBudget,omitempty"`
		EducationBudget      *Money `json:"educationBudget,omitempty"`
		PersonalBudget       *Money `json:"personalBudget,omitempty"`
		TravelBudget         *Money `json:"travelBudget,omitempty"`
		OtherBudget          *Money `json:"otherBudget,omitempty"`
		SavingsGoal          *Money `json:"savingsGoal,omitempty"`
	}

	// User holds per-user preferences. PaymentIntegrations is an unordered,
	// duplicate-free set of provider ids; the providers themselves are never
	// contacted.
	User struct {
		ID                   int64    `json:"id"`
		Username             string   `json:"username"`
		Currency             string   `json:"currency"`
		EnableBudgetWarnings bool     `json:"enableBudgetWarnings"`
		PaymentIntegrations  []string `json:"paymentIntegrations"`
	}

	// MonthlySummary is the derived per-month aggregate. TotalSpent sums
	// signed amounts, so income entries reduce the reported total.
	MonthlySummary struct {
		Month              string             `json:"month"`
		TotalSpent         Money              `json:"totalSpent"`
		ComparedToPrevious float64            `json:"comparedToPrevious"`
		Categories         map[Category]Money `json:"categories"`
	}

	// CategoryBreakdown is one slice of the per-category spending pie.
	CategoryBreakdown struct {
		Category   Category `json:"category"`
		Amount     Money    `json:"amount"`
		Percentage float64  `json:"percentage"`
		Color      string   `json:"color"`
	}

	// BudgetRecommendation is one row of the fixed-percentage allocation
	// produced by Recommend.
	BudgetRecommendation struct {
		Category   Category `json:"category"`
		Percentage int64    `json:"percentage"`
		Amount     Money    `json:"amount"`
		Icon       string   `json:"icon"`
	}
)

// Validate checks the invariants every stored transaction must satisfy.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

// Validate checks the budget's natural key.
func (b Budget) Validate() error {
	if _, err := ParseMonthKey(b.MonthYear); err != nil {
		return err
	}
	return nil
}

// CategoryBudget returns the optional per-category budget, if set.
func (b Budget) CategoryBudget(c Category) (Money, bool) {
	fields := map[Category]*Money{
		CategoryHousing:        b.HousingBudget,
		CategoryFood:           b.FoodBudget,
		CategoryTransportation: b.TransportationBudget,
		CategoryUtilities:      b.UtilitiesBudget,
		CategoryEntertainment:  b.EntertainmentBudget,
		CategoryShopping:       b.ShoppingBudget,
		CategoryHealthcare:     b.HealthcareBudget,
		CategoryEducation:      b.EducationBudget,
		CategoryPersonal:       b.PersonalBudget,
		CategoryTravel:         b.TravelBudget,
		CategoryOther:          b.OtherBudget,
	}
	if v := fields[c]; v != nil {
		return *v, true
	}
	return Money{}, false
}

// NormalizeIntegrations trims, deduplicates and drops empty provider ids,
// preserving first-seen order.
func NormalizeIntegrations(ids []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
