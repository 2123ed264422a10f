package core

// allocation is one row of the fixed recommendation table. The percentages
// sum to 100, allocating the full income across the ten categories.
type allocation struct {
	category Category
	percent  int64
}

// recommendationTable order is part of the contract: callers render rows in
// this order.
var recommendationTable = []allocation{
	{CategoryHousing, 30},
	{CategoryFood, 15},
	{CategoryTransportation, 10},
	{CategoryUtilities, 10},
	{CategoryShopping, 10},
	{CategoryEntertainment, 5},
	{CategoryHealthcare, 5},
	{CategoryPersonal, 5},
	{CategoryEducation, 5},
	{CategoryTravel, 5},
}

// Recommend maps a monthly income to a fixed-percentage budget allocation.
// It is pure and deterministic; it consults no stored state. Callers must
// validate income > 0 before calling.
func Recommend(income Money) []BudgetRecommendation {
	out := make([]BudgetRecommendation, 0, len(recommendationTable))
	for _, a := range recommendationTable {
		out = append(out, BudgetRecommendation{
			Category:   a.category,
			Percentage: a.percent,
			Amount:     income.Percent(a.percent),
			Icon:       a.category.Icon(),
		})
	}
	return out
}
