package core

import "strings"

// categoryKeywords pairs a category with the substrings that suggest it.
// Order matters: when a description matches keywords from several
// categories, the first entry wins. Do not reorder.
type categoryKeywords struct {
	category Category
	keywords []string
}

var classifierTable = []categoryKeywords{
	{CategoryHousing, []string{"rent", "mortgage", "apartment", "property", "housing", "hoa", "management"}},
	{CategoryFood, []string{"grocery", "restaurant", "food", "meal", "dining", "cafe", "coffee", "dinner", "lunch", "breakfast"}},
	{CategoryTransportation, []string{"gas", "uber", "lyft", "taxi", "car", "auto", "vehicle", "bus", "train", "subway", "transport"}},
	{CategoryUtilities, []string{"electric", "water", "gas bill", "internet", "phone", "cell", "utility", "cable", "heating"}},
	{CategoryEntertainment, []string{"movie", "theatre", "theater", "concert", "netflix", "spotify", "subscription", "entertainment"}},
	{CategoryShopping, []string{"amazon", "walmart", "target", "shop", "store", "mall", "purchase", "retail"}},
	{CategoryHealthcare, []string{"doctor", "medical", "health", "dental", "pharmacy", "hospital", "clinic", "insurance"}},
	{CategoryEducation, []string{"tuition", "school", "university", "college", "course", "book", "education"}},
	{CategoryPersonal, []string{"haircut", "salon", "spa", "gym", "fitness", "personal"}},
	{CategoryTravel, []string{"hotel", "airbnb", "flight", "airline", "vacation", "travel", "trip"}},
	{CategoryIncome, []string{"salary", "paycheck", "deposit", "income", "direct deposit", "payment received", "refund"}},
}

// Classify maps a free-text transaction description to a category by
// substring matching against the keyword table. The first category whose
// keyword list matches anywhere in the description wins; descriptions
// matching nothing classify as CategoryOther.
func Classify(description string) Category {
	desc := strings.ToLower(description)
	for _, entry := range classifierTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(desc, keyword) {
				return entry.category
			}
		}
	}
	return CategoryOther
}
