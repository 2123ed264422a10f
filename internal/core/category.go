package core

import "strings"

// Category is the closed set of transaction categories. Unknown values
// normalize to CategoryOther so unrecognized labels never propagate silently.
type Category string

const (
	CategoryHousing        Category = "housing"
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryUtilities      Category = "utilities"
	CategoryEntertainment  Category = "entertainment"
	CategoryShopping       Category = "shopping"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryPersonal       Category = "personal"
	CategoryTravel         Category = "travel"
	CategoryIncome         Category = "income"
	CategoryOther          Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryHousing,
	CategoryFood,
	CategoryTransportation,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealthcare,
	CategoryEducation,
	CategoryPersonal,
	CategoryTravel,
	CategoryIncome,
	CategoryOther,
}

// ParseCategory normalizes a free-form label to a known category,
// falling back to CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return known
		}
	}
	return CategoryOther
}

func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c is a member of the known set.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

var categoryColors = map[Category]string{
	CategoryHousing:        "#0466c8",
	CategoryFood:           "#ff5400",
	CategoryTransportation: "#38b000",
	CategoryUtilities:      "#9c9ca9",
	CategoryShopping:       "#d00000",
	CategoryEntertainment:  "#ffbe0b",
	CategoryHealthcare:     "#4ea8de",
	CategoryEducation:      "#8338ec",
	CategoryPersonal:       "#fb5607",
	CategoryTravel:         "#3a86ff",
	CategoryIncome:         "#2ecc71",
	CategoryOther:          "#adb5bd",
}

var categoryIcons = map[Category]string{
	CategoryHousing:        "home",
	CategoryFood:           "restaurant",
	CategoryTransportation: "car",
	CategoryUtilities:      "service",
	CategoryShopping:       "shopping-bag",
	CategoryEntertainment:  "film",
	CategoryHealthcare:     "heart-pulse",
	CategoryEducation:      "graduation-cap",
	CategoryPersonal:       "user",
	CategoryTravel:         "plane",
	CategoryIncome:         "wallet",
	CategoryOther:          "circle",
}

// Color returns the display color (hex) for the category, gray by default.
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return "#adb5bd"
}

// Icon returns the icon name for the category, "circle" by default.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return "circle"
}
