package food

// Filter narrows the catalog. Nil or empty fields are not applied.
// A nutrient bound never matches an item whose value for that nutrient is unknown.
type Filter struct {
	Categories       []Category
	MaxPrice         *float64
	DiabetesFriendly *bool
	AffordableOnly   bool

	MinCalories      *float64
	MaxCalories      *float64
	MinProtein       *float64
	MaxCarbohydrates *float64
	MinFiber         *float64
	MaxGlycemicIndex *float64
}

// Matches reports whether the item satisfies every bound in the filter
func (f Filter) Matches(item Item) bool {
	if f.AffordableOnly && !item.Affordable {
		return false
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, item.Category) {
		return false
	}
	if f.DiabetesFriendly != nil && item.DiabetesFriendly != *f.DiabetesFriendly {
		return false
	}
	if !atMost(item.Price, f.MaxPrice) {
		return false
	}

	n := item.Nutrients
	return atLeast(n.Calories, f.MinCalories) &&
		atMost(n.Calories, f.MaxCalories) &&
		atLeast(n.Protein, f.MinProtein) &&
		atMost(n.Carbohydrates, f.MaxCarbohydrates) &&
		atLeast(n.Fiber, f.MinFiber) &&
		atMost(n.GlycemicIndex, f.MaxGlycemicIndex)
}

func containsCategory(categories []Category, c Category) bool {
	for _, candidate := range categories {
		if candidate == c {
			return true
		}
	}
	return false
}

func atLeast(value, bound *float64) bool {
	if bound == nil {
		return true
	}
	return value != nil && *value >= *bound
}

func atMost(value, bound *float64) bool {
	if bound == nil {
		return true
	}
	return value != nil && *value <= *bound
}
