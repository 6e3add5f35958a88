package constants

import "strings"

// Category is the closed spending taxonomy. Any value outside this set must
// be coerced to Otros before a result leaves the engine.
type Category string

const (
	Comida          Category = "Comida"
	Transporte      Category = "Transporte"
	Compras         Category = "Compras"
	Entretenimiento Category = "Entretenimiento"
	Otros           Category = "Otros"
)

// allCategories is ordered; keyword scoring iterates in this order so ties
// resolve deterministically.
var allCategories = []Category{
	Comida,
	Transporte,
	Compras,
	Entretenimiento,
	Otros,
}

func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// IsValid reports whether input is exactly one of the allowed categories.
func IsValid(input string) bool {
	for _, cat := range allCategories {
		if input == string(cat) {
			return true
		}
	}
	return false
}

// Coerce maps any label onto the closed set. Unknown labels (including case
// mismatches) become Otros; the second return reports whether the input was
// already valid.
func Coerce(input string) (Category, bool) {
	trimmed := strings.TrimSpace(input)
	if IsValid(trimmed) {
		return Category(trimmed), true
	}
	return Otros, false
}
