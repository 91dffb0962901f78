package pricing

import (
	"strings"

	"vialmedia/internal/pkg/errs"
)

const laborCategory = "mano de obra"

// RecipeItem is one resource entry of a product recipe, as stored on the
// catalog side.
type RecipeItem struct {
	ResourceName string
	ResourceCode string
	Category     string
	Quantity     float64
	UnitCost     float64
}

// Match names the selected variant that was associated with a recipe resource.
type Match struct {
	Variant string
	Value   string
}

var ErrAmbiguousMatch = errs.New("multiple variants match the same resource")

// Matcher associates a recipe resource with one of the line's selected
// variants. The association is heuristic; implementations can be swapped
// without touching the calculation.
type Matcher interface {
	Match(item RecipeItem, variants map[string]string) (Match, bool, error)
}

// ContainmentMatcher matches by case-insensitive name containment between the
// variant name and the resource name or code. When more than one variant
// matches the same resource it returns ErrAmbiguousMatch instead of picking
// one; upstream behavior for that case was never defined.
type ContainmentMatcher struct{}

func NewContainmentMatcher() *ContainmentMatcher {
	return &ContainmentMatcher{}
}

func (m *ContainmentMatcher) Match(item RecipeItem, variants map[string]string) (Match, bool, error) {
	name := strings.ToLower(strings.TrimSpace(item.ResourceName))
	code := strings.ToLower(strings.TrimSpace(item.ResourceCode))

	var found []Match
	for variant, value := range variants {
		v := strings.ToLower(variant)
		if contains(v, name) || contains(v, code) {
			found = append(found, Match{Variant: variant, Value: value})
		}
	}

	switch len(found) {
	case 0:
		return Match{}, false, nil
	case 1:
		return found[0], true, nil
	default:
		return Match{}, false, ErrAmbiguousMatch
	}
}

// contains is bidirectional: "mano de obra instalación" should match a
// resource named "instalación" and vice versa. Empty names never match.
func contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// AdjustedBasePrice subtracts the cost of labor recipe components whose
// selected variant value is the literal "no" from the base price. Any lookup
// trouble (no match, ambiguous match) leaves the base price untouched for that
// component and is reported through warn; it is never a hard failure.
func AdjustedBasePrice(basePrice float64, recipe []RecipeItem, variants map[string]string, matcher Matcher, warn func(msg string)) float64 {
	if len(variants) == 0 || len(recipe) == 0 {
		return basePrice
	}
	if warn == nil {
		warn = func(string) {}
	}

	var laborToSubtract float64
	for _, item := range recipe {
		if strings.ToLower(strings.TrimSpace(item.Category)) != laborCategory {
			continue
		}

		match, ok, err := matcher.Match(item, variants)
		if err != nil {
			warn("ambiguous variant match for resource " + item.ResourceName + ", using base price for it")
			continue
		}
		if !ok {
			continue
		}

		if strings.ToLower(strings.TrimSpace(match.Value)) == "no" {
			laborToSubtract += item.Quantity * item.UnitCost
		}
	}

	adjusted := basePrice - laborToSubtract
	if adjusted < 0 {
		return 0
	}
	return adjusted
}
