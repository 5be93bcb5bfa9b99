package catalog

import (
	"regexp"
	"strings"
)

// UnknownIngredient names an ingredient whose fragment carried an amount or
// percentage but no readable name.
const UnknownIngredient = "unknown"

// Ingredient is one parsed entry of a product's composition.
// Empty optional fields mean the value was not present in the source text.
type Ingredient struct {
	RawText    string `json:"rawText"`
	Name       string `json:"name"`
	Percentage string `json:"percentage,omitempty"`
	Amount     string `json:"amount,omitempty"`
	Unit       string `json:"unit,omitempty"`
}

// ExcludedIngredientTerms lists lowercase terms marking serving-size
// headers rather than ingredients.
var ExcludedIngredientTerms = []string{
	"beher",
	"miktarı",
	"tutar",
	"serving size",
	"amount per",
}

var (
	bulletRe     = regexp.MustCompile(`^[•\-\*]\s*`)
	percentageRe = regexp.MustCompile(`\(?([<>≤≥=]?\s*\d+(?:[.,]\d+)?\s*%|%\s*\d+(?:[.,]\d+)?)\)?`)
	amountRe     = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*([a-zA-Z]{1,3}|µg|μg|softgel|kapsül|kapsul|tablet|adet)$`)
)

// ExclusionRule reports whether a fragment is a header or serving-size
// line that must not become an ingredient.
func ExclusionRule(fragment string) bool {
	lower := strings.ToLower(fragment)
	for _, term := range ExcludedIngredientTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// PercentageRule extracts the first percentage token such as "30%",
// "(%5)" or "≥ 4%" from fragment. It returns the token and the fragment
// with the token removed.
func PercentageRule(fragment string) (percentage, rest string, ok bool) {
	m := percentageRe.FindStringSubmatch(fragment)
	if m == nil {
		return "", fragment, false
	}
	rest = strings.TrimSpace(strings.ReplaceAll(fragment, m[0], " "))
	return strings.TrimSpace(m[1]), rest, true
}

// AmountRule extracts a trailing amount and unit such as "270 mg" or
// "2,5g" from fragment. The amount uses a dot as decimal separator.
// It returns the text preceding the amount as the name part.
func AmountRule(fragment string) (amount, unit, namePart string, ok bool) {
	loc := amountRe.FindStringSubmatchIndex(fragment)
	if loc == nil {
		return "", "", fragment, false
	}
	amount = strings.ReplaceAll(fragment[loc[2]:loc[3]], ",", ".")
	unit = strings.TrimSpace(fragment[loc[4]:loc[5]])
	namePart = strings.TrimSpace(fragment[:loc[0]])
	return amount, unit, namePart, true
}

// ParseIngredients splits a free-form ingredient block into typed entries.
//
// The block is split on commas. Each fragment is stripped of bullet markers,
// dropped if it is a header line, then parsed for a percentage, a trailing
// amount with unit and a name, in that order. Fragments yielding none of
// the three are discarded. The function never fails.
func ParseIngredients(text string) []Ingredient {
	text = strings.NewReplacer("\r", " ", "\n", " ").Replace(text)

	var ingredients []Ingredient
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = bulletRe.ReplaceAllString(part, "")
		if part == "" || ExclusionRule(part) {
			continue
		}

		ing := Ingredient{RawText: part}

		rest := part
		if pct, r, ok := PercentageRule(part); ok {
			ing.Percentage = pct
			rest = r
		}

		namePart := rest
		if amount, unit, n, ok := AmountRule(rest); ok {
			ing.Amount = amount
			ing.Unit = unit
			namePart = n
		}

		ing.Name = strings.Trim(namePart, " \t:;.,-")
		if ing.Name == "" && ing.Amount == "" && ing.Percentage == "" {
			continue
		}
		if ing.Name == "" {
			ing.Name = UnknownIngredient
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients
}
