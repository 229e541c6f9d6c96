package summary

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// categoryOther collects everything no keyword claims.
const categoryOther = "other"

// categoryDefs is ordered; when a description matches keywords from more
// than one category the earliest category wins. "gas" is deliberately in
// both utilities and transport, resolved by that ordering.
var categoryDefs = []struct {
	name     string
	keywords []string
}{
	{"salary", []string{"salary", "payroll", "wage"}},
	{"utilities", []string{"electric", "water", "gas", "utility"}},
	{"food", []string{"restaurant", "grocery", "food", "cafe"}},
	{"transport", []string{"fuel", "gas", "taxi", "uber", "bus", "train"}},
	{"shopping", []string{"store", "shop", "retail", "amazon"}},
	{"banking", []string{"fee", "charge", "interest", "transfer"}},
	{"atm", []string{"atm", "cash"}},
}

// CategoryMatcher assigns transaction descriptions to spending categories
// by substring keyword search. Matching is deterministic and case
// insensitive. Safe for concurrent use after construction.
type CategoryMatcher struct {
	matcher *ahocorasick.Matcher
	// patternCategory maps a pattern index in the combined dictionary back
	// to its category's position in categoryDefs.
	patternCategory []int
}

func NewCategoryMatcher() *CategoryMatcher {
	var dictionary [][]byte
	var patternCategory []int
	for catIdx, def := range categoryDefs {
		for _, kw := range def.keywords {
			dictionary = append(dictionary, []byte(kw))
			patternCategory = append(patternCategory, catIdx)
		}
	}
	return &CategoryMatcher{
		matcher:         ahocorasick.NewMatcher(dictionary),
		patternCategory: patternCategory,
	}
}

// Categorize returns the category for a description, or "other".
func (m *CategoryMatcher) Categorize(description string) string {
	// MatchThreadSafe: plain Match mutates matcher state between calls.
	hits := m.matcher.MatchThreadSafe([]byte(strings.ToLower(description)))
	if len(hits) == 0 {
		return categoryOther
	}

	best := len(categoryDefs)
	for _, hit := range hits {
		if cat := m.patternCategory[hit]; cat < best {
			best = cat
		}
	}
	return categoryDefs[best].name
}

// Categories lists the known category names in priority order, without
// "other".
func Categories() []string {
	names := make([]string, len(categoryDefs))
	for i, def := range categoryDefs {
		names[i] = def.name
	}
	return names
}
