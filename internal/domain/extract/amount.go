package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonAmountChars = regexp.MustCompile(`[^\d.,-]`)

// placeholder cell values that statements use to mean "no amount here".
func isPlaceholder(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "-", "0", "0.00":
		return true
	}
	return false
}

// ParseAmount parses a statement amount string into an exact decimal.
// The second return is false when the string carries no value: empty or
// placeholder tokens, and any residue that is not numeric after cleaning.
// Parsing never fails loudly; "no value" is an expected outcome.
//
// Separator handling: when both ',' and '.' are present the comma is a
// thousands separator and is dropped. A lone comma is a decimal separator
// only when it sits within two characters of the end of the string,
// otherwise it is a thousands separator.
func ParseAmount(s string) (decimal.Decimal, bool) {
	if isPlaceholder(s) {
		return decimal.Decimal{}, false
	}

	clean := nonAmountChars.ReplaceAllString(strings.TrimSpace(s), "")
	if clean == "" {
		return decimal.Decimal{}, false
	}

	hasComma := strings.Contains(clean, ",")
	hasDot := strings.Contains(clean, ".")

	switch {
	case hasComma && hasDot:
		clean = strings.ReplaceAll(clean, ",", "")
	case hasComma:
		lastComma := strings.LastIndex(clean, ",")
		if len(clean)-lastComma-1 <= 2 {
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
