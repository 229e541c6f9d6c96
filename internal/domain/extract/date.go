package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// datePatterns are tried in order. The capture group is the date portion,
// which lets the text strategy pick dates out of longer lines.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),                                                     // DD/MM/YYYY or DD-MM-YY
	regexp.MustCompile(`\b(\d{4}[/-]\d{1,2}[/-]\d{1,2})\b`),                                                       // YYYY/MM/DD
	regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})\b`), // DD Mon YYYY
}

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate parses a statement date string and normalizes it to a calendar
// date at midnight UTC. The second return is false when no supported pattern
// matches or the candidate is not a valid calendar date (e.g. day 32).
//
// Three-part candidates are disambiguated by field width: a 4-digit first
// part means Y-M-D, a 4-digit last part means D-M-Y, and a 2-digit last part
// means D-M-YY with the century inferred (below 50 reads as 2000s).
func ParseDate(s string) (time.Time, bool) {
	for _, pattern := range datePatterns {
		m := pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}

		value := strings.ReplaceAll(m[1], "/", "-")
		value = strings.Join(strings.Fields(value), "-")

		parts := strings.Split(value, "-")
		if len(parts) != 3 {
			continue
		}

		var yearStr, monthStr, dayStr string
		switch {
		case len(parts[0]) == 4:
			yearStr, monthStr, dayStr = parts[0], parts[1], parts[2]
		case len(parts[2]) == 4:
			yearStr, monthStr, dayStr = parts[2], parts[1], parts[0]
		case len(parts[2]) == 2:
			yearStr, monthStr, dayStr = inferCentury(parts[2]), parts[1], parts[0]
		default:
			continue
		}

		monthStr, ok := normalizeMonth(monthStr)
		if !ok {
			continue
		}

		candidate := fmt.Sprintf("%s-%s-%s", yearStr, pad2(monthStr), pad2(dayStr))
		t, err := time.ParseInLocation("2006-01-02", candidate, time.UTC)
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// inferCentury maps a two-digit year onto 2000s below 50, 1900s otherwise.
func inferCentury(yy string) string {
	if yy < "50" {
		return "20" + yy
	}
	return "19" + yy
}

// normalizeMonth converts a month token to its numeric form, mapping
// three-letter month abbreviations. Full month names are rejected, matching
// the abbreviation table contract.
func normalizeMonth(s string) (string, bool) {
	if isDigits(s) {
		return s, true
	}
	m, ok := monthAbbrev[strings.ToLower(s)]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d", int(m)), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
