package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountToken is a loose screen for numeric-looking tokens in free text.
var amountToken = regexp.MustCompile(`\d+(?:[.,]\d{2})?`)

// Keywords that flag a single-amount line as money-out.
var debitKeywords = []string{"debit", "withdrawal", "withdrawn", "paid out"}

// TransactionsFromText scans page text line by line for transactions. This is
// the degraded fallback for statements where no transaction table could be
// recognized; its classification is heuristic and may misread a line.
//
// A line becomes a candidate when it contains a date. The remaining tokens
// split into description tokens and amount tokens. One amount reads as a
// credit, unless the description names a withdrawal. With two amounts the
// second is the running balance and the first is a credit when the balance
// exceeds it, a debit otherwise.
func TransactionsFromText(pages []string, logger *slog.Logger) []Transaction {
	var transactions []Transaction

	for pageNum, pageText := range pages {
		for _, line := range strings.Split(pageText, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			tx, ok := transactionFromLine(line)
			if !ok {
				continue
			}
			transactions = append(transactions, tx)
		}
		logger.Debug("scanned page text", slog.Int("page", pageNum+1))
	}

	return transactions
}

func transactionFromLine(line string) (Transaction, bool) {
	var tx Transaction

	dateStr, ok := findDate(line)
	if !ok {
		return tx, false
	}
	date, ok := ParseDate(dateStr)
	if !ok {
		return tx, false
	}

	rest := strings.Replace(line, dateStr, "", 1)

	var descriptionParts []string
	var amounts []decimal.Decimal
	for _, part := range strings.Fields(rest) {
		if amountToken.MatchString(part) {
			if amount, ok := ParseAmount(part); ok {
				amounts = append(amounts, amount)
			}
			continue
		}
		descriptionParts = append(descriptionParts, part)
	}

	if len(amounts) == 0 {
		return tx, false
	}

	tx.Date = date
	tx.Description = strings.Join(descriptionParts, " ")

	if len(amounts) == 2 {
		tx.Balance.Decimal, tx.Balance.Valid = amounts[1], true
		if amounts[1].GreaterThan(amounts[0]) {
			tx.Credit.Decimal, tx.Credit.Valid = amounts[0], true
		} else {
			tx.Debit.Decimal, tx.Debit.Valid = amounts[0], true
		}
		return tx, true
	}

	if hasDebitKeyword(tx.Description) {
		tx.Debit.Decimal, tx.Debit.Valid = amounts[0], true
	} else {
		tx.Credit.Decimal, tx.Credit.Valid = amounts[0], true
	}
	return tx, true
}

// findDate returns the first date substring in the line.
func findDate(line string) (string, bool) {
	for _, pattern := range datePatterns {
		if m := pattern.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func hasDebitKeyword(description string) bool {
	lower := strings.ToLower(description)
	for _, kw := range debitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
