// Package extract turns raw statement content (tables and page text) into
// normalized transaction records. It implements two strategies: a table
// strategy driven by header-keyword recognition, and a degraded text fallback
// used only when no table on the whole document yields transactions.
package extract

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical unit produced by extraction. A transaction is
// either money-in (Credit) or money-out (Debit), never both. Records are
// immutable after creation; downstream consumers never mutate them.
type Transaction struct {
	Date        time.Time
	Description string
	Debit       decimal.NullDecimal
	Credit      decimal.NullDecimal
	Balance     decimal.NullDecimal
	Reference   string
}

// DateString returns the transaction date in YYYY-MM-DD form.
func (t Transaction) DateString() string {
	return t.Date.Format("2006-01-02")
}

// MonthKey returns the YYYY-MM grouping key for the transaction.
func (t Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// Amount returns whichever of credit or debit is set. The second return is
// false for records that carry neither (which extraction never emits).
func (t Transaction) Amount() (decimal.Decimal, bool) {
	if t.Credit.Valid {
		return t.Credit.Decimal, true
	}
	if t.Debit.Valid {
		return t.Debit.Decimal, true
	}
	return decimal.Decimal{}, false
}

// IsCredit reports whether the record is money-in.
func (t Transaction) IsCredit() bool {
	return t.Credit.Valid
}

// ExtractionError indicates that no transaction could be extracted from a
// document by either strategy. Row- and line-level anomalies never surface as
// this error; they are logged and skipped.
type ExtractionError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.Path, e.Msg)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
