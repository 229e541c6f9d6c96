// Package summary aggregates extracted transactions into monthly and
// overall analyses. All money arithmetic is exact decimal; float64 appears
// only in ratios and percentages.
package summary

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TopTransaction is one entry in a top-by-amount ranking.
type TopTransaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// DailyTotal holds one calendar day's money movement.
type DailyTotal struct {
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
}

// CategoryStats describes one spending category within a month.
type CategoryStats struct {
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	Percentage float64         `json:"percentage"`
	Type       string          `json:"type"`
}

// BalanceAnalysis tracks the running balance over a month. All fields are
// null when no transaction in the month carried a balance.
type BalanceAnalysis struct {
	Opening decimal.NullDecimal `json:"opening_balance"`
	Closing decimal.NullDecimal `json:"closing_balance"`
	Change  decimal.NullDecimal `json:"balance_change"`
	Peak    decimal.NullDecimal `json:"peak_balance"`
	Lowest  decimal.NullDecimal `json:"lowest_balance"`
}

// MonthlySummary is the full analysis of one calendar month.
type MonthlySummary struct {
	Month            string          `json:"month"`
	TransactionCount int             `json:"transaction_count"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	AverageCredit    decimal.Decimal `json:"average_credit"`
	AverageDebit     decimal.Decimal `json:"average_debit"`

	DailyAverageTransactions float64               `json:"daily_average_transactions"`
	DailyTotals              map[string]DailyTotal `json:"daily_totals"`

	HighestSingleCredit decimal.NullDecimal `json:"highest_single_credit"`
	HighestSingleDebit  decimal.NullDecimal `json:"highest_single_debit"`
	TopCredits          []TopTransaction    `json:"top_credits"`
	TopDebits           []TopTransaction    `json:"top_debits"`

	CategoryBreakdown map[string]CategoryStats `json:"category_breakdown"`
	BalanceAnalysis   BalanceAnalysis          `json:"balance_analysis"`
}

// OverallTotals aggregates money movement across the whole statement.
type OverallTotals struct {
	TotalCredits decimal.Decimal `json:"total_credits"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	NetAmount    decimal.Decimal `json:"net_amount"`
}

// AnalysisPeriod is the inclusive date span the statement covers.
type AnalysisPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TotalDays int       `json:"total_days"`
}

// ComprehensiveSummary is the top-level analysis product.
type ComprehensiveSummary struct {
	TotalTransactions          int                       `json:"total_transactions"`
	MonthlySummaries           map[string]MonthlySummary `json:"monthly_summaries"`
	OverallTotals              OverallTotals             `json:"overall_totals"`
	AnalysisPeriod             *AnalysisPeriod           `json:"analysis_period"`
	AverageMonthlyTransactions float64                   `json:"average_monthly_transactions"`
}

// MonthComparison compares one month against the month before it.
type MonthComparison struct {
	ComparedTo                    string          `json:"compared_to"`
	CreditChangePercent           float64         `json:"credit_change_percent"`
	DebitChangePercent            float64         `json:"debit_change_percent"`
	TransactionCountChangePercent float64         `json:"transaction_count_change_percent"`
	NetAmountChange               decimal.Decimal `json:"net_amount_change"`
}

// TrendAnalysis classifies the credit and debit series across all months.
type TrendAnalysis struct {
	CreditTrend      string `json:"credit_trend,omitempty"`
	DebitTrend       string `json:"debit_trend,omitempty"`
	AnalysisPeriod   string `json:"analysis_period,omitempty"`
	InsufficientData bool   `json:"insufficient_data,omitempty"`
}

// MonthlyComparison is the month-over-month analysis product.
type MonthlyComparison struct {
	MonthlySummaries map[string]MonthlySummary  `json:"monthly_summaries"`
	Comparisons      map[string]MonthComparison `json:"month_over_month_comparisons"`
	Trends           TrendAnalysis              `json:"trend_analysis"`
}

// SummaryCalculationError reports an aggregation that could not produce a
// result.
type SummaryCalculationError struct {
	Msg string
	Err error
}

func (e *SummaryCalculationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("summary calculation: %s: %v", e.Msg, e.Err)
	}
	return "summary calculation: " + e.Msg
}

func (e *SummaryCalculationError) Unwrap() error { return e.Err }
