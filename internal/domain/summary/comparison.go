package summary

import (
	"sort"

	"github.com/finbridge/statement-analyzer/internal/domain/extract"
)

// GenerateMonthlyComparison computes month-over-month deltas and an overall
// trend classification.
func (s *Summarizer) GenerateMonthlyComparison(transactions []extract.Transaction) MonthlyComparison {
	groups := s.GroupByMonth(transactions)

	summaries := make(map[string]MonthlySummary, len(groups))
	for monthKey, monthTx := range groups {
		summaries[monthKey] = s.SummarizeMonth(monthKey, monthTx)
	}

	months := sortedMonths(summaries)

	comparisons := make(map[string]MonthComparison)
	for i := 1; i < len(months); i++ {
		current := summaries[months[i]]
		previous := summaries[months[i-1]]

		comparisons[months[i]] = MonthComparison{
			ComparedTo:          months[i-1],
			CreditChangePercent: pctChange(previous.TotalCredits.InexactFloat64(), current.TotalCredits.InexactFloat64()),
			DebitChangePercent:  pctChange(previous.TotalDebits.InexactFloat64(), current.TotalDebits.InexactFloat64()),
			TransactionCountChangePercent: pctChange(
				float64(previous.TransactionCount), float64(current.TransactionCount)),
			NetAmountChange: current.NetAmount.Sub(previous.NetAmount),
		}
	}

	return MonthlyComparison{
		MonthlySummaries: summaries,
		Comparisons:      comparisons,
		Trends:           analyzeTrends(summaries),
	}
}

// pctChange handles zero divisors: no change when both values are zero,
// a full step when only the previous one is.
func pctChange(prev, curr float64) float64 {
	if prev == 0 {
		if curr == 0 {
			return 0
		}
		return 100
	}
	return (curr - prev) / prev * 100
}

// analyzeTrends classifies the credit and debit series as increasing,
// decreasing, or stable. A series is increasing (decreasing) only when it
// is strictly monotonic across every month.
func analyzeTrends(summaries map[string]MonthlySummary) TrendAnalysis {
	if len(summaries) < 2 {
		return TrendAnalysis{InsufficientData: true}
	}

	months := sortedMonths(summaries)

	credit := make([]float64, len(months))
	debit := make([]float64, len(months))
	for i, m := range months {
		credit[i] = summaries[m].TotalCredits.InexactFloat64()
		debit[i] = summaries[m].TotalDebits.InexactFloat64()
	}

	return TrendAnalysis{
		CreditTrend:    classifySeries(credit),
		DebitTrend:     classifySeries(debit),
		AnalysisPeriod: months[0] + " to " + months[len(months)-1],
	}
}

func classifySeries(values []float64) string {
	increasing, decreasing := true, true
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			increasing = false
		}
		if values[i] >= values[i-1] {
			decreasing = false
		}
	}
	switch {
	case increasing:
		return "increasing"
	case decreasing:
		return "decreasing"
	default:
		return "stable"
	}
}

func sortedMonths(summaries map[string]MonthlySummary) []string {
	months := make([]string, 0, len(summaries))
	for m := range summaries {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}
