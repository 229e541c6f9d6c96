package summary

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finbridge/statement-analyzer/internal/domain/extract"
)

const topTransactionCount = 5

// Summarizer turns a date-sorted transaction list into monthly and overall
// analyses.
type Summarizer struct {
	categories *CategoryMatcher
	logger     *slog.Logger
}

func NewSummarizer(logger *slog.Logger) *Summarizer {
	return &Summarizer{
		categories: NewCategoryMatcher(),
		logger:     logger,
	}
}

// GroupByMonth buckets transactions by calendar month. Records without a
// usable date are dropped with a warning; extraction should never produce
// one.
func (s *Summarizer) GroupByMonth(transactions []extract.Transaction) map[string][]extract.Transaction {
	groups := make(map[string][]extract.Transaction)
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			s.logger.Warn("dropping transaction without date",
				slog.String("description", tx.Description))
			continue
		}
		key := tx.MonthKey()
		groups[key] = append(groups[key], tx)
	}
	return groups
}

// SummarizeMonth computes the full analysis for one month's transactions,
// which must arrive in date order.
func (s *Summarizer) SummarizeMonth(monthKey string, transactions []extract.Transaction) MonthlySummary {
	ms := MonthlySummary{
		Month:            monthKey,
		TransactionCount: len(transactions),
	}
	if len(transactions) == 0 {
		return ms
	}

	dailyTotals := make(map[string]DailyTotal)
	for _, tx := range transactions {
		day := dailyTotals[tx.DateString()]
		if tx.Credit.Valid {
			ms.TotalCredits = ms.TotalCredits.Add(tx.Credit.Decimal)
			day.Credits = day.Credits.Add(tx.Credit.Decimal)
		}
		if tx.Debit.Valid {
			ms.TotalDebits = ms.TotalDebits.Add(tx.Debit.Decimal)
			day.Debits = day.Debits.Add(tx.Debit.Decimal)
		}
		dailyTotals[tx.DateString()] = day
	}

	count := decimal.NewFromInt(int64(len(transactions)))
	ms.NetAmount = ms.TotalCredits.Sub(ms.TotalDebits)
	ms.AverageCredit = ms.TotalCredits.Div(count)
	ms.AverageDebit = ms.TotalDebits.Div(count)
	ms.DailyTotals = dailyTotals
	ms.DailyAverageTransactions = float64(len(transactions)) / float64(len(dailyTotals))

	ms.TopCredits, ms.TopDebits = topTransactions(transactions)
	if len(ms.TopCredits) > 0 {
		ms.HighestSingleCredit.Decimal, ms.HighestSingleCredit.Valid = ms.TopCredits[0].Amount, true
	}
	if len(ms.TopDebits) > 0 {
		ms.HighestSingleDebit.Decimal, ms.HighestSingleDebit.Valid = ms.TopDebits[0].Amount, true
	}

	ms.CategoryBreakdown = s.categoryBreakdown(transactions)
	ms.BalanceAnalysis = analyzeBalances(transactions)
	return ms
}

// GenerateComprehensiveSummary groups, summarizes each month, and folds the
// monthly decimal totals into overall totals. The fold uses the exact
// monthly decimals, so monthly nets always sum to the overall net.
func (s *Summarizer) GenerateComprehensiveSummary(transactions []extract.Transaction) (ComprehensiveSummary, error) {
	cs := ComprehensiveSummary{
		MonthlySummaries: make(map[string]MonthlySummary),
	}
	if len(transactions) == 0 {
		return cs, nil
	}

	groups := s.GroupByMonth(transactions)
	if len(groups) == 0 {
		return cs, &SummaryCalculationError{Msg: "no transaction carries a usable date"}
	}

	kept := 0
	for monthKey, monthTx := range groups {
		ms := s.SummarizeMonth(monthKey, monthTx)
		cs.MonthlySummaries[monthKey] = ms
		cs.OverallTotals.TotalCredits = cs.OverallTotals.TotalCredits.Add(ms.TotalCredits)
		cs.OverallTotals.TotalDebits = cs.OverallTotals.TotalDebits.Add(ms.TotalDebits)
		kept += len(monthTx)
	}
	cs.OverallTotals.NetAmount = cs.OverallTotals.TotalCredits.Sub(cs.OverallTotals.TotalDebits)
	cs.TotalTransactions = kept
	cs.AverageMonthlyTransactions = float64(kept) / float64(len(groups))
	cs.AnalysisPeriod = analysisPeriod(transactions)

	s.logger.Info("generated comprehensive summary",
		slog.Int("transactions", kept),
		slog.Int("months", len(groups)))
	return cs, nil
}

func topTransactions(transactions []extract.Transaction) (credits, debits []TopTransaction) {
	for _, tx := range transactions {
		if tx.Credit.Valid {
			credits = append(credits, TopTransaction{
				Date:        tx.DateString(),
				Description: tx.Description,
				Amount:      tx.Credit.Decimal,
			})
		}
		if tx.Debit.Valid {
			debits = append(debits, TopTransaction{
				Date:        tx.DateString(),
				Description: tx.Description,
				Amount:      tx.Debit.Decimal,
			})
		}
	}

	byAmountDesc := func(list []TopTransaction) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Amount.GreaterThan(list[j].Amount)
		})
	}
	byAmountDesc(credits)
	byAmountDesc(debits)

	if len(credits) > topTransactionCount {
		credits = credits[:topTransactionCount]
	}
	if len(debits) > topTransactionCount {
		debits = debits[:topTransactionCount]
	}
	return credits, debits
}

func (s *Summarizer) categoryBreakdown(transactions []extract.Transaction) map[string]CategoryStats {
	breakdown := make(map[string]CategoryStats)
	for _, tx := range transactions {
		amount, ok := tx.Amount()
		if !ok {
			continue
		}

		category := s.categories.Categorize(tx.Description)
		stats := breakdown[category]
		stats.Count++
		stats.Total = stats.Total.Add(amount)
		if tx.IsCredit() {
			stats.Type = "credit"
		} else {
			stats.Type = "debit"
		}
		breakdown[category] = stats
	}

	for category, stats := range breakdown {
		stats.Percentage = float64(stats.Count) / float64(len(transactions)) * 100
		breakdown[category] = stats
	}
	return breakdown
}

// analyzeBalances reads the running balance series in record order.
func analyzeBalances(transactions []extract.Transaction) BalanceAnalysis {
	var balances []decimal.Decimal
	for _, tx := range transactions {
		if tx.Balance.Valid {
			balances = append(balances, tx.Balance.Decimal)
		}
	}

	var ba BalanceAnalysis
	if len(balances) == 0 {
		return ba
	}

	peak, lowest := balances[0], balances[0]
	for _, b := range balances[1:] {
		if b.GreaterThan(peak) {
			peak = b
		}
		if b.LessThan(lowest) {
			lowest = b
		}
	}

	ba.Opening = decimal.NewNullDecimal(balances[0])
	ba.Closing = decimal.NewNullDecimal(balances[len(balances)-1])
	ba.Change = decimal.NewNullDecimal(balances[len(balances)-1].Sub(balances[0]))
	ba.Peak = decimal.NewNullDecimal(peak)
	ba.Lowest = decimal.NewNullDecimal(lowest)
	return ba
}

func analysisPeriod(transactions []extract.Transaction) *AnalysisPeriod {
	var period *AnalysisPeriod
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			continue
		}
		if period == nil {
			period = &AnalysisPeriod{StartDate: tx.Date, EndDate: tx.Date}
			continue
		}
		if tx.Date.Before(period.StartDate) {
			period.StartDate = tx.Date
		}
		if tx.Date.After(period.EndDate) {
			period.EndDate = tx.Date
		}
	}
	if period == nil {
		return nil
	}
	period.TotalDays = int(period.EndDate.Sub(period.StartDate).Hours()/24) + 1
	return period
}
