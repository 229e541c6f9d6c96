package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbridge/statement-analyzer/internal/domain/extract"
)

func TestSummarizer_GenerateMonthlyComparison(t *testing.T) {
	s := NewSummarizer(testLogger())

	txs := []extract.Transaction{
		mkTx("2023-01-10", "Salary", "1000", "", ""),
		mkTx("2023-01-15", "Rent", "", "400", ""),
		mkTx("2023-02-10", "Salary", "2000", "", ""),
		mkTx("2023-02-15", "Rent", "", "600", ""),
		mkTx("2023-02-20", "Extra", "", "100", ""),
		mkTx("2023-03-10", "Salary", "3000", "", ""),
		mkTx("2023-03-15", "Rent", "", "800", ""),
	}

	mc := s.GenerateMonthlyComparison(txs)
	require.Len(t, mc.MonthlySummaries, 3)
	require.Len(t, mc.Comparisons, 2)

	t.Run("february against january", func(t *testing.T) {
		feb := mc.Comparisons["2023-02"]
		assert.Equal(t, "2023-01", feb.ComparedTo)
		assert.InDelta(t, 100.0, feb.CreditChangePercent, 1e-9)
		assert.InDelta(t, 75.0, feb.DebitChangePercent, 1e-9)
		assert.InDelta(t, 50.0, feb.TransactionCountChangePercent, 1e-9)
		assert.Equal(t, "700", feb.NetAmountChange.String())
	})

	t.Run("trend classification", func(t *testing.T) {
		assert.Equal(t, "increasing", mc.Trends.CreditTrend)
		assert.Equal(t, "increasing", mc.Trends.DebitTrend)
		assert.Equal(t, "2023-01 to 2023-03", mc.Trends.AnalysisPeriod)
		assert.False(t, mc.Trends.InsufficientData)
	})
}

func TestAnalyzeTrends_SingleMonth(t *testing.T) {
	s := NewSummarizer(testLogger())

	mc := s.GenerateMonthlyComparison([]extract.Transaction{
		mkTx("2023-01-10", "Salary", "1000", "", ""),
	})
	assert.True(t, mc.Trends.InsufficientData)
	assert.Empty(t, mc.Comparisons)
}

func TestClassifySeries(t *testing.T) {
	assert.Equal(t, "increasing", classifySeries([]float64{1, 2, 3}))
	assert.Equal(t, "decreasing", classifySeries([]float64{3, 2, 1}))
	assert.Equal(t, "stable", classifySeries([]float64{1, 3, 2}))
	assert.Equal(t, "stable", classifySeries([]float64{1, 1, 1}))
}

func TestPctChange(t *testing.T) {
	assert.InDelta(t, 0.0, pctChange(0, 0), 1e-9)
	assert.InDelta(t, 100.0, pctChange(0, 42), 1e-9)
	assert.InDelta(t, -50.0, pctChange(200, 100), 1e-9)
	assert.InDelta(t, 25.0, pctChange(400, 500), 1e-9)
}
