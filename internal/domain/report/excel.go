// Package report renders extraction and analysis results to Excel and CSV
// files for downstream review.
package report

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/finbridge/statement-analyzer/internal/domain/extract"
	"github.com/finbridge/statement-analyzer/internal/domain/summary"
)

const (
	transactionsSheet = "Transactions"
	monthlySheet      = "Monthly Summary"
	overviewSheet     = "Overview"

	headerFillColor = "366092"
)

var transactionHeaders = []string{"Date", "Description", "Debit", "Credit", "Balance", "Reference"}

// ExcelWriter builds statement analysis workbooks.
type ExcelWriter struct {
	logger *slog.Logger
}

func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	return &ExcelWriter{logger: logger}
}

// GenerateFilename joins base, optional suffix, and a timestamp into an
// xlsx filename.
func GenerateFilename(base, suffix string, now time.Time) string {
	name := base
	if suffix != "" {
		name += "_" + suffix
	}
	return fmt.Sprintf("%s_%s.xlsx", name, now.Format("20060102_150405"))
}

// Write renders the workbook to path: one sheet of raw transactions, one of
// monthly summaries, and an overview with overall totals and the analysis
// period.
func (w *ExcelWriter) Write(path string, transactions []extract.Transaction, cs summary.ComprehensiveSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := w.writeTransactions(f, headerStyle, transactions); err != nil {
		return err
	}
	if err := w.writeMonthlySummaries(f, headerStyle, cs); err != nil {
		return err
	}
	if err := w.writeOverview(f, headerStyle, cs); err != nil {
		return err
	}

	// The default sheet is replaced by the three we created.
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
		f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}

	w.logger.Info("wrote analysis workbook",
		slog.String("path", path),
		slog.Int("transactions", len(transactions)))
	return nil
}

func (w *ExcelWriter) writeTransactions(f *excelize.File, headerStyle int, transactions []extract.Transaction) error {
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", transactionsSheet, err)
	}

	if err := writeHeaderRow(f, transactionsSheet, headerStyle, transactionHeaders); err != nil {
		return err
	}

	for i, tx := range transactions {
		row := i + 2
		values := []any{
			tx.DateString(),
			tx.Description,
			nullAmount(tx.Debit),
			nullAmount(tx.Credit),
			nullAmount(tx.Balance),
			tx.Reference,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(transactionsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(transactionsSheet, "A", "F", 18)
}

func (w *ExcelWriter) writeMonthlySummaries(f *excelize.File, headerStyle int, cs summary.ComprehensiveSummary) error {
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", monthlySheet, err)
	}

	headers := []string{
		"Month", "Transactions", "Total Credits", "Total Debits", "Net Amount",
		"Highest Credit", "Highest Debit", "Opening Balance", "Closing Balance",
	}
	if err := writeHeaderRow(f, monthlySheet, headerStyle, headers); err != nil {
		return err
	}

	months := make([]string, 0, len(cs.MonthlySummaries))
	for m := range cs.MonthlySummaries {
		months = append(months, m)
	}
	sort.Strings(months)

	for i, month := range months {
		ms := cs.MonthlySummaries[month]
		row := i + 2
		values := []any{
			ms.Month,
			ms.TransactionCount,
			ms.TotalCredits.InexactFloat64(),
			ms.TotalDebits.InexactFloat64(),
			ms.NetAmount.InexactFloat64(),
			nullAmount(ms.HighestSingleCredit),
			nullAmount(ms.HighestSingleDebit),
			nullAmount(ms.BalanceAnalysis.Opening),
			nullAmount(ms.BalanceAnalysis.Closing),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(monthlySheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(monthlySheet, "A", "I", 16)
}

func (w *ExcelWriter) writeOverview(f *excelize.File, headerStyle int, cs summary.ComprehensiveSummary) error {
	if _, err := f.NewSheet(overviewSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", overviewSheet, err)
	}

	rows := [][2]any{
		{"Total Transactions", cs.TotalTransactions},
		{"Months Covered", len(cs.MonthlySummaries)},
		{"Total Credits", cs.OverallTotals.TotalCredits.InexactFloat64()},
		{"Total Debits", cs.OverallTotals.TotalDebits.InexactFloat64()},
		{"Net Amount", cs.OverallTotals.NetAmount.InexactFloat64()},
		{"Avg Monthly Transactions", cs.AverageMonthlyTransactions},
	}
	if cs.AnalysisPeriod != nil {
		rows = append(rows,
			[2]any{"Period Start", cs.AnalysisPeriod.StartDate.Format("2006-01-02")},
			[2]any{"Period End", cs.AnalysisPeriod.EndDate.Format("2006-01-02")},
			[2]any{"Period Days", cs.AnalysisPeriod.TotalDays},
		)
	}

	for i, kv := range rows {
		row := i + 1
		keyCell, _ := excelize.CoordinatesToCellName(1, row)
		valCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(overviewSheet, keyCell, kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(overviewSheet, valCell, kv[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(overviewSheet, keyCell, keyCell, headerStyle); err != nil {
			return err
		}
	}

	return f.SetColWidth(overviewSheet, "A", "B", 24)
}

func writeHeaderRow(f *excelize.File, sheet string, style int, headers []string) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// nullAmount maps a null decimal to an empty cell, never a zero.
func nullAmount(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}
