package report

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/finbridge/statement-analyzer/internal/domain/extract"
)

// csvRow is the flat export shape gocsv marshals. Null amounts render as
// empty columns.
type csvRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Debit       string `csv:"debit"`
	Credit      string `csv:"credit"`
	Balance     string `csv:"balance"`
	Reference   string `csv:"reference"`
}

// CSVWriter exports raw transactions for spreadsheet-free consumers.
type CSVWriter struct {
	logger *slog.Logger
}

func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	return &CSVWriter{logger: logger}
}

func (w *CSVWriter) Write(path string, transactions []extract.Transaction) error {
	rows := make([]csvRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = csvRow{
			Date:        tx.DateString(),
			Description: tx.Description,
			Reference:   tx.Reference,
		}
		if tx.Debit.Valid {
			rows[i].Debit = tx.Debit.Decimal.String()
		}
		if tx.Credit.Valid {
			rows[i].Credit = tx.Credit.Decimal.String()
		}
		if tx.Balance.Valid {
			rows[i].Balance = tx.Balance.Decimal.String()
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}

	w.logger.Info("wrote transaction csv",
		slog.String("path", path),
		slog.Int("rows", len(rows)))
	return nil
}
