package extract

import (
	"context"
	"log/slog"
)

// Source is a page-oriented view of an open statement document.
// internal/domain/document.Handle satisfies it.
type Source interface {
	NumPages() int
	PageTables(page int) ([][][]string, error)
	PageText(page int) (string, error)
}

// Extractor pulls transactions out of a statement document. It runs the
// table strategy over every page first and falls back to free-text scanning
// of the whole document only when no table anywhere produced a transaction.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractAll walks every page of the source. Per-page read errors are logged
// and skipped so one damaged page does not lose the rest of the statement.
// The result is deduplicated and sorted by (date, description). It returns
// an ExtractionError only when the whole document yields nothing.
func (e *Extractor) ExtractAll(ctx context.Context, src Source, path string) ([]Transaction, error) {
	transactions, err := e.tablePass(ctx, src, path)
	if err != nil {
		return nil, err
	}

	if len(transactions) == 0 {
		e.logger.Info("no transactions from tables, trying text extraction",
			slog.String("path", path))
		transactions, err = e.textPass(ctx, src, path)
		if err != nil {
			return nil, err
		}
	}

	if len(transactions) == 0 {
		return nil, &ExtractionError{Path: path, Msg: "no transactions found in document"}
	}

	transactions = Normalize(transactions)
	e.logger.Info("extraction complete",
		slog.String("path", path),
		slog.Int("transactions", len(transactions)))
	return transactions, nil
}

func (e *Extractor) tablePass(ctx context.Context, src Source, path string) ([]Transaction, error) {
	var transactions []Transaction
	for page := 1; page <= src.NumPages(); page++ {
		if err := ctx.Err(); err != nil {
			return nil, &ExtractionError{Path: path, Msg: "extraction cancelled", Err: err}
		}

		tables, err := src.PageTables(page)
		if err != nil {
			e.logger.Warn("skipping unreadable page",
				slog.String("path", path),
				slog.Int("page", page),
				slog.Any("error", err))
			continue
		}
		for _, table := range tables {
			transactions = append(transactions, TransactionsFromTable(table, e.logger)...)
		}
	}
	return transactions, nil
}

func (e *Extractor) textPass(ctx context.Context, src Source, path string) ([]Transaction, error) {
	var pages []string
	for page := 1; page <= src.NumPages(); page++ {
		if err := ctx.Err(); err != nil {
			return nil, &ExtractionError{Path: path, Msg: "extraction cancelled", Err: err}
		}

		text, err := src.PageText(page)
		if err != nil {
			e.logger.Warn("skipping unreadable page",
				slog.String("path", path),
				slog.Int("page", page),
				slog.Any("error", err))
			continue
		}
		pages = append(pages, text)
	}
	return TransactionsFromText(pages, e.logger), nil
}
