package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	tables map[int][][][]string
	text   map[int]string
	errs   map[int]error
	pages  int
}

func (f *fakeSource) NumPages() int { return f.pages }

func (f *fakeSource) PageTables(page int) ([][][]string, error) {
	if err := f.errs[page]; err != nil {
		return nil, err
	}
	return f.tables[page], nil
}

func (f *fakeSource) PageText(page int) (string, error) {
	if err := f.errs[page]; err != nil {
		return "", err
	}
	return f.text[page], nil
}

var statementTable = [][]string{
	{"Receipt No.", "Completion Time", "Details", "Transaction Status", "Paid In", "Withdrawn", "Balance"},
	{"QA1", "01/01/2023", "Salary", "Completed", "50,000.00", "", "52,000.00"},
	{"QA2", "02/01/2023", "Rent", "Completed", "", "20,000.00", "32,000.00"},
}

func TestExtractor_ExtractAll(t *testing.T) {
	extractor := NewExtractor(testLogger())

	t.Run("any table suppresses text extraction document-wide", func(t *testing.T) {
		src := &fakeSource{
			pages:  2,
			tables: map[int][][][]string{1: {statementTable}},
			text: map[int]string{
				1: "03/01/2023 Phantom entry 999.00",
				2: "04/01/2023 Another phantom 111.00",
			},
		}

		transactions, err := extractor.ExtractAll(context.Background(), src, "statement.pdf")
		require.NoError(t, err)
		require.Len(t, transactions, 2)
		assert.Equal(t, "Salary", transactions[0].Description)
	})

	t.Run("falls back to text when no table recognized", func(t *testing.T) {
		src := &fakeSource{
			pages: 1,
			text:  map[int]string{1: "03/01/2023 Mobile Deposit 750.00"},
		}

		transactions, err := extractor.ExtractAll(context.Background(), src, "statement.pdf")
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, "Mobile Deposit", transactions[0].Description)
	})

	t.Run("unreadable page is skipped, not fatal", func(t *testing.T) {
		src := &fakeSource{
			pages:  2,
			tables: map[int][][][]string{2: {statementTable}},
			errs:   map[int]error{1: errors.New("damaged xref")},
		}

		transactions, err := extractor.ExtractAll(context.Background(), src, "statement.pdf")
		require.NoError(t, err)
		assert.Len(t, transactions, 2)
	})

	t.Run("result is deduplicated and sorted", func(t *testing.T) {
		// Overlapping chunk boundaries repeat rows across pages.
		src := &fakeSource{
			pages: 2,
			tables: map[int][][][]string{
				1: {statementTable},
				2: {statementTable},
			},
		}

		transactions, err := extractor.ExtractAll(context.Background(), src, "statement.pdf")
		require.NoError(t, err)
		require.Len(t, transactions, 2)
		assert.Equal(t, "Salary", transactions[0].Description)
		assert.Equal(t, "Rent", transactions[1].Description)
	})

	t.Run("empty document is an error", func(t *testing.T) {
		src := &fakeSource{pages: 2, text: map[int]string{1: "cover page", 2: "terms and conditions"}}

		_, err := extractor.ExtractAll(context.Background(), src, "empty.pdf")
		var extractionErr *ExtractionError
		require.ErrorAs(t, err, &extractionErr)
		assert.Equal(t, "empty.pdf", extractionErr.Path)
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		src := &fakeSource{pages: 1, tables: map[int][][][]string{1: {statementTable}}}
		_, err := extractor.ExtractAll(ctx, src, "statement.pdf")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
