package extract

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// Column roles recognized in a transaction table header.
const (
	roleDate        = "date"
	roleDescription = "description"
	roleCredit      = "credit"
	roleDebit       = "debit"
	roleBalance     = "balance"
)

// roleKeywords is the ordered (role, keyword-set) table used to assign a
// semantic role to each header cell. Evaluation is a pure function: for a
// given cell the first keyword hit wins, unmatched cells are ignored.
var roleKeywords = []struct {
	role     string
	keywords []string
}{
	{roleDate, []string{"COMPLETION TIME", "DATE", "TIME"}},
	{roleDescription, []string{"DETAILS", "DESCRIPTION", "NARRATIVE", "PARTICULARS"}},
	{roleCredit, []string{"PAID IN", "CREDIT", "DEPOSIT", "MONEY IN"}},
	{roleDebit, []string{"WITHDRAWN", "PAID OUT", "DEBIT", "MONEY OUT"}},
	{roleBalance, []string{"BALANCE"}},
}

// Header triple that marks a table as a transaction table. Tables missing any
// of the three groups are summary or verification tables and are skipped.
var (
	creditHeaderTokens = []string{"PAID IN", "MONEY IN"}
	debitHeaderTokens  = []string{"WITHDRAWN", "PAID OUT", "MONEY OUT"}
	balanceHeaderToken = "BALANCE"
)

// Rows whose joined text contains one of these are summary rows, not
// transactions.
var summaryRowMarkers = []string{"TOTAL", "SUMMARY", "STATEMENT PERIOD"}

const minHeaderColumns = 6

// TransactionsFromTable extracts transaction records from a single table,
// given as ordered rows of ordered cells. Tables that are not recognized as
// transaction tables yield no records and no error. Malformed rows are
// logged and skipped.
func TransactionsFromTable(table [][]string, logger *slog.Logger) []Transaction {
	if len(table) < 2 {
		return nil
	}

	headerIdx, header := findHeaderRow(table)
	if headerIdx < 0 {
		return nil
	}

	columns := mapColumns(header)

	var transactions []Transaction
	for rowNum := headerIdx + 1; rowNum < len(table); rowNum++ {
		row := table[rowNum]
		if len(row) < len(header) {
			continue
		}
		if isSummaryRow(row) {
			continue
		}

		tx, ok := transactionFromRow(row, columns, rowNum, logger)
		if !ok {
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions
}

// findHeaderRow scans the table for a row that carries the credit, debit and
// balance header tokens across at least minHeaderColumns cells.
func findHeaderRow(table [][]string) (int, []string) {
	for idx, row := range table {
		if len(row) < minHeaderColumns {
			continue
		}
		joined := strings.ToUpper(strings.Join(row, " "))
		if containsAny(joined, creditHeaderTokens) &&
			containsAny(joined, debitHeaderTokens) &&
			strings.Contains(joined, balanceHeaderToken) {
			return idx, row
		}
	}
	return -1, nil
}

// mapColumns assigns a column index to each recognized role. A later header
// cell matching an already-assigned role replaces the earlier assignment.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(roleKeywords))
	for idx, cell := range header {
		cellText := strings.ToUpper(strings.TrimSpace(cell))
		if role, ok := matchRole(cellText); ok {
			columns[role] = idx
		}
	}
	return columns
}

// matchRole returns the first role whose keyword set matches the header cell.
func matchRole(cellText string) (string, bool) {
	for _, rk := range roleKeywords {
		if containsAny(cellText, rk.keywords) {
			return rk.role, true
		}
	}
	return "", false
}

func isSummaryRow(row []string) bool {
	joined := strings.ToUpper(strings.Join(row, " "))
	return containsAny(joined, summaryRowMarkers)
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// transactionFromRow builds one record from a data row. Rows without a
// parseable date or without exactly one of credit/debit are skipped.
func transactionFromRow(row []string, columns map[string]int, rowNum int, logger *slog.Logger) (Transaction, bool) {
	var tx Transaction

	dateCell := cellAt(row, columns, roleDate)
	date, ok := ParseDate(datePortion(dateCell))
	if !ok {
		logger.Debug("skipping row with unparseable date",
			slog.Int("row", rowNum),
			slog.String("cell", dateCell),
		)
		return tx, false
	}

	credit, creditOK := amountCell(row, columns, roleCredit, false)
	debit, debitOK := amountCell(row, columns, roleDebit, true)
	if creditOK && debitOK {
		// Both money-in and money-out on one row means the column mapping
		// no longer lines up with the data; the record is ambiguous.
		logger.Warn("skipping ambiguous row with both credit and debit",
			slog.Int("row", rowNum),
		)
		return tx, false
	}
	if !creditOK && !debitOK {
		return tx, false
	}

	tx.Date = date
	tx.Description = strings.TrimSpace(cellAt(row, columns, roleDescription))
	if creditOK {
		tx.Credit.Decimal, tx.Credit.Valid = credit, true
	}
	if debitOK {
		tx.Debit.Decimal, tx.Debit.Valid = debit, true
	}
	if balance, ok := amountCell(row, columns, roleBalance, false); ok {
		tx.Balance.Decimal, tx.Balance.Valid = balance, true
	}
	return tx, true
}

func cellAt(row []string, columns map[string]int, role string) string {
	idx, ok := columns[role]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// amountCell parses the amount in the role's column. stripMinus handles
// debit columns that render money-out with a leading minus.
func amountCell(row []string, columns map[string]int, role string, stripMinus bool) (decimal.Decimal, bool) {
	cell := strings.TrimSpace(cellAt(row, columns, role))
	if isPlaceholder(cell) {
		return decimal.Decimal{}, false
	}
	if stripMinus {
		cell = strings.TrimPrefix(cell, "-")
	}
	return ParseAmount(cell)
}

// datePortion takes only the date part of a datetime cell.
func datePortion(cell string) string {
	cell = strings.TrimSpace(cell)
	if i := strings.IndexByte(cell, ' '); i >= 0 {
		return cell[:i]
	}
	return cell
}
