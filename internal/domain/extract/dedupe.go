package extract

import (
	"sort"
	"strings"
)

type txKey struct {
	date        string
	description string
	debit       string
	credit      string
}

func keyOf(tx Transaction) txKey {
	k := txKey{
		date:        tx.DateString(),
		description: strings.ToLower(strings.TrimSpace(tx.Description)),
	}
	if tx.Debit.Valid {
		k.debit = tx.Debit.Decimal.String()
	}
	if tx.Credit.Valid {
		k.credit = tx.Credit.Decimal.String()
	}
	return k
}

// Deduplicate drops repeated transactions, keeping the first occurrence.
// Two transactions are the same when they share a date, a case-insensitive
// trimmed description, and both amounts. Balance is deliberately excluded
// from the key since overlapping chunks can carry the same transaction with
// a different running balance.
func Deduplicate(transactions []Transaction) []Transaction {
	seen := make(map[txKey]struct{}, len(transactions))
	unique := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		k := keyOf(tx)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, tx)
	}
	return unique
}

// SortTransactions orders transactions by date, then description. The sort
// is stable so equal keys keep their extraction order.
func SortTransactions(transactions []Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		return transactions[i].Description < transactions[j].Description
	})
}

// Normalize deduplicates and sorts in one pass, the canonical cleanup after
// merging per-chunk extraction results.
func Normalize(transactions []Transaction) []Transaction {
	unique := Deduplicate(transactions)
	SortTransactions(unique)
	return unique
}
