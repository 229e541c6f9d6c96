// Package money formats exact decimal amounts for display with ISO-4217
// currency rules. Analysis arithmetic stays in shopspring/decimal; this
// package only touches presentation.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a currency code is unknown.
const DefaultCurrency = "KES"

// Display renders an amount with the currency's symbol, separators, and
// fraction digits, e.g. Display(1234.5, "USD") -> "$1,234.50".
func Display(amount decimal.Decimal, currencyCode string) string {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(DefaultCurrency)
	}

	minor := amount.Mul(decimal.New(1, int32(currency.Fraction))).Round(0).IntPart()
	return money.New(minor, currency.Code).Display()
}

// DisplayNull renders a nullable amount, with placeholder for null.
func DisplayNull(amount decimal.NullDecimal, currencyCode, placeholder string) string {
	if !amount.Valid {
		return placeholder
	}
	return Display(amount.Decimal, currencyCode)
}
