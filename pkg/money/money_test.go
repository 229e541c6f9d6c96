package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDisplay(t *testing.T) {
	assert.Equal(t, "$1,234.56", Display(decimal.RequireFromString("1234.56"), "USD"))
	assert.Equal(t, "-$500.00", Display(decimal.RequireFromString("-500"), "USD"))
	assert.Contains(t, Display(decimal.RequireFromString("1234.5"), "KES"), "1,234.50")
}

func TestDisplay_UnknownCurrencyFallsBack(t *testing.T) {
	assert.Contains(t, Display(decimal.RequireFromString("100"), "NOPE"), "100.00")
}

func TestDisplayNull(t *testing.T) {
	assert.Equal(t, "-", DisplayNull(decimal.NullDecimal{}, "USD", "-"))

	d := decimal.NewNullDecimal(decimal.RequireFromString("42"))
	assert.Equal(t, "$42.00", DisplayNull(d, "USD", "-"))
}
