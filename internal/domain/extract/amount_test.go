package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", "1234.56", "1234.56", true},
		{"thousands comma", "1,234.56", "1234.56", true},
		{"comma decimal", "1234,56", "1234.56", true},
		{"comma thousands only", "1,234", "1234", true},
		{"currency prefix", "KES 1,234.56", "1234.56", true},
		{"negative", "-500.00", "-500", true},
		{"integer", "750", "750", true},
		{"empty", "", "", false},
		{"dash placeholder", "-", "", false},
		{"letters only", "N/A", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, isPlaceholder(""))
	assert.True(t, isPlaceholder(" - "))
	assert.True(t, isPlaceholder("0"))
	assert.True(t, isPlaceholder("0.00"))
	assert.False(t, isPlaceholder("0.01"))
	assert.False(t, isPlaceholder("100"))
}
