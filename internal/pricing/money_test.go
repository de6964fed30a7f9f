package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lojatech/precifica/internal/pricing"
)

func TestParseBRLCents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cents int64
		ok    bool
	}{
		{"brazilian format with symbol", "R$ 1.234,56", 123456, true},
		{"brazilian format without symbol", "1.234,56", 123456, true},
		{"plain decimal point", "1234.56", 123456, true},
		{"plain integer", "4300", 430000, true},
		{"comma decimal no thousands", "99,90", 9990, true},
		{"symbol glued to number", "R$4999,00", 499900, true},
		{"lowercase symbol", "r$ 10,00", 1000, true},
		{"multiple thousand groups", "R$ 1.234.567,89", 123456789, true},
		{"internal spaces", "R$  2 500,00", 250000, true},
		{"zero", "0", 0, true},
		{"empty string", "", 0, false},
		{"only symbol", "R$", 0, false},
		{"garbage", "consulte", 0, false},
		{"negative", "-10,00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cents, ok := pricing.ParseBRLCents(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cents, cents)
		})
	}
}

func TestCentsConversions(t *testing.T) {
	t.Run("Should round-trip whole centavos", func(t *testing.T) {
		assert.Equal(t, 1150.0, pricing.CentsToFloat(115000))
		assert.Equal(t, int64(115000), pricing.FloatToCents(1150.0))
	})

	t.Run("Should round to nearest centavo", func(t *testing.T) {
		assert.Equal(t, int64(1000), pricing.FloatToCents(9.999))
		assert.Equal(t, int64(999), pricing.FloatToCents(9.994))
	})

	t.Run("Should treat invalid floats as zero", func(t *testing.T) {
		assert.Equal(t, int64(0), pricing.FloatToCents(-1))
	})
}
