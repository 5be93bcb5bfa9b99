package catalog_test

import (
	"testing"

	"github.com/fwojciec/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"turkish display format with symbol", "₺1.250,00", "1250"},
		{"machine readable metadata", "1250.00", "1250"},
		{"english grouping", "1,250.00", "1250"},
		{"decimal comma", "249,90 TL", "249.9"},
		{"thousands only", "1.250", "1250"},
		{"millions", "1.250.000", "1250000"},
		{"integer", "399", "399"},
		{"surrounding text", "Fiyat: 89,50 ₺", "89.5"},
		{"single decimal digit", "12.5", "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := catalog.ParsePrice(tt.input)

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}

	t.Run("rejects text without digits", func(t *testing.T) {
		t.Parallel()

		got, err := catalog.ParsePrice("Tükendi")

		require.Error(t, err)
		assert.Equal(t, catalog.EINVALID, catalog.ErrorCode(err))
		assert.True(t, got.IsZero())
	})
}

func TestNormalizeCurrency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TL", catalog.NormalizeCurrency("TRY"))
	assert.Equal(t, "TL", catalog.NormalizeCurrency("try"))
	assert.Equal(t, "TL", catalog.NormalizeCurrency("₺"))
	assert.Equal(t, "TL", catalog.NormalizeCurrency(""))
	assert.Equal(t, "USD", catalog.NormalizeCurrency(" usd "))
}
