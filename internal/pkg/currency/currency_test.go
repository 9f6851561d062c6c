package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopeople/internal/pkg/currency"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct{ in, want string }{
		{"R$ 1.234,56", "1234.56"},
		{"R$1234,56", "1234.56"},
		{"1234,56", "1234.56"},
		{"0,00", "0.00"},
		{"R$ 9.999.999.999,99", "9999999999.99"},
		{" R$ 100,00 ", "100.00"},
		{"000012,50", "12.50"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := currency.Parse(tc.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
			assert.Equal(t, int32(-2), got.Exponent())
		})
	}
}

func TestParse_InvalidFormat(t *testing.T) {
	for _, in := range []string{"", "R$", "abc", "100", "1,5", "1,555", "-5,00", "1e3", "12,3,4"} {
		t.Run(in, func(t *testing.T) {
			_, err := currency.Parse(in)
			assert.ErrorIs(t, err, currency.ErrInvalidFormat)
		})
	}
}

func TestParse_OutOfRange(t *testing.T) {
	_, err := currency.Parse("R$ 10.000.000.000,00")
	assert.ErrorIs(t, err, currency.ErrOutOfRange)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "R$ 1234,56", currency.Format(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$ 0,00", currency.Format(decimal.Zero))
	assert.Equal(t, "R$ 200,00", currency.Format(decimal.NewFromInt(200)))
}

func TestParseFormat_RoundTrip(t *testing.T) {
	values := []string{"0.00", "0.01", "1.10", "200.00", "123456.78", "9999999999.99", "1000000000.05"}
	for _, v := range values {
		x := decimal.RequireFromString(v)
		got, err := currency.Parse(currency.Format(x))
		require.NoError(t, err, v)
		assert.True(t, got.Equal(x), "round trip of %s gave %s", v, got)
	}
}
