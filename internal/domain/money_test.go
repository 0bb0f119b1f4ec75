package domain_test

import (
	"math"
	"testing"

	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"usd", "USD", true},
		{" eur ", "EUR", true},
		{"GBP", "GBP", true},
		{"", "", false},
		{"us", "", false},
		{"usdt", "", false},
		{"u$d", "", false},
	}

	for _, tt := range tests {
		got, ok := domain.NormalizeCurrency(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestRoundToCents(t *testing.T) {
	assert.Equal(t, 10.12, domain.RoundToCents(10.1234))
	assert.Equal(t, 10.13, domain.RoundToCents(10.125))
	assert.Equal(t, 1.01, domain.RoundToCents(1.005))
	assert.Equal(t, 20.0, domain.RoundToCents(20))
	assert.Equal(t, 0.0, domain.RoundToCents(0))
}

func TestMonetaryValue(t *testing.T) {
	t.Run("both parts valid", func(t *testing.T) {
		amount, currency, ok := domain.MonetaryValue(ptr(10.1234), "usd")

		assert.True(t, ok)
		assert.Equal(t, 10.12, amount)
		assert.Equal(t, "USD", currency)
	})

	t.Run("invalid currency drops the whole block", func(t *testing.T) {
		for _, c := range []string{"", "dollars", "us"} {
			_, _, ok := domain.MonetaryValue(ptr(20), c)
			assert.False(t, ok, "currency %q", c)
		}
	})

	t.Run("missing or non-finite value drops the whole block", func(t *testing.T) {
		_, _, ok := domain.MonetaryValue(nil, "USD")
		assert.False(t, ok)

		_, _, ok = domain.MonetaryValue(ptr(math.NaN()), "USD")
		assert.False(t, ok)

		_, _, ok = domain.MonetaryValue(ptr(math.Inf(1)), "USD")
		assert.False(t, ok)
	})

	t.Run("value that overflows when scaled to cents drops the whole block", func(t *testing.T) {
		for _, v := range []float64{1e307, -1e307, math.MaxFloat64} {
			amount, currency, ok := domain.MonetaryValue(ptr(v), "usd")
			assert.False(t, ok, "value %g", v)
			assert.Zero(t, amount)
			assert.Empty(t, currency)
		}
	})

	t.Run("large value that still scales is kept", func(t *testing.T) {
		amount, _, ok := domain.MonetaryValue(ptr(1e15), "usd")
		assert.True(t, ok)
		assert.Equal(t, 1e15, amount)
	})
}
