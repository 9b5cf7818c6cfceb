package dexmath

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	t.Run("scales by token decimals", func(t *testing.T) {
		amount, ok := new(big.Int).SetString("1500000000000000000", 10)
		require.True(t, ok)

		got := ToDecimal(amount, 18)
		assert.True(t, got.Equal(decimal.RequireFromString("1.5")), "got %s", got)
	})

	t.Run("six decimal token", func(t *testing.T) {
		got := ToDecimal(big.NewInt(2500000), 6)
		assert.True(t, got.Equal(decimal.RequireFromString("2.5")), "got %s", got)
	})

	t.Run("zero decimals returns raw amount", func(t *testing.T) {
		got := ToDecimal(big.NewInt(123456), 0)
		assert.True(t, got.Equal(decimal.NewFromInt(123456)), "got %s", got)
	})
}

func TestSafeDiv(t *testing.T) {
	t.Run("zero denominator yields zero", func(t *testing.T) {
		got := SafeDiv(decimal.NewFromInt(10), decimal.Zero)
		assert.True(t, got.IsZero())
	})

	t.Run("regular division", func(t *testing.T) {
		got := SafeDiv(decimal.NewFromInt(10), decimal.NewFromInt(4))
		assert.True(t, got.Equal(decimal.RequireFromString("2.5")), "got %s", got)
	})
}

func TestPow(t *testing.T) {
	t.Run("zero exponent yields one for any base", func(t *testing.T) {
		assert.True(t, Pow(decimal.Zero, 0).Equal(One))
		assert.True(t, Pow(decimal.NewFromInt(7), 0).Equal(One))
	})

	t.Run("positive exponent", func(t *testing.T) {
		got := Pow(decimal.NewFromInt(10), 6)
		assert.True(t, got.Equal(decimal.NewFromInt(1000000)), "got %s", got)
	})

	t.Run("negative exponent", func(t *testing.T) {
		got := Pow(decimal.NewFromInt(2), -2)
		assert.True(t, got.Equal(decimal.RequireFromString("0.25")), "got %s", got)
	})

	t.Run("zero base negative exponent yields zero", func(t *testing.T) {
		assert.True(t, Pow(decimal.Zero, -3).IsZero())
	})
}
