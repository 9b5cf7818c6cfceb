// Package dexmath holds the arbitrary-precision arithmetic helpers used
// across the analytics handlers. All money math runs on
// shopspring/decimal; raw uint256 words from event data enter as
// *big.Int and are converted once at the edge.
package dexmath

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	Zero = decimal.Zero
	One  = decimal.NewFromInt(1)
)

// ExponentToDecimal returns 10^decimals as a decimal.
func ExponentToDecimal(decimals int64) decimal.Decimal {
	return decimal.New(1, int32(decimals))
}

// ToDecimal scales a raw token amount by the token's decimals. A zero
// decimals value returns the raw amount unscaled, matching the legacy
// shortcut for malformed tokens.
func ToDecimal(amount *big.Int, decimals int64) decimal.Decimal {
	raw := decimal.NewFromBigInt(amount, 0)
	if decimals == 0 {
		return raw
	}
	return raw.Div(ExponentToDecimal(decimals))
}

// SafeDiv divides a by b, returning zero when b is zero.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// Pow raises base to an integer exponent. Exponent zero yields one for
// any base, including zero. Negative exponents go through SafeDiv, so
// 0^-n is zero.
func Pow(base decimal.Decimal, exp int64) decimal.Decimal {
	if exp == 0 {
		return One
	}
	if exp < 0 {
		return SafeDiv(One, Pow(base, -exp))
	}
	result := One
	for i := int64(0); i < exp; i++ {
		result = result.Mul(base)
	}
	return result
}
