package jswap

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
)

var two = decimal.NewFromInt(2)

// trackedVolumeUSD returns the USD volume that counts toward aggregate
// statistics. Both tokens whitelisted: average of both sides. One
// whitelisted: that side's full value. Neither: zero. Pairs with fewer
// than five liquidity providers must clear a combined reserve threshold
// so thin markets cannot inflate volume.
func (m *JswapModule) trackedVolumeUSD(ctx context.Context, tokenAmount0 decimal.Decimal, token0 *entity.Token, tokenAmount1 decimal.Decimal, token1 *entity.Token, pair *entity.Pair) (decimal.Decimal, error) {
	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return dexmath.Zero, err
	}
	price0 := token0.DerivedNative.Mul(bundle.NativePriceUSD)
	price1 := token1.DerivedNative.Mul(bundle.NativePriceUSD)

	// dont count tracked volume on these pairs - usually rebass tokens
	if m.isUntrackedPair(pair.ID) {
		return dexmath.Zero, nil
	}

	whitelisted0 := m.isWhitelisted(token0.ID)
	whitelisted1 := m.isWhitelisted(token1.ID)

	// if less than 5 LPs, require high minimum reserve amount or return 0
	if pair.LiquidityProviderCount < 5 {
		reserve0USD := pair.Reserve0.Mul(price0)
		reserve1USD := pair.Reserve1.Mul(price1)
		if whitelisted0 && whitelisted1 {
			if reserve0USD.Add(reserve1USD).LessThan(minimumUSDThresholdNewPairs) {
				return dexmath.Zero, nil
			}
		}
		if whitelisted0 && !whitelisted1 {
			if reserve0USD.Mul(two).LessThan(minimumUSDThresholdNewPairs) {
				return dexmath.Zero, nil
			}
		}
		if !whitelisted0 && whitelisted1 {
			if reserve1USD.Mul(two).LessThan(minimumUSDThresholdNewPairs) {
				return dexmath.Zero, nil
			}
		}
	}

	switch {
	case whitelisted0 && whitelisted1:
		return tokenAmount0.Mul(price0).Add(tokenAmount1.Mul(price1)).Div(two), nil
	case whitelisted0:
		return tokenAmount0.Mul(price0), nil
	case whitelisted1:
		return tokenAmount1.Mul(price1), nil
	default:
		return dexmath.Zero, nil
	}
}

// trackedLiquidityUSD returns the USD liquidity that counts toward
// aggregate statistics. Both tokens whitelisted: sum of both sides. One
// whitelisted: double that side's value. Neither: zero. Unlike volume
// tracking there is no liquidity-provider gating here.
func (m *JswapModule) trackedLiquidityUSD(ctx context.Context, tokenAmount0 decimal.Decimal, token0 *entity.Token, tokenAmount1 decimal.Decimal, token1 *entity.Token) (decimal.Decimal, error) {
	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return dexmath.Zero, err
	}
	price0 := token0.DerivedNative.Mul(bundle.NativePriceUSD)
	price1 := token1.DerivedNative.Mul(bundle.NativePriceUSD)

	whitelisted0 := m.isWhitelisted(token0.ID)
	whitelisted1 := m.isWhitelisted(token1.ID)

	switch {
	case whitelisted0 && whitelisted1:
		return tokenAmount0.Mul(price0).Add(tokenAmount1.Mul(price1)), nil
	case whitelisted0:
		return tokenAmount0.Mul(price0).Mul(two), nil
	case whitelisted1:
		return tokenAmount1.Mul(price1).Mul(two), nil
	default:
		return dexmath.Zero, nil
	}
}
