package jswap

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
)

// nativePriceUSD derives the USD price of the wrapped native token from
// the reference stablecoin pairs, weighted by the native-side reserve of
// each pair that exists.
func (m *JswapModule) nativePriceUSD(ctx context.Context) (decimal.Decimal, error) {
	usdtPair, err := m.loadOptionalPair(ctx, m.config.USDTPair) // usdt is token0, wbnb is token1
	if err != nil {
		return dexmath.Zero, err
	}
	busdPair, err := m.loadOptionalPair(ctx, m.config.BUSDPair) // busd is token1, wbnb is token0
	if err != nil {
		return dexmath.Zero, err
	}
	daiPair, err := m.loadOptionalPair(ctx, m.config.DAIPair) // dai is token0, wbnb is token1
	if err != nil {
		return dexmath.Zero, err
	}

	switch {
	case busdPair != nil && daiPair != nil && usdtPair != nil:
		totalLiquidityNative := busdPair.Reserve0.Add(daiPair.Reserve1).Add(usdtPair.Reserve1)
		usdtWeight := dexmath.SafeDiv(usdtPair.Reserve1, totalLiquidityNative)
		busdWeight := dexmath.SafeDiv(busdPair.Reserve0, totalLiquidityNative)
		daiWeight := dexmath.SafeDiv(daiPair.Reserve1, totalLiquidityNative)
		return busdPair.Token1Price.Mul(busdWeight).
			Add(daiPair.Token0Price.Mul(daiWeight)).
			Add(usdtPair.Token0Price.Mul(usdtWeight)), nil
	case busdPair != nil && usdtPair != nil:
		totalLiquidityNative := busdPair.Reserve0.Add(usdtPair.Reserve1)
		busdWeight := dexmath.SafeDiv(busdPair.Reserve0, totalLiquidityNative)
		usdtWeight := dexmath.SafeDiv(usdtPair.Reserve1, totalLiquidityNative)
		return busdPair.Token1Price.Mul(busdWeight).
			Add(usdtPair.Token0Price.Mul(usdtWeight)), nil
	case usdtPair != nil:
		return usdtPair.Token0Price, nil
	default:
		return dexmath.Zero, nil
	}
}

// loadOptionalPair returns nil when the pair has not been created yet.
func (m *JswapModule) loadOptionalPair(ctx context.Context, id string) (*entity.Pair, error) {
	pair, err := m.store.Pair(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// findNativePerToken walks the whitelist to price a token in the native
// currency. Later whitelist pairs override earlier matches; a pair only
// qualifies when its native-denominated reserve clears the minimum
// liquidity threshold.
func (m *JswapModule) findNativePerToken(ctx context.Context, token *entity.Token) (decimal.Decimal, error) {
	if token.ID == m.config.WNativeAddress {
		return dexmath.One, nil
	}

	priceSoFar := dexmath.Zero

	if m.isStableCoin(token.ID) {
		bundle, err := m.getOrCreateBundle(ctx)
		if err != nil {
			return dexmath.Zero, err
		}
		return dexmath.SafeDiv(dexmath.One, bundle.NativePriceUSD), nil
	}

	for _, whitelisted := range m.config.WhitelistTokens {
		pairAddress, ok := m.pairFor(ctx, token.ID, whitelisted)
		if !ok || pairAddress == addressZero {
			continue
		}

		pair, err := m.loadOptionalPair(ctx, pairAddress)
		if err != nil {
			return dexmath.Zero, err
		}
		if pair == nil {
			continue
		}

		if pair.Token0 == token.ID && pair.ReserveNative.GreaterThan(minimumLiquidityThresholdNative) {
			token1, err := m.store.Token(ctx, pair.Token1)
			if err != nil {
				return dexmath.Zero, err
			}
			// token1 per our token * native per token1
			priceSoFar = pair.Token1Price.Mul(token1.DerivedNative)
		}
		if pair.Token1 == token.ID && pair.ReserveNative.GreaterThan(minimumLiquidityThresholdNative) {
			token0, err := m.store.Token(ctx, pair.Token0)
			if err != nil {
				return dexmath.Zero, err
			}
			priceSoFar = pair.Token0Price.Mul(token0.DerivedNative)
		}
	}

	return priceSoFar, nil
}

// pairFor resolves the pair address for two tokens from the factory.
func (m *JswapModule) pairFor(ctx context.Context, tokenA, tokenB string) (string, bool) {
	if m.reader == nil {
		return "", false
	}
	return m.reader.PairFor(ctx, m.config.FactoryAddress, tokenA, tokenB)
}
