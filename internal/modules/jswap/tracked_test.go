package jswap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackedVolumeUSD(t *testing.T) {
	ctx := context.Background()
	tokenAddress := "0x00000000000000000000000000000000000000aa"
	pairAddress := "0x00000000000000000000000000000000000000ab"

	t.Run("both sides whitelisted averages the legs", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "250")
		wbnb := seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		usdt := seedToken(t, m, usdtAddress, "USDT", 18, "0.004")

		pair := seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)
		pair.LiquidityProviderCount = 5
		require.NoError(t, m.store.SavePair(ctx, pair))

		volume, err := m.trackedVolumeUSD(ctx, dec("300"), usdt, dec("1"), wbnb, pair)
		require.NoError(t, err)
		// (300*1 + 1*250) / 2
		requireDecimal(t, "275", volume)
	})

	t.Run("single whitelisted side counts in full", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		wbnb := seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		other := seedToken(t, m, tokenAddress, "AAA", 18, "0.5")

		pair := seedPair(t, m, pairAddress, tokenAddress, wbnbAddress)
		pair.LiquidityProviderCount = 5
		require.NoError(t, m.store.SavePair(ctx, pair))

		volume, err := m.trackedVolumeUSD(ctx, dec("10"), other, dec("2"), wbnb, pair)
		require.NoError(t, err)
		// only the WBNB leg: 2 * 300
		requireDecimal(t, "600", volume)
	})

	t.Run("neither side whitelisted is zero", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		a := seedToken(t, m, tokenAddress, "AAA", 18, "0.5")
		b := seedToken(t, m, "0x00000000000000000000000000000000000000ac", "BBB", 18, "0.5")

		pair := seedPair(t, m, pairAddress, a.ID, b.ID)
		pair.LiquidityProviderCount = 5
		require.NoError(t, m.store.SavePair(ctx, pair))

		volume, err := m.trackedVolumeUSD(ctx, dec("10"), a, dec("10"), b, pair)
		require.NoError(t, err)
		requireDecimal(t, "0", volume)
	})

	t.Run("thin new pair is gated", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		wbnb := seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		usdt := seedToken(t, m, usdtAddress, "USDT", 18, "0.003333333333333333")

		pair := seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)
		pair.LiquidityProviderCount = 3
		pair.Reserve0 = dec("25000")
		pair.Reserve1 = dec("80")
		require.NoError(t, m.store.SavePair(ctx, pair))

		// combined reserves are below the 100k threshold
		volume, err := m.trackedVolumeUSD(ctx, dec("300"), usdt, dec("1"), wbnb, pair)
		require.NoError(t, err)
		requireDecimal(t, "0", volume)
	})

	t.Run("enough providers lifts the gate", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		wbnb := seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		usdt := seedToken(t, m, usdtAddress, "USDT", 18, "0")

		pair := seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)
		pair.LiquidityProviderCount = 5
		pair.Reserve0 = dec("25000")
		pair.Reserve1 = dec("80")
		require.NoError(t, m.store.SavePair(ctx, pair))

		volume, err := m.trackedVolumeUSD(ctx, dec("300"), usdt, dec("1"), wbnb, pair)
		require.NoError(t, err)
		// (300*0 + 1*300) / 2
		requireDecimal(t, "150", volume)
	})

	t.Run("untracked pair is excluded", func(t *testing.T) {
		m, _ := newTestModule(t)
		m.config.UntrackedPairs = []string{pairAddress}
		seedBundle(t, m, "300")
		wbnb := seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		usdt := seedToken(t, m, usdtAddress, "USDT", 18, "0")

		pair := seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)
		pair.LiquidityProviderCount = 10
		require.NoError(t, m.store.SavePair(ctx, pair))

		volume, err := m.trackedVolumeUSD(ctx, dec("300"), usdt, dec("1"), wbnb, pair)
		require.NoError(t, err)
		requireDecimal(t, "0", volume)
	})
}

func TestTrackedLiquidityUSD(t *testing.T) {
	ctx := context.Background()
	tokenAddress := "0x00000000000000000000000000000000000000aa"

	t.Run("both sides whitelisted sums the legs", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		wbnb := seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		usdt := seedToken(t, m, usdtAddress, "USDT", 18, "0")

		liquidity, err := m.trackedLiquidityUSD(ctx, dec("100"), usdt, dec("50"), wbnb)
		require.NoError(t, err)
		// 100*0 + 50*300
		requireDecimal(t, "15000", liquidity)
	})

	t.Run("single whitelisted side is doubled", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		wbnb := seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		other := seedToken(t, m, tokenAddress, "AAA", 18, "0.5")

		liquidity, err := m.trackedLiquidityUSD(ctx, dec("100"), other, dec("50"), wbnb)
		require.NoError(t, err)
		// 50 * 300 * 2
		requireDecimal(t, "30000", liquidity)
	})

	t.Run("no whitelisted side is zero", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		a := seedToken(t, m, tokenAddress, "AAA", 18, "0.5")
		b := seedToken(t, m, "0x00000000000000000000000000000000000000ac", "BBB", 18, "0.5")

		liquidity, err := m.trackedLiquidityUSD(ctx, dec("100"), a, dec("100"), b)
		require.NoError(t, err)
		requireDecimal(t, "0", liquidity)
	})
}
