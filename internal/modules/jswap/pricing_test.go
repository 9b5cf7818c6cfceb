package jswap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	wbnbAddress = DefaultWNativeAddress
	usdtAddress = "0x55d398326f99059ff775485246999027b3197955"
	busdAddress = "0xe9e7cea3dedca5984780bafc599bd69add087d56"
	daiAddress  = "0x1af3f329e8be154074d8769d1ffa4ee058b1dbc3"
)

func seedUSDTReference(t *testing.T, m *JswapModule, wbnbReserve, price string) {
	t.Helper()
	pair := seedPair(t, m, DefaultUSDTPair, usdtAddress, wbnbAddress)
	pair.Reserve1 = dec(wbnbReserve)
	pair.Token0Price = dec(price)
	require.NoError(t, m.store.SavePair(context.Background(), pair))
}

func TestNativePriceUSD(t *testing.T) {
	ctx := context.Background()

	t.Run("no reference pairs", func(t *testing.T) {
		m, _ := newTestModule(t)
		price, err := m.nativePriceUSD(ctx)
		require.NoError(t, err)
		requireDecimal(t, "0", price)
	})

	t.Run("usdt pair only", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedUSDTReference(t, m, "20", "320")

		price, err := m.nativePriceUSD(ctx)
		require.NoError(t, err)
		requireDecimal(t, "320", price)
	})

	t.Run("usdt and busd weighted", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedUSDTReference(t, m, "30", "320")

		busdPair := seedPair(t, m, DefaultBUSDPair, wbnbAddress, busdAddress)
		busdPair.Reserve0 = dec("10")
		busdPair.Token1Price = dec("300")
		require.NoError(t, m.store.SavePair(ctx, busdPair))

		price, err := m.nativePriceUSD(ctx)
		require.NoError(t, err)
		// 300 * 10/40 + 320 * 30/40
		requireDecimal(t, "315", price)
	})

	t.Run("all three pairs weighted", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedUSDTReference(t, m, "20", "320")

		busdPair := seedPair(t, m, DefaultBUSDPair, wbnbAddress, busdAddress)
		busdPair.Reserve0 = dec("10")
		busdPair.Token1Price = dec("300")
		require.NoError(t, m.store.SavePair(ctx, busdPair))

		daiPair := seedPair(t, m, DefaultDAIPair, daiAddress, wbnbAddress)
		daiPair.Reserve1 = dec("10")
		daiPair.Token0Price = dec("310")
		require.NoError(t, m.store.SavePair(ctx, daiPair))

		price, err := m.nativePriceUSD(ctx)
		require.NoError(t, err)
		// 300 * 10/40 + 310 * 10/40 + 320 * 20/40
		requireDecimal(t, "312.5", price)
	})
}

func TestFindNativePerToken(t *testing.T) {
	ctx := context.Background()

	t.Run("wrapped native is one", func(t *testing.T) {
		m, _ := newTestModule(t)
		token := seedToken(t, m, wbnbAddress, "WBNB", 18, "0")

		price, err := m.findNativePerToken(ctx, token)
		require.NoError(t, err)
		requireDecimal(t, "1", price)
	})

	t.Run("stablecoin inverts the native price", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "250")
		token := seedToken(t, m, usdtAddress, "USDT", 18, "0")

		price, err := m.findNativePerToken(ctx, token)
		require.NoError(t, err)
		requireDecimal(t, "0.004", price)
	})

	t.Run("priced through a whitelist pair", func(t *testing.T) {
		m, reader := newTestModule(t)

		tokenAddress := "0x00000000000000000000000000000000000000aa"
		pairAddress := "0x00000000000000000000000000000000000000ab"
		token := seedToken(t, m, tokenAddress, "AAA", 18, "0")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")

		reader.addPair(tokenAddress, wbnbAddress, pairAddress)
		pair := seedPair(t, m, pairAddress, tokenAddress, wbnbAddress)
		pair.ReserveNative = dec("5")
		pair.Token1Price = dec("0.01")
		require.NoError(t, m.store.SavePair(ctx, pair))

		price, err := m.findNativePerToken(ctx, token)
		require.NoError(t, err)
		requireDecimal(t, "0.01", price)
	})

	t.Run("repeated lookup with unchanged reserves is stable", func(t *testing.T) {
		m, reader := newTestModule(t)

		tokenAddress := "0x00000000000000000000000000000000000000aa"
		pairAddress := "0x00000000000000000000000000000000000000ab"
		token := seedToken(t, m, tokenAddress, "AAA", 18, "0")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")

		reader.addPair(tokenAddress, wbnbAddress, pairAddress)
		pair := seedPair(t, m, pairAddress, tokenAddress, wbnbAddress)
		pair.ReserveNative = dec("5")
		pair.Token1Price = dec("0.01")
		require.NoError(t, m.store.SavePair(ctx, pair))

		first, err := m.findNativePerToken(ctx, token)
		require.NoError(t, err)
		second, err := m.findNativePerToken(ctx, token)
		require.NoError(t, err)
		require.True(t, first.Equal(second), "expected %s, got %s", first, second)
		requireDecimal(t, "0.01", second)
	})

	t.Run("thin pairs are ignored", func(t *testing.T) {
		m, reader := newTestModule(t)

		tokenAddress := "0x00000000000000000000000000000000000000aa"
		pairAddress := "0x00000000000000000000000000000000000000ab"
		token := seedToken(t, m, tokenAddress, "AAA", 18, "0")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")

		reader.addPair(tokenAddress, wbnbAddress, pairAddress)
		pair := seedPair(t, m, pairAddress, tokenAddress, wbnbAddress)
		pair.ReserveNative = dec("1.5")
		pair.Token1Price = dec("0.01")
		require.NoError(t, m.store.SavePair(ctx, pair))

		price, err := m.findNativePerToken(ctx, token)
		require.NoError(t, err)
		requireDecimal(t, "0", price)
	})

	t.Run("later whitelist match wins", func(t *testing.T) {
		m, reader := newTestModule(t)

		tokenAddress := "0x00000000000000000000000000000000000000aa"
		wbnbPairAddress := "0x00000000000000000000000000000000000000ab"
		busdPairAddress := "0x00000000000000000000000000000000000000ac"
		token := seedToken(t, m, tokenAddress, "AAA", 18, "0")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedToken(t, m, busdAddress, "BUSD", 18, "0.004")

		reader.addPair(tokenAddress, wbnbAddress, wbnbPairAddress)
		wbnbPair := seedPair(t, m, wbnbPairAddress, tokenAddress, wbnbAddress)
		wbnbPair.ReserveNative = dec("5")
		wbnbPair.Token1Price = dec("0.01")
		require.NoError(t, m.store.SavePair(ctx, wbnbPair))

		reader.addPair(tokenAddress, busdAddress, busdPairAddress)
		busdPair := seedPair(t, m, busdPairAddress, busdAddress, tokenAddress)
		busdPair.ReserveNative = dec("5")
		busdPair.Token0Price = dec("3")
		require.NoError(t, m.store.SavePair(ctx, busdPair))

		price, err := m.findNativePerToken(ctx, token)
		require.NoError(t, err)
		// BUSD comes after WBNB in the whitelist: 3 * 0.004
		requireDecimal(t, "0.012", price)
	})
}
