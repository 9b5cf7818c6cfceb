package jswap

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
)

func seedFactory(t *testing.T, m *JswapModule, totalLiquidityUSD string) {
	t.Helper()
	require.NoError(t, m.store.SaveFactory(context.Background(), &entity.Factory{
		ID:                   m.config.FactoryAddress,
		TotalVolumeUSD:       dexmath.Zero,
		TotalVolumeNative:    dexmath.Zero,
		UntrackedVolumeUSD:   dexmath.Zero,
		TotalLiquidityUSD:    dec(totalLiquidityUSD),
		TotalLiquidityNative: dexmath.Zero,
		SwapFeeRate:          entity.DefaultSwapFeeRate,
	}))
}

func TestHandleAppendFee(t *testing.T) {
	ctx := context.Background()
	pairAddress := "0x00000000000000000000000000000000000000cc"
	ts := int64(1700000000)

	t.Run("accumulates fees and buckets", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedFactory(t, m, "18000")
		seedUSDTReference(t, m, "20", "300")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedToken(t, m, usdtAddress, "USDT", 18, "0")
		pair := seedPair(t, m, pairAddress, wbnbAddress, usdtAddress)
		pair.ReserveUSD = dec("18000")
		require.NoError(t, m.store.SavePair(ctx, pair))

		event := testEvent(m.config.FeeVaultAddress, map[string]interface{}{
			"pairToken":   common.HexToAddress(pairAddress),
			"rewordToken": common.HexToAddress(wbnbAddress),
			"amount":      tokens18(10),
		}, ts)
		require.NoError(t, handleAppendFee(ctx, m, event))

		vault, err := m.store.FeeVault(ctx, m.config.FeeVaultAddress)
		require.NoError(t, err)
		require.EqualValues(t, entity.FeeVaultBase, vault.Base)
		require.EqualValues(t, 6000, vault.Valid)
		// 10 WBNB, LP share 6000/10000, at 300 USD per native
		requireDecimal(t, "6", vault.TotalFeesNative)
		requireDecimal(t, "1800", vault.TotalFeesUSD)

		transaction, err := m.store.Transaction(ctx, strings.ToLower(event.TransactionHash.Hex()))
		require.NoError(t, err)
		require.Len(t, transaction.Fees, 1)

		pair, err = m.store.Pair(ctx, pairAddress)
		require.NoError(t, err)
		require.EqualValues(t, 1, pair.TxCount)

		dayData, err := m.store.PairFeesDayData(ctx, entity.DayID(pairAddress, ts))
		require.NoError(t, err)
		requireDecimal(t, "6", dayData.DailyFeesToken0)
		requireDecimal(t, "1800", dayData.DailyFeesToken0USD)
		requireDecimal(t, "0", dayData.DailyFeesToken1)
		requireDecimal(t, "1800", dayData.DailyFeesUSD)
		requireDecimal(t, "0.1", dayData.DailyAprRate)

		hourData, err := m.store.PairFeesHourData(ctx, entity.HourID(pairAddress, ts))
		require.NoError(t, err)
		requireDecimal(t, "6", hourData.HourlyFeesToken0)
		requireDecimal(t, "1800", hourData.HourlyFeesUSD)

		feesDayData, err := m.store.FeesDayData(ctx, entity.ProtocolDayID(ts))
		require.NoError(t, err)
		requireDecimal(t, "6", feesDayData.DailyFeesNative)
		requireDecimal(t, "1800", feesDayData.DailyFeesUSD)
		requireDecimal(t, "1800", feesDayData.TotalFeesUSD)
		requireDecimal(t, "0.1", feesDayData.DailyAprRate)
	})

	t.Run("token1 rewards land in the other slot", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedFactory(t, m, "0")
		seedUSDTReference(t, m, "20", "300")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedToken(t, m, usdtAddress, "USDT", 18, "0")
		seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)

		event := testEvent(m.config.FeeVaultAddress, map[string]interface{}{
			"pairToken":   common.HexToAddress(pairAddress),
			"rewordToken": common.HexToAddress(wbnbAddress),
			"amount":      tokens18(10),
		}, ts)
		require.NoError(t, handleAppendFee(ctx, m, event))

		dayData, err := m.store.PairFeesDayData(ctx, entity.DayID(pairAddress, ts))
		require.NoError(t, err)
		requireDecimal(t, "0", dayData.DailyFeesToken0)
		requireDecimal(t, "6", dayData.DailyFeesToken1)
		requireDecimal(t, "1800", dayData.DailyFeesToken1USD)
	})

	t.Run("tiny raw amounts keep full precision", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedFactory(t, m, "0")
		seedUSDTReference(t, m, "20", "300")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedToken(t, m, usdtAddress, "USDT", 18, "0")
		seedPair(t, m, pairAddress, wbnbAddress, usdtAddress)

		event := testEvent(m.config.FeeVaultAddress, map[string]interface{}{
			"pairToken":   common.HexToAddress(pairAddress),
			"rewordToken": common.HexToAddress(wbnbAddress),
			"amount":      big.NewInt(1000000),
		}, ts)
		require.NoError(t, handleAppendFee(ctx, m, event))

		vault, err := m.store.FeeVault(ctx, m.config.FeeVaultAddress)
		require.NoError(t, err)
		// 1e6 raw at 18 decimals is 1e-12 WBNB; the LP share is 6000/10000
		requireDecimal(t, "0.0000000000006", vault.TotalFeesNative)
		requireDecimal(t, "0.00000000018", vault.TotalFeesUSD)

		dayData, err := m.store.PairFeesDayData(ctx, entity.DayID(pairAddress, ts))
		require.NoError(t, err)
		requireDecimal(t, "0.0000000000006", dayData.DailyFeesToken0)
	})

	t.Run("unknown pair is skipped", func(t *testing.T) {
		m, _ := newTestModule(t)

		event := testEvent(m.config.FeeVaultAddress, map[string]interface{}{
			"pairToken":   common.HexToAddress(pairAddress),
			"rewordToken": common.HexToAddress(wbnbAddress),
			"amount":      tokens18(10),
		}, ts)
		require.NoError(t, handleAppendFee(ctx, m, event))

		_, err := m.store.FeeVault(ctx, m.config.FeeVaultAddress)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("reward token outside the pair is skipped", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedToken(t, m, usdtAddress, "USDT", 18, "0")
		seedToken(t, m, busdAddress, "BUSD", 18, "0")
		seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)

		event := testEvent(m.config.FeeVaultAddress, map[string]interface{}{
			"pairToken":   common.HexToAddress(pairAddress),
			"rewordToken": common.HexToAddress(busdAddress),
			"amount":      tokens18(10),
		}, ts)
		require.NoError(t, handleAppendFee(ctx, m, event))

		_, err := m.store.FeeVault(ctx, m.config.FeeVaultAddress)
		require.ErrorIs(t, err, store.ErrNotFound)
		pair, err := m.store.Pair(ctx, pairAddress)
		require.NoError(t, err)
		require.EqualValues(t, 0, pair.TxCount)
	})
}

func TestHandleUpdateDevFee(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	event := testEvent(m.config.FeeVaultAddress, map[string]interface{}{
		"devFee": big.NewInt(3000),
	}, 1700000000)
	require.NoError(t, handleUpdateDevFee(ctx, m, event))

	vault, err := m.store.FeeVault(ctx, m.config.FeeVaultAddress)
	require.NoError(t, err)
	require.EqualValues(t, 7000, vault.Valid)
	require.Equal(t, event.Timestamp, vault.UpdateFeeAtTimestamp)
	require.Equal(t, event.BlockNumber, vault.UpdateFeeAtBlockNumber)

	// Subsequent fees use the new split.
	pairAddress := "0x00000000000000000000000000000000000000cc"
	seedUSDTReference(t, m, "20", "300")
	seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
	seedToken(t, m, usdtAddress, "USDT", 18, "0")
	seedPair(t, m, pairAddress, wbnbAddress, usdtAddress)

	fee := testEvent(m.config.FeeVaultAddress, map[string]interface{}{
		"pairToken":   common.HexToAddress(pairAddress),
		"rewordToken": common.HexToAddress(wbnbAddress),
		"amount":      tokens18(10),
	}, 1700000000)
	require.NoError(t, handleAppendFee(ctx, m, fee))

	vault, err = m.store.FeeVault(ctx, m.config.FeeVaultAddress)
	require.NoError(t, err)
	requireDecimal(t, "7", vault.TotalFeesNative)
}
