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
)

func seedPairTrack(t *testing.T, m *JswapModule, id, pair, feeToken string) {
	t.Helper()
	require.NoError(t, m.store.SavePairFeesTrack(context.Background(), &entity.PairFeesTrack{
		ID:                id,
		Pair:              pair,
		FeeToken:          feeToken,
		AccumulatedNative: dexmath.Zero,
		AccumulatedUSD:    dexmath.Zero,
	}))
}

func TestHandleClaim(t *testing.T) {
	ctx := context.Background()
	pairAddress := "0x00000000000000000000000000000000000000cc"
	accountAddress := "0x00000000000000000000000000000000000000ee"
	ts := int64(1700000000)

	t.Run("accumulates user and tracker totals", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedPair(t, m, pairAddress, wbnbAddress, usdtAddress)
		seedPairTrack(t, m, pairAddress, pairAddress, wbnbAddress)

		event := testEvent(pairAddress, map[string]interface{}{
			"account":   common.HexToAddress(accountAddress),
			"amount":    tokens18(2),
			"automatic": true,
		}, ts)
		require.NoError(t, handleClaim(ctx, m, event))

		transaction, err := m.store.Transaction(ctx, strings.ToLower(event.TransactionHash.Hex()))
		require.NoError(t, err)
		require.Len(t, transaction.Claims, 1)

		userFee, err := m.store.UserFee(ctx, accountAddress)
		require.NoError(t, err)
		// 2 WBNB at 300 USD per native
		requireDecimal(t, "600", userFee.ClaimedUSD)
		require.EqualValues(t, 1, userFee.TxCount)

		userPairFee, err := m.store.UserPairFee(ctx, accountAddress+"-"+pairAddress)
		require.NoError(t, err)
		requireDecimal(t, "2", userPairFee.AccumulatedNative)
		requireDecimal(t, "600", userPairFee.AccumulatedUSD)
		require.EqualValues(t, 1, userPairFee.TxCount)

		track, err := m.store.PairFeesTrack(ctx, pairAddress)
		require.NoError(t, err)
		requireDecimal(t, "2", track.AccumulatedNative)
		requireDecimal(t, "600", track.AccumulatedUSD)
		require.EqualValues(t, 1, track.TxCount)
		require.Equal(t, event.BlockNumber, track.SyncBlockNumber)
	})

	t.Run("second claim keeps accumulating", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedPair(t, m, pairAddress, wbnbAddress, usdtAddress)
		seedPairTrack(t, m, pairAddress, pairAddress, wbnbAddress)

		first := testEvent(pairAddress, map[string]interface{}{
			"account":   common.HexToAddress(accountAddress),
			"amount":    tokens18(2),
			"automatic": false,
		}, ts)
		require.NoError(t, handleClaim(ctx, m, first))

		second := testEvent(pairAddress, map[string]interface{}{
			"account":   common.HexToAddress(accountAddress),
			"amount":    tokens18(3),
			"automatic": true,
		}, ts+60)
		require.NoError(t, handleClaim(ctx, m, second))

		userPairFee, err := m.store.UserPairFee(ctx, accountAddress+"-"+pairAddress)
		require.NoError(t, err)
		requireDecimal(t, "5", userPairFee.AccumulatedNative)
		requireDecimal(t, "1500", userPairFee.AccumulatedUSD)
		require.EqualValues(t, 2, userPairFee.TxCount)
	})

	t.Run("zero amount is a no-op", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedPair(t, m, pairAddress, wbnbAddress, usdtAddress)
		seedPairTrack(t, m, pairAddress, pairAddress, wbnbAddress)

		event := testEvent(pairAddress, map[string]interface{}{
			"account":   common.HexToAddress(accountAddress),
			"amount":    big.NewInt(0),
			"automatic": false,
		}, ts)
		require.NoError(t, handleClaim(ctx, m, event))

		_, err := m.store.Transaction(ctx, strings.ToLower(event.TransactionHash.Hex()))
		require.Error(t, err)
	})

	t.Run("unknown tracker is skipped", func(t *testing.T) {
		m, _ := newTestModule(t)
		seedBundle(t, m, "300")

		event := testEvent(pairAddress, map[string]interface{}{
			"account":   common.HexToAddress(accountAddress),
			"amount":    tokens18(2),
			"automatic": false,
		}, ts)
		require.NoError(t, handleClaim(ctx, m, event))

		_, err := m.store.Transaction(ctx, strings.ToLower(event.TransactionHash.Hex()))
		require.Error(t, err)
	})

	t.Run("tracker is created lazily for known pairs", func(t *testing.T) {
		m, reader := newTestModule(t)
		seedBundle(t, m, "300")
		seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
		seedPair(t, m, pairAddress, wbnbAddress, usdtAddress)
		reader.rewards[pairAddress] = wbnbAddress

		event := testEvent(pairAddress, map[string]interface{}{
			"account":   common.HexToAddress(accountAddress),
			"amount":    tokens18(2),
			"automatic": false,
		}, ts)
		require.NoError(t, handleClaim(ctx, m, event))

		track, err := m.store.PairFeesTrack(ctx, pairAddress)
		require.NoError(t, err)
		require.Equal(t, wbnbAddress, track.FeeToken)
		requireDecimal(t, "600", track.AccumulatedUSD)
	})
}
