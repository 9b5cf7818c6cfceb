package jswap

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
)

func tokens18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestHandlePairCreated(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestModule(t)

	token0Address := "0x00000000000000000000000000000000000000aa"
	token1Address := "0x00000000000000000000000000000000000000bb"
	pairAddress := "0x00000000000000000000000000000000000000cc"
	reader.addToken(token0Address, "AAA", "Token A", 18)
	reader.addToken(token1Address, "BBB", "Token B", 8)
	reader.rewards[pairAddress] = token0Address

	event := testEvent(m.config.FactoryAddress, map[string]interface{}{
		"token0":         common.HexToAddress(token0Address),
		"token1":         common.HexToAddress(token1Address),
		"pair":           common.HexToAddress(pairAddress),
		"allPairsLength": big.NewInt(1),
	}, 1700000000)

	require.NoError(t, handlePairCreated(ctx, m, event))

	factory, err := m.store.Factory(ctx, m.config.FactoryAddress)
	require.NoError(t, err)
	require.EqualValues(t, 1, factory.PairCount)

	pair, err := m.store.Pair(ctx, pairAddress)
	require.NoError(t, err)
	require.Equal(t, token0Address, pair.Token0)
	require.Equal(t, token1Address, pair.Token1)
	require.Equal(t, event.Timestamp, pair.CreatedAtTimestamp)

	token0, err := m.store.Token(ctx, token0Address)
	require.NoError(t, err)
	require.Equal(t, "AAA", token0.Symbol)
	token1, err := m.store.Token(ctx, token1Address)
	require.NoError(t, err)
	require.EqualValues(t, 8, token1.Decimals)

	track, err := m.store.PairFeesTrack(ctx, pairAddress)
	require.NoError(t, err)
	require.Equal(t, pairAddress, track.Pair)
	require.Equal(t, token0Address, track.FeeToken)
}

func TestHandlePairCreatedUnknownTokenMetadata(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	event := testEvent(m.config.FactoryAddress, map[string]interface{}{
		"token0":         common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		"token1":         common.HexToAddress("0x00000000000000000000000000000000000000bb"),
		"pair":           common.HexToAddress("0x00000000000000000000000000000000000000cc"),
		"allPairsLength": big.NewInt(1),
	}, 1700000000)

	require.NoError(t, handlePairCreated(ctx, m, event))

	token, err := m.store.Token(ctx, "0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	require.Equal(t, "unknown", token.Symbol)
	require.Equal(t, "unknown", token.Name)
	require.EqualValues(t, 0, token.Decimals)
}

func TestHandleTransferSkipsInitialLiquidity(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	pairAddress := "0x00000000000000000000000000000000000000cc"
	seedToken(t, m, usdtAddress, "USDT", 18, "0.004")
	seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
	seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)

	event := testEvent(pairAddress, map[string]interface{}{
		"from":  common.Address{},
		"to":    common.HexToAddress("0x00000000000000000000000000000000000000ee"),
		"value": big.NewInt(1000),
	}, 1700000000)

	require.NoError(t, handleTransfer(ctx, m, event))

	_, err := m.store.Transaction(ctx, strings.ToLower(event.TransactionHash.Hex()))
	require.Error(t, err)
}

func TestHandleTransferIgnoresForeignContracts(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	event := testEvent("0x00000000000000000000000000000000000000cc", map[string]interface{}{
		"from":  common.Address{},
		"to":    common.HexToAddress("0x00000000000000000000000000000000000000ee"),
		"value": tokens18(5),
	}, 1700000000)

	require.NoError(t, handleTransfer(ctx, m, event))

	_, err := m.store.Transaction(ctx, strings.ToLower(event.TransactionHash.Hex()))
	require.Error(t, err)
}

func TestMintLifecycle(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	pairAddress := "0x00000000000000000000000000000000000000cc"
	userAddress := "0x00000000000000000000000000000000000000ee"
	seedBundle(t, m, "250")
	seedToken(t, m, usdtAddress, "USDT", 18, "0.004")
	seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
	seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)

	transfer := testEvent(pairAddress, map[string]interface{}{
		"from":  common.Address{},
		"to":    common.HexToAddress(userAddress),
		"value": tokens18(5),
	}, 1700000000)
	require.NoError(t, handleTransfer(ctx, m, transfer))

	pair, err := m.store.Pair(ctx, pairAddress)
	require.NoError(t, err)
	requireDecimal(t, "5", pair.TotalSupply)

	transaction, err := m.store.Transaction(ctx, strings.ToLower(transfer.TransactionHash.Hex()))
	require.NoError(t, err)
	require.Len(t, transaction.Mints, 1)

	pending, err := m.store.Mint(ctx, transaction.Mints[0])
	require.NoError(t, err)
	require.Empty(t, pending.Sender)
	require.Equal(t, userAddress, pending.To)
	requireDecimal(t, "5", pending.Liquidity)

	mintEvent := testEvent(pairAddress, map[string]interface{}{
		"sender":  common.HexToAddress("0x00000000000000000000000000000000000000ff"),
		"amount0": tokens18(300),
		"amount1": tokens18(1),
	}, 1700000000)
	require.NoError(t, handleMint(ctx, m, mintEvent))

	mint, err := m.store.Mint(ctx, transaction.Mints[0])
	require.NoError(t, err)
	require.Equal(t, "0x00000000000000000000000000000000000000ff", mint.Sender)
	requireDecimal(t, "300", mint.Amount0)
	requireDecimal(t, "1", mint.Amount1)
	// (1*1 + 300*0.004) * 250
	requireDecimal(t, "550", mint.AmountUSD)

	pair, err = m.store.Pair(ctx, pairAddress)
	require.NoError(t, err)
	require.EqualValues(t, 1, pair.TxCount)
	require.EqualValues(t, 1, pair.LiquidityProviderCount)

	factory, err := m.store.Factory(ctx, m.config.FactoryAddress)
	require.NoError(t, err)
	require.EqualValues(t, 1, factory.TxCount)

	position, err := m.store.LiquidityPosition(ctx, pairAddress+"-"+userAddress)
	require.NoError(t, err)
	requireDecimal(t, "5", position.LiquidityTokenBalance)

	dayData, err := m.store.FactoryDayData(ctx, entity.ProtocolDayID(mintEvent.Timestamp))
	require.NoError(t, err)
	require.EqualValues(t, 1, dayData.TxCount)
}

func TestBurnLifecycleWithFeeMint(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	pairAddress := "0x00000000000000000000000000000000000000cc"
	userAddress := "0x00000000000000000000000000000000000000ee"
	feeToAddress := "0x00000000000000000000000000000000000000f0"
	seedBundle(t, m, "250")
	seedToken(t, m, usdtAddress, "USDT", 18, "0.004")
	seedToken(t, m, wbnbAddress, "WBNB", 18, "1")
	pair := seedPair(t, m, pairAddress, usdtAddress, wbnbAddress)
	pair.TotalSupply = dec("10")
	require.NoError(t, m.store.SavePair(ctx, pair))

	ts := int64(1700000000)

	// LP tokens move to the pair ahead of the burn.
	toPair := testEvent(pairAddress, map[string]interface{}{
		"from":  common.HexToAddress(userAddress),
		"to":    common.HexToAddress(pairAddress),
		"value": tokens18(5),
	}, ts)
	require.NoError(t, handleTransfer(ctx, m, toPair))

	// Protocol fee mint lands in the same transaction.
	feeMint := testEvent(pairAddress, map[string]interface{}{
		"from":  common.Address{},
		"to":    common.HexToAddress(feeToAddress),
		"value": tokens18(1),
	}, ts)
	require.NoError(t, handleTransfer(ctx, m, feeMint))

	// The pair burns the LP tokens it received.
	toZero := testEvent(pairAddress, map[string]interface{}{
		"from":  common.HexToAddress(pairAddress),
		"to":    common.Address{},
		"value": tokens18(5),
	}, ts)
	require.NoError(t, handleTransfer(ctx, m, toZero))

	transaction, err := m.store.Transaction(ctx, strings.ToLower(toPair.TransactionHash.Hex()))
	require.NoError(t, err)
	require.Empty(t, transaction.Mints, "fee mint should fold into the burn")
	require.Len(t, transaction.Burns, 1)

	burnEvent := testEvent(pairAddress, map[string]interface{}{
		"sender":  common.HexToAddress(userAddress),
		"amount0": tokens18(150),
		"amount1": tokens18(1),
	}, ts)
	require.NoError(t, handleBurn(ctx, m, burnEvent))

	burn, err := m.store.Burn(ctx, transaction.Burns[0])
	require.NoError(t, err)
	require.True(t, burn.NeedsComplete)
	require.Equal(t, userAddress, burn.Sender)
	require.Equal(t, feeToAddress, burn.FeeTo)
	requireDecimal(t, "1", burn.FeeLiquidity)
	requireDecimal(t, "150", burn.Amount0)
	// (1*1 + 150*0.004) * 250
	requireDecimal(t, "400", burn.AmountUSD)

	pair, err = m.store.Pair(ctx, pairAddress)
	require.NoError(t, err)
	// 10 + 1 fee mint - 5 burned
	requireDecimal(t, "6", pair.TotalSupply)
}

func TestHandleSync(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	seedToken(t, m, usdtAddress, "USDT", 18, "0")
	seedToken(t, m, wbnbAddress, "WBNB", 18, "0")
	seedPair(t, m, DefaultUSDTPair, usdtAddress, wbnbAddress)

	event := testEvent(DefaultUSDTPair, map[string]interface{}{
		"reserve0": tokens18(30000),
		"reserve1": tokens18(100),
	}, 1700000000)
	require.NoError(t, handleSync(ctx, m, event))

	pair, err := m.store.Pair(ctx, DefaultUSDTPair)
	require.NoError(t, err)
	requireDecimal(t, "30000", pair.Reserve0)
	requireDecimal(t, "100", pair.Reserve1)
	requireDecimal(t, "300", pair.Token0Price)

	bundle, err := m.store.Bundle(ctx, entity.BundleID)
	require.NoError(t, err)
	requireDecimal(t, "300", bundle.NativePriceUSD)

	wbnb, err := m.store.Token(ctx, wbnbAddress)
	require.NoError(t, err)
	requireDecimal(t, "1", wbnb.DerivedNative)
	requireDecimal(t, "100", wbnb.TotalLiquidity)

	usdt, err := m.store.Token(ctx, usdtAddress)
	require.NoError(t, err)
	require.InDelta(t, 1.0/300.0, usdt.DerivedNative.InexactFloat64(), 1e-12)
	requireDecimal(t, "30000", usdt.TotalLiquidity)

	require.InDelta(t, 200, pair.ReserveNative.InexactFloat64(), 1e-9)
	require.InDelta(t, 60000, pair.ReserveUSD.InexactFloat64(), 1e-6)
	require.InDelta(t, 200, pair.TrackedReserveNative.InexactFloat64(), 1e-9)

	factory, err := m.store.Factory(ctx, m.config.FactoryAddress)
	require.NoError(t, err)
	require.InDelta(t, 200, factory.TotalLiquidityNative.InexactFloat64(), 1e-9)
	require.InDelta(t, 60000, factory.TotalLiquidityUSD.InexactFloat64(), 1e-6)
}

func TestHandleSwap(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	seedToken(t, m, usdtAddress, "USDT", 18, "0")
	seedToken(t, m, wbnbAddress, "WBNB", 18, "0")
	pair := seedPair(t, m, DefaultUSDTPair, usdtAddress, wbnbAddress)
	pair.LiquidityProviderCount = 5
	require.NoError(t, m.store.SavePair(ctx, pair))

	ts := int64(1700000000)
	sync := testEvent(DefaultUSDTPair, map[string]interface{}{
		"reserve0": tokens18(60000),
		"reserve1": tokens18(200),
	}, ts)
	require.NoError(t, handleSync(ctx, m, sync))

	swapEvent := testEvent(DefaultUSDTPair, map[string]interface{}{
		"sender":     common.HexToAddress("0x00000000000000000000000000000000000000ee"),
		"to":         common.HexToAddress("0x00000000000000000000000000000000000000ef"),
		"amount0In":  tokens18(300),
		"amount1In":  big.NewInt(0),
		"amount0Out": big.NewInt(0),
		"amount1Out": tokens18(1),
	}, ts)
	require.NoError(t, handleSwap(ctx, m, swapEvent))

	pair, err := m.store.Pair(ctx, DefaultUSDTPair)
	require.NoError(t, err)
	requireDecimal(t, "300", pair.VolumeToken0)
	requireDecimal(t, "1", pair.VolumeToken1)
	require.EqualValues(t, 1, pair.TxCount)
	// (300 usdt + 1 wbnb) / 2 at 300 USD per native
	require.InDelta(t, 300, pair.VolumeUSD.InexactFloat64(), 1e-6)

	factory, err := m.store.Factory(ctx, m.config.FactoryAddress)
	require.NoError(t, err)
	require.InDelta(t, 300, factory.TotalVolumeUSD.InexactFloat64(), 1e-6)
	require.InDelta(t, 1, factory.TotalVolumeNative.InexactFloat64(), 1e-9)
	require.EqualValues(t, 1, factory.TxCount)

	transaction, err := m.store.Transaction(ctx, strings.ToLower(swapEvent.TransactionHash.Hex()))
	require.NoError(t, err)
	require.Len(t, transaction.Swaps, 1)

	// The swap sender stands in for the transaction origin offline.
	user, err := m.store.User(ctx, "0x00000000000000000000000000000000000000ee")
	require.NoError(t, err)
	require.InDelta(t, 300, user.USDSwapped.InexactFloat64(), 1e-6)

	dayData, err := m.store.FactoryDayData(ctx, entity.ProtocolDayID(ts))
	require.NoError(t, err)
	require.InDelta(t, 300, dayData.DailyVolumeUSD.InexactFloat64(), 1e-6)

	pairDayData, err := m.store.PairDayData(ctx, entity.DayID(DefaultUSDTPair, ts))
	require.NoError(t, err)
	requireDecimal(t, "300", pairDayData.DailyVolumeToken0)

	usdtDayData, err := m.store.TokenDayData(ctx, entity.DayID(usdtAddress, ts))
	require.NoError(t, err)
	requireDecimal(t, "300", usdtDayData.DailyVolumeToken)

	wbnbHourData, err := m.store.TokenHourData(ctx, entity.HourID(wbnbAddress, ts))
	require.NoError(t, err)
	requireDecimal(t, "1", wbnbHourData.HourlyVolumeToken)
}

func TestSwapBucketsAccumulateWithinWindow(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	seedToken(t, m, usdtAddress, "USDT", 18, "0")
	seedToken(t, m, wbnbAddress, "WBNB", 18, "0")
	pair := seedPair(t, m, DefaultUSDTPair, usdtAddress, wbnbAddress)
	pair.LiquidityProviderCount = 5
	require.NoError(t, m.store.SavePair(ctx, pair))

	ts := int64(1700000000)
	sync := testEvent(DefaultUSDTPair, map[string]interface{}{
		"reserve0": tokens18(60000),
		"reserve1": tokens18(200),
	}, ts)
	require.NoError(t, handleSync(ctx, m, sync))

	swapAt := func(at int64) {
		event := testEvent(DefaultUSDTPair, map[string]interface{}{
			"sender":     common.HexToAddress("0x00000000000000000000000000000000000000ee"),
			"to":         common.HexToAddress("0x00000000000000000000000000000000000000ef"),
			"amount0In":  tokens18(300),
			"amount1In":  big.NewInt(0),
			"amount0Out": big.NewInt(0),
			"amount1Out": tokens18(1),
		}, at)
		require.NoError(t, handleSwap(ctx, m, event))
	}

	// Two swaps land in the same hour, a third in the next hour of the
	// same day.
	swapAt(ts)
	swapAt(ts + 1799)
	swapAt(ts + 3600)

	require.Equal(t, entity.HourID(DefaultUSDTPair, ts), entity.HourID(DefaultUSDTPair, ts+1799))
	require.NotEqual(t, entity.HourID(DefaultUSDTPair, ts), entity.HourID(DefaultUSDTPair, ts+3600))
	require.Equal(t, entity.DayID(DefaultUSDTPair, ts), entity.DayID(DefaultUSDTPair, ts+3600))

	hourData, err := m.store.PairHourData(ctx, entity.HourID(DefaultUSDTPair, ts))
	require.NoError(t, err)
	requireDecimal(t, "600", hourData.HourlyVolumeToken0)
	requireDecimal(t, "2", hourData.HourlyVolumeToken1)
	require.EqualValues(t, 2, hourData.TxCount)

	nextHour, err := m.store.PairHourData(ctx, entity.HourID(DefaultUSDTPair, ts+3600))
	require.NoError(t, err)
	requireDecimal(t, "300", nextHour.HourlyVolumeToken0)
	require.EqualValues(t, 1, nextHour.TxCount)

	dayData, err := m.store.PairDayData(ctx, entity.DayID(DefaultUSDTPair, ts))
	require.NoError(t, err)
	requireDecimal(t, "900", dayData.DailyVolumeToken0)
	requireDecimal(t, "3", dayData.DailyVolumeToken1)
	require.EqualValues(t, 3, dayData.TxCount)

	usdtDay, err := m.store.TokenDayData(ctx, entity.DayID(usdtAddress, ts))
	require.NoError(t, err)
	requireDecimal(t, "900", usdtDay.DailyVolumeToken)

	wbnbHour, err := m.store.TokenHourData(ctx, entity.HourID(wbnbAddress, ts))
	require.NoError(t, err)
	requireDecimal(t, "2", wbnbHour.HourlyVolumeToken)

	factoryDay, err := m.store.FactoryDayData(ctx, entity.ProtocolDayID(ts))
	require.NoError(t, err)
	require.EqualValues(t, 3, factoryDay.TxCount)
	require.InDelta(t, 900, factoryDay.DailyVolumeUSD.InexactFloat64(), 1e-6)
}

func TestHandleUpdateSwapFeeRate(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModule(t)

	event := testEvent("0x00000000000000000000000000000000000000dd", map[string]interface{}{
		"currentFeeRate": big.NewInt(250),
	}, 1700000000)
	require.NoError(t, handleUpdateSwapFeeRate(ctx, m, event))

	factory, err := m.store.Factory(ctx, m.config.FactoryAddress)
	require.NoError(t, err)
	require.EqualValues(t, 250, factory.SwapFeeRate)
}
