package jswap

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
)

// stubReader serves token metadata and factory lookups from maps so
// handlers run without a node connection.
type stubReader struct {
	symbols  map[string]string
	names    map[string]string
	decimals map[string]int64
	supplies map[string]*big.Int
	pairs    map[string]string
	rewards  map[string]string
}

func newStubReader() *stubReader {
	return &stubReader{
		symbols:  make(map[string]string),
		names:    make(map[string]string),
		decimals: make(map[string]int64),
		supplies: make(map[string]*big.Int),
		pairs:    make(map[string]string),
		rewards:  make(map[string]string),
	}
}

func (r *stubReader) addToken(address, symbol, name string, decimals int64) {
	r.symbols[address] = symbol
	r.names[address] = name
	r.decimals[address] = decimals
}

func (r *stubReader) addPair(tokenA, tokenB, pair string) {
	r.pairs[tokenA+"|"+tokenB] = pair
	r.pairs[tokenB+"|"+tokenA] = pair
}

func (r *stubReader) TokenSymbol(_ context.Context, address string) (string, bool) {
	v, ok := r.symbols[address]
	return v, ok
}

func (r *stubReader) TokenName(_ context.Context, address string) (string, bool) {
	v, ok := r.names[address]
	return v, ok
}

func (r *stubReader) TokenDecimals(_ context.Context, address string) (int64, bool) {
	v, ok := r.decimals[address]
	return v, ok
}

func (r *stubReader) TokenTotalSupply(_ context.Context, address string) (*big.Int, bool) {
	v, ok := r.supplies[address]
	return v, ok
}

func (r *stubReader) PairFor(_ context.Context, _, token0, token1 string) (string, bool) {
	v, ok := r.pairs[token0+"|"+token1]
	return v, ok
}

func (r *stubReader) RewardToken(_ context.Context, tracker string) (string, bool) {
	v, ok := r.rewards[tracker]
	return v, ok
}

// newTestModule builds a module against the in-memory store, bypassing
// manifest loading and database setup.
func newTestModule(t *testing.T) (*JswapModule, *stubReader) {
	t.Helper()

	config := &Config{}
	config.applyDefaults()

	reader := newStubReader()
	m := &JswapModule{
		store:           store.NewMemory(),
		logger:          zerolog.Nop(),
		parser:          core.NewEventParser(),
		reader:          reader,
		factoryAddress:  common.HexToAddress(config.FactoryAddress),
		wnativeAddress:  common.HexToAddress(config.WNativeAddress),
		feeVaultAddress: common.HexToAddress(config.FeeVaultAddress),
		config:          config,
		handlers:        make(map[common.Hash]EventHandler),
	}
	require.NoError(t, m.initializeABIs())
	require.NoError(t, m.registerEventHandlers())
	return m, reader
}

func testEvent(address string, args map[string]interface{}, timestamp int64) *core.ParsedEvent {
	return &core.ParsedEvent{
		Address:         common.HexToAddress(address),
		Args:            args,
		TransactionHash: common.HexToHash(fmt.Sprintf("0x%064x", timestamp)),
		BlockNumber:     uint64(timestamp / 3),
		LogIndex:        1,
		Timestamp:       timestamp,
	}
}

func bi(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int literal: " + s)
	}
	return v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func seedToken(t *testing.T, m *JswapModule, id, symbol string, decimals int64, derivedNative string) *entity.Token {
	t.Helper()
	token := &entity.Token{
		ID:                 id,
		Symbol:             symbol,
		Name:               symbol,
		Decimals:           decimals,
		TotalSupply:        dexmath.Zero,
		TradeVolume:        dexmath.Zero,
		TradeVolumeUSD:     dexmath.Zero,
		UntrackedVolumeUSD: dexmath.Zero,
		TotalLiquidity:     dexmath.Zero,
		DerivedNative:      dec(derivedNative),
	}
	require.NoError(t, m.store.SaveToken(context.Background(), token))
	return token
}

func seedPair(t *testing.T, m *JswapModule, id, token0, token1 string) *entity.Pair {
	t.Helper()
	pair := &entity.Pair{
		ID:                   id,
		Token0:               token0,
		Token1:               token1,
		Reserve0:             dexmath.Zero,
		Reserve1:             dexmath.Zero,
		TotalSupply:          dexmath.Zero,
		ReserveNative:        dexmath.Zero,
		ReserveUSD:           dexmath.Zero,
		TrackedReserveNative: dexmath.Zero,
		Token0Price:          dexmath.Zero,
		Token1Price:          dexmath.Zero,
		VolumeToken0:         dexmath.Zero,
		VolumeToken1:         dexmath.Zero,
		VolumeUSD:            dexmath.Zero,
		UntrackedVolumeUSD:   dexmath.Zero,
	}
	require.NoError(t, m.store.SavePair(context.Background(), pair))
	return pair
}

func seedBundle(t *testing.T, m *JswapModule, nativePriceUSD string) {
	t.Helper()
	require.NoError(t, m.store.SaveBundle(context.Background(), &entity.Bundle{
		ID:             entity.BundleID,
		NativePriceUSD: dec(nativePriceUSD),
	}))
}

func TestConfigDefaults(t *testing.T) {
	config := &Config{
		FactoryAddress: "0x2A24C4B12F62B14E35FDFFE9BAF9C2E16BA11D08",
	}
	config.applyDefaults()

	require.Equal(t, DefaultFactoryAddress, config.FactoryAddress)
	require.Equal(t, DefaultFeeVaultAddress, config.FeeVaultAddress)
	require.Equal(t, DefaultWNativeAddress, config.WNativeAddress)
	require.Equal(t, DefaultUSDTPair, config.USDTPair)
	require.Len(t, config.WhitelistTokens, 8)
	require.Equal(t, DefaultWNativeAddress, config.WhitelistTokens[0])
	require.Len(t, config.StableCoins, 4)
}

func TestEventHandlerRegistration(t *testing.T) {
	m, _ := newTestModule(t)

	require.Len(t, m.handlers, 10)
	for _, name := range []string{"Transfer", "Sync", "Mint", "Burn", "Swap"} {
		require.Contains(t, m.handlers, m.pairABI.Events[name].ID, "missing handler for %s", name)
	}
	require.Contains(t, m.handlers, m.factoryABI.Events["PairCreated"].ID)
	require.Contains(t, m.handlers, m.feeVaultABI.Events["AppendFee"].ID)
	require.Contains(t, m.handlers, m.feeVaultABI.Events["UpdateDevFee"].ID)
	require.Contains(t, m.handlers, m.dividendABI.Events["Claim"].ID)
	require.Contains(t, m.handlers, m.routerABI.Events["UpdateSwapFeeRate"].ID)
}
