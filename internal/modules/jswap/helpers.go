package jswap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/tokens"
)

const addressZero = "0x0000000000000000000000000000000000000000"

// addr lowercases a hex address for use as an entity id.
func addr(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// getOrCreateBundle returns the singleton native price row.
func (m *JswapModule) getOrCreateBundle(ctx context.Context) (*entity.Bundle, error) {
	bundle, err := m.store.Bundle(ctx, entity.BundleID)
	if errors.Is(err, store.ErrNotFound) {
		bundle = &entity.Bundle{ID: entity.BundleID, NativePriceUSD: dexmath.Zero}
		if err := m.store.SaveBundle(ctx, bundle); err != nil {
			return nil, err
		}
		return bundle, nil
	}
	return bundle, err
}

// getOrCreateFactory returns the protocol aggregate row.
func (m *JswapModule) getOrCreateFactory(ctx context.Context) (*entity.Factory, error) {
	factory, err := m.store.Factory(ctx, m.config.FactoryAddress)
	if errors.Is(err, store.ErrNotFound) {
		factory = &entity.Factory{
			ID:                   m.config.FactoryAddress,
			PairCount:            0,
			TotalVolumeUSD:       dexmath.Zero,
			TotalVolumeNative:    dexmath.Zero,
			UntrackedVolumeUSD:   dexmath.Zero,
			TotalLiquidityUSD:    dexmath.Zero,
			TotalLiquidityNative: dexmath.Zero,
			TxCount:              0,
			SwapFeeRate:          entity.DefaultSwapFeeRate,
		}
		if err := m.store.SaveFactory(ctx, factory); err != nil {
			return nil, err
		}
		return factory, nil
	}
	return factory, err
}

// createOrGetTransaction loads the transaction row for the event's tx,
// creating it with empty child lists on first sight.
func (m *JswapModule) createOrGetTransaction(ctx context.Context, event *core.ParsedEvent) (*entity.Transaction, error) {
	txHash := strings.ToLower(event.TransactionHash.Hex())
	transaction, err := m.store.Transaction(ctx, txHash)
	if errors.Is(err, store.ErrNotFound) {
		transaction = &entity.Transaction{
			ID:          txHash,
			BlockNumber: event.BlockNumber,
			Timestamp:   event.Timestamp,
			Mints:       []string{},
			Burns:       []string{},
			Swaps:       []string{},
			Fees:        []string{},
			Claims:      []string{},
		}
		if err := m.store.SaveTransaction(ctx, transaction); err != nil {
			return nil, err
		}
		return transaction, nil
	}
	return transaction, err
}

// createOrGetToken loads a token, fetching metadata on first sight.
// Static definitions take precedence over contract reads, and reverted
// reads resolve to defaults so indexing never stalls on a broken token.
func (m *JswapModule) createOrGetToken(ctx context.Context, address common.Address, blockNumber uint64) (*entity.Token, error) {
	id := addr(address)
	token, err := m.store.Token(ctx, id)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	token = &entity.Token{
		ID:                 id,
		Symbol:             m.fetchTokenSymbol(ctx, id),
		Name:               m.fetchTokenName(ctx, id),
		Decimals:           m.fetchTokenDecimals(ctx, id),
		TotalSupply:        dexmath.Zero,
		TradeVolume:        dexmath.Zero,
		TradeVolumeUSD:     dexmath.Zero,
		UntrackedVolumeUSD: dexmath.Zero,
		TotalLiquidity:     dexmath.Zero,
		DerivedNative:      dexmath.Zero,
		TxCount:            0,
		SyncBlockNumber:    blockNumber,
	}
	if supply, ok := m.readTotalSupply(ctx, id); ok {
		token.TotalSupply = supply
	}

	if err := m.store.SaveToken(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (m *JswapModule) fetchTokenSymbol(ctx context.Context, address string) string {
	if def, ok := tokens.StaticDefinition(address); ok {
		return def.Symbol
	}
	if m.reader != nil {
		if symbol, ok := m.reader.TokenSymbol(ctx, address); ok {
			return symbol
		}
	}
	return "unknown"
}

func (m *JswapModule) fetchTokenName(ctx context.Context, address string) string {
	if def, ok := tokens.StaticDefinition(address); ok {
		return def.Name
	}
	if m.reader != nil {
		if name, ok := m.reader.TokenName(ctx, address); ok {
			return name
		}
	}
	return "unknown"
}

func (m *JswapModule) fetchTokenDecimals(ctx context.Context, address string) int64 {
	if def, ok := tokens.StaticDefinition(address); ok {
		return def.Decimals
	}
	if m.reader != nil {
		if decimals, ok := m.reader.TokenDecimals(ctx, address); ok {
			return decimals
		}
	}
	return 0
}

func (m *JswapModule) readTotalSupply(ctx context.Context, address string) (decimal.Decimal, bool) {
	if m.reader == nil {
		return dexmath.Zero, false
	}
	supply, ok := m.reader.TokenTotalSupply(ctx, address)
	if !ok || supply == nil {
		return dexmath.Zero, false
	}
	return decimal.NewFromBigInt(supply, 0), true
}

// createUser ensures a user row exists for the address.
func (m *JswapModule) createUser(ctx context.Context, address common.Address) error {
	id := addr(address)
	_, err := m.store.User(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return m.store.SaveUser(ctx, &entity.User{ID: id, USDSwapped: dexmath.Zero})
	}
	return err
}

// createLiquidityPosition returns the LP position for a user on a pair,
// creating it (and bumping the pair's provider count) on first sight.
func (m *JswapModule) createLiquidityPosition(ctx context.Context, pairAddress, user common.Address) (*entity.LiquidityPosition, error) {
	id := fmt.Sprintf("%s-%s", addr(pairAddress), addr(user))
	position, err := m.store.LiquidityPosition(ctx, id)
	if err == nil {
		return position, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	pair, err := m.store.Pair(ctx, addr(pairAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to load pair for position %s: %w", id, err)
	}
	pair.LiquidityProviderCount++
	if err := m.store.SavePair(ctx, pair); err != nil {
		return nil, err
	}

	position = &entity.LiquidityPosition{
		ID:                    id,
		User:                  addr(user),
		Pair:                  addr(pairAddress),
		LiquidityTokenBalance: dexmath.Zero,
	}
	if err := m.store.SaveLiquidityPosition(ctx, position); err != nil {
		return nil, err
	}
	return position, nil
}

// createLiquiditySnapshot records the position state at the event's time.
func (m *JswapModule) createLiquiditySnapshot(ctx context.Context, position *entity.LiquidityPosition, event *core.ParsedEvent) error {
	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return err
	}
	pair, err := m.store.Pair(ctx, position.Pair)
	if err != nil {
		return err
	}
	token0, err := m.store.Token(ctx, pair.Token0)
	if err != nil {
		return err
	}
	token1, err := m.store.Token(ctx, pair.Token1)
	if err != nil {
		return err
	}

	snapshot := &entity.LiquidityPositionSnapshot{
		ID:                        fmt.Sprintf("%s-%d", position.ID, event.Timestamp),
		LiquidityPosition:         position.ID,
		Timestamp:                 event.Timestamp,
		BlockNumber:               event.BlockNumber,
		User:                      position.User,
		Pair:                      position.Pair,
		Token0PriceUSD:            token0.DerivedNative.Mul(bundle.NativePriceUSD),
		Token1PriceUSD:            token1.DerivedNative.Mul(bundle.NativePriceUSD),
		Reserve0:                  pair.Reserve0,
		Reserve1:                  pair.Reserve1,
		ReserveUSD:                pair.ReserveUSD,
		LiquidityTokenTotalSupply: pair.TotalSupply,
		LiquidityTokenBalance:     position.LiquidityTokenBalance,
	}
	return m.store.SaveLiquidityPositionSnapshot(ctx, snapshot)
}

// createPairTrack ensures a fee tracker row exists for the tracker
// contract, reading its reward token on first sight.
func (m *JswapModule) createPairTrack(ctx context.Context, trackAddress, pairAddress common.Address, event *core.ParsedEvent) (*entity.PairFeesTrack, error) {
	id := addr(trackAddress)
	track, err := m.store.PairFeesTrack(ctx, id)
	if err == nil {
		return track, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	track = &entity.PairFeesTrack{
		ID:                   id,
		Pair:                 addr(pairAddress),
		AccumulatedNative:    dexmath.Zero,
		AccumulatedUSD:       dexmath.Zero,
		TxCount:              0,
		CreatedAtTimestamp:   event.Timestamp,
		CreatedAtBlockNumber: event.BlockNumber,
		SyncBlockNumber:      event.BlockNumber,
	}

	if m.reader != nil {
		if rewardToken, ok := m.reader.RewardToken(ctx, id); ok && rewardToken != addressZero {
			feeToken, err := m.createOrGetToken(ctx, common.HexToAddress(rewardToken), event.BlockNumber)
			if err != nil {
				return nil, err
			}
			track.FeeToken = feeToken.ID
		}
	}

	if err := m.store.SavePairFeesTrack(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

// createOrGetUserFee returns a user's global claimed fee accumulator.
func (m *JswapModule) createOrGetUserFee(ctx context.Context, account common.Address) (*entity.UserFee, error) {
	id := addr(account)
	userFee, err := m.store.UserFee(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		userFee = &entity.UserFee{ID: id, ClaimedUSD: dexmath.Zero}
		if err := m.store.SaveUserFee(ctx, userFee); err != nil {
			return nil, err
		}
		return userFee, nil
	}
	return userFee, err
}

// createOrGetUserPairFee returns a user's per-pair claimed fee accumulator.
func (m *JswapModule) createOrGetUserPairFee(ctx context.Context, account common.Address, pair string) (*entity.UserPairFee, error) {
	id := fmt.Sprintf("%s-%s", addr(account), pair)
	userPairFee, err := m.store.UserPairFee(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		userPairFee = &entity.UserPairFee{
			ID:                id,
			User:              addr(account),
			Pair:              pair,
			AccumulatedNative: dexmath.Zero,
			AccumulatedUSD:    dexmath.Zero,
			TxCount:           0,
		}
		if err := m.store.SaveUserPairFee(ctx, userPairFee); err != nil {
			return nil, err
		}
		return userPairFee, nil
	}
	return userPairFee, err
}
