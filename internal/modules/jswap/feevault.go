package jswap

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
)

// getOrCreateFeeVault returns the vault row for the emitting contract,
// seeding it with the default dev fee split on first sight.
func (m *JswapModule) getOrCreateFeeVault(ctx context.Context, event *core.ParsedEvent) (*entity.FeeVault, error) {
	id := addr(event.Address)
	vault, err := m.store.FeeVault(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		vault = &entity.FeeVault{
			ID:              id,
			Base:            entity.FeeVaultBase,
			Valid:           entity.FeeVaultBase - entity.FeeVaultDefaultDevFee,
			TotalFeesUSD:    dexmath.Zero,
			TotalFeesNative: dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	vault.SyncBlockNumber = event.BlockNumber
	if err := m.store.SaveFeeVault(ctx, vault); err != nil {
		return nil, err
	}
	return vault, nil
}

func handleAppendFee(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	pairAddress := addr(argAddress(event, "pairToken"))
	rewardAddress := addr(argAddress(event, "rewordToken"))

	pair, err := m.store.Pair(ctx, pairAddress)
	if errors.Is(err, store.ErrNotFound) {
		m.logger.Warn().
			Str("pair", pairAddress).
			Str("tx", event.TransactionHash.Hex()).
			Msg("Fee appended for unknown pair")
		return nil
	}
	if err != nil {
		return err
	}
	token, err := m.store.Token(ctx, rewardAddress)
	if errors.Is(err, store.ErrNotFound) {
		m.logger.Warn().
			Str("token", rewardAddress).
			Str("tx", event.TransactionHash.Hex()).
			Msg("Fee appended for unknown reward token")
		return nil
	}
	if err != nil {
		return err
	}
	if token.ID != pair.Token0 && token.ID != pair.Token1 {
		m.logger.Error().
			Str("pair", pair.ID).
			Str("token", token.ID).
			Msg("Fee reward token does not belong to the pair")
		return nil
	}

	vault, err := m.getOrCreateFeeVault(ctx, event)
	if err != nil {
		return err
	}

	isRewardAsToken0 := pair.Token0 == token.ID

	// Only the valid share reaches LPs; the rest is the dev cut.
	tokenAmount := dexmath.ToDecimal(argBigInt(event, "amount"), token.Decimals).
		Mul(decimal.NewFromInt(vault.Valid)).
		Div(decimal.NewFromInt(vault.Base))

	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return err
	}
	bundle.NativePriceUSD, err = m.nativePriceUSD(ctx)
	if err != nil {
		return err
	}
	bundle.SyncBlockNumber = event.BlockNumber
	if err := m.store.SaveBundle(ctx, bundle); err != nil {
		return err
	}

	token.DerivedNative, err = m.findNativePerToken(ctx, token)
	if err != nil {
		return err
	}

	feeTokenNative := tokenAmount.Mul(token.DerivedNative)
	feeTokenUSD := feeTokenNative.Mul(bundle.NativePriceUSD)

	transaction, err := m.createOrGetTransaction(ctx, event)
	if err != nil {
		return err
	}
	from, _ := m.transactionFrom(ctx, event)

	pairFee := &entity.PairFee{
		ID:            fmt.Sprintf("%s-%d", transaction.ID, len(transaction.Fees)),
		Transaction:   transaction.ID,
		Timestamp:     event.Timestamp,
		Pair:          pair.ID,
		RewardToken:   token.ID,
		From:          from,
		LogIndex:      event.LogIndex,
		Amount0Fee:    dexmath.Zero,
		Amount0FeeUSD: dexmath.Zero,
		Amount1Fee:    dexmath.Zero,
		Amount1FeeUSD: dexmath.Zero,
	}
	if isRewardAsToken0 {
		pairFee.Amount0Fee = tokenAmount
		pairFee.Amount0FeeUSD = feeTokenUSD
	} else {
		pairFee.Amount1Fee = tokenAmount
		pairFee.Amount1FeeUSD = feeTokenUSD
	}
	if err := m.store.SavePairFee(ctx, pairFee); err != nil {
		return err
	}
	transaction.Fees = append(transaction.Fees, pairFee.ID)
	if err := m.store.SaveTransaction(ctx, transaction); err != nil {
		return err
	}

	vault.TotalFeesNative = vault.TotalFeesNative.Add(feeTokenNative)
	vault.TotalFeesUSD = vault.TotalFeesUSD.Add(feeTokenUSD)
	if err := m.store.SaveFeeVault(ctx, vault); err != nil {
		return err
	}

	token.TxCount++
	token.SyncBlockNumber = event.BlockNumber
	if err := m.store.SaveToken(ctx, token); err != nil {
		return err
	}
	pair.TxCount++
	pair.SyncBlockNumber = event.BlockNumber
	if err := m.store.SavePair(ctx, pair); err != nil {
		return err
	}

	dayData, err := m.updatePairFeesDayData(ctx, pair.ID, event)
	if err != nil {
		return err
	}
	dayData.DailyFeesToken0 = dayData.DailyFeesToken0.Add(pairFee.Amount0Fee)
	dayData.DailyFeesToken1 = dayData.DailyFeesToken1.Add(pairFee.Amount1Fee)
	dayData.DailyFeesToken0USD = dayData.DailyFeesToken0USD.Add(pairFee.Amount0FeeUSD)
	dayData.DailyFeesToken1USD = dayData.DailyFeesToken1USD.Add(pairFee.Amount1FeeUSD)
	dayData.DailyFeesUSD = dayData.DailyFeesUSD.Add(feeTokenUSD)
	if pair.ReserveUSD.IsPositive() {
		dayData.DailyAprRate = dayData.DailyFeesUSD.Div(pair.ReserveUSD)
	}
	if err := m.store.SavePairFeesDayData(ctx, dayData); err != nil {
		return err
	}

	hourData, err := m.updatePairFeesHourData(ctx, pair.ID, event)
	if err != nil {
		return err
	}
	hourData.HourlyFeesToken0 = hourData.HourlyFeesToken0.Add(pairFee.Amount0Fee)
	hourData.HourlyFeesToken1 = hourData.HourlyFeesToken1.Add(pairFee.Amount1Fee)
	hourData.HourlyFeesToken0USD = hourData.HourlyFeesToken0USD.Add(pairFee.Amount0FeeUSD)
	hourData.HourlyFeesToken1USD = hourData.HourlyFeesToken1USD.Add(pairFee.Amount1FeeUSD)
	hourData.HourlyFeesUSD = hourData.HourlyFeesUSD.Add(feeTokenUSD)
	if err := m.store.SavePairFeesHourData(ctx, hourData); err != nil {
		return err
	}

	feesDayData, err := m.updateFeesDayData(ctx, event)
	if err != nil {
		return err
	}
	feesDayData.DailyFeesNative = feesDayData.DailyFeesNative.Add(feeTokenNative)
	feesDayData.DailyFeesUSD = feesDayData.DailyFeesUSD.Add(feeTokenUSD)
	feesDayData.TotalFeesNative = feesDayData.TotalFeesNative.Add(feeTokenNative)
	feesDayData.TotalFeesUSD = feesDayData.TotalFeesUSD.Add(feeTokenUSD)
	factory, err := m.getOrCreateFactory(ctx)
	if err != nil {
		return err
	}
	if factory.TotalLiquidityUSD.IsPositive() {
		feesDayData.DailyAprRate = feesDayData.DailyFeesUSD.Div(factory.TotalLiquidityUSD)
	}
	return m.store.SaveFeesDayData(ctx, feesDayData)
}

func handleUpdateDevFee(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	vault, err := m.getOrCreateFeeVault(ctx, event)
	if err != nil {
		return err
	}

	devFee := argBigInt(event, "devFee").Int64()
	vault.Valid = vault.Base - devFee
	vault.UpdateFeeAtTimestamp = event.Timestamp
	vault.UpdateFeeAtBlockNumber = event.BlockNumber
	if err := m.store.SaveFeeVault(ctx, vault); err != nil {
		return err
	}

	m.logger.Info().
		Int64("dev_fee", devFee).
		Int64("valid", vault.Valid).
		Uint64("block", event.BlockNumber).
		Msg("Dev fee updated")
	return nil
}
