package jswap

import (
	"context"
	"errors"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
)

// Bucket updaters create-or-load the time bucket for the event's block
// timestamp, refresh the snapshot fields from current entity state, bump
// the bucket's transaction counter, and save. Delta fields (volumes,
// fees) are accumulated by the calling handler afterwards.

func (m *JswapModule) updateFactoryDayData(ctx context.Context, event *core.ParsedEvent) (*entity.FactoryDayData, error) {
	factory, err := m.store.Factory(ctx, m.config.FactoryAddress)
	if err != nil {
		return nil, err
	}

	id := entity.ProtocolDayID(event.Timestamp)
	dayData, err := m.store.FactoryDayData(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		dayData = &entity.FactoryDayData{
			ID:                   id,
			Date:                 entity.DayIndex(event.Timestamp) * entity.DayWindow,
			DailyVolumeUSD:       dexmath.Zero,
			DailyVolumeNative:    dexmath.Zero,
			DailyVolumeUntracked: dexmath.Zero,
			TotalVolumeUSD:       dexmath.Zero,
			TotalVolumeNative:    dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	dayData.PairCount = factory.PairCount
	dayData.TotalLiquidityUSD = factory.TotalLiquidityUSD
	dayData.TotalLiquidityNative = factory.TotalLiquidityNative
	dayData.TxCount = factory.TxCount
	dayData.SyncBlockNumber = event.BlockNumber

	if err := m.store.SaveFactoryDayData(ctx, dayData); err != nil {
		return nil, err
	}
	return dayData, nil
}

func (m *JswapModule) updateFeesDayData(ctx context.Context, event *core.ParsedEvent) (*entity.FeesDayData, error) {
	factory, err := m.store.Factory(ctx, m.config.FactoryAddress)
	if err != nil {
		return nil, err
	}

	id := entity.ProtocolDayID(event.Timestamp)
	dayData, err := m.store.FeesDayData(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		dayData = &entity.FeesDayData{
			ID:                 id,
			Date:               entity.DayIndex(event.Timestamp) * entity.DayWindow,
			DailyFeesUSD:       dexmath.Zero,
			DailyFeesNative:    dexmath.Zero,
			DailyFeesUntracked: dexmath.Zero,
			TotalFeesUSD:       dexmath.Zero,
			TotalFeesNative:    dexmath.Zero,
			DailyAprRate:       dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	dayData.PairCount = factory.PairCount
	dayData.TxCount = factory.TxCount
	dayData.SyncBlockNumber = event.BlockNumber

	if err := m.store.SaveFeesDayData(ctx, dayData); err != nil {
		return nil, err
	}
	return dayData, nil
}

func (m *JswapModule) updatePairDayData(ctx context.Context, pairAddress string, event *core.ParsedEvent) (*entity.PairDayData, error) {
	pair, err := m.store.Pair(ctx, pairAddress)
	if err != nil {
		return nil, err
	}

	id := entity.DayID(pairAddress, event.Timestamp)
	dayData, err := m.store.PairDayData(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		dayData = &entity.PairDayData{
			ID:                id,
			Date:              entity.DayIndex(event.Timestamp) * entity.DayWindow,
			Pair:              pairAddress,
			Token0:            pair.Token0,
			Token1:            pair.Token1,
			DailyVolumeToken0: dexmath.Zero,
			DailyVolumeToken1: dexmath.Zero,
			DailyVolumeUSD:    dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	dayData.TotalSupply = pair.TotalSupply
	dayData.Reserve0 = pair.Reserve0
	dayData.Reserve1 = pair.Reserve1
	dayData.ReserveUSD = pair.ReserveUSD
	dayData.TxCount++
	dayData.SyncBlockNumber = event.BlockNumber

	if err := m.store.SavePairDayData(ctx, dayData); err != nil {
		return nil, err
	}
	return dayData, nil
}

func (m *JswapModule) updatePairHourData(ctx context.Context, pairAddress string, event *core.ParsedEvent) (*entity.PairHourData, error) {
	pair, err := m.store.Pair(ctx, pairAddress)
	if err != nil {
		return nil, err
	}

	id := entity.HourID(pairAddress, event.Timestamp)
	hourData, err := m.store.PairHourData(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		hourData = &entity.PairHourData{
			ID:                 id,
			HourStartUnix:      entity.HourIndex(event.Timestamp) * entity.HourWindow,
			Pair:               pairAddress,
			HourlyVolumeToken0: dexmath.Zero,
			HourlyVolumeToken1: dexmath.Zero,
			HourlyVolumeUSD:    dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	hourData.TotalSupply = pair.TotalSupply
	hourData.Reserve0 = pair.Reserve0
	hourData.Reserve1 = pair.Reserve1
	hourData.ReserveUSD = pair.ReserveUSD
	hourData.TxCount++
	hourData.SyncBlockNumber = event.BlockNumber

	if err := m.store.SavePairHourData(ctx, hourData); err != nil {
		return nil, err
	}
	return hourData, nil
}

func (m *JswapModule) updateTokenDayData(ctx context.Context, token *entity.Token, event *core.ParsedEvent) (*entity.TokenDayData, error) {
	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return nil, err
	}

	id := entity.DayID(token.ID, event.Timestamp)
	dayData, err := m.store.TokenDayData(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		dayData = &entity.TokenDayData{
			ID:                id,
			Date:              entity.DayIndex(event.Timestamp) * entity.DayWindow,
			Token:             token.ID,
			DailyVolumeToken:  dexmath.Zero,
			DailyVolumeNative: dexmath.Zero,
			DailyVolumeUSD:    dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	dayData.PriceUSD = token.DerivedNative.Mul(bundle.NativePriceUSD)
	dayData.TotalLiquidityToken = token.TotalLiquidity
	dayData.TotalLiquidityNative = token.TotalLiquidity.Mul(token.DerivedNative)
	dayData.TotalLiquidityUSD = dayData.TotalLiquidityNative.Mul(bundle.NativePriceUSD)
	dayData.TxCount++
	dayData.SyncBlockNumber = event.BlockNumber

	if err := m.store.SaveTokenDayData(ctx, dayData); err != nil {
		return nil, err
	}
	return dayData, nil
}

func (m *JswapModule) updateTokenHourData(ctx context.Context, token *entity.Token, event *core.ParsedEvent) (*entity.TokenHourData, error) {
	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return nil, err
	}

	id := entity.HourID(token.ID, event.Timestamp)
	hourData, err := m.store.TokenHourData(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		hourData = &entity.TokenHourData{
			ID:                 id,
			HourStartUnix:      entity.HourIndex(event.Timestamp) * entity.HourWindow,
			Token:              token.ID,
			HourlyVolumeToken:  dexmath.Zero,
			HourlyVolumeNative: dexmath.Zero,
			HourlyVolumeUSD:    dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	hourData.PriceUSD = token.DerivedNative.Mul(bundle.NativePriceUSD)
	hourData.TotalLiquidityToken = token.TotalLiquidity
	hourData.TotalLiquidityNative = token.TotalLiquidity.Mul(token.DerivedNative)
	hourData.TotalLiquidityUSD = hourData.TotalLiquidityNative.Mul(bundle.NativePriceUSD)
	hourData.TxCount++
	hourData.SyncBlockNumber = event.BlockNumber

	if err := m.store.SaveTokenHourData(ctx, hourData); err != nil {
		return nil, err
	}
	return hourData, nil
}

func (m *JswapModule) updatePairFeesDayData(ctx context.Context, pairAddress string, event *core.ParsedEvent) (*entity.PairFeesDayData, error) {
	pair, err := m.store.Pair(ctx, pairAddress)
	if err != nil {
		return nil, err
	}

	id := entity.DayID(pairAddress, event.Timestamp)
	dayData, err := m.store.PairFeesDayData(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		dayData = &entity.PairFeesDayData{
			ID:                 id,
			Date:               entity.DayIndex(event.Timestamp) * entity.DayWindow,
			Pair:               pairAddress,
			Token0:             pair.Token0,
			Token1:             pair.Token1,
			DailyFeesToken0:    dexmath.Zero,
			DailyFeesToken1:    dexmath.Zero,
			DailyFeesToken0USD: dexmath.Zero,
			DailyFeesToken1USD: dexmath.Zero,
			DailyFeesUSD:       dexmath.Zero,
			DailyAprRate:       dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	dayData.TxCount++
	dayData.SyncBlockNumber = event.BlockNumber

	if err := m.store.SavePairFeesDayData(ctx, dayData); err != nil {
		return nil, err
	}
	return dayData, nil
}

func (m *JswapModule) updatePairFeesHourData(ctx context.Context, pairAddress string, event *core.ParsedEvent) (*entity.PairFeesHourData, error) {
	id := entity.HourID(pairAddress, event.Timestamp)
	hourData, err := m.store.PairFeesHourData(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		hourData = &entity.PairFeesHourData{
			ID:                  id,
			HourStartUnix:       entity.HourIndex(event.Timestamp) * entity.HourWindow,
			Pair:                pairAddress,
			HourlyFeesToken0:    dexmath.Zero,
			HourlyFeesToken1:    dexmath.Zero,
			HourlyFeesToken0USD: dexmath.Zero,
			HourlyFeesToken1USD: dexmath.Zero,
			HourlyFeesUSD:       dexmath.Zero,
		}
	} else if err != nil {
		return nil, err
	}

	hourData.TxCount++
	hourData.SyncBlockNumber = event.BlockNumber

	if err := m.store.SavePairFeesHourData(ctx, hourData); err != nil {
		return nil, err
	}
	return hourData, nil
}
