package store

import (
	"context"
	"fmt"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
)

func (s *Postgres) FactoryDayData(ctx context.Context, id string) (*entity.FactoryDayData, error) {
	var d entity.FactoryDayData
	err := s.pool.QueryRow(ctx, `
		SELECT id, date, daily_volume_usd, daily_volume_native, daily_volume_untracked,
		       total_volume_usd, total_volume_native, total_liquidity_usd, total_liquidity_native,
		       pair_count, tx_count, sync_block_number
		FROM factory_day_datas WHERE id = $1`, id,
	).Scan(&d.ID, &d.Date, &d.DailyVolumeUSD, &d.DailyVolumeNative, &d.DailyVolumeUntracked,
		&d.TotalVolumeUSD, &d.TotalVolumeNative, &d.TotalLiquidityUSD, &d.TotalLiquidityNative,
		&d.PairCount, &d.TxCount, &d.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "factory day data", id)
	}
	return &d, nil
}

func (s *Postgres) SaveFactoryDayData(ctx context.Context, d *entity.FactoryDayData) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO factory_day_datas (
			id, date, daily_volume_usd, daily_volume_native, daily_volume_untracked,
			total_volume_usd, total_volume_native, total_liquidity_usd, total_liquidity_native,
			pair_count, tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			daily_volume_usd = EXCLUDED.daily_volume_usd,
			daily_volume_native = EXCLUDED.daily_volume_native,
			daily_volume_untracked = EXCLUDED.daily_volume_untracked,
			total_volume_usd = EXCLUDED.total_volume_usd,
			total_volume_native = EXCLUDED.total_volume_native,
			total_liquidity_usd = EXCLUDED.total_liquidity_usd,
			total_liquidity_native = EXCLUDED.total_liquidity_native,
			pair_count = EXCLUDED.pair_count,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		d.ID, d.Date, d.DailyVolumeUSD, d.DailyVolumeNative, d.DailyVolumeUntracked,
		d.TotalVolumeUSD, d.TotalVolumeNative, d.TotalLiquidityUSD, d.TotalLiquidityNative,
		d.PairCount, d.TxCount, d.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save factory day data: %w", err)
	}
	return nil
}

func (s *Postgres) FeesDayData(ctx context.Context, id string) (*entity.FeesDayData, error) {
	var d entity.FeesDayData
	err := s.pool.QueryRow(ctx, `
		SELECT id, date, daily_fees_usd, daily_fees_native, daily_fees_untracked,
		       total_fees_usd, total_fees_native, daily_apr_rate, pair_count, tx_count, sync_block_number
		FROM fees_day_datas WHERE id = $1`, id,
	).Scan(&d.ID, &d.Date, &d.DailyFeesUSD, &d.DailyFeesNative, &d.DailyFeesUntracked,
		&d.TotalFeesUSD, &d.TotalFeesNative, &d.DailyAprRate, &d.PairCount, &d.TxCount, &d.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "fees day data", id)
	}
	return &d, nil
}

func (s *Postgres) SaveFeesDayData(ctx context.Context, d *entity.FeesDayData) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO fees_day_datas (
			id, date, daily_fees_usd, daily_fees_native, daily_fees_untracked,
			total_fees_usd, total_fees_native, daily_apr_rate, pair_count, tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			daily_fees_usd = EXCLUDED.daily_fees_usd,
			daily_fees_native = EXCLUDED.daily_fees_native,
			daily_fees_untracked = EXCLUDED.daily_fees_untracked,
			total_fees_usd = EXCLUDED.total_fees_usd,
			total_fees_native = EXCLUDED.total_fees_native,
			daily_apr_rate = EXCLUDED.daily_apr_rate,
			pair_count = EXCLUDED.pair_count,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		d.ID, d.Date, d.DailyFeesUSD, d.DailyFeesNative, d.DailyFeesUntracked,
		d.TotalFeesUSD, d.TotalFeesNative, d.DailyAprRate, d.PairCount, d.TxCount, d.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save fees day data: %w", err)
	}
	return nil
}

func (s *Postgres) PairDayData(ctx context.Context, id string) (*entity.PairDayData, error) {
	var d entity.PairDayData
	err := s.pool.QueryRow(ctx, `
		SELECT id, date, pair, token0, token1, reserve0, reserve1, total_supply, reserve_usd,
		       daily_volume_token0, daily_volume_token1, daily_volume_usd, tx_count, sync_block_number
		FROM pair_day_datas WHERE id = $1`, id,
	).Scan(&d.ID, &d.Date, &d.Pair, &d.Token0, &d.Token1, &d.Reserve0, &d.Reserve1, &d.TotalSupply,
		&d.ReserveUSD, &d.DailyVolumeToken0, &d.DailyVolumeToken1, &d.DailyVolumeUSD, &d.TxCount, &d.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "pair day data", id)
	}
	return &d, nil
}

func (s *Postgres) SavePairDayData(ctx context.Context, d *entity.PairDayData) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pair_day_datas (
			id, date, pair, token0, token1, reserve0, reserve1, total_supply, reserve_usd,
			daily_volume_token0, daily_volume_token1, daily_volume_usd, tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			total_supply = EXCLUDED.total_supply,
			reserve_usd = EXCLUDED.reserve_usd,
			daily_volume_token0 = EXCLUDED.daily_volume_token0,
			daily_volume_token1 = EXCLUDED.daily_volume_token1,
			daily_volume_usd = EXCLUDED.daily_volume_usd,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		d.ID, d.Date, d.Pair, d.Token0, d.Token1, d.Reserve0, d.Reserve1, d.TotalSupply, d.ReserveUSD,
		d.DailyVolumeToken0, d.DailyVolumeToken1, d.DailyVolumeUSD, d.TxCount, d.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save pair day data: %w", err)
	}
	return nil
}

func (s *Postgres) PairHourData(ctx context.Context, id string) (*entity.PairHourData, error) {
	var d entity.PairHourData
	err := s.pool.QueryRow(ctx, `
		SELECT id, hour_start_unix, pair, reserve0, reserve1, total_supply, reserve_usd,
		       hourly_volume_token0, hourly_volume_token1, hourly_volume_usd, tx_count, sync_block_number
		FROM pair_hour_datas WHERE id = $1`, id,
	).Scan(&d.ID, &d.HourStartUnix, &d.Pair, &d.Reserve0, &d.Reserve1, &d.TotalSupply, &d.ReserveUSD,
		&d.HourlyVolumeToken0, &d.HourlyVolumeToken1, &d.HourlyVolumeUSD, &d.TxCount, &d.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "pair hour data", id)
	}
	return &d, nil
}

func (s *Postgres) SavePairHourData(ctx context.Context, d *entity.PairHourData) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pair_hour_datas (
			id, hour_start_unix, pair, reserve0, reserve1, total_supply, reserve_usd,
			hourly_volume_token0, hourly_volume_token1, hourly_volume_usd, tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			total_supply = EXCLUDED.total_supply,
			reserve_usd = EXCLUDED.reserve_usd,
			hourly_volume_token0 = EXCLUDED.hourly_volume_token0,
			hourly_volume_token1 = EXCLUDED.hourly_volume_token1,
			hourly_volume_usd = EXCLUDED.hourly_volume_usd,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		d.ID, d.HourStartUnix, d.Pair, d.Reserve0, d.Reserve1, d.TotalSupply, d.ReserveUSD,
		d.HourlyVolumeToken0, d.HourlyVolumeToken1, d.HourlyVolumeUSD, d.TxCount, d.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save pair hour data: %w", err)
	}
	return nil
}

func (s *Postgres) TokenDayData(ctx context.Context, id string) (*entity.TokenDayData, error) {
	var d entity.TokenDayData
	err := s.pool.QueryRow(ctx, `
		SELECT id, date, token, daily_volume_token, daily_volume_native, daily_volume_usd,
		       total_liquidity_token, total_liquidity_native, total_liquidity_usd,
		       price_usd, tx_count, sync_block_number
		FROM token_day_datas WHERE id = $1`, id,
	).Scan(&d.ID, &d.Date, &d.Token, &d.DailyVolumeToken, &d.DailyVolumeNative, &d.DailyVolumeUSD,
		&d.TotalLiquidityToken, &d.TotalLiquidityNative, &d.TotalLiquidityUSD,
		&d.PriceUSD, &d.TxCount, &d.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "token day data", id)
	}
	return &d, nil
}

func (s *Postgres) SaveTokenDayData(ctx context.Context, d *entity.TokenDayData) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO token_day_datas (
			id, date, token, daily_volume_token, daily_volume_native, daily_volume_usd,
			total_liquidity_token, total_liquidity_native, total_liquidity_usd,
			price_usd, tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			daily_volume_token = EXCLUDED.daily_volume_token,
			daily_volume_native = EXCLUDED.daily_volume_native,
			daily_volume_usd = EXCLUDED.daily_volume_usd,
			total_liquidity_token = EXCLUDED.total_liquidity_token,
			total_liquidity_native = EXCLUDED.total_liquidity_native,
			total_liquidity_usd = EXCLUDED.total_liquidity_usd,
			price_usd = EXCLUDED.price_usd,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		d.ID, d.Date, d.Token, d.DailyVolumeToken, d.DailyVolumeNative, d.DailyVolumeUSD,
		d.TotalLiquidityToken, d.TotalLiquidityNative, d.TotalLiquidityUSD,
		d.PriceUSD, d.TxCount, d.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save token day data: %w", err)
	}
	return nil
}

func (s *Postgres) TokenHourData(ctx context.Context, id string) (*entity.TokenHourData, error) {
	var d entity.TokenHourData
	err := s.pool.QueryRow(ctx, `
		SELECT id, hour_start_unix, token, hourly_volume_token, hourly_volume_native, hourly_volume_usd,
		       total_liquidity_token, total_liquidity_native, total_liquidity_usd,
		       price_usd, tx_count, sync_block_number
		FROM token_hour_datas WHERE id = $1`, id,
	).Scan(&d.ID, &d.HourStartUnix, &d.Token, &d.HourlyVolumeToken, &d.HourlyVolumeNative, &d.HourlyVolumeUSD,
		&d.TotalLiquidityToken, &d.TotalLiquidityNative, &d.TotalLiquidityUSD,
		&d.PriceUSD, &d.TxCount, &d.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "token hour data", id)
	}
	return &d, nil
}

func (s *Postgres) SaveTokenHourData(ctx context.Context, d *entity.TokenHourData) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO token_hour_datas (
			id, hour_start_unix, token, hourly_volume_token, hourly_volume_native, hourly_volume_usd,
			total_liquidity_token, total_liquidity_native, total_liquidity_usd,
			price_usd, tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			hourly_volume_token = EXCLUDED.hourly_volume_token,
			hourly_volume_native = EXCLUDED.hourly_volume_native,
			hourly_volume_usd = EXCLUDED.hourly_volume_usd,
			total_liquidity_token = EXCLUDED.total_liquidity_token,
			total_liquidity_native = EXCLUDED.total_liquidity_native,
			total_liquidity_usd = EXCLUDED.total_liquidity_usd,
			price_usd = EXCLUDED.price_usd,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		d.ID, d.HourStartUnix, d.Token, d.HourlyVolumeToken, d.HourlyVolumeNative, d.HourlyVolumeUSD,
		d.TotalLiquidityToken, d.TotalLiquidityNative, d.TotalLiquidityUSD,
		d.PriceUSD, d.TxCount, d.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save token hour data: %w", err)
	}
	return nil
}

func (s *Postgres) PairFeesDayData(ctx context.Context, id string) (*entity.PairFeesDayData, error) {
	var d entity.PairFeesDayData
	err := s.pool.QueryRow(ctx, `
		SELECT id, date, pair, token0, token1, daily_fees_token0, daily_fees_token1,
		       daily_fees_token0_usd, daily_fees_token1_usd, daily_fees_usd, daily_apr_rate,
		       tx_count, sync_block_number
		FROM pair_fees_day_datas WHERE id = $1`, id,
	).Scan(&d.ID, &d.Date, &d.Pair, &d.Token0, &d.Token1, &d.DailyFeesToken0, &d.DailyFeesToken1,
		&d.DailyFeesToken0USD, &d.DailyFeesToken1USD, &d.DailyFeesUSD, &d.DailyAprRate,
		&d.TxCount, &d.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "pair fees day data", id)
	}
	return &d, nil
}

func (s *Postgres) SavePairFeesDayData(ctx context.Context, d *entity.PairFeesDayData) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pair_fees_day_datas (
			id, date, pair, token0, token1, daily_fees_token0, daily_fees_token1,
			daily_fees_token0_usd, daily_fees_token1_usd, daily_fees_usd, daily_apr_rate,
			tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			daily_fees_token0 = EXCLUDED.daily_fees_token0,
			daily_fees_token1 = EXCLUDED.daily_fees_token1,
			daily_fees_token0_usd = EXCLUDED.daily_fees_token0_usd,
			daily_fees_token1_usd = EXCLUDED.daily_fees_token1_usd,
			daily_fees_usd = EXCLUDED.daily_fees_usd,
			daily_apr_rate = EXCLUDED.daily_apr_rate,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		d.ID, d.Date, d.Pair, d.Token0, d.Token1, d.DailyFeesToken0, d.DailyFeesToken1,
		d.DailyFeesToken0USD, d.DailyFeesToken1USD, d.DailyFeesUSD, d.DailyAprRate,
		d.TxCount, d.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save pair fees day data: %w", err)
	}
	return nil
}

func (s *Postgres) PairFeesHourData(ctx context.Context, id string) (*entity.PairFeesHourData, error) {
	var d entity.PairFeesHourData
	err := s.pool.QueryRow(ctx, `
		SELECT id, hour_start_unix, pair, hourly_fees_token0, hourly_fees_token1,
		       hourly_fees_token0_usd, hourly_fees_token1_usd, hourly_fees_usd,
		       tx_count, sync_block_number
		FROM pair_fees_hour_datas WHERE id = $1`, id,
	).Scan(&d.ID, &d.HourStartUnix, &d.Pair, &d.HourlyFeesToken0, &d.HourlyFeesToken1,
		&d.HourlyFeesToken0USD, &d.HourlyFeesToken1USD, &d.HourlyFeesUSD,
		&d.TxCount, &d.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "pair fees hour data", id)
	}
	return &d, nil
}

func (s *Postgres) SavePairFeesHourData(ctx context.Context, d *entity.PairFeesHourData) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pair_fees_hour_datas (
			id, hour_start_unix, pair, hourly_fees_token0, hourly_fees_token1,
			hourly_fees_token0_usd, hourly_fees_token1_usd, hourly_fees_usd,
			tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			hourly_fees_token0 = EXCLUDED.hourly_fees_token0,
			hourly_fees_token1 = EXCLUDED.hourly_fees_token1,
			hourly_fees_token0_usd = EXCLUDED.hourly_fees_token0_usd,
			hourly_fees_token1_usd = EXCLUDED.hourly_fees_token1_usd,
			hourly_fees_usd = EXCLUDED.hourly_fees_usd,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		d.ID, d.HourStartUnix, d.Pair, d.HourlyFeesToken0, d.HourlyFeesToken1,
		d.HourlyFeesToken0USD, d.HourlyFeesToken1USD, d.HourlyFeesUSD,
		d.TxCount, d.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save pair fees hour data: %w", err)
	}
	return nil
}
