package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
)

// Postgres implements Store on a pgx connection pool. Saves are
// upserts keyed by id.
type Postgres struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres creates a Postgres-backed store.
func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) *Postgres {
	return &Postgres{
		pool:   pool,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to load %s %s: %w", what, id, err)
}

func (s *Postgres) Bundle(ctx context.Context, id string) (*entity.Bundle, error) {
	var b entity.Bundle
	err := s.pool.QueryRow(ctx,
		`SELECT id, native_price_usd, sync_block_number FROM bundles WHERE id = $1`, id,
	).Scan(&b.ID, &b.NativePriceUSD, &b.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "bundle", id)
	}
	return &b, nil
}

func (s *Postgres) SaveBundle(ctx context.Context, b *entity.Bundle) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bundles (id, native_price_usd, sync_block_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			native_price_usd = EXCLUDED.native_price_usd,
			sync_block_number = EXCLUDED.sync_block_number`,
		b.ID, b.NativePriceUSD, b.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save bundle: %w", err)
	}
	return nil
}

func (s *Postgres) Factory(ctx context.Context, id string) (*entity.Factory, error) {
	var f entity.Factory
	err := s.pool.QueryRow(ctx, `
		SELECT id, pair_count, total_volume_usd, total_volume_native, untracked_volume_usd,
		       total_liquidity_usd, total_liquidity_native, tx_count, swap_fee_rate, sync_block_number
		FROM factories WHERE id = $1`, id,
	).Scan(&f.ID, &f.PairCount, &f.TotalVolumeUSD, &f.TotalVolumeNative, &f.UntrackedVolumeUSD,
		&f.TotalLiquidityUSD, &f.TotalLiquidityNative, &f.TxCount, &f.SwapFeeRate, &f.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "factory", id)
	}
	return &f, nil
}

func (s *Postgres) SaveFactory(ctx context.Context, f *entity.Factory) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO factories (
			id, pair_count, total_volume_usd, total_volume_native, untracked_volume_usd,
			total_liquidity_usd, total_liquidity_native, tx_count, swap_fee_rate, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			pair_count = EXCLUDED.pair_count,
			total_volume_usd = EXCLUDED.total_volume_usd,
			total_volume_native = EXCLUDED.total_volume_native,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			total_liquidity_usd = EXCLUDED.total_liquidity_usd,
			total_liquidity_native = EXCLUDED.total_liquidity_native,
			tx_count = EXCLUDED.tx_count,
			swap_fee_rate = EXCLUDED.swap_fee_rate,
			sync_block_number = EXCLUDED.sync_block_number`,
		f.ID, f.PairCount, f.TotalVolumeUSD, f.TotalVolumeNative, f.UntrackedVolumeUSD,
		f.TotalLiquidityUSD, f.TotalLiquidityNative, f.TxCount, f.SwapFeeRate, f.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save factory: %w", err)
	}
	return nil
}

func (s *Postgres) Token(ctx context.Context, id string) (*entity.Token, error) {
	var t entity.Token
	err := s.pool.QueryRow(ctx, `
		SELECT id, symbol, name, decimals, total_supply, trade_volume, trade_volume_usd,
		       untracked_volume_usd, total_liquidity, derived_native, tx_count, sync_block_number
		FROM tokens WHERE id = $1`, id,
	).Scan(&t.ID, &t.Symbol, &t.Name, &t.Decimals, &t.TotalSupply, &t.TradeVolume, &t.TradeVolumeUSD,
		&t.UntrackedVolumeUSD, &t.TotalLiquidity, &t.DerivedNative, &t.TxCount, &t.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "token", id)
	}
	return &t, nil
}

func (s *Postgres) SaveToken(ctx context.Context, t *entity.Token) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tokens (
			id, symbol, name, decimals, total_supply, trade_volume, trade_volume_usd,
			untracked_volume_usd, total_liquidity, derived_native, tx_count, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			decimals = EXCLUDED.decimals,
			total_supply = EXCLUDED.total_supply,
			trade_volume = EXCLUDED.trade_volume,
			trade_volume_usd = EXCLUDED.trade_volume_usd,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			total_liquidity = EXCLUDED.total_liquidity,
			derived_native = EXCLUDED.derived_native,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		t.ID, t.Symbol, t.Name, t.Decimals, t.TotalSupply, t.TradeVolume, t.TradeVolumeUSD,
		t.UntrackedVolumeUSD, t.TotalLiquidity, t.DerivedNative, t.TxCount, t.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *Postgres) Pair(ctx context.Context, id string) (*entity.Pair, error) {
	var p entity.Pair
	err := s.pool.QueryRow(ctx, `
		SELECT id, token0, token1, reserve0, reserve1, total_supply, reserve_native, reserve_usd,
		       tracked_reserve_native, token0_price, token1_price, volume_token0, volume_token1,
		       volume_usd, untracked_volume_usd, tx_count, liquidity_provider_count,
		       created_at_timestamp, created_at_block_number, sync_block_number
		FROM pairs WHERE id = $1`, id,
	).Scan(&p.ID, &p.Token0, &p.Token1, &p.Reserve0, &p.Reserve1, &p.TotalSupply, &p.ReserveNative,
		&p.ReserveUSD, &p.TrackedReserveNative, &p.Token0Price, &p.Token1Price, &p.VolumeToken0,
		&p.VolumeToken1, &p.VolumeUSD, &p.UntrackedVolumeUSD, &p.TxCount, &p.LiquidityProviderCount,
		&p.CreatedAtTimestamp, &p.CreatedAtBlockNumber, &p.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "pair", id)
	}
	return &p, nil
}

func (s *Postgres) SavePair(ctx context.Context, p *entity.Pair) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pairs (
			id, token0, token1, reserve0, reserve1, total_supply, reserve_native, reserve_usd,
			tracked_reserve_native, token0_price, token1_price, volume_token0, volume_token1,
			volume_usd, untracked_volume_usd, tx_count, liquidity_provider_count,
			created_at_timestamp, created_at_block_number, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			total_supply = EXCLUDED.total_supply,
			reserve_native = EXCLUDED.reserve_native,
			reserve_usd = EXCLUDED.reserve_usd,
			tracked_reserve_native = EXCLUDED.tracked_reserve_native,
			token0_price = EXCLUDED.token0_price,
			token1_price = EXCLUDED.token1_price,
			volume_token0 = EXCLUDED.volume_token0,
			volume_token1 = EXCLUDED.volume_token1,
			volume_usd = EXCLUDED.volume_usd,
			untracked_volume_usd = EXCLUDED.untracked_volume_usd,
			tx_count = EXCLUDED.tx_count,
			liquidity_provider_count = EXCLUDED.liquidity_provider_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		p.ID, p.Token0, p.Token1, p.Reserve0, p.Reserve1, p.TotalSupply, p.ReserveNative, p.ReserveUSD,
		p.TrackedReserveNative, p.Token0Price, p.Token1Price, p.VolumeToken0, p.VolumeToken1,
		p.VolumeUSD, p.UntrackedVolumeUSD, p.TxCount, p.LiquidityProviderCount,
		p.CreatedAtTimestamp, p.CreatedAtBlockNumber, p.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save pair: %w", err)
	}
	return nil
}

func (s *Postgres) User(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, usd_swapped FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.USDSwapped)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

func (s *Postgres) SaveUser(ctx context.Context, u *entity.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, usd_swapped)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET usd_swapped = EXCLUDED.usd_swapped`,
		u.ID, u.USDSwapped)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Postgres) LiquidityPosition(ctx context.Context, id string) (*entity.LiquidityPosition, error) {
	var p entity.LiquidityPosition
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_address, pair, liquidity_token_balance
		FROM liquidity_positions WHERE id = $1`, id,
	).Scan(&p.ID, &p.User, &p.Pair, &p.LiquidityTokenBalance)
	if err != nil {
		return nil, notFound(err, "liquidity position", id)
	}
	return &p, nil
}

func (s *Postgres) SaveLiquidityPosition(ctx context.Context, p *entity.LiquidityPosition) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liquidity_positions (id, user_address, pair, liquidity_token_balance)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			liquidity_token_balance = EXCLUDED.liquidity_token_balance`,
		p.ID, p.User, p.Pair, p.LiquidityTokenBalance)
	if err != nil {
		return fmt.Errorf("failed to save liquidity position: %w", err)
	}
	return nil
}

func (s *Postgres) SaveLiquidityPositionSnapshot(ctx context.Context, snap *entity.LiquidityPositionSnapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liquidity_position_snapshots (
			id, liquidity_position, timestamp, block_number, user_address, pair,
			token0_price_usd, token1_price_usd, reserve0, reserve1, reserve_usd,
			liquidity_token_total_supply, liquidity_token_balance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`,
		snap.ID, snap.LiquidityPosition, snap.Timestamp, snap.BlockNumber, snap.User, snap.Pair,
		snap.Token0PriceUSD, snap.Token1PriceUSD, snap.Reserve0, snap.Reserve1, snap.ReserveUSD,
		snap.LiquidityTokenTotalSupply, snap.LiquidityTokenBalance)
	if err != nil {
		return fmt.Errorf("failed to save liquidity position snapshot: %w", err)
	}
	return nil
}

func (s *Postgres) Transaction(ctx context.Context, id string) (*entity.Transaction, error) {
	var t entity.Transaction
	err := s.pool.QueryRow(ctx, `
		SELECT id, block_number, timestamp, mints, burns, swaps, fees, claims
		FROM transactions WHERE id = $1`, id,
	).Scan(&t.ID, &t.BlockNumber, &t.Timestamp, &t.Mints, &t.Burns, &t.Swaps, &t.Fees, &t.Claims)
	if err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return &t, nil
}

func (s *Postgres) SaveTransaction(ctx context.Context, t *entity.Transaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (id, block_number, timestamp, mints, burns, swaps, fees, claims)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			mints = EXCLUDED.mints,
			burns = EXCLUDED.burns,
			swaps = EXCLUDED.swaps,
			fees = EXCLUDED.fees,
			claims = EXCLUDED.claims`,
		t.ID, t.BlockNumber, t.Timestamp, t.Mints, t.Burns, t.Swaps, t.Fees, t.Claims)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (s *Postgres) Mint(ctx context.Context, id string) (*entity.Mint, error) {
	var m entity.Mint
	err := s.pool.QueryRow(ctx, `
		SELECT id, transaction, timestamp, pair, to_address, liquidity, sender,
		       amount0, amount1, log_index, amount_usd, fee_to, fee_liquidity
		FROM mints WHERE id = $1`, id,
	).Scan(&m.ID, &m.Transaction, &m.Timestamp, &m.Pair, &m.To, &m.Liquidity, &m.Sender,
		&m.Amount0, &m.Amount1, &m.LogIndex, &m.AmountUSD, &m.FeeTo, &m.FeeLiquidity)
	if err != nil {
		return nil, notFound(err, "mint", id)
	}
	return &m, nil
}

func (s *Postgres) SaveMint(ctx context.Context, m *entity.Mint) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO mints (
			id, transaction, timestamp, pair, to_address, liquidity, sender,
			amount0, amount1, log_index, amount_usd, fee_to, fee_liquidity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			to_address = EXCLUDED.to_address,
			liquidity = EXCLUDED.liquidity,
			sender = EXCLUDED.sender,
			amount0 = EXCLUDED.amount0,
			amount1 = EXCLUDED.amount1,
			log_index = EXCLUDED.log_index,
			amount_usd = EXCLUDED.amount_usd,
			fee_to = EXCLUDED.fee_to,
			fee_liquidity = EXCLUDED.fee_liquidity`,
		m.ID, m.Transaction, m.Timestamp, m.Pair, m.To, m.Liquidity, m.Sender,
		m.Amount0, m.Amount1, m.LogIndex, m.AmountUSD, m.FeeTo, m.FeeLiquidity)
	if err != nil {
		return fmt.Errorf("failed to save mint: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteMint(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM mints WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete mint %s: %w", id, err)
	}
	return nil
}

func (s *Postgres) Burn(ctx context.Context, id string) (*entity.Burn, error) {
	var b entity.Burn
	err := s.pool.QueryRow(ctx, `
		SELECT id, transaction, timestamp, pair, liquidity, sender, amount0, amount1,
		       to_address, log_index, amount_usd, needs_complete, fee_to, fee_liquidity
		FROM burns WHERE id = $1`, id,
	).Scan(&b.ID, &b.Transaction, &b.Timestamp, &b.Pair, &b.Liquidity, &b.Sender, &b.Amount0,
		&b.Amount1, &b.To, &b.LogIndex, &b.AmountUSD, &b.NeedsComplete, &b.FeeTo, &b.FeeLiquidity)
	if err != nil {
		return nil, notFound(err, "burn", id)
	}
	return &b, nil
}

func (s *Postgres) SaveBurn(ctx context.Context, b *entity.Burn) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO burns (
			id, transaction, timestamp, pair, liquidity, sender, amount0, amount1,
			to_address, log_index, amount_usd, needs_complete, fee_to, fee_liquidity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			liquidity = EXCLUDED.liquidity,
			sender = EXCLUDED.sender,
			amount0 = EXCLUDED.amount0,
			amount1 = EXCLUDED.amount1,
			to_address = EXCLUDED.to_address,
			log_index = EXCLUDED.log_index,
			amount_usd = EXCLUDED.amount_usd,
			needs_complete = EXCLUDED.needs_complete,
			fee_to = EXCLUDED.fee_to,
			fee_liquidity = EXCLUDED.fee_liquidity`,
		b.ID, b.Transaction, b.Timestamp, b.Pair, b.Liquidity, b.Sender, b.Amount0, b.Amount1,
		b.To, b.LogIndex, b.AmountUSD, b.NeedsComplete, b.FeeTo, b.FeeLiquidity)
	if err != nil {
		return fmt.Errorf("failed to save burn: %w", err)
	}
	return nil
}

func (s *Postgres) SaveSwap(ctx context.Context, sw *entity.Swap) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO swaps (
			id, transaction, timestamp, pair, sender, from_address,
			amount0_in, amount1_in, amount0_out, amount1_out, to_address, log_index, amount_usd
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`,
		sw.ID, sw.Transaction, sw.Timestamp, sw.Pair, sw.Sender, sw.From,
		sw.Amount0In, sw.Amount1In, sw.Amount0Out, sw.Amount1Out, sw.To, sw.LogIndex, sw.AmountUSD)
	if err != nil {
		return fmt.Errorf("failed to save swap: %w", err)
	}
	return nil
}

func (s *Postgres) FeeVault(ctx context.Context, id string) (*entity.FeeVault, error) {
	var v entity.FeeVault
	err := s.pool.QueryRow(ctx, `
		SELECT id, base, valid, total_fees_usd, total_fees_native,
		       update_fee_at_timestamp, update_fee_at_block_number, sync_block_number
		FROM fee_vaults WHERE id = $1`, id,
	).Scan(&v.ID, &v.Base, &v.Valid, &v.TotalFeesUSD, &v.TotalFeesNative,
		&v.UpdateFeeAtTimestamp, &v.UpdateFeeAtBlockNumber, &v.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "fee vault", id)
	}
	return &v, nil
}

func (s *Postgres) SaveFeeVault(ctx context.Context, v *entity.FeeVault) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO fee_vaults (
			id, base, valid, total_fees_usd, total_fees_native,
			update_fee_at_timestamp, update_fee_at_block_number, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			base = EXCLUDED.base,
			valid = EXCLUDED.valid,
			total_fees_usd = EXCLUDED.total_fees_usd,
			total_fees_native = EXCLUDED.total_fees_native,
			update_fee_at_timestamp = EXCLUDED.update_fee_at_timestamp,
			update_fee_at_block_number = EXCLUDED.update_fee_at_block_number,
			sync_block_number = EXCLUDED.sync_block_number`,
		v.ID, v.Base, v.Valid, v.TotalFeesUSD, v.TotalFeesNative,
		v.UpdateFeeAtTimestamp, v.UpdateFeeAtBlockNumber, v.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save fee vault: %w", err)
	}
	return nil
}

func (s *Postgres) SavePairFee(ctx context.Context, f *entity.PairFee) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pair_fees (
			id, transaction, timestamp, pair, reward_token, from_address, log_index,
			amount0_fee, amount0_fee_usd, amount1_fee, amount1_fee_usd
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`,
		f.ID, f.Transaction, f.Timestamp, f.Pair, f.RewardToken, f.From, f.LogIndex,
		f.Amount0Fee, f.Amount0FeeUSD, f.Amount1Fee, f.Amount1FeeUSD)
	if err != nil {
		return fmt.Errorf("failed to save pair fee: %w", err)
	}
	return nil
}

func (s *Postgres) PairFeesTrack(ctx context.Context, id string) (*entity.PairFeesTrack, error) {
	var t entity.PairFeesTrack
	err := s.pool.QueryRow(ctx, `
		SELECT id, pair, fee_token, accumulated_native, accumulated_usd, tx_count,
		       created_at_timestamp, created_at_block_number, sync_block_number
		FROM pair_fees_tracks WHERE id = $1`, id,
	).Scan(&t.ID, &t.Pair, &t.FeeToken, &t.AccumulatedNative, &t.AccumulatedUSD, &t.TxCount,
		&t.CreatedAtTimestamp, &t.CreatedAtBlockNumber, &t.SyncBlockNumber)
	if err != nil {
		return nil, notFound(err, "pair fees track", id)
	}
	return &t, nil
}

func (s *Postgres) SavePairFeesTrack(ctx context.Context, t *entity.PairFeesTrack) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pair_fees_tracks (
			id, pair, fee_token, accumulated_native, accumulated_usd, tx_count,
			created_at_timestamp, created_at_block_number, sync_block_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			fee_token = EXCLUDED.fee_token,
			accumulated_native = EXCLUDED.accumulated_native,
			accumulated_usd = EXCLUDED.accumulated_usd,
			tx_count = EXCLUDED.tx_count,
			sync_block_number = EXCLUDED.sync_block_number`,
		t.ID, t.Pair, t.FeeToken, t.AccumulatedNative, t.AccumulatedUSD, t.TxCount,
		t.CreatedAtTimestamp, t.CreatedAtBlockNumber, t.SyncBlockNumber)
	if err != nil {
		return fmt.Errorf("failed to save pair fees track: %w", err)
	}
	return nil
}

func (s *Postgres) SaveClaim(ctx context.Context, c *entity.Claim) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO claims (
			id, transaction, timestamp, tracker, user_address, amount, amount_usd, automatic, log_index
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		c.ID, c.Transaction, c.Timestamp, c.Tracker, c.User, c.Amount, c.AmountUSD, c.Automatic, c.LogIndex)
	if err != nil {
		return fmt.Errorf("failed to save claim: %w", err)
	}
	return nil
}

func (s *Postgres) UserFee(ctx context.Context, id string) (*entity.UserFee, error) {
	var f entity.UserFee
	err := s.pool.QueryRow(ctx, `
		SELECT id, claimed_usd, tx_count FROM user_fees WHERE id = $1`, id,
	).Scan(&f.ID, &f.ClaimedUSD, &f.TxCount)
	if err != nil {
		return nil, notFound(err, "user fee", id)
	}
	return &f, nil
}

func (s *Postgres) SaveUserFee(ctx context.Context, f *entity.UserFee) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_fees (id, claimed_usd, tx_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			claimed_usd = EXCLUDED.claimed_usd,
			tx_count = EXCLUDED.tx_count`,
		f.ID, f.ClaimedUSD, f.TxCount)
	if err != nil {
		return fmt.Errorf("failed to save user fee: %w", err)
	}
	return nil
}

func (s *Postgres) UserPairFee(ctx context.Context, id string) (*entity.UserPairFee, error) {
	var f entity.UserPairFee
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_address, pair, accumulated_native, accumulated_usd, tx_count
		FROM user_pair_fees WHERE id = $1`, id,
	).Scan(&f.ID, &f.User, &f.Pair, &f.AccumulatedNative, &f.AccumulatedUSD, &f.TxCount)
	if err != nil {
		return nil, notFound(err, "user pair fee", id)
	}
	return &f, nil
}

func (s *Postgres) SaveUserPairFee(ctx context.Context, f *entity.UserPairFee) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_pair_fees (
			id, user_address, pair, accumulated_native, accumulated_usd, tx_count
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			accumulated_native = EXCLUDED.accumulated_native,
			accumulated_usd = EXCLUDED.accumulated_usd,
			tx_count = EXCLUDED.tx_count`,
		f.ID, f.User, f.Pair, f.AccumulatedNative, f.AccumulatedUSD, f.TxCount)
	if err != nil {
		return fmt.Errorf("failed to save user pair fee: %w", err)
	}
	return nil
}
