package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PairSummary is the realtime payload for a pair. Amounts come straight
// from the analytics tables; no further conversion is applied.
type PairSummary struct {
	Address          string          `json:"address"`
	Token0           string          `json:"token0"`
	Token1           string          `json:"token1"`
	Token0Symbol     string          `json:"token0_symbol"`
	Token1Symbol     string          `json:"token1_symbol"`
	Reserve0         decimal.Decimal `json:"reserve0"`
	Reserve1         decimal.Decimal `json:"reserve1"`
	ReserveUSD       decimal.Decimal `json:"reserve_usd"`
	Token0Price      decimal.Decimal `json:"token0_price"`
	Token1Price      decimal.Decimal `json:"token1_price"`
	Token0DerivedUSD decimal.Decimal `json:"token0_derived_usd"`
	Token1DerivedUSD decimal.Decimal `json:"token1_derived_usd"`
	VolumeUSD        decimal.Decimal `json:"volume_usd"`
	TxCount          int64           `json:"tx_count"`
	SyncBlockNumber  uint64          `json:"sync_block_number"`
}

// GetPairsByAddresses loads pair summaries for the given lowercased pair
// addresses, joining token symbols and USD prices from the oracle state.
func GetPairsByAddresses(ctx context.Context, pool *pgxpool.Pool, addresses []string) ([]PairSummary, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	rows, err := pool.Query(ctx, `
        SELECT p.id, p.token0, p.token1,
               t0.symbol, t1.symbol,
               p.reserve0, p.reserve1, p.reserve_usd,
               p.token0_price, p.token1_price,
               t0.derived_native * b.native_price_usd,
               t1.derived_native * b.native_price_usd,
               p.volume_usd, p.tx_count, p.sync_block_number
        FROM pairs p
        JOIN tokens t0 ON t0.id = p.token0
        JOIN tokens t1 ON t1.id = p.token1
        CROSS JOIN bundles b
        WHERE b.id = '1' AND p.id = ANY($1)
        ORDER BY p.id
    `, addresses)
	if err != nil {
		return nil, fmt.Errorf("query pairs: %w", err)
	}
	defer rows.Close()

	var pairs []PairSummary
	for rows.Next() {
		var p PairSummary
		if err := rows.Scan(
			&p.Address, &p.Token0, &p.Token1,
			&p.Token0Symbol, &p.Token1Symbol,
			&p.Reserve0, &p.Reserve1, &p.ReserveUSD,
			&p.Token0Price, &p.Token1Price,
			&p.Token0DerivedUSD, &p.Token1DerivedUSD,
			&p.VolumeUSD, &p.TxCount, &p.SyncBlockNumber,
		); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		pairs = append(pairs, p)
	}

	return pairs, rows.Err()
}

// UpdateTokenMetrics recomputes the rolling 24h volume and current USD
// liquidity for one token and writes them back onto the tokens row.
func UpdateTokenMetrics(ctx context.Context, pool *pgxpool.Pool, tokenID string) error {
	_, err := pool.Exec(ctx, `
        UPDATE tokens t SET
            volume_24h_usd = COALESCE((
                SELECT SUM(s.amount_usd)
                FROM swaps s
                JOIN pairs p ON p.id = s.pair
                WHERE (p.token0 = t.id OR p.token1 = t.id)
                  AND s.timestamp >= EXTRACT(EPOCH FROM NOW())::BIGINT - 86400
            ), 0),
            liquidity_usd = t.total_liquidity * t.derived_native *
                COALESCE((SELECT native_price_usd FROM bundles WHERE id = '1'), 0),
            metrics_updated_at = NOW()
        WHERE t.id = $1
    `, tokenID)
	if err != nil {
		return fmt.Errorf("update token metrics for %s: %w", tokenID, err)
	}
	return nil
}
