package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Time windows for aggregation buckets, in seconds.
const (
	DayWindow  int64 = 86400
	HourWindow int64 = 3600
)

// DayIndex returns the bucket index of a day bucket for the given
// unix timestamp.
func DayIndex(timestamp int64) int64 {
	return timestamp / DayWindow
}

// HourIndex returns the bucket index of an hour bucket for the given
// unix timestamp.
func HourIndex(timestamp int64) int64 {
	return timestamp / HourWindow
}

// DayID builds the id of an entity-scoped day bucket.
func DayID(key string, timestamp int64) string {
	return fmt.Sprintf("%s-%d", key, DayIndex(timestamp))
}

// HourID builds the id of an entity-scoped hour bucket.
func HourID(key string, timestamp int64) string {
	return fmt.Sprintf("%s-%d", key, HourIndex(timestamp))
}

// ProtocolDayID builds the id of a protocol-wide day bucket. Protocol
// buckets are keyed by the bare bucket index.
func ProtocolDayID(timestamp int64) string {
	return fmt.Sprintf("%d", DayIndex(timestamp))
}

// FactoryDayData is the protocol-wide daily aggregate.
type FactoryDayData struct {
	ID                   string          `db:"id"`
	Date                 int64           `db:"date"`
	DailyVolumeUSD       decimal.Decimal `db:"daily_volume_usd"`
	DailyVolumeNative    decimal.Decimal `db:"daily_volume_native"`
	DailyVolumeUntracked decimal.Decimal `db:"daily_volume_untracked"`
	TotalVolumeUSD       decimal.Decimal `db:"total_volume_usd"`
	TotalVolumeNative    decimal.Decimal `db:"total_volume_native"`
	TotalLiquidityUSD    decimal.Decimal `db:"total_liquidity_usd"`
	TotalLiquidityNative decimal.Decimal `db:"total_liquidity_native"`
	PairCount            int64           `db:"pair_count"`
	TxCount              int64           `db:"tx_count"`
	SyncBlockNumber      uint64          `db:"sync_block_number"`
}

// FeesDayData is the protocol-wide daily fee aggregate.
type FeesDayData struct {
	ID                 string          `db:"id"`
	Date               int64           `db:"date"`
	DailyFeesUSD       decimal.Decimal `db:"daily_fees_usd"`
	DailyFeesNative    decimal.Decimal `db:"daily_fees_native"`
	DailyFeesUntracked decimal.Decimal `db:"daily_fees_untracked"`
	TotalFeesUSD       decimal.Decimal `db:"total_fees_usd"`
	TotalFeesNative    decimal.Decimal `db:"total_fees_native"`
	DailyAprRate       decimal.Decimal `db:"daily_apr_rate"`
	PairCount          int64           `db:"pair_count"`
	TxCount            int64           `db:"tx_count"`
	SyncBlockNumber    uint64          `db:"sync_block_number"`
}

// PairDayData is the per-pair daily aggregate.
type PairDayData struct {
	ID                string          `db:"id"`
	Date              int64           `db:"date"`
	Pair              string          `db:"pair"`
	Token0            string          `db:"token0"`
	Token1            string          `db:"token1"`
	Reserve0          decimal.Decimal `db:"reserve0"`
	Reserve1          decimal.Decimal `db:"reserve1"`
	TotalSupply       decimal.Decimal `db:"total_supply"`
	ReserveUSD        decimal.Decimal `db:"reserve_usd"`
	DailyVolumeToken0 decimal.Decimal `db:"daily_volume_token0"`
	DailyVolumeToken1 decimal.Decimal `db:"daily_volume_token1"`
	DailyVolumeUSD    decimal.Decimal `db:"daily_volume_usd"`
	TxCount           int64           `db:"tx_count"`
	SyncBlockNumber   uint64          `db:"sync_block_number"`
}

// PairHourData is the per-pair hourly aggregate.
type PairHourData struct {
	ID                 string          `db:"id"`
	HourStartUnix      int64           `db:"hour_start_unix"`
	Pair               string          `db:"pair"`
	Reserve0           decimal.Decimal `db:"reserve0"`
	Reserve1           decimal.Decimal `db:"reserve1"`
	TotalSupply        decimal.Decimal `db:"total_supply"`
	ReserveUSD         decimal.Decimal `db:"reserve_usd"`
	HourlyVolumeToken0 decimal.Decimal `db:"hourly_volume_token0"`
	HourlyVolumeToken1 decimal.Decimal `db:"hourly_volume_token1"`
	HourlyVolumeUSD    decimal.Decimal `db:"hourly_volume_usd"`
	TxCount            int64           `db:"tx_count"`
	SyncBlockNumber    uint64          `db:"sync_block_number"`
}

// TokenDayData is the per-token daily aggregate.
type TokenDayData struct {
	ID                   string          `db:"id"`
	Date                 int64           `db:"date"`
	Token                string          `db:"token"`
	DailyVolumeToken     decimal.Decimal `db:"daily_volume_token"`
	DailyVolumeNative    decimal.Decimal `db:"daily_volume_native"`
	DailyVolumeUSD       decimal.Decimal `db:"daily_volume_usd"`
	TotalLiquidityToken  decimal.Decimal `db:"total_liquidity_token"`
	TotalLiquidityNative decimal.Decimal `db:"total_liquidity_native"`
	TotalLiquidityUSD    decimal.Decimal `db:"total_liquidity_usd"`
	PriceUSD             decimal.Decimal `db:"price_usd"`
	TxCount              int64           `db:"tx_count"`
	SyncBlockNumber      uint64          `db:"sync_block_number"`
}

// TokenHourData is the per-token hourly aggregate.
type TokenHourData struct {
	ID                   string          `db:"id"`
	HourStartUnix        int64           `db:"hour_start_unix"`
	Token                string          `db:"token"`
	HourlyVolumeToken    decimal.Decimal `db:"hourly_volume_token"`
	HourlyVolumeNative   decimal.Decimal `db:"hourly_volume_native"`
	HourlyVolumeUSD      decimal.Decimal `db:"hourly_volume_usd"`
	TotalLiquidityToken  decimal.Decimal `db:"total_liquidity_token"`
	TotalLiquidityNative decimal.Decimal `db:"total_liquidity_native"`
	TotalLiquidityUSD    decimal.Decimal `db:"total_liquidity_usd"`
	PriceUSD             decimal.Decimal `db:"price_usd"`
	TxCount              int64           `db:"tx_count"`
	SyncBlockNumber      uint64          `db:"sync_block_number"`
}

// PairFeesDayData is the per-pair daily fee aggregate.
type PairFeesDayData struct {
	ID                 string          `db:"id"`
	Date               int64           `db:"date"`
	Pair               string          `db:"pair"`
	Token0             string          `db:"token0"`
	Token1             string          `db:"token1"`
	DailyFeesToken0    decimal.Decimal `db:"daily_fees_token0"`
	DailyFeesToken1    decimal.Decimal `db:"daily_fees_token1"`
	DailyFeesToken0USD decimal.Decimal `db:"daily_fees_token0_usd"`
	DailyFeesToken1USD decimal.Decimal `db:"daily_fees_token1_usd"`
	DailyFeesUSD       decimal.Decimal `db:"daily_fees_usd"`
	DailyAprRate       decimal.Decimal `db:"daily_apr_rate"`
	TxCount            int64           `db:"tx_count"`
	SyncBlockNumber    uint64          `db:"sync_block_number"`
}

// PairFeesHourData is the per-pair hourly fee aggregate.
type PairFeesHourData struct {
	ID                  string          `db:"id"`
	HourStartUnix       int64           `db:"hour_start_unix"`
	Pair                string          `db:"pair"`
	HourlyFeesToken0    decimal.Decimal `db:"hourly_fees_token0"`
	HourlyFeesToken1    decimal.Decimal `db:"hourly_fees_token1"`
	HourlyFeesToken0USD decimal.Decimal `db:"hourly_fees_token0_usd"`
	HourlyFeesToken1USD decimal.Decimal `db:"hourly_fees_token1_usd"`
	HourlyFeesUSD       decimal.Decimal `db:"hourly_fees_usd"`
	TxCount             int64           `db:"tx_count"`
	SyncBlockNumber     uint64          `db:"sync_block_number"`
}
