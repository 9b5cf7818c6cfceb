package entity

import (
	"github.com/shopspring/decimal"
)

// Bundle holds the global native token price. There is exactly one row,
// keyed by BundleID.
type Bundle struct {
	ID             string          `db:"id"`
	NativePriceUSD decimal.Decimal `db:"native_price_usd"`
	SyncBlockNumber uint64         `db:"sync_block_number"`
}

// BundleID is the id of the singleton Bundle row.
const BundleID = "1"

// Factory is the protocol-wide aggregate, keyed by the factory address.
type Factory struct {
	ID                   string          `db:"id"`
	PairCount            int64           `db:"pair_count"`
	TotalVolumeUSD       decimal.Decimal `db:"total_volume_usd"`
	TotalVolumeNative    decimal.Decimal `db:"total_volume_native"`
	UntrackedVolumeUSD   decimal.Decimal `db:"untracked_volume_usd"`
	TotalLiquidityUSD    decimal.Decimal `db:"total_liquidity_usd"`
	TotalLiquidityNative decimal.Decimal `db:"total_liquidity_native"`
	TxCount              int64           `db:"tx_count"`
	SwapFeeRate          int64           `db:"swap_fee_rate"`
	SyncBlockNumber      uint64          `db:"sync_block_number"`
}

// DefaultSwapFeeRate is the router swap fee assumed until an
// UpdateSwapFeeRate is observed.
const DefaultSwapFeeRate int64 = 100

// Token is an ERC20 token observed on a pair.
type Token struct {
	ID                 string          `db:"id"`
	Symbol             string          `db:"symbol"`
	Name               string          `db:"name"`
	Decimals           int64           `db:"decimals"`
	TotalSupply        decimal.Decimal `db:"total_supply"`
	TradeVolume        decimal.Decimal `db:"trade_volume"`
	TradeVolumeUSD     decimal.Decimal `db:"trade_volume_usd"`
	UntrackedVolumeUSD decimal.Decimal `db:"untracked_volume_usd"`
	TotalLiquidity     decimal.Decimal `db:"total_liquidity"`
	DerivedNative      decimal.Decimal `db:"derived_native"`
	TxCount            int64           `db:"tx_count"`
	SyncBlockNumber    uint64          `db:"sync_block_number"`
}

// Pair is a liquidity pair, keyed by the pair contract address.
type Pair struct {
	ID                     string          `db:"id"`
	Token0                 string          `db:"token0"`
	Token1                 string          `db:"token1"`
	Reserve0               decimal.Decimal `db:"reserve0"`
	Reserve1               decimal.Decimal `db:"reserve1"`
	TotalSupply            decimal.Decimal `db:"total_supply"`
	ReserveNative          decimal.Decimal `db:"reserve_native"`
	ReserveUSD             decimal.Decimal `db:"reserve_usd"`
	TrackedReserveNative   decimal.Decimal `db:"tracked_reserve_native"`
	Token0Price            decimal.Decimal `db:"token0_price"`
	Token1Price            decimal.Decimal `db:"token1_price"`
	VolumeToken0           decimal.Decimal `db:"volume_token0"`
	VolumeToken1           decimal.Decimal `db:"volume_token1"`
	VolumeUSD              decimal.Decimal `db:"volume_usd"`
	UntrackedVolumeUSD     decimal.Decimal `db:"untracked_volume_usd"`
	TxCount                int64           `db:"tx_count"`
	LiquidityProviderCount int64           `db:"liquidity_provider_count"`
	CreatedAtTimestamp     int64           `db:"created_at_timestamp"`
	CreatedAtBlockNumber   uint64          `db:"created_at_block_number"`
	SyncBlockNumber        uint64          `db:"sync_block_number"`
}

// User is any address that has swapped or provided liquidity.
type User struct {
	ID         string          `db:"id"`
	USDSwapped decimal.Decimal `db:"usd_swapped"`
}

// LiquidityPosition tracks a user's LP token balance on one pair.
// ID is "<pair>-<user>".
type LiquidityPosition struct {
	ID                    string          `db:"id"`
	User                  string          `db:"user_address"`
	Pair                  string          `db:"pair"`
	LiquidityTokenBalance decimal.Decimal `db:"liquidity_token_balance"`
}

// LiquidityPositionSnapshot is an immutable record of a position at a
// point in time. ID is "<position>-<timestamp>".
type LiquidityPositionSnapshot struct {
	ID                        string          `db:"id"`
	LiquidityPosition         string          `db:"liquidity_position"`
	Timestamp                 int64           `db:"timestamp"`
	BlockNumber               uint64          `db:"block_number"`
	User                      string          `db:"user_address"`
	Pair                      string          `db:"pair"`
	Token0PriceUSD            decimal.Decimal `db:"token0_price_usd"`
	Token1PriceUSD            decimal.Decimal `db:"token1_price_usd"`
	Reserve0                  decimal.Decimal `db:"reserve0"`
	Reserve1                  decimal.Decimal `db:"reserve1"`
	ReserveUSD                decimal.Decimal `db:"reserve_usd"`
	LiquidityTokenTotalSupply decimal.Decimal `db:"liquidity_token_total_supply"`
	LiquidityTokenBalance     decimal.Decimal `db:"liquidity_token_balance"`
}

// Transaction groups the event records emitted within one on-chain
// transaction. The child lists hold record ids in emission order.
type Transaction struct {
	ID          string   `db:"id"`
	BlockNumber uint64   `db:"block_number"`
	Timestamp   int64    `db:"timestamp"`
	Mints       []string `db:"mints"`
	Burns       []string `db:"burns"`
	Swaps       []string `db:"swaps"`
	Fees        []string `db:"fees"`
	Claims      []string `db:"claims"`
}

// Mint is a liquidity deposit record. ID is "<txhash>-<ordinal>".
// A Mint is created in a pending state from the LP token Transfer and
// completed by the pair's Mint event.
type Mint struct {
	ID           string          `db:"id"`
	Transaction  string          `db:"transaction"`
	Timestamp    int64           `db:"timestamp"`
	Pair         string          `db:"pair"`
	To           string          `db:"to_address"`
	Liquidity    decimal.Decimal `db:"liquidity"`
	Sender       string          `db:"sender"`
	Amount0      decimal.Decimal `db:"amount0"`
	Amount1      decimal.Decimal `db:"amount1"`
	LogIndex     uint            `db:"log_index"`
	AmountUSD    decimal.Decimal `db:"amount_usd"`
	FeeTo        string          `db:"fee_to"`
	FeeLiquidity decimal.Decimal `db:"fee_liquidity"`
}

// Burn is a liquidity withdrawal record. ID is "<txhash>-<ordinal>".
type Burn struct {
	ID            string          `db:"id"`
	Transaction   string          `db:"transaction"`
	Timestamp     int64           `db:"timestamp"`
	Pair          string          `db:"pair"`
	Liquidity     decimal.Decimal `db:"liquidity"`
	Sender        string          `db:"sender"`
	Amount0       decimal.Decimal `db:"amount0"`
	Amount1       decimal.Decimal `db:"amount1"`
	To            string          `db:"to_address"`
	LogIndex      uint            `db:"log_index"`
	AmountUSD     decimal.Decimal `db:"amount_usd"`
	NeedsComplete bool            `db:"needs_complete"`
	FeeTo         string          `db:"fee_to"`
	FeeLiquidity  decimal.Decimal `db:"fee_liquidity"`
}

// Swap is an immutable swap record. ID is "<txhash>-<ordinal>".
type Swap struct {
	ID          string          `db:"id"`
	Transaction string          `db:"transaction"`
	Timestamp   int64           `db:"timestamp"`
	Pair        string          `db:"pair"`
	Sender      string          `db:"sender"`
	From        string          `db:"from_address"`
	Amount0In   decimal.Decimal `db:"amount0_in"`
	Amount1In   decimal.Decimal `db:"amount1_in"`
	Amount0Out  decimal.Decimal `db:"amount0_out"`
	Amount1Out  decimal.Decimal `db:"amount1_out"`
	To          string          `db:"to_address"`
	LogIndex    uint            `db:"log_index"`
	AmountUSD   decimal.Decimal `db:"amount_usd"`
}

// FeeVault holds the fee split configuration and cumulative totals,
// keyed by the vault contract address. Valid is Base minus the dev
// share, both in basis points.
type FeeVault struct {
	ID                     string          `db:"id"`
	Base                   int64           `db:"base"`
	Valid                  int64           `db:"valid"`
	TotalFeesUSD           decimal.Decimal `db:"total_fees_usd"`
	TotalFeesNative        decimal.Decimal `db:"total_fees_native"`
	UpdateFeeAtTimestamp   int64           `db:"update_fee_at_timestamp"`
	UpdateFeeAtBlockNumber uint64          `db:"update_fee_at_block_number"`
	SyncBlockNumber        uint64          `db:"sync_block_number"`
}

// FeeVaultBase is the denominator of the vault fee split.
const FeeVaultBase int64 = 10000

// FeeVaultDefaultDevFee is the dev share assumed until an UpdateDevFee
// is observed.
const FeeVaultDefaultDevFee int64 = 4000

// PairFee is an immutable record of one fee deposit into the vault,
// attributed to the pair token slot matching the reward token.
// ID is "<txhash>-<ordinal>".
type PairFee struct {
	ID            string          `db:"id"`
	Transaction   string          `db:"transaction"`
	Timestamp     int64           `db:"timestamp"`
	Pair          string          `db:"pair"`
	RewardToken   string          `db:"reward_token"`
	From          string          `db:"from_address"`
	LogIndex      uint            `db:"log_index"`
	Amount0Fee    decimal.Decimal `db:"amount0_fee"`
	Amount0FeeUSD decimal.Decimal `db:"amount0_fee_usd"`
	Amount1Fee    decimal.Decimal `db:"amount1_fee"`
	Amount1FeeUSD decimal.Decimal `db:"amount1_fee_usd"`
}

// PairFeesTrack accumulates claimed dividends per dividend tracker,
// keyed by the tracker contract address.
type PairFeesTrack struct {
	ID                   string          `db:"id"`
	Pair                 string          `db:"pair"`
	FeeToken             string          `db:"fee_token"`
	AccumulatedNative    decimal.Decimal `db:"accumulated_native"`
	AccumulatedUSD       decimal.Decimal `db:"accumulated_usd"`
	TxCount              int64           `db:"tx_count"`
	CreatedAtTimestamp   int64           `db:"created_at_timestamp"`
	CreatedAtBlockNumber uint64          `db:"created_at_block_number"`
	SyncBlockNumber      uint64          `db:"sync_block_number"`
}

// Claim is an immutable record of one dividend claim.
// ID is "<txhash>-<ordinal>".
type Claim struct {
	ID          string          `db:"id"`
	Transaction string          `db:"transaction"`
	Timestamp   int64           `db:"timestamp"`
	Tracker     string          `db:"tracker"`
	User        string          `db:"user_address"`
	Amount      decimal.Decimal `db:"amount"`
	AmountUSD   decimal.Decimal `db:"amount_usd"`
	Automatic   bool            `db:"automatic"`
	LogIndex    uint            `db:"log_index"`
}

// UserFee accumulates a user's claimed dividends across all pairs,
// keyed by the user address.
type UserFee struct {
	ID         string          `db:"id"`
	ClaimedUSD decimal.Decimal `db:"claimed_usd"`
	TxCount    int64           `db:"tx_count"`
}

// UserPairFee accumulates a user's claimed dividends on one pair.
// ID is "<user>-<pair>".
type UserPairFee struct {
	ID                string          `db:"id"`
	User              string          `db:"user_address"`
	Pair              string          `db:"pair"`
	AccumulatedNative decimal.Decimal `db:"accumulated_native"`
	AccumulatedUSD    decimal.Decimal `db:"accumulated_usd"`
	TxCount           int64           `db:"tx_count"`
}
