// Package store provides keyed load/save access to the analytics
// entities. Handlers always read the current row, mutate it in memory
// and write it back; saves are upserts so replaying a block is
// idempotent at the row level.
package store

import (
	"context"
	"errors"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
)

// ErrNotFound is returned when the requested entity does not exist.
// Get-or-create helpers branch on it.
var ErrNotFound = errors.New("entity not found")

// Store is the persistence boundary of the analytics module. The
// Postgres implementation backs the indexer; the in-memory one backs
// tests.
type Store interface {
	Bundle(ctx context.Context, id string) (*entity.Bundle, error)
	SaveBundle(ctx context.Context, b *entity.Bundle) error

	Factory(ctx context.Context, id string) (*entity.Factory, error)
	SaveFactory(ctx context.Context, f *entity.Factory) error

	Token(ctx context.Context, id string) (*entity.Token, error)
	SaveToken(ctx context.Context, t *entity.Token) error

	Pair(ctx context.Context, id string) (*entity.Pair, error)
	SavePair(ctx context.Context, p *entity.Pair) error

	User(ctx context.Context, id string) (*entity.User, error)
	SaveUser(ctx context.Context, u *entity.User) error

	LiquidityPosition(ctx context.Context, id string) (*entity.LiquidityPosition, error)
	SaveLiquidityPosition(ctx context.Context, p *entity.LiquidityPosition) error
	SaveLiquidityPositionSnapshot(ctx context.Context, s *entity.LiquidityPositionSnapshot) error

	Transaction(ctx context.Context, id string) (*entity.Transaction, error)
	SaveTransaction(ctx context.Context, t *entity.Transaction) error

	Mint(ctx context.Context, id string) (*entity.Mint, error)
	SaveMint(ctx context.Context, m *entity.Mint) error
	DeleteMint(ctx context.Context, id string) error

	Burn(ctx context.Context, id string) (*entity.Burn, error)
	SaveBurn(ctx context.Context, b *entity.Burn) error

	SaveSwap(ctx context.Context, s *entity.Swap) error

	FeeVault(ctx context.Context, id string) (*entity.FeeVault, error)
	SaveFeeVault(ctx context.Context, v *entity.FeeVault) error

	SavePairFee(ctx context.Context, f *entity.PairFee) error

	PairFeesTrack(ctx context.Context, id string) (*entity.PairFeesTrack, error)
	SavePairFeesTrack(ctx context.Context, t *entity.PairFeesTrack) error

	SaveClaim(ctx context.Context, c *entity.Claim) error

	UserFee(ctx context.Context, id string) (*entity.UserFee, error)
	SaveUserFee(ctx context.Context, f *entity.UserFee) error

	UserPairFee(ctx context.Context, id string) (*entity.UserPairFee, error)
	SaveUserPairFee(ctx context.Context, f *entity.UserPairFee) error

	FactoryDayData(ctx context.Context, id string) (*entity.FactoryDayData, error)
	SaveFactoryDayData(ctx context.Context, d *entity.FactoryDayData) error

	FeesDayData(ctx context.Context, id string) (*entity.FeesDayData, error)
	SaveFeesDayData(ctx context.Context, d *entity.FeesDayData) error

	PairDayData(ctx context.Context, id string) (*entity.PairDayData, error)
	SavePairDayData(ctx context.Context, d *entity.PairDayData) error

	PairHourData(ctx context.Context, id string) (*entity.PairHourData, error)
	SavePairHourData(ctx context.Context, d *entity.PairHourData) error

	TokenDayData(ctx context.Context, id string) (*entity.TokenDayData, error)
	SaveTokenDayData(ctx context.Context, d *entity.TokenDayData) error

	TokenHourData(ctx context.Context, id string) (*entity.TokenHourData, error)
	SaveTokenHourData(ctx context.Context, d *entity.TokenHourData) error

	PairFeesDayData(ctx context.Context, id string) (*entity.PairFeesDayData, error)
	SavePairFeesDayData(ctx context.Context, d *entity.PairFeesDayData) error

	PairFeesHourData(ctx context.Context, id string) (*entity.PairFeesHourData, error)
	SavePairFeesHourData(ctx context.Context, d *entity.PairFeesHourData) error
}
