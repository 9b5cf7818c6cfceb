package store

import (
	"context"
	"sync"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
)

// Memory is a map-backed Store used by tests. Values are copied on the
// way in and out so callers never alias stored state.
type Memory struct {
	mu sync.RWMutex

	bundles            map[string]*entity.Bundle
	factories          map[string]*entity.Factory
	tokens             map[string]*entity.Token
	pairs              map[string]*entity.Pair
	users              map[string]*entity.User
	positions          map[string]*entity.LiquidityPosition
	positionSnapshots  map[string]*entity.LiquidityPositionSnapshot
	transactions       map[string]*entity.Transaction
	mints              map[string]*entity.Mint
	burns              map[string]*entity.Burn
	swaps              map[string]*entity.Swap
	feeVaults          map[string]*entity.FeeVault
	pairFees           map[string]*entity.PairFee
	pairFeesTracks     map[string]*entity.PairFeesTrack
	claims             map[string]*entity.Claim
	userFees           map[string]*entity.UserFee
	userPairFees       map[string]*entity.UserPairFee
	factoryDayDatas    map[string]*entity.FactoryDayData
	feesDayDatas       map[string]*entity.FeesDayData
	pairDayDatas       map[string]*entity.PairDayData
	pairHourDatas      map[string]*entity.PairHourData
	tokenDayDatas      map[string]*entity.TokenDayData
	tokenHourDatas     map[string]*entity.TokenHourData
	pairFeesDayDatas   map[string]*entity.PairFeesDayData
	pairFeesHourDatas  map[string]*entity.PairFeesHourData
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		bundles:           make(map[string]*entity.Bundle),
		factories:         make(map[string]*entity.Factory),
		tokens:            make(map[string]*entity.Token),
		pairs:             make(map[string]*entity.Pair),
		users:             make(map[string]*entity.User),
		positions:         make(map[string]*entity.LiquidityPosition),
		positionSnapshots: make(map[string]*entity.LiquidityPositionSnapshot),
		transactions:      make(map[string]*entity.Transaction),
		mints:             make(map[string]*entity.Mint),
		burns:             make(map[string]*entity.Burn),
		swaps:             make(map[string]*entity.Swap),
		feeVaults:         make(map[string]*entity.FeeVault),
		pairFees:          make(map[string]*entity.PairFee),
		pairFeesTracks:    make(map[string]*entity.PairFeesTrack),
		claims:            make(map[string]*entity.Claim),
		userFees:          make(map[string]*entity.UserFee),
		userPairFees:      make(map[string]*entity.UserPairFee),
		factoryDayDatas:   make(map[string]*entity.FactoryDayData),
		feesDayDatas:      make(map[string]*entity.FeesDayData),
		pairDayDatas:      make(map[string]*entity.PairDayData),
		pairHourDatas:     make(map[string]*entity.PairHourData),
		tokenDayDatas:     make(map[string]*entity.TokenDayData),
		tokenHourDatas:    make(map[string]*entity.TokenHourData),
		pairFeesDayDatas:  make(map[string]*entity.PairFeesDayData),
		pairFeesHourDatas: make(map[string]*entity.PairFeesHourData),
	}
}

func get[T any](mu *sync.RWMutex, m map[string]*T, id string) (*T, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := m[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func put[T any](mu *sync.RWMutex, m map[string]*T, id string, v *T) error {
	mu.Lock()
	defer mu.Unlock()

	cp := *v
	m[id] = &cp
	return nil
}

func (s *Memory) Bundle(_ context.Context, id string) (*entity.Bundle, error) {
	return get(&s.mu, s.bundles, id)
}

func (s *Memory) SaveBundle(_ context.Context, b *entity.Bundle) error {
	return put(&s.mu, s.bundles, b.ID, b)
}

func (s *Memory) Factory(_ context.Context, id string) (*entity.Factory, error) {
	return get(&s.mu, s.factories, id)
}

func (s *Memory) SaveFactory(_ context.Context, f *entity.Factory) error {
	return put(&s.mu, s.factories, f.ID, f)
}

func (s *Memory) Token(_ context.Context, id string) (*entity.Token, error) {
	return get(&s.mu, s.tokens, id)
}

func (s *Memory) SaveToken(_ context.Context, t *entity.Token) error {
	return put(&s.mu, s.tokens, t.ID, t)
}

func (s *Memory) Pair(_ context.Context, id string) (*entity.Pair, error) {
	return get(&s.mu, s.pairs, id)
}

func (s *Memory) SavePair(_ context.Context, p *entity.Pair) error {
	return put(&s.mu, s.pairs, p.ID, p)
}

func (s *Memory) User(_ context.Context, id string) (*entity.User, error) {
	return get(&s.mu, s.users, id)
}

func (s *Memory) SaveUser(_ context.Context, u *entity.User) error {
	return put(&s.mu, s.users, u.ID, u)
}

func (s *Memory) LiquidityPosition(_ context.Context, id string) (*entity.LiquidityPosition, error) {
	return get(&s.mu, s.positions, id)
}

func (s *Memory) SaveLiquidityPosition(_ context.Context, p *entity.LiquidityPosition) error {
	return put(&s.mu, s.positions, p.ID, p)
}

func (s *Memory) SaveLiquidityPositionSnapshot(_ context.Context, snap *entity.LiquidityPositionSnapshot) error {
	return put(&s.mu, s.positionSnapshots, snap.ID, snap)
}

func (s *Memory) Transaction(_ context.Context, id string) (*entity.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	cp.Mints = append([]string(nil), v.Mints...)
	cp.Burns = append([]string(nil), v.Burns...)
	cp.Swaps = append([]string(nil), v.Swaps...)
	cp.Fees = append([]string(nil), v.Fees...)
	cp.Claims = append([]string(nil), v.Claims...)
	return &cp, nil
}

func (s *Memory) SaveTransaction(_ context.Context, t *entity.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	cp.Mints = append([]string(nil), t.Mints...)
	cp.Burns = append([]string(nil), t.Burns...)
	cp.Swaps = append([]string(nil), t.Swaps...)
	cp.Fees = append([]string(nil), t.Fees...)
	cp.Claims = append([]string(nil), t.Claims...)
	s.transactions[t.ID] = &cp
	return nil
}

func (s *Memory) Mint(_ context.Context, id string) (*entity.Mint, error) {
	return get(&s.mu, s.mints, id)
}

func (s *Memory) SaveMint(_ context.Context, m *entity.Mint) error {
	return put(&s.mu, s.mints, m.ID, m)
}

func (s *Memory) DeleteMint(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.mints, id)
	return nil
}

func (s *Memory) Burn(_ context.Context, id string) (*entity.Burn, error) {
	return get(&s.mu, s.burns, id)
}

func (s *Memory) SaveBurn(_ context.Context, b *entity.Burn) error {
	return put(&s.mu, s.burns, b.ID, b)
}

func (s *Memory) SaveSwap(_ context.Context, sw *entity.Swap) error {
	return put(&s.mu, s.swaps, sw.ID, sw)
}

func (s *Memory) FeeVault(_ context.Context, id string) (*entity.FeeVault, error) {
	return get(&s.mu, s.feeVaults, id)
}

func (s *Memory) SaveFeeVault(_ context.Context, v *entity.FeeVault) error {
	return put(&s.mu, s.feeVaults, v.ID, v)
}

func (s *Memory) SavePairFee(_ context.Context, f *entity.PairFee) error {
	return put(&s.mu, s.pairFees, f.ID, f)
}

func (s *Memory) PairFeesTrack(_ context.Context, id string) (*entity.PairFeesTrack, error) {
	return get(&s.mu, s.pairFeesTracks, id)
}

func (s *Memory) SavePairFeesTrack(_ context.Context, t *entity.PairFeesTrack) error {
	return put(&s.mu, s.pairFeesTracks, t.ID, t)
}

func (s *Memory) SaveClaim(_ context.Context, c *entity.Claim) error {
	return put(&s.mu, s.claims, c.ID, c)
}

func (s *Memory) UserFee(_ context.Context, id string) (*entity.UserFee, error) {
	return get(&s.mu, s.userFees, id)
}

func (s *Memory) SaveUserFee(_ context.Context, f *entity.UserFee) error {
	return put(&s.mu, s.userFees, f.ID, f)
}

func (s *Memory) UserPairFee(_ context.Context, id string) (*entity.UserPairFee, error) {
	return get(&s.mu, s.userPairFees, id)
}

func (s *Memory) SaveUserPairFee(_ context.Context, f *entity.UserPairFee) error {
	return put(&s.mu, s.userPairFees, f.ID, f)
}

func (s *Memory) FactoryDayData(_ context.Context, id string) (*entity.FactoryDayData, error) {
	return get(&s.mu, s.factoryDayDatas, id)
}

func (s *Memory) SaveFactoryDayData(_ context.Context, d *entity.FactoryDayData) error {
	return put(&s.mu, s.factoryDayDatas, d.ID, d)
}

func (s *Memory) FeesDayData(_ context.Context, id string) (*entity.FeesDayData, error) {
	return get(&s.mu, s.feesDayDatas, id)
}

func (s *Memory) SaveFeesDayData(_ context.Context, d *entity.FeesDayData) error {
	return put(&s.mu, s.feesDayDatas, d.ID, d)
}

func (s *Memory) PairDayData(_ context.Context, id string) (*entity.PairDayData, error) {
	return get(&s.mu, s.pairDayDatas, id)
}

func (s *Memory) SavePairDayData(_ context.Context, d *entity.PairDayData) error {
	return put(&s.mu, s.pairDayDatas, d.ID, d)
}

func (s *Memory) PairHourData(_ context.Context, id string) (*entity.PairHourData, error) {
	return get(&s.mu, s.pairHourDatas, id)
}

func (s *Memory) SavePairHourData(_ context.Context, d *entity.PairHourData) error {
	return put(&s.mu, s.pairHourDatas, d.ID, d)
}

func (s *Memory) TokenDayData(_ context.Context, id string) (*entity.TokenDayData, error) {
	return get(&s.mu, s.tokenDayDatas, id)
}

func (s *Memory) SaveTokenDayData(_ context.Context, d *entity.TokenDayData) error {
	return put(&s.mu, s.tokenDayDatas, d.ID, d)
}

func (s *Memory) TokenHourData(_ context.Context, id string) (*entity.TokenHourData, error) {
	return get(&s.mu, s.tokenHourDatas, id)
}

func (s *Memory) SaveTokenHourData(_ context.Context, d *entity.TokenHourData) error {
	return put(&s.mu, s.tokenHourDatas, d.ID, d)
}

func (s *Memory) PairFeesDayData(_ context.Context, id string) (*entity.PairFeesDayData, error) {
	return get(&s.mu, s.pairFeesDayDatas, id)
}

func (s *Memory) SavePairFeesDayData(_ context.Context, d *entity.PairFeesDayData) error {
	return put(&s.mu, s.pairFeesDayDatas, d.ID, d)
}

func (s *Memory) PairFeesHourData(_ context.Context, id string) (*entity.PairFeesHourData, error) {
	return get(&s.mu, s.pairFeesHourDatas, id)
}

func (s *Memory) SavePairFeesHourData(_ context.Context, d *entity.PairFeesHourData) error {
	return put(&s.mu, s.pairFeesHourDatas, d.ID, d)
}
