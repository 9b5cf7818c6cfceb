package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/centrifugal/gocent/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
)

// Channels follow "jswap.pair.<address>" for single-pair subscribers plus
// one firehose channel carrying every pair touched in a flush window.
const (
	pairChannelPrefix = "jswap.pair."
	pairsChannel      = "jswap.pairs"

	flushInterval = 250 * time.Millisecond
)

// pairUpdate is the payload pushed on a single pair channel.
type pairUpdate struct {
	Type        string               `json:"type"`
	BlockNumber uint64               `json:"block_number"`
	Timestamp   int64                `json:"ts"`
	Pair        database.PairSummary `json:"pair"`
}

// pairBatch carries every pair touched since the previous flush.
type pairBatch struct {
	Type        string                 `json:"type"`
	BlockNumber uint64                 `json:"block_number"`
	Timestamp   int64                  `json:"ts"`
	Pairs       []database.PairSummary `json:"pairs"`
}

// Publisher pushes pair summaries to Centrifugo. The block processor
// enqueues every touched contract address; the flush loop deduplicates
// them and looks up summaries, so non-pair addresses simply drop out.
type Publisher struct {
	gc           *gocent.Client
	db           *pgxpool.Pool
	logger       zerolog.Logger
	mu           sync.Mutex
	pending      map[string]struct{}
	flushCh      chan struct{}
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	currentBlock uint64
}

type PublishConfig struct {
	APIURL string
	APIKey string
}

func NewPublisher(config PublishConfig, db *pgxpool.Pool, logger zerolog.Logger) *Publisher {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Publisher{
		gc: gocent.New(gocent.Config{
			Addr: config.APIURL,
			Key:  config.APIKey,
		}),
		db:      db,
		logger:  logger.With().Str("component", "realtime-publisher").Logger(),
		pending: make(map[string]struct{}),
		flushCh: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.wg.Add(1)
	go p.flushLoop()
	return p
}

func pairChannel(address string) string {
	return pairChannelPrefix + strings.ToLower(address)
}

func (p *Publisher) flushLoop() {
	defer p.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Info().Msg("Stopping publisher flush loop")
			return
		case <-ticker.C:
			p.flush(p.ctx)
		case <-p.flushCh:
			p.flush(p.ctx)
		}
	}
}

// EnqueuePairChanged marks a contract address as touched. Addresses are
// lowercased so enqueue and summary lookup agree on the key.
func (p *Publisher) EnqueuePairChanged(address string) {
	addr := strings.ToLower(address)
	p.mu.Lock()
	p.pending[addr] = struct{}{}
	p.mu.Unlock()

	select {
	case p.flushCh <- struct{}{}:
	default:
	}
}

func (p *Publisher) SetCurrentBlock(blockNumber uint64) {
	p.mu.Lock()
	p.currentBlock = blockNumber
	p.mu.Unlock()
}

// Flush publishes the pending set immediately.
func (p *Publisher) Flush() {
	p.flush(p.ctx)
}

func (p *Publisher) flush(ctx context.Context) {
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}

	addrs := make([]string, 0, len(p.pending))
	for addr := range p.pending {
		addrs = append(addrs, addr)
	}
	currentBlock := p.currentBlock
	p.pending = make(map[string]struct{})
	p.mu.Unlock()

	pairs, err := database.GetPairsByAddresses(ctx, p.db, addrs)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to fetch pair summaries")
		return
	}

	if len(pairs) == 0 {
		return
	}

	p.logger.Debug().
		Int("pending", len(addrs)).
		Int("pairs", len(pairs)).
		Uint64("block", currentBlock).
		Msg("Flushing pair updates")

	now := time.Now().UTC().Unix()

	for _, pair := range pairs {
		payload, err := json.Marshal(pairUpdate{
			Type:        "pair.update",
			BlockNumber: currentBlock,
			Timestamp:   now,
			Pair:        pair,
		})
		if err != nil {
			p.logger.Warn().Err(err).Msg("Failed to marshal pair payload")
			continue
		}

		if _, err := p.gc.Publish(ctx, pairChannel(pair.Address), payload); err != nil {
			p.logger.Warn().
				Err(err).
				Str("pair", pair.Address).
				Msg("Failed to publish pair update")
		}
	}

	payload, err := json.Marshal(pairBatch{
		Type:        "pair.batch",
		BlockNumber: currentBlock,
		Timestamp:   now,
		Pairs:       pairs,
	})
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to marshal batch payload")
		return
	}

	if _, err := p.gc.Publish(ctx, pairsChannel, payload); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to publish batch update")
		return
	}

	p.logger.Debug().
		Int("pairs", len(pairs)).
		Uint64("block", currentBlock).
		Msg("Published batch update")
}

func (p *Publisher) Close() error {
	p.logger.Info().Msg("Closing publisher")
	p.cancel()
	p.wg.Wait()
	return nil
}
