package processor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/realtime"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/rpc"
)

// BlockProcessor handles the processing of blocks
type BlockProcessor struct {
	rpcClient      *rpc.Client
	db             *database.Database
	blockRepo      *database.BlockRepository
	eventProcessor *EventProcessor
	registry       *core.ModuleRegistry
	publisher      *realtime.Publisher
	chainID        int64
	logger         zerolog.Logger
}

// NewBlockProcessor creates a new block processor. Registry and publisher
// may be nil; events are then stored but not dispatched.
func NewBlockProcessor(rpcClient *rpc.Client, db *database.Database, registry *core.ModuleRegistry, publisher *realtime.Publisher, chainID int64, logger zerolog.Logger) *BlockProcessor {
	return &BlockProcessor{
		rpcClient:      rpcClient,
		db:             db,
		blockRepo:      database.NewBlockRepository(db),
		eventProcessor: NewEventProcessor(db, logger),
		registry:       registry,
		publisher:      publisher,
		chainID:        chainID,
		logger:         logger,
	}
}

// ProcessBlock processes a single block with its transactions and events
func (p *BlockProcessor) ProcessBlock(ctx context.Context, blockNumber uint64) error {
	txProcessor := NewTransactionProcessor(p.rpcClient, p.db, p.logger)
	return p.ProcessBlockWithTransactions(ctx, blockNumber, txProcessor)
}

// ProcessBlockWithTransactions processes a block and its transactions together.
// The block, its transactions and its event logs are stored in one database
// transaction; registered modules see the events only after the commit, so
// the event_logs table stays the replayable source of truth.
func (p *BlockProcessor) ProcessBlockWithTransactions(ctx context.Context, blockNumber uint64, txProcessor *TransactionProcessor) error {
	// Fetch block from RPC
	block, err := p.rpcClient.GetBlockWithTransactions(ctx, blockNumber)
	if err != nil {
		return fmt.Errorf("failed to fetch block %d: %w", blockNumber, err)
	}

	var receipts []*types.Receipt
	if len(block.Transactions()) > 0 {
		receipts, err = p.rpcClient.GetBlockReceipts(ctx, blockNumber)
		if err != nil {
			return fmt.Errorf("failed to get block receipts: %w", err)
		}
	}

	var allLogs []types.Log
	for _, receipt := range receipts {
		for _, log := range receipt.Logs {
			allLogs = append(allLogs, *log)
		}
	}

	// Use transaction to ensure atomicity
	err = p.db.Transaction(ctx, func(tx pgx.Tx) error {
		// Convert and insert block
		dbBlock := p.convertBlock(block)
		if err := p.insertBlockTx(ctx, tx, dbBlock); err != nil {
			return fmt.Errorf("failed to insert block: %w", err)
		}

		if len(block.Transactions()) > 0 {
			transactions := txProcessor.convertTransactions(block, receipts)
			if err := txProcessor.insertBatchTx(ctx, tx, transactions); err != nil {
				return fmt.Errorf("failed to insert transactions: %w", err)
			}
		}

		if err := p.eventProcessor.storeLogsTx(ctx, tx, allLogs); err != nil {
			return fmt.Errorf("failed to store event logs: %w", err)
		}

		// Update indexer state
		if err := p.updateLastBlockTx(ctx, tx, blockNumber, block.Hash().Hex()); err != nil {
			return fmt.Errorf("failed to update last block: %w", err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	p.dispatchLogs(ctx, block, allLogs)

	p.logger.Info().
		Uint64("number", blockNumber).
		Str("hash", block.Hash().Hex()).
		Int("transactions", len(block.Transactions())).
		Int("events", len(allLogs)).
		Msg("Block processed")

	return nil
}

// dispatchLogs feeds stored logs through the module registry and queues
// realtime updates for the touched contracts.
func (p *BlockProcessor) dispatchLogs(ctx context.Context, block *types.Block, logs []types.Log) {
	if p.registry == nil || len(logs) == 0 {
		return
	}

	timestamp := int64(block.Time())
	for idx := range logs {
		log := &logs[idx]
		if err := p.registry.ProcessEvent(ctx, log, timestamp); err != nil {
			p.logger.Error().
				Err(err).
				Uint64("block", block.NumberU64()).
				Str("address", log.Address.Hex()).
				Msg("Failed to process event in modules")
		}
	}

	if p.publisher != nil {
		p.publisher.SetCurrentBlock(block.NumberU64())
		for idx := range logs {
			// Non-pair contracts fall out during the flush lookup.
			p.publisher.EnqueuePairChanged(logs[idx].Address.Hex())
		}
	}
}

// convertBlock converts an Ethereum block to database model
func (p *BlockProcessor) convertBlock(block *types.Block) *database.Block {
	return &database.Block{
		Number:           block.NumberU64(),
		Hash:             block.Hash().Hex(),
		ParentHash:       block.ParentHash().Hex(),
		Timestamp:        int64(block.Time()),
		GasLimit:         block.GasLimit(),
		GasUsed:          block.GasUsed(),
		BaseFeePerGas:    block.BaseFee(),
		TransactionCount: len(block.Transactions()),
	}
}

// insertBlockTx inserts a block within a transaction
func (p *BlockProcessor) insertBlockTx(ctx context.Context, tx pgx.Tx, block *database.Block) error {
	query := `
		INSERT INTO blocks (number, hash, parent_hash, timestamp, gas_limit, gas_used, base_fee_per_gas, transaction_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (number) DO NOTHING`

	_, err := tx.Exec(ctx, query,
		block.Number,
		block.Hash,
		block.ParentHash,
		block.Timestamp,
		block.GasLimit,
		block.GasUsed,
		database.BigIntToNumeric(block.BaseFeePerGas),
		block.TransactionCount,
	)

	return err
}

// updateLastBlockTx updates the last block within a transaction
func (p *BlockProcessor) updateLastBlockTx(ctx context.Context, tx pgx.Tx, blockNumber uint64, blockHash string) error {
	query := `
		INSERT INTO indexer_state (chain_id, last_block_number, last_block_hash, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (chain_id) DO UPDATE SET
			last_block_number = EXCLUDED.last_block_number,
			last_block_hash = EXCLUDED.last_block_hash,
			updated_at = NOW()`

	_, err := tx.Exec(ctx, query, p.chainID, blockNumber, blockHash)
	return err
}
