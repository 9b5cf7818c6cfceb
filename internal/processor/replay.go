package processor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
)

const defaultReplayBatchSize = 100

// Replayer feeds stored event logs back through the module registry in
// block order. Analytics state is rebuilt purely from the event_logs
// table, so a module can always be caught up after downtime or a reset.
type Replayer struct {
	db        *database.Database
	registry  *core.ModuleRegistry
	batchSize uint64
	logger    zerolog.Logger
}

// NewReplayer creates a new replayer
func NewReplayer(db *database.Database, registry *core.ModuleRegistry, batchSize int, logger zerolog.Logger) *Replayer {
	if batchSize <= 0 {
		batchSize = defaultReplayBatchSize
	}
	return &Replayer{
		db:        db,
		registry:  registry,
		batchSize: uint64(batchSize),
		logger:    logger.With().Str("component", "replayer").Logger(),
	}
}

// CatchUp replays stored events from the oldest module position up to the
// last stored block. A fresh module starts from zero and sees every event.
func (r *Replayer) CatchUp(ctx context.Context) error {
	lastStored, err := r.db.GetLastBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get last stored block: %w", err)
	}
	if lastStored == 0 {
		return nil
	}

	modules := r.registry.ListModules()
	if len(modules) == 0 {
		return nil
	}

	var from uint64
	first := true
	for _, name := range modules {
		state, err := r.registry.GetModuleState(name)
		if err != nil {
			return fmt.Errorf("failed to get state for module %s: %w", name, err)
		}
		if first || state.LastProcessedBlock < from {
			from = state.LastProcessedBlock
			first = false
		}
	}

	if from >= lastStored {
		return nil
	}

	r.logger.Info().
		Uint64("from", from+1).
		Uint64("to", lastStored).
		Msg("Replaying stored events")

	if err := r.Replay(ctx, from+1, lastStored); err != nil {
		return err
	}

	for _, name := range modules {
		if err := r.registry.UpdateModuleBlock(name, lastStored); err != nil {
			r.logger.Error().Err(err).Str("module", name).Msg("Failed to update module block after replay")
		}
	}

	return nil
}

// Replay dispatches stored events for the given block range, inclusive,
// in block, transaction index, log index order.
func (r *Replayer) Replay(ctx context.Context, fromBlock, toBlock uint64) error {
	for start := fromBlock; start <= toBlock; start += r.batchSize {
		end := start + r.batchSize - 1
		if end > toBlock {
			end = toBlock
		}

		if err := r.replayBatch(ctx, start, end); err != nil {
			return fmt.Errorf("failed to replay blocks %d-%d: %w", start, end, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

func (r *Replayer) replayBatch(ctx context.Context, fromBlock, toBlock uint64) error {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT l.block_number, l.block_hash, l.transaction_hash, l.transaction_index,
		       l.log_index, l.address, l.topics, l.data, l.removed, COALESCE(b.timestamp, 0)
		FROM event_logs l
		LEFT JOIN blocks b ON b.number = l.block_number
		WHERE l.block_number >= $1 AND l.block_number <= $2
		ORDER BY l.block_number, l.transaction_index, l.log_index
	`, fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("failed to query event logs: %w", err)
	}
	defer rows.Close()

	type storedLog struct {
		log       types.Log
		timestamp int64
	}

	var stored []storedLog
	for rows.Next() {
		var (
			dbLog     database.EventLog
			timestamp int64
		)
		if err := rows.Scan(
			&dbLog.BlockNumber, &dbLog.BlockHash, &dbLog.TransactionHash, &dbLog.TransactionIndex,
			&dbLog.LogIndex, &dbLog.Address, &dbLog.Topics, &dbLog.Data, &dbLog.Removed, &timestamp,
		); err != nil {
			return fmt.Errorf("failed to scan event log: %w", err)
		}

		stored = append(stored, storedLog{
			log:       convertToEthLog(&dbLog),
			timestamp: timestamp,
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range stored {
		if err := r.registry.ProcessEvent(ctx, &stored[i].log, stored[i].timestamp); err != nil {
			r.logger.Error().
				Err(err).
				Uint64("block", stored[i].log.BlockNumber).
				Str("address", stored[i].log.Address.Hex()).
				Msg("Failed to replay event")
		}
	}

	return nil
}

// convertToEthLog converts a database event log back to types.Log
func convertToEthLog(dbLog *database.EventLog) types.Log {
	topics := make([]common.Hash, len(dbLog.Topics))
	for i, topicStr := range dbLog.Topics {
		topics[i] = common.HexToHash(topicStr)
	}

	return types.Log{
		Address:     common.HexToAddress(dbLog.Address),
		Topics:      topics,
		Data:        common.Hex2Bytes(dbLog.Data),
		BlockNumber: dbLog.BlockNumber,
		TxHash:      common.HexToHash(dbLog.TransactionHash),
		TxIndex:     uint(dbLog.TransactionIndex),
		BlockHash:   common.HexToHash(dbLog.BlockHash),
		Index:       uint(dbLog.LogIndex),
		Removed:     dbLog.Removed,
	}
}
