package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
)

// EventProcessor handles storage and retrieval of event logs
type EventProcessor struct {
	db     *database.Database
	logger zerolog.Logger
}

// NewEventProcessor creates a new event processor
func NewEventProcessor(db *database.Database, logger zerolog.Logger) *EventProcessor {
	return &EventProcessor{
		db:     db,
		logger: logger.With().Str("component", "event_processor").Logger(),
	}
}

// storeLogsTx stores event logs within an existing database transaction
func (p *EventProcessor) storeLogsTx(ctx context.Context, tx pgx.Tx, logs []types.Log) error {
	if len(logs) == 0 {
		return nil
	}

	query := `
		INSERT INTO event_logs (
			block_number, block_hash, transaction_hash, transaction_index, log_index,
			address, topics, data, removed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (block_number, transaction_index, log_index) DO UPDATE
		SET removed = EXCLUDED.removed`

	for _, log := range logs {
		topicsJSON, err := json.Marshal(hashesToStrings(log.Topics))
		if err != nil {
			return fmt.Errorf("failed to marshal topics: %w", err)
		}

		_, err = tx.Exec(ctx, query,
			log.BlockNumber,
			log.BlockHash.Hex(),
			log.TxHash.Hex(),
			log.TxIndex,
			log.Index,
			strings.ToLower(log.Address.Hex()),
			topicsJSON,
			common.Bytes2Hex(log.Data),
			log.Removed,
		)
		if err != nil {
			return fmt.Errorf("failed to insert log %d/%d: %w", log.BlockNumber, log.Index, err)
		}
	}

	return nil
}

// GetLogs retrieves stored logs for a specific block
func (p *EventProcessor) GetLogs(ctx context.Context, blockNumber uint64) ([]types.Log, error) {
	query := `
		SELECT block_hash, transaction_hash, transaction_index, log_index,
		       address, topics, data, removed
		FROM event_logs
		WHERE block_number = $1
		ORDER BY transaction_index, log_index`

	rows, err := p.db.Pool().Query(ctx, query, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var logs []types.Log
	for rows.Next() {
		var (
			blockHash  string
			txHash     string
			txIndex    uint
			logIndex   uint
			address    string
			topicsJSON json.RawMessage
			data       string
			removed    bool
		)

		err := rows.Scan(&blockHash, &txHash, &txIndex, &logIndex,
			&address, &topicsJSON, &data, &removed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}

		var topicStrings []string
		if err := json.Unmarshal(topicsJSON, &topicStrings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
		}

		logs = append(logs, types.Log{
			BlockNumber: blockNumber,
			BlockHash:   common.HexToHash(blockHash),
			TxHash:      common.HexToHash(txHash),
			TxIndex:     txIndex,
			Index:       logIndex,
			Address:     common.HexToAddress(address),
			Topics:      stringsToHashes(topicStrings),
			Data:        common.Hex2Bytes(data),
			Removed:     removed,
		})
	}

	return logs, rows.Err()
}

// Helper functions
func hashesToStrings(hashes []common.Hash) []string {
	strings := make([]string, len(hashes))
	for i, hash := range hashes {
		strings[i] = hash.Hex()
	}
	return strings
}

func stringsToHashes(strings []string) []common.Hash {
	hashes := make([]common.Hash, len(strings))
	for i, str := range strings {
		hashes[i] = common.HexToHash(str)
	}
	return hashes
}
