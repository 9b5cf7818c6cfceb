package rpc

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

// Client wraps an Ethereum client for chain RPC interactions
type Client struct {
	client   *ethclient.Client
	endpoint string
	chainID  *big.Int
	logger   zerolog.Logger
}

// NewClient creates a new RPC client
func NewClient(endpoint string, chainID int64, logger zerolog.Logger) (*Client, error) {
	// Create HTTP client with custom timeout
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// Create RPC client with custom HTTP client
	rpcClient, err := rpc.DialHTTPWithClient(endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	// Create eth client from RPC client
	client := ethclient.NewClient(rpcClient)

	// Verify chain ID with longer timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	networkID, err := client.ChainID(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to verify chain ID, continuing anyway")
		networkID = big.NewInt(chainID)
	} else if networkID.Int64() != chainID {
		logger.Warn().
			Int64("expected", chainID).
			Int64("got", networkID.Int64()).
			Msg("Chain ID mismatch, continuing anyway")
	}

	logger.Info().
		Str("endpoint", endpoint).
		Int64("chain_id", chainID).
		Msg("Connected to RPC endpoint")

	return &Client{
		client:   client,
		endpoint: endpoint,
		chainID:  big.NewInt(chainID),
		logger:   logger,
	}, nil
}

// Close closes the RPC client connection
func (c *Client) Close() {
	c.client.Close()
	c.logger.Info().Msg("RPC client connection closed")
}

// EthClient returns the underlying ethclient for callers that need
// contract bindings or direct calls.
func (c *Client) EthClient() *ethclient.Client {
	return c.client
}

// GetLatestBlockNumber returns the latest block number
func (c *Client) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	// Create a timeout context if one isn't already set
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	blockNumber, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block number: %w", err)
	}
	return blockNumber, nil
}

// GetBlock fetches a block by number
func (c *Client) GetBlock(ctx context.Context, number uint64) (*types.Block, error) {
	// Add timeout if not present
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	block, err := c.client.BlockByNumber(ctx, big.NewInt(int64(number)))
	if err != nil {
		return nil, fmt.Errorf("failed to get block %d: %w", number, err)
	}
	return block, nil
}

// GetBlockWithTransactions fetches a block with full transaction data
func (c *Client) GetBlockWithTransactions(ctx context.Context, number uint64) (*types.Block, error) {
	// Add timeout if not present
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	block, err := c.client.BlockByNumber(ctx, big.NewInt(int64(number)))
	if err != nil {
		return nil, fmt.Errorf("failed to get block with transactions %d: %w", number, err)
	}
	return block, nil
}

// GetTransactionReceipt fetches a transaction receipt
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

// GetBlockReceipts fetches all transaction receipts for a block
func (c *Client) GetBlockReceipts(ctx context.Context, blockNumber uint64) ([]*types.Receipt, error) {
	block, err := c.GetBlockWithTransactions(ctx, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get block %d: %w", blockNumber, err)
	}

	receipts := make([]*types.Receipt, 0, len(block.Transactions()))
	for _, tx := range block.Transactions() {
		receipt, err := c.GetTransactionReceipt(ctx, tx.Hash())
		if err != nil {
			return nil, fmt.Errorf("failed to get receipt for %s in block %d: %w",
				tx.Hash().Hex(), blockNumber, err)
		}
		receipts = append(receipts, receipt)
	}

	return receipts, nil
}

// GetLogs fetches logs matching the given filter query
func (c *Client) GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	logs, err := c.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}
	return logs, nil
}

// GetEndpoint returns the RPC endpoint URL
func (c *Client) GetEndpoint() string {
	return c.endpoint
}

// IsConnected checks if the client is connected to the RPC endpoint
func (c *Client) IsConnected(ctx context.Context) bool {
	_, err := c.client.BlockNumber(ctx)
	return err == nil
}

// Retry wraps a function with retry logic
func (c *Client) Retry(ctx context.Context, fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = fn(); err == nil {
			return nil
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * time.Second
			c.logger.Warn().
				Err(err).
				Int("attempt", i+1).
				Dur("wait", waitTime).
				Msg("Retrying RPC call")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
				continue
			}
		}
	}
	return fmt.Errorf("max retries exceeded: %w", err)
}
