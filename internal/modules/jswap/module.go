package jswap

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/loader"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/tokens"
)

// Default contract addresses, overridable through the manifest context.
const (
	DefaultFactoryAddress  = "0x2a24c4b12f62b14e35fdffe9baf9c2e16ba11d08"
	DefaultFeeVaultAddress = "0x006659cfd0c058e8879f256a82acd01d2c787aa3"
	DefaultWNativeAddress  = "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c"

	// Reference pairs used to derive the native token USD price.
	DefaultUSDTPair = "0xcfe0b8a7cbc0700d6e21ca9550f3c3fabd803973" // usdt is token0, wbnb is token1
	DefaultBUSDPair = "0xdb557f72f54ba8c274081bdc18fe7d2f7b1462b0" // busd is token1, wbnb is token0
	DefaultDAIPair  = "0x17f73750231eb285340e055bdb7810846efb7b14" // dai is token0, wbnb is token1
)

var defaultWhitelist = []string{
	"0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c", // WBNB
	"0x5fac926bf1e638944bb16fb5b787b5ba4bc85b0a", // JF
	"0xe9e7cea3dedca5984780bafc599bd69add087d56", // BUSD
	"0x55d398326f99059ff775485246999027b3197955", // USDT
	"0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d", // USDC
	"0x1af3f329e8be154074d8769d1ffa4ee058b1dbc3", // DAI
	"0x2170ed0880ac9a755fd29b2688956bd959f933f8", // ETH
	"0x7130d2a12b9bcbfae4f2634d864a1ee1ce3ead9c", // BTCB
}

var defaultStableCoins = []string{
	"0xe9e7cea3dedca5984780bafc599bd69add087d56", // BUSD
	"0x55d398326f99059ff775485246999027b3197955", // USDT
	"0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d", // USDC
	"0x1af3f329e8be154074d8769d1ffa4ee058b1dbc3", // DAI
}

// Minimum combined reserve USD to count volume on pairs with few LPs.
var minimumUSDThresholdNewPairs = decimal.RequireFromString("100000")

// Minimum native reserve for a pair to qualify for price discovery.
var minimumLiquidityThresholdNative = decimal.RequireFromString("2")

// JswapModule indexes the JSwap AMM: pairs, swaps, liquidity, fee vault
// deposits and dividend claims.
type JswapModule struct {
	db        *database.Database
	store     store.Store
	manifest  *core.Manifest
	logger    zerolog.Logger
	parser    *core.EventParser
	rpcClient *ethclient.Client
	reader    tokens.Reader

	// Contract addresses and ABIs
	factoryAddress  common.Address
	wnativeAddress  common.Address
	routerAddress   common.Address
	feeVaultAddress common.Address
	factoryABI      *abi.ABI
	pairABI         *abi.ABI
	routerABI       *abi.ABI
	feeVaultABI     *abi.ABI
	dividendABI     *abi.ABI

	// Configuration
	config *Config

	// Event handlers
	handlers map[common.Hash]EventHandler
}

// Config represents the module configuration, parsed from the manifest
// context.
type Config struct {
	FactoryAddress  string   `yaml:"factoryAddress"`
	RouterAddress   string   `yaml:"routerAddress"`
	FeeVaultAddress string   `yaml:"feeVaultAddress"`
	WNativeAddress  string   `yaml:"wnativeAddress"`
	RPCEndpoint     string   `yaml:"rpcEndpoint"`
	WhitelistTokens []string `yaml:"whitelistTokens"`
	StableCoins     []string `yaml:"stableCoins"`
	UntrackedPairs  []string `yaml:"untrackedPairs"`
	USDTPair        string   `yaml:"usdtPair"`
	BUSDPair        string   `yaml:"busdPair"`
	DAIPair         string   `yaml:"daiPair"`
}

// EventHandler function type for handling specific events
type EventHandler func(ctx context.Context, module *JswapModule, event *core.ParsedEvent) error

// NewJswapModule creates a new JSwap module from its manifest
func NewJswapModule(logger zerolog.Logger) (*JswapModule, error) {
	manifestLoader := loader.NewManifestLoader(logger)
	manifest, err := manifestLoader.LoadFromFile("manifests/jswap.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	// Parse configuration from manifest context
	var config Config
	if manifest.Context != nil {
		contextBytes, _ := yaml.Marshal(manifest.Context)
		if err := yaml.Unmarshal(contextBytes, &config); err != nil {
			return nil, fmt.Errorf("failed to parse module config: %w", err)
		}
	}
	config.applyDefaults()

	module := &JswapModule{
		manifest:        manifest,
		logger:          logger.With().Str("module", "jswap").Logger(),
		parser:          core.NewEventParser(),
		factoryAddress:  common.HexToAddress(config.FactoryAddress),
		wnativeAddress:  common.HexToAddress(config.WNativeAddress),
		routerAddress:   common.HexToAddress(config.RouterAddress),
		feeVaultAddress: common.HexToAddress(config.FeeVaultAddress),
		config:          &config,
		handlers:        make(map[common.Hash]EventHandler),
	}

	if err := module.initializeABIs(); err != nil {
		return nil, fmt.Errorf("failed to initialize ABIs: %w", err)
	}

	if err := module.registerEventHandlers(); err != nil {
		return nil, fmt.Errorf("failed to register event handlers: %w", err)
	}

	return module, nil
}

// applyDefaults normalizes addresses and fills in network defaults.
func (c *Config) applyDefaults() {
	if c.FactoryAddress == "" {
		c.FactoryAddress = DefaultFactoryAddress
	}
	if c.FeeVaultAddress == "" {
		c.FeeVaultAddress = DefaultFeeVaultAddress
	}
	if c.WNativeAddress == "" {
		c.WNativeAddress = DefaultWNativeAddress
	}
	if c.USDTPair == "" {
		c.USDTPair = DefaultUSDTPair
	}
	if c.BUSDPair == "" {
		c.BUSDPair = DefaultBUSDPair
	}
	if c.DAIPair == "" {
		c.DAIPair = DefaultDAIPair
	}
	if len(c.WhitelistTokens) == 0 {
		c.WhitelistTokens = append(c.WhitelistTokens, defaultWhitelist...)
	}
	if len(c.StableCoins) == 0 {
		c.StableCoins = append(c.StableCoins, defaultStableCoins...)
	}

	c.FactoryAddress = strings.ToLower(c.FactoryAddress)
	c.RouterAddress = strings.ToLower(c.RouterAddress)
	c.FeeVaultAddress = strings.ToLower(c.FeeVaultAddress)
	c.WNativeAddress = strings.ToLower(c.WNativeAddress)
	c.USDTPair = strings.ToLower(c.USDTPair)
	c.BUSDPair = strings.ToLower(c.BUSDPair)
	c.DAIPair = strings.ToLower(c.DAIPair)
	for i := range c.WhitelistTokens {
		c.WhitelistTokens[i] = strings.ToLower(c.WhitelistTokens[i])
	}
	for i := range c.StableCoins {
		c.StableCoins[i] = strings.ToLower(c.StableCoins[i])
	}
	for i := range c.UntrackedPairs {
		c.UntrackedPairs[i] = strings.ToLower(c.UntrackedPairs[i])
	}
}

// Name returns the module name
func (m *JswapModule) Name() string {
	return m.manifest.Name
}

// Version returns the module version
func (m *JswapModule) Version() string {
	return m.manifest.Version
}

// Manifest returns the module manifest
func (m *JswapModule) Manifest() *core.Manifest {
	return m.manifest
}

// SetRPCClient sets the RPC client for the module
func (m *JswapModule) SetRPCClient(client *ethclient.Client) {
	m.rpcClient = client
}

// Initialize sets up the module with database connection
func (m *JswapModule) Initialize(ctx context.Context, db *database.Database) error {
	m.db = db
	m.store = store.NewPostgres(db.Pool(), m.logger)

	if m.config != nil && m.config.RPCEndpoint != "" {
		client, err := ethclient.Dial(m.config.RPCEndpoint)
		if err != nil {
			m.logger.Warn().Err(err).Msg("Failed to connect to RPC for contract reads")
		} else {
			m.rpcClient = client
			m.logger.Info().Str("endpoint", m.config.RPCEndpoint).Msg("Connected to RPC for contract reads")
		}
	}

	if m.rpcClient != nil && m.reader == nil {
		reader, err := tokens.NewEthReader(m.rpcClient, m.logger)
		if err != nil {
			return fmt.Errorf("failed to create token reader: %w", err)
		}
		m.reader = reader
	}

	m.logger.Info().
		Str("factory", m.factoryAddress.Hex()).
		Str("fee_vault", m.feeVaultAddress.Hex()).
		Msg("JSwap module initialized")
	return nil
}

// HandleEvent processes a single event log
func (m *JswapModule) HandleEvent(ctx context.Context, log *types.Log, timestamp int64) error {
	if len(log.Topics) == 0 {
		return nil
	}

	eventSignature := log.Topics[0]
	handler, exists := m.handlers[eventSignature]
	if !exists {
		return nil
	}

	parsedEvent, err := m.parser.ParseEvent(log, timestamp)
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("event_sig", eventSignature.Hex()).
			Str("address", log.Address.Hex()).
			Msg("Failed to parse event")
		return fmt.Errorf("failed to parse event: %w", err)
	}

	if err := handler(ctx, m, parsedEvent); err != nil {
		m.logger.Error().
			Err(err).
			Str("event", parsedEvent.EventName).
			Str("address", parsedEvent.Address.Hex()).
			Msg("Handler failed")
		// Update state but don't return error to prevent getting stuck
		m.updateModuleState(ctx, log.BlockNumber, "active")
		return nil
	}

	m.updateModuleState(ctx, log.BlockNumber, "active")

	m.logger.Debug().
		Str("event", parsedEvent.EventName).
		Str("address", parsedEvent.Address.Hex()).
		Uint64("block", parsedEvent.BlockNumber).
		Msg("Processed event")

	return nil
}

// GetEventFilters returns the event filters this module is interested in
func (m *JswapModule) GetEventFilters() []core.EventFilter {
	filters := []core.EventFilter{
		{
			Address: m.factoryAddress.Hex(),
			Topic0:  m.factoryABI.Events["PairCreated"].ID.Hex(),
		},
	}

	// Pair and dividend events arrive from dynamically created contracts,
	// so they are filtered by topic alone.
	for _, name := range []string{"Transfer", "Sync", "Mint", "Burn", "Swap"} {
		filters = append(filters, core.EventFilter{
			Topic0: m.pairABI.Events[name].ID.Hex(),
		})
	}
	filters = append(filters, core.EventFilter{
		Topic0: m.dividendABI.Events["Claim"].ID.Hex(),
	})

	filters = append(filters, core.EventFilter{
		Address: m.feeVaultAddress.Hex(),
		Topic0:  m.feeVaultABI.Events["AppendFee"].ID.Hex(),
	})
	filters = append(filters, core.EventFilter{
		Address: m.feeVaultAddress.Hex(),
		Topic0:  m.feeVaultABI.Events["UpdateDevFee"].ID.Hex(),
	})
	if m.config.RouterAddress != "" {
		filters = append(filters, core.EventFilter{
			Address: m.routerAddress.Hex(),
			Topic0:  m.routerABI.Events["UpdateSwapFeeRate"].ID.Hex(),
		})
	}

	return filters
}

// GetStartBlock returns the block number to start indexing from
func (m *JswapModule) GetStartBlock() uint64 {
	if len(m.manifest.DataSources) > 0 && m.manifest.DataSources[0].Source.StartBlock != nil {
		return *m.manifest.DataSources[0].Source.StartBlock
	}
	return 0
}

// Backfill processes historical events from the event_logs table
func (m *JswapModule) Backfill(ctx context.Context, fromBlock, toBlock uint64) error {
	m.logger.Info().
		Uint64("from", fromBlock).
		Uint64("to", toBlock).
		Msg("Starting JSwap backfill")

	topics := make([]string, 0, len(m.handlers))
	for topic := range m.handlers {
		topics = append(topics, fmt.Sprintf("%q", strings.ToLower(topic.Hex())))
	}

	query := `
		SELECT l.block_number, l.block_hash, l.transaction_hash, l.transaction_index,
		       l.log_index, l.address, l.topics, l.data, l.removed,
		       COALESCE(b.timestamp, 0)
		FROM event_logs l
		LEFT JOIN blocks b ON b.number = l.block_number
		WHERE l.block_number >= $1 AND l.block_number <= $2
		  AND (l.address = $3 OR l.topics->0 = ANY($4))
		ORDER BY l.block_number, l.transaction_index, l.log_index`

	rows, err := m.db.Pool().Query(ctx, query,
		fromBlock, toBlock,
		strings.ToLower(m.factoryAddress.Hex()),
		topics,
	)
	if err != nil {
		return fmt.Errorf("failed to query events for backfill: %w", err)
	}
	defer rows.Close()

	processed := 0
	for rows.Next() {
		var logData LogData
		var timestamp int64
		if err := rows.Scan(
			&logData.BlockNumber,
			&logData.BlockHash,
			&logData.TransactionHash,
			&logData.TransactionIndex,
			&logData.LogIndex,
			&logData.Address,
			&logData.Topics,
			&logData.Data,
			&logData.Removed,
			&timestamp,
		); err != nil {
			return fmt.Errorf("failed to scan log data: %w", err)
		}

		log, err := logData.ToEthereumLog()
		if err != nil {
			m.logger.Warn().Err(err).Msg("Failed to convert log data, skipping")
			continue
		}

		if err := m.HandleEvent(ctx, log, timestamp); err != nil {
			m.logger.Error().
				Err(err).
				Uint64("block", log.BlockNumber).
				Str("tx", log.TxHash.Hex()).
				Msg("Failed to process event during backfill")
			// Continue processing other events
		} else {
			processed++
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over backfill results: %w", err)
	}

	m.logger.Info().
		Uint64("from", fromBlock).
		Uint64("to", toBlock).
		Int("processed", processed).
		Msg("Completed JSwap backfill")

	return nil
}

// GetSyncState returns the last processed block for this module
func (m *JswapModule) GetSyncState(ctx context.Context) (uint64, error) {
	var lastBlock uint64
	query := `SELECT last_processed_block FROM module_state WHERE module_name = $1`

	err := m.db.Pool().QueryRow(ctx, query, m.Name()).Scan(&lastBlock)
	if err != nil {
		return 0, fmt.Errorf("failed to get sync state: %w", err)
	}

	return lastBlock, nil
}

// UpdateSyncState updates the last processed block for this module
func (m *JswapModule) UpdateSyncState(ctx context.Context, blockNumber uint64) error {
	query := `
		UPDATE module_state
		SET last_processed_block = $2, updated_at = CURRENT_TIMESTAMP
		WHERE module_name = $1`

	_, err := m.db.Pool().Exec(ctx, query, m.Name(), blockNumber)
	if err != nil {
		return fmt.Errorf("failed to update sync state: %w", err)
	}

	return nil
}

// updateModuleState updates the module's state in the database
func (m *JswapModule) updateModuleState(ctx context.Context, blockNumber uint64, status string) {
	if m.db == nil {
		return
	}

	query := `
		UPDATE module_state
		SET last_processed_block = GREATEST(last_processed_block, $2),
		    status = $3,
		    updated_at = CURRENT_TIMESTAMP
		WHERE module_name = $1`

	_, err := m.db.Pool().Exec(ctx, query, m.Name(), blockNumber, status)
	if err != nil {
		m.logger.Error().
			Err(err).
			Uint64("block", blockNumber).
			Str("status", status).
			Msg("Failed to update module state")
	}
}

// isWhitelisted reports whether the token contributes to tracked values.
func (m *JswapModule) isWhitelisted(token string) bool {
	for _, w := range m.config.WhitelistTokens {
		if w == token {
			return true
		}
	}
	return false
}

// isStableCoin reports whether the token is a USD stablecoin.
func (m *JswapModule) isStableCoin(token string) bool {
	for _, s := range m.config.StableCoins {
		if s == token {
			return true
		}
	}
	return false
}

// isUntrackedPair reports whether the pair is excluded from tracked volume.
func (m *JswapModule) isUntrackedPair(pair string) bool {
	for _, p := range m.config.UntrackedPairs {
		if p == pair {
			return true
		}
	}
	return false
}

// LogData represents a log entry from the database
type LogData struct {
	BlockNumber      uint64 `db:"block_number"`
	BlockHash        string `db:"block_hash"`
	TransactionHash  string `db:"transaction_hash"`
	TransactionIndex uint   `db:"transaction_index"`
	LogIndex         uint   `db:"log_index"`
	Address          string `db:"address"`
	Topics           []byte `db:"topics"` // JSON
	Data             string `db:"data"`
	Removed          bool   `db:"removed"`
}

// ToEthereumLog converts LogData to types.Log
func (ld *LogData) ToEthereumLog() (*types.Log, error) {
	var topicStrings []string
	if err := yaml.Unmarshal(ld.Topics, &topicStrings); err != nil {
		return nil, fmt.Errorf("failed to parse topics: %w", err)
	}

	topics := make([]common.Hash, len(topicStrings))
	for i, topic := range topicStrings {
		topics[i] = common.HexToHash(topic)
	}

	return &types.Log{
		Address:     common.HexToAddress(ld.Address),
		Topics:      topics,
		Data:        common.Hex2Bytes(strings.TrimPrefix(ld.Data, "0x")),
		BlockNumber: ld.BlockNumber,
		TxHash:      common.HexToHash(ld.TransactionHash),
		TxIndex:     ld.TransactionIndex,
		BlockHash:   common.HexToHash(ld.BlockHash),
		Index:       ld.LogIndex,
		Removed:     ld.Removed,
	}, nil
}
