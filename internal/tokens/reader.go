package tokens

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// Reader looks up token and contract metadata on-chain. The bool result
// is false when the call reverted or returned nothing useful, so callers
// can fall back to defaults.
type Reader interface {
	TokenSymbol(ctx context.Context, address string) (string, bool)
	TokenName(ctx context.Context, address string) (string, bool)
	TokenDecimals(ctx context.Context, address string) (int64, bool)
	TokenTotalSupply(ctx context.Context, address string) (*big.Int, bool)
	PairFor(ctx context.Context, factory, token0, token1 string) (string, bool)
	RewardToken(ctx context.Context, tracker string) (string, bool)
}

const erc20ABI = `[
  {"constant": true, "inputs": [], "name": "symbol", "outputs": [{"name": "", "type": "string"}], "type": "function"},
  {"constant": true, "inputs": [], "name": "name", "outputs": [{"name": "", "type": "string"}], "type": "function"},
  {"constant": true, "inputs": [], "name": "decimals", "outputs": [{"name": "", "type": "uint8"}], "type": "function"},
  {"constant": true, "inputs": [], "name": "totalSupply", "outputs": [{"name": "", "type": "uint256"}], "type": "function"}
]`

// Some older tokens return bytes32 from symbol/name instead of string.
const erc20Bytes32ABI = `[
  {"constant": true, "inputs": [], "name": "symbol", "outputs": [{"name": "", "type": "bytes32"}], "type": "function"},
  {"constant": true, "inputs": [], "name": "name", "outputs": [{"name": "", "type": "bytes32"}], "type": "function"}
]`

const factoryReaderABI = `[
  {"constant": true, "inputs": [
    {"name": "tokenA", "type": "address"},
    {"name": "tokenB", "type": "address"}
  ], "name": "getPair", "outputs": [{"name": "pair", "type": "address"}], "type": "function"}
]`

const trackerReaderABI = `[
  {"constant": true, "inputs": [], "name": "REWARD", "outputs": [{"name": "", "type": "address"}], "type": "function"}
]`

// EthReader reads metadata through an Ethereum JSON-RPC client.
type EthReader struct {
	client      *ethclient.Client
	erc20       abi.ABI
	erc20Bytes  abi.ABI
	factory     abi.ABI
	tracker     abi.ABI
	callTimeout time.Duration
	logger      zerolog.Logger
}

// NewEthReader creates a reader on top of an existing client.
func NewEthReader(client *ethclient.Client, logger zerolog.Logger) (*EthReader, error) {
	erc20, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}
	erc20Bytes, err := abi.JSON(strings.NewReader(erc20Bytes32ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 bytes32 ABI: %w", err)
	}
	factory, err := abi.JSON(strings.NewReader(factoryReaderABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory reader ABI: %w", err)
	}
	tracker, err := abi.JSON(strings.NewReader(trackerReaderABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracker reader ABI: %w", err)
	}

	return &EthReader{
		client:      client,
		erc20:       erc20,
		erc20Bytes:  erc20Bytes,
		factory:     factory,
		tracker:     tracker,
		callTimeout: 15 * time.Second,
		logger:      logger.With().Str("component", "token_reader").Logger(),
	}, nil
}

func (r *EthReader) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	input, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	output, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("%s call returned no data", method)
	}

	return parsed.Unpack(method, output)
}

func (r *EthReader) TokenSymbol(ctx context.Context, address string) (string, bool) {
	contract := common.HexToAddress(address)

	results, err := r.call(ctx, contract, r.erc20, "symbol")
	if err == nil {
		if symbol, ok := results[0].(string); ok && symbol != "" {
			return symbol, true
		}
	}

	// Fall back to the bytes32 variant.
	results, err = r.call(ctx, contract, r.erc20Bytes, "symbol")
	if err != nil {
		r.logger.Debug().Err(err).Str("token", address).Msg("Failed to read token symbol")
		return "", false
	}
	if raw, ok := results[0].([32]byte); ok {
		if symbol := bytes32ToString(raw); symbol != "" {
			return symbol, true
		}
	}
	return "", false
}

func (r *EthReader) TokenName(ctx context.Context, address string) (string, bool) {
	contract := common.HexToAddress(address)

	results, err := r.call(ctx, contract, r.erc20, "name")
	if err == nil {
		if name, ok := results[0].(string); ok && name != "" {
			return name, true
		}
	}

	results, err = r.call(ctx, contract, r.erc20Bytes, "name")
	if err != nil {
		r.logger.Debug().Err(err).Str("token", address).Msg("Failed to read token name")
		return "", false
	}
	if raw, ok := results[0].([32]byte); ok {
		if name := bytes32ToString(raw); name != "" {
			return name, true
		}
	}
	return "", false
}

func (r *EthReader) TokenDecimals(ctx context.Context, address string) (int64, bool) {
	results, err := r.call(ctx, common.HexToAddress(address), r.erc20, "decimals")
	if err != nil {
		r.logger.Debug().Err(err).Str("token", address).Msg("Failed to read token decimals")
		return 0, false
	}
	if decimals, ok := results[0].(uint8); ok {
		return int64(decimals), true
	}
	return 0, false
}

func (r *EthReader) TokenTotalSupply(ctx context.Context, address string) (*big.Int, bool) {
	results, err := r.call(ctx, common.HexToAddress(address), r.erc20, "totalSupply")
	if err != nil {
		r.logger.Debug().Err(err).Str("token", address).Msg("Failed to read token total supply")
		return nil, false
	}
	if supply, ok := results[0].(*big.Int); ok {
		return supply, true
	}
	return nil, false
}

func (r *EthReader) PairFor(ctx context.Context, factory, token0, token1 string) (string, bool) {
	results, err := r.call(ctx, common.HexToAddress(factory), r.factory, "getPair",
		common.HexToAddress(token0), common.HexToAddress(token1))
	if err != nil {
		r.logger.Debug().Err(err).
			Str("token0", token0).
			Str("token1", token1).
			Msg("Failed to read pair address")
		return "", false
	}
	if pair, ok := results[0].(common.Address); ok && pair != (common.Address{}) {
		return strings.ToLower(pair.Hex()), true
	}
	return "", false
}

func (r *EthReader) RewardToken(ctx context.Context, tracker string) (string, bool) {
	results, err := r.call(ctx, common.HexToAddress(tracker), r.tracker, "REWARD")
	if err != nil {
		r.logger.Debug().Err(err).Str("tracker", tracker).Msg("Failed to read reward token")
		return "", false
	}
	if reward, ok := results[0].(common.Address); ok && reward != (common.Address{}) {
		return strings.ToLower(reward.Hex()), true
	}
	return "", false
}

func bytes32ToString(raw [32]byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end])
}
