package jswap

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// initializeABIs sets up the contract ABIs for parsing events
func (m *JswapModule) initializeABIs() error {
	factoryABI, err := abi.JSON(strings.NewReader(FactoryABI))
	if err != nil {
		return fmt.Errorf("failed to parse factory ABI: %w", err)
	}
	m.factoryABI = &factoryABI

	pairABI, err := abi.JSON(strings.NewReader(PairABI))
	if err != nil {
		return fmt.Errorf("failed to parse pair ABI: %w", err)
	}
	m.pairABI = &pairABI

	routerABI, err := abi.JSON(strings.NewReader(RouterABI))
	if err != nil {
		return fmt.Errorf("failed to parse router ABI: %w", err)
	}
	m.routerABI = &routerABI

	feeVaultABI, err := abi.JSON(strings.NewReader(FeeVaultABI))
	if err != nil {
		return fmt.Errorf("failed to parse fee vault ABI: %w", err)
	}
	m.feeVaultABI = &feeVaultABI

	dividendABI, err := abi.JSON(strings.NewReader(PairDividendABI))
	if err != nil {
		return fmt.Errorf("failed to parse pair dividend ABI: %w", err)
	}
	m.dividendABI = &dividendABI

	// Add ABIs to event parser. Pair and dividend contracts are matched
	// by topic, so registering against the factory address is enough for
	// topic->event resolution.
	m.parser.AddContract(m.factoryAddress, &factoryABI)
	m.parser.AddContract(m.factoryAddress, &pairABI)
	m.parser.AddContract(m.routerAddress, &routerABI)
	m.parser.AddContract(m.feeVaultAddress, &feeVaultABI)
	m.parser.AddContract(m.feeVaultAddress, &dividendABI)

	return nil
}

// registerEventHandlers wires topic hashes to handler functions
func (m *JswapModule) registerEventHandlers() error {
	m.handlers[m.factoryABI.Events["PairCreated"].ID] = handlePairCreated
	m.handlers[m.pairABI.Events["Transfer"].ID] = handleTransfer
	m.handlers[m.pairABI.Events["Sync"].ID] = handleSync
	m.handlers[m.pairABI.Events["Mint"].ID] = handleMint
	m.handlers[m.pairABI.Events["Burn"].ID] = handleBurn
	m.handlers[m.pairABI.Events["Swap"].ID] = handleSwap
	m.handlers[m.routerABI.Events["UpdateSwapFeeRate"].ID] = handleUpdateSwapFeeRate
	m.handlers[m.feeVaultABI.Events["AppendFee"].ID] = handleAppendFee
	m.handlers[m.feeVaultABI.Events["UpdateDevFee"].ID] = handleUpdateDevFee
	m.handlers[m.dividendABI.Events["Claim"].ID] = handleClaim

	return nil
}

// Minimal ABIs with only the events each module handles

const FactoryABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "internalType": "address", "name": "token0", "type": "address"},
      {"indexed": true,  "internalType": "address", "name": "token1", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "pair",   "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "allPairsLength", "type": "uint256"}
    ],
    "name": "PairCreated",
    "type": "event"
  }
]`

const PairABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "internalType": "address", "name": "from",  "type": "address"},
      {"indexed": true,  "internalType": "address", "name": "to",    "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint112", "name": "reserve0", "type": "uint112"},
      {"indexed": false, "internalType": "uint112", "name": "reserve1", "type": "uint112"}
    ],
    "name": "Sync",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "internalType": "address", "name": "sender",  "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount0", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1", "type": "uint256"}
    ],
    "name": "Mint",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "internalType": "address", "name": "sender",  "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount0", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1", "type": "uint256"},
      {"indexed": true,  "internalType": "address", "name": "to",      "type": "address"}
    ],
    "name": "Burn",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "internalType": "address", "name": "sender",     "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount0In",  "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1In",  "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount0Out", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amount1Out", "type": "uint256"},
      {"indexed": true,  "internalType": "address", "name": "to",         "type": "address"}
    ],
    "name": "Swap",
    "type": "event"
  }
]`

const RouterABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "currentFeeRate", "type": "uint256"}
    ],
    "name": "UpdateSwapFeeRate",
    "type": "event"
  }
]`

const FeeVaultABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "pairToken",   "type": "address"},
      {"indexed": false, "internalType": "address", "name": "rewordToken", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount",      "type": "uint256"}
    ],
    "name": "AppendFee",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "devFee", "type": "uint256"}
    ],
    "name": "UpdateDevFee",
    "type": "event"
  }
]`

const PairDividendABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "internalType": "address", "name": "account",   "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount",    "type": "uint256"},
      {"indexed": true,  "internalType": "bool",    "name": "automatic", "type": "bool"}
    ],
    "name": "Claim",
    "type": "event"
  }
]`
