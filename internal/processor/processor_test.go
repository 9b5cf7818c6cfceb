package processor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
)

func TestConvertBlock(t *testing.T) {
	header := &types.Header{
		Number:     big.NewInt(31500000),
		ParentHash: common.HexToHash("0x1d2f3e4a5b6c7d8e9f0a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e"),
		Time:       1717000000,
		GasLimit:   140000000,
		GasUsed:    12345678,
		BaseFee:    big.NewInt(3000000000),
	}
	block := types.NewBlockWithHeader(header)

	p := &BlockProcessor{logger: zerolog.Nop()}
	dbBlock := p.convertBlock(block)

	assert.Equal(t, uint64(31500000), dbBlock.Number)
	assert.Equal(t, block.Hash().Hex(), dbBlock.Hash)
	assert.Equal(t, header.ParentHash.Hex(), dbBlock.ParentHash)
	assert.Equal(t, int64(1717000000), dbBlock.Timestamp)
	assert.Equal(t, uint64(140000000), dbBlock.GasLimit)
	assert.Equal(t, uint64(12345678), dbBlock.GasUsed)
	assert.Equal(t, 0, dbBlock.TransactionCount)
	require.NotNil(t, dbBlock.BaseFeePerGas)
	assert.Equal(t, int64(3000000000), dbBlock.BaseFeePerGas.Int64())
}

func TestConvertToEthLogRoundTrip(t *testing.T) {
	original := types.Log{
		Address: common.HexToAddress("0x05ff2b0db69458a0750badebc4f9e13add608c7f"),
		Topics: []common.Hash{
			common.HexToHash("0xd78ad95fa46c994b6551d0da85fc275fe613ce37657fb8d5e3d130840159d822"),
			common.HexToHash("0x00000000000000000000000010ed43c718714eb63d5aa57b78b54704e256024e"),
		},
		Data:        common.Hex2Bytes("00000000000000000000000000000000000000000000000000000000000003e8"),
		BlockNumber: 31500001,
		TxHash:      common.HexToHash("0xaaabbbcccdddeeefff000111222333444555666777888999aaabbbcccdddeeef"),
		TxIndex:     3,
		BlockHash:   common.HexToHash("0x9f8e7d6c5b4a39281706f5e4d3c2b1a09f8e7d6c5b4a39281706f5e4d3c2b1a0"),
		Index:       7,
		Removed:     false,
	}

	topics := hashesToStrings(original.Topics)
	require.Len(t, topics, 2)

	dbLog := database.EventLog{
		BlockNumber:      original.BlockNumber,
		BlockHash:        original.BlockHash.Hex(),
		TransactionHash:  original.TxHash.Hex(),
		TransactionIndex: int(original.TxIndex),
		LogIndex:         int(original.Index),
		Address:          original.Address.Hex(),
		Topics:           topics,
		Data:             common.Bytes2Hex(original.Data),
		Removed:          original.Removed,
	}

	restored := convertToEthLog(&dbLog)
	assert.Equal(t, original, restored)
}

func TestConvertTransactionTypes(t *testing.T) {
	p := &TransactionProcessor{logger: zerolog.Nop()}
	to := common.HexToAddress("0x10ed43c718714eb63d5aa57b78b54704e256024e")

	t.Run("legacy", func(t *testing.T) {
		tx := types.NewTx(&types.LegacyTx{
			Nonce:    5,
			To:       &to,
			Value:    big.NewInt(1000),
			Gas:      21000,
			GasPrice: big.NewInt(5000000000),
		})

		dbTx := p.convertTransaction(tx, 31500001, 2)
		assert.Equal(t, tx.Hash().Hex(), dbTx.Hash)
		assert.Equal(t, uint64(31500001), dbTx.BlockNumber)
		assert.Equal(t, 2, dbTx.TransactionIndex)
		require.NotNil(t, dbTx.ToAddress)
		assert.Equal(t, to.Hex(), *dbTx.ToAddress)
		assert.Equal(t, 0, dbTx.TransactionType)
		assert.Equal(t, uint64(5), dbTx.Nonce)
	})

	t.Run("dynamic fee", func(t *testing.T) {
		tx := types.NewTx(&types.DynamicFeeTx{
			ChainID:   big.NewInt(56),
			Nonce:     6,
			To:        &to,
			Value:     big.NewInt(0),
			Gas:       150000,
			GasFeeCap: big.NewInt(6000000000),
			GasTipCap: big.NewInt(1000000000),
		})

		dbTx := p.convertTransaction(tx, 31500001, 0)
		assert.Equal(t, 2, dbTx.TransactionType)
	})

	t.Run("contract creation has nil to", func(t *testing.T) {
		tx := types.NewTx(&types.LegacyTx{
			Nonce:    0,
			Value:    big.NewInt(0),
			Gas:      3000000,
			GasPrice: big.NewInt(5000000000),
			Data:     common.Hex2Bytes("6080604052"),
		})

		dbTx := p.convertTransaction(tx, 31500001, 1)
		assert.Nil(t, dbTx.ToAddress)
	})
}
