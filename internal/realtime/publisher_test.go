package realtime

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/database"
)

// newIdlePublisher builds a publisher without the flush loop so pending
// state can be inspected directly.
func newIdlePublisher() *Publisher {
	return &Publisher{
		logger:  zerolog.Nop(),
		pending: make(map[string]struct{}),
		flushCh: make(chan struct{}, 1),
	}
}

func TestPairChannelNaming(t *testing.T) {
	require.Equal(t, "jswap.pair.0x00000000000000000000000000000000000000cc",
		pairChannel("0x00000000000000000000000000000000000000CC"))
	require.Equal(t, "jswap.pairs", pairsChannel)
}

func TestEnqueuePairChangedDeduplicates(t *testing.T) {
	p := newIdlePublisher()

	p.EnqueuePairChanged("0x00000000000000000000000000000000000000AA")
	p.EnqueuePairChanged("0x00000000000000000000000000000000000000aa")
	p.EnqueuePairChanged("0x00000000000000000000000000000000000000bb")

	require.Len(t, p.pending, 2)
	require.Contains(t, p.pending, "0x00000000000000000000000000000000000000aa")
	require.Contains(t, p.pending, "0x00000000000000000000000000000000000000bb")
}

func TestPairUpdatePayloadShape(t *testing.T) {
	raw, err := json.Marshal(pairUpdate{
		Type:        "pair.update",
		BlockNumber: 31500000,
		Timestamp:   1700000000,
		Pair: database.PairSummary{
			Address:   "0x00000000000000000000000000000000000000cc",
			VolumeUSD: decimal.RequireFromString("1234.5"),
		},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "pair.update", decoded["type"])
	require.EqualValues(t, 31500000, decoded["block_number"])
	require.EqualValues(t, 1700000000, decoded["ts"])

	pair, ok := decoded["pair"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "0x00000000000000000000000000000000000000cc", pair["address"])
	require.Equal(t, "1234.5", pair["volume_usd"])
}
