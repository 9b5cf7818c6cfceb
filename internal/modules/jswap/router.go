package jswap

import (
	"context"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
)

func handleUpdateSwapFeeRate(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	factory, err := m.getOrCreateFactory(ctx)
	if err != nil {
		return err
	}

	factory.SwapFeeRate = argBigInt(event, "currentFeeRate").Int64()
	factory.SyncBlockNumber = event.BlockNumber
	if err := m.store.SaveFactory(ctx, factory); err != nil {
		return err
	}

	m.logger.Info().
		Int64("swap_fee_rate", factory.SwapFeeRate).
		Uint64("block", event.BlockNumber).
		Msg("Swap fee rate updated")
	return nil
}
