package jswap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
)

// Pair minting locks the first 1000 wei of LP tokens forever.
var initialPairLiquidity = big.NewInt(1000)

func argAddress(event *core.ParsedEvent, name string) common.Address {
	if v, ok := event.Args[name].(common.Address); ok {
		return v
	}
	return common.Address{}
}

func argBigInt(event *core.ParsedEvent, name string) *big.Int {
	if v, ok := event.Args[name].(*big.Int); ok {
		return v
	}
	return new(big.Int)
}

func argBool(event *core.ParsedEvent, name string) bool {
	v, _ := event.Args[name].(bool)
	return v
}

// transactionFrom resolves the externally owned account that sent the
// transaction. Logs do not carry the sender, so it comes from the node.
func (m *JswapModule) transactionFrom(ctx context.Context, event *core.ParsedEvent) (string, bool) {
	if m.rpcClient == nil {
		return "", false
	}
	tx, _, err := m.rpcClient.TransactionByHash(ctx, event.TransactionHash)
	if err != nil {
		return "", false
	}
	sender, err := m.rpcClient.TransactionSender(ctx, tx, event.BlockHash, event.TransactionIndex)
	if err != nil {
		return "", false
	}
	return strings.ToLower(sender.Hex()), true
}

// loadTrackedPair returns the pair emitting this event, or nil when the
// log came from a contract we never indexed. Pair events are filtered by
// topic alone, so foreign ERC20 logs arrive here too.
func (m *JswapModule) loadTrackedPair(ctx context.Context, event *core.ParsedEvent) (*entity.Pair, error) {
	pair, err := m.store.Pair(ctx, addr(event.Address))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func handlePairCreated(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	factory, err := m.getOrCreateFactory(ctx)
	if err != nil {
		return err
	}
	if _, err := m.getOrCreateBundle(ctx); err != nil {
		return err
	}

	factory.PairCount++
	factory.SyncBlockNumber = event.BlockNumber
	if err := m.store.SaveFactory(ctx, factory); err != nil {
		return err
	}

	token0, err := m.createOrGetToken(ctx, argAddress(event, "token0"), event.BlockNumber)
	if err != nil {
		return err
	}
	token1, err := m.createOrGetToken(ctx, argAddress(event, "token1"), event.BlockNumber)
	if err != nil {
		return err
	}

	pairAddress := argAddress(event, "pair")
	pair := &entity.Pair{
		ID:                     addr(pairAddress),
		Token0:                 token0.ID,
		Token1:                 token1.ID,
		Reserve0:               dexmath.Zero,
		Reserve1:               dexmath.Zero,
		TotalSupply:            dexmath.Zero,
		ReserveNative:          dexmath.Zero,
		ReserveUSD:             dexmath.Zero,
		TrackedReserveNative:   dexmath.Zero,
		Token0Price:            dexmath.Zero,
		Token1Price:            dexmath.Zero,
		VolumeToken0:           dexmath.Zero,
		VolumeToken1:           dexmath.Zero,
		VolumeUSD:              dexmath.Zero,
		UntrackedVolumeUSD:     dexmath.Zero,
		TxCount:                0,
		LiquidityProviderCount: 0,
		CreatedAtTimestamp:     event.Timestamp,
		CreatedAtBlockNumber:   event.BlockNumber,
		SyncBlockNumber:        event.BlockNumber,
	}
	if err := m.store.SavePair(ctx, pair); err != nil {
		return err
	}

	// The dividend tracker for a pair shares the pair's address.
	if _, err := m.createPairTrack(ctx, pairAddress, pairAddress, event); err != nil {
		return err
	}

	m.logger.Info().
		Str("pair", pair.ID).
		Str("token0", token0.ID).
		Str("token1", token1.ID).
		Uint64("block", event.BlockNumber).
		Msg("Pair created")
	return nil
}

func handleTransfer(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	pair, err := m.loadTrackedPair(ctx, event)
	if err != nil || pair == nil {
		return err
	}

	from := argAddress(event, "from")
	to := argAddress(event, "to")
	value := argBigInt(event, "value")

	// Ignore the initial mint of locked liquidity.
	if addr(from) == addressZero && value.Cmp(initialPairLiquidity) == 0 {
		return nil
	}

	liquidity := dexmath.ToDecimal(value, 18)

	if err := m.createUser(ctx, from); err != nil {
		return err
	}
	if err := m.createUser(ctx, to); err != nil {
		return err
	}

	transaction, err := m.createOrGetTransaction(ctx, event)
	if err != nil {
		return err
	}

	// LP tokens minted: open a mint that handleMint completes later.
	if addr(from) == addressZero {
		pair.TotalSupply = pair.TotalSupply.Add(liquidity)
		pair.SyncBlockNumber = event.BlockNumber
		if err := m.store.SavePair(ctx, pair); err != nil {
			return err
		}

		newMint := true
		if len(transaction.Mints) > 0 {
			last, err := m.store.Mint(ctx, transaction.Mints[len(transaction.Mints)-1])
			if err != nil {
				return err
			}
			newMint = last.Sender != ""
		}
		if newMint {
			mint := &entity.Mint{
				ID:          fmt.Sprintf("%s-%d", transaction.ID, len(transaction.Mints)),
				Transaction: transaction.ID,
				Timestamp:   event.Timestamp,
				Pair:        pair.ID,
				To:          addr(to),
				Liquidity:   liquidity,
				Amount0:     dexmath.Zero,
				Amount1:     dexmath.Zero,
				AmountUSD:   dexmath.Zero,
			}
			if err := m.store.SaveMint(ctx, mint); err != nil {
				return err
			}
			transaction.Mints = append(transaction.Mints, mint.ID)
			if err := m.store.SaveTransaction(ctx, transaction); err != nil {
				return err
			}
		}
	}

	// LP tokens sent to the pair ahead of a burn.
	if addr(to) == pair.ID {
		burn := &entity.Burn{
			ID:            fmt.Sprintf("%s-%d", transaction.ID, len(transaction.Burns)),
			Transaction:   transaction.ID,
			Timestamp:     event.Timestamp,
			Pair:          pair.ID,
			Liquidity:     liquidity,
			To:            addr(to),
			Sender:        addr(from),
			Amount0:       dexmath.Zero,
			Amount1:       dexmath.Zero,
			AmountUSD:     dexmath.Zero,
			NeedsComplete: true,
		}
		if err := m.store.SaveBurn(ctx, burn); err != nil {
			return err
		}
		transaction.Burns = append(transaction.Burns, burn.ID)
		if err := m.store.SaveTransaction(ctx, transaction); err != nil {
			return err
		}
	}

	// LP tokens burned.
	if addr(to) == addressZero && addr(from) == pair.ID {
		pair.TotalSupply = pair.TotalSupply.Sub(liquidity)
		pair.SyncBlockNumber = event.BlockNumber
		if err := m.store.SavePair(ctx, pair); err != nil {
			return err
		}

		var burn *entity.Burn
		reused := false
		if len(transaction.Burns) > 0 {
			last, err := m.store.Burn(ctx, transaction.Burns[len(transaction.Burns)-1])
			if err != nil {
				return err
			}
			if last.NeedsComplete {
				burn = last
				reused = true
			}
		}
		if burn == nil {
			burn = &entity.Burn{
				ID:          fmt.Sprintf("%s-%d", transaction.ID, len(transaction.Burns)),
				Transaction: transaction.ID,
				Timestamp:   event.Timestamp,
				Pair:        pair.ID,
				Liquidity:   liquidity,
				To:          addr(to),
				Sender:      addr(from),
				Amount0:     dexmath.Zero,
				Amount1:     dexmath.Zero,
				AmountUSD:   dexmath.Zero,
			}
		}

		// An uncompleted mint right before a burn is the protocol fee
		// mint. Fold it into the burn and drop the mint record.
		if len(transaction.Mints) > 0 {
			lastMint, err := m.store.Mint(ctx, transaction.Mints[len(transaction.Mints)-1])
			if err != nil {
				return err
			}
			if lastMint.Sender == "" {
				burn.FeeTo = lastMint.To
				burn.FeeLiquidity = lastMint.Liquidity
				if err := m.store.DeleteMint(ctx, lastMint.ID); err != nil {
					return err
				}
				transaction.Mints = transaction.Mints[:len(transaction.Mints)-1]
			}
		}

		if err := m.store.SaveBurn(ctx, burn); err != nil {
			return err
		}
		if reused {
			transaction.Burns[len(transaction.Burns)-1] = burn.ID
		} else {
			transaction.Burns = append(transaction.Burns, burn.ID)
		}
		if err := m.store.SaveTransaction(ctx, transaction); err != nil {
			return err
		}
	}

	// Track LP balances for real holders.
	if addr(from) != addressZero && addr(from) != pair.ID {
		position, err := m.createLiquidityPosition(ctx, event.Address, from)
		if err != nil {
			return err
		}
		position.LiquidityTokenBalance = position.LiquidityTokenBalance.Sub(liquidity)
		if err := m.store.SaveLiquidityPosition(ctx, position); err != nil {
			return err
		}
		if err := m.createLiquiditySnapshot(ctx, position, event); err != nil {
			return err
		}
	}
	if addr(to) != addressZero && addr(to) != pair.ID {
		position, err := m.createLiquidityPosition(ctx, event.Address, to)
		if err != nil {
			return err
		}
		position.LiquidityTokenBalance = position.LiquidityTokenBalance.Add(liquidity)
		if err := m.store.SaveLiquidityPosition(ctx, position); err != nil {
			return err
		}
		if err := m.createLiquiditySnapshot(ctx, position, event); err != nil {
			return err
		}
	}

	return nil
}

func handleSync(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	pair, err := m.loadTrackedPair(ctx, event)
	if err != nil || pair == nil {
		return err
	}
	token0, err := m.store.Token(ctx, pair.Token0)
	if err != nil {
		return err
	}
	token1, err := m.store.Token(ctx, pair.Token1)
	if err != nil {
		return err
	}
	factory, err := m.getOrCreateFactory(ctx)
	if err != nil {
		return err
	}

	// Back out this pair's old contribution before recomputing.
	factory.TotalLiquidityNative = factory.TotalLiquidityNative.Sub(pair.TrackedReserveNative)
	token0.TotalLiquidity = token0.TotalLiquidity.Sub(pair.Reserve0)
	token1.TotalLiquidity = token1.TotalLiquidity.Sub(pair.Reserve1)

	pair.Reserve0 = dexmath.ToDecimal(argBigInt(event, "reserve0"), token0.Decimals)
	pair.Reserve1 = dexmath.ToDecimal(argBigInt(event, "reserve1"), token1.Decimals)
	pair.Token0Price = dexmath.SafeDiv(pair.Reserve0, pair.Reserve1)
	pair.Token1Price = dexmath.SafeDiv(pair.Reserve1, pair.Reserve0)
	pair.SyncBlockNumber = event.BlockNumber
	if err := m.store.SavePair(ctx, pair); err != nil {
		return err
	}

	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return err
	}
	bundle.NativePriceUSD, err = m.nativePriceUSD(ctx)
	if err != nil {
		return err
	}
	bundle.SyncBlockNumber = event.BlockNumber
	if err := m.store.SaveBundle(ctx, bundle); err != nil {
		return err
	}

	token0.DerivedNative, err = m.findNativePerToken(ctx, token0)
	if err != nil {
		return err
	}
	token0.SyncBlockNumber = event.BlockNumber
	if err := m.store.SaveToken(ctx, token0); err != nil {
		return err
	}
	token1.DerivedNative, err = m.findNativePerToken(ctx, token1)
	if err != nil {
		return err
	}
	token1.SyncBlockNumber = event.BlockNumber
	if err := m.store.SaveToken(ctx, token1); err != nil {
		return err
	}

	trackedLiquidityNative := dexmath.Zero
	if !bundle.NativePriceUSD.IsZero() {
		trackedUSD, err := m.trackedLiquidityUSD(ctx, pair.Reserve0, token0, pair.Reserve1, token1)
		if err != nil {
			return err
		}
		trackedLiquidityNative = trackedUSD.Div(bundle.NativePriceUSD)
	}

	pair.TrackedReserveNative = trackedLiquidityNative
	pair.ReserveNative = pair.Reserve0.Mul(token0.DerivedNative).
		Add(pair.Reserve1.Mul(token1.DerivedNative))
	pair.ReserveUSD = pair.ReserveNative.Mul(bundle.NativePriceUSD)

	factory.TotalLiquidityNative = factory.TotalLiquidityNative.Add(trackedLiquidityNative)
	factory.TotalLiquidityUSD = factory.TotalLiquidityNative.Mul(bundle.NativePriceUSD)
	factory.SyncBlockNumber = event.BlockNumber

	token0.TotalLiquidity = token0.TotalLiquidity.Add(pair.Reserve0)
	token1.TotalLiquidity = token1.TotalLiquidity.Add(pair.Reserve1)

	if err := m.store.SavePair(ctx, pair); err != nil {
		return err
	}
	if err := m.store.SaveFactory(ctx, factory); err != nil {
		return err
	}
	if err := m.store.SaveToken(ctx, token0); err != nil {
		return err
	}
	return m.store.SaveToken(ctx, token1)
}

func handleMint(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	transaction, err := m.store.Transaction(ctx, strings.ToLower(event.TransactionHash.Hex()))
	if errors.Is(err, store.ErrNotFound) {
		// The matching LP transfer never arrived.
		return nil
	}
	if err != nil {
		return err
	}
	if len(transaction.Mints) == 0 {
		return nil
	}
	mint, err := m.store.Mint(ctx, transaction.Mints[len(transaction.Mints)-1])
	if err != nil {
		return err
	}

	pair, err := m.loadTrackedPair(ctx, event)
	if err != nil || pair == nil {
		return err
	}
	factory, err := m.getOrCreateFactory(ctx)
	if err != nil {
		return err
	}
	token0, err := m.store.Token(ctx, pair.Token0)
	if err != nil {
		return err
	}
	token1, err := m.store.Token(ctx, pair.Token1)
	if err != nil {
		return err
	}

	amount0 := dexmath.ToDecimal(argBigInt(event, "amount0"), token0.Decimals)
	amount1 := dexmath.ToDecimal(argBigInt(event, "amount1"), token1.Decimals)

	token0.TxCount++
	token1.TxCount++

	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return err
	}
	amountTotalUSD := token1.DerivedNative.Mul(amount1).
		Add(token0.DerivedNative.Mul(amount0)).
		Mul(bundle.NativePriceUSD)

	pair.TxCount++
	factory.TxCount++
	pair.SyncBlockNumber = event.BlockNumber
	factory.SyncBlockNumber = event.BlockNumber
	token0.SyncBlockNumber = event.BlockNumber
	token1.SyncBlockNumber = event.BlockNumber

	if err := m.store.SaveToken(ctx, token0); err != nil {
		return err
	}
	if err := m.store.SaveToken(ctx, token1); err != nil {
		return err
	}
	if err := m.store.SavePair(ctx, pair); err != nil {
		return err
	}
	if err := m.store.SaveFactory(ctx, factory); err != nil {
		return err
	}

	mint.Sender = addr(argAddress(event, "sender"))
	mint.Amount0 = amount0
	mint.Amount1 = amount1
	mint.LogIndex = event.LogIndex
	mint.AmountUSD = amountTotalUSD
	if err := m.store.SaveMint(ctx, mint); err != nil {
		return err
	}

	position, err := m.createLiquidityPosition(ctx, event.Address, common.HexToAddress(mint.To))
	if err != nil {
		return err
	}
	if err := m.createLiquiditySnapshot(ctx, position, event); err != nil {
		return err
	}

	return m.updateAggregates(ctx, pair.ID, token0, token1, event)
}

func handleBurn(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	transaction, err := m.store.Transaction(ctx, strings.ToLower(event.TransactionHash.Hex()))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(transaction.Burns) == 0 {
		return nil
	}
	burn, err := m.store.Burn(ctx, transaction.Burns[len(transaction.Burns)-1])
	if err != nil {
		return err
	}

	pair, err := m.loadTrackedPair(ctx, event)
	if err != nil || pair == nil {
		return err
	}
	factory, err := m.getOrCreateFactory(ctx)
	if err != nil {
		return err
	}
	token0, err := m.store.Token(ctx, pair.Token0)
	if err != nil {
		return err
	}
	token1, err := m.store.Token(ctx, pair.Token1)
	if err != nil {
		return err
	}

	amount0 := dexmath.ToDecimal(argBigInt(event, "amount0"), token0.Decimals)
	amount1 := dexmath.ToDecimal(argBigInt(event, "amount1"), token1.Decimals)

	token0.TxCount++
	token1.TxCount++

	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return err
	}
	amountTotalUSD := token1.DerivedNative.Mul(amount1).
		Add(token0.DerivedNative.Mul(amount0)).
		Mul(bundle.NativePriceUSD)

	factory.TxCount++
	factory.SyncBlockNumber = event.BlockNumber
	token0.SyncBlockNumber = event.BlockNumber
	token1.SyncBlockNumber = event.BlockNumber

	if err := m.store.SaveToken(ctx, token0); err != nil {
		return err
	}
	if err := m.store.SaveToken(ctx, token1); err != nil {
		return err
	}
	if err := m.store.SaveFactory(ctx, factory); err != nil {
		return err
	}

	burn.Sender = addr(argAddress(event, "sender"))
	burn.Amount0 = amount0
	burn.Amount1 = amount1
	burn.LogIndex = event.LogIndex
	burn.AmountUSD = amountTotalUSD
	if err := m.store.SaveBurn(ctx, burn); err != nil {
		return err
	}

	position, err := m.createLiquidityPosition(ctx, event.Address, argAddress(event, "sender"))
	if err != nil {
		return err
	}
	if err := m.createLiquiditySnapshot(ctx, position, event); err != nil {
		return err
	}

	return m.updateAggregates(ctx, pair.ID, token0, token1, event)
}

func handleSwap(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	pair, err := m.loadTrackedPair(ctx, event)
	if err != nil || pair == nil {
		return err
	}
	token0, err := m.store.Token(ctx, pair.Token0)
	if err != nil {
		return err
	}
	token1, err := m.store.Token(ctx, pair.Token1)
	if err != nil {
		return err
	}

	amount0In := dexmath.ToDecimal(argBigInt(event, "amount0In"), token0.Decimals)
	amount1In := dexmath.ToDecimal(argBigInt(event, "amount1In"), token1.Decimals)
	amount0Out := dexmath.ToDecimal(argBigInt(event, "amount0Out"), token0.Decimals)
	amount1Out := dexmath.ToDecimal(argBigInt(event, "amount1Out"), token1.Decimals)

	amount0Total := amount0In.Add(amount0Out)
	amount1Total := amount1In.Add(amount1Out)

	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return err
	}

	// Volume in native terms averaged over both legs of the trade.
	derivedAmountNative := token1.DerivedNative.Mul(amount1Total).
		Add(token0.DerivedNative.Mul(amount0Total)).
		Div(two)
	derivedAmountUSD := derivedAmountNative.Mul(bundle.NativePriceUSD)

	trackedAmountUSD, err := m.trackedVolumeUSD(ctx, amount0Total, token0, amount1Total, token1, pair)
	if err != nil {
		return err
	}
	trackedAmountNative := dexmath.SafeDiv(trackedAmountUSD, bundle.NativePriceUSD)

	token0.TradeVolume = token0.TradeVolume.Add(amount0Total)
	token0.TradeVolumeUSD = token0.TradeVolumeUSD.Add(trackedAmountUSD)
	token0.UntrackedVolumeUSD = token0.UntrackedVolumeUSD.Add(derivedAmountUSD)
	token1.TradeVolume = token1.TradeVolume.Add(amount1Total)
	token1.TradeVolumeUSD = token1.TradeVolumeUSD.Add(trackedAmountUSD)
	token1.UntrackedVolumeUSD = token1.UntrackedVolumeUSD.Add(derivedAmountUSD)
	token0.TxCount++
	token1.TxCount++
	token0.SyncBlockNumber = event.BlockNumber
	token1.SyncBlockNumber = event.BlockNumber

	pair.VolumeUSD = pair.VolumeUSD.Add(trackedAmountUSD)
	pair.VolumeToken0 = pair.VolumeToken0.Add(amount0Total)
	pair.VolumeToken1 = pair.VolumeToken1.Add(amount1Total)
	pair.UntrackedVolumeUSD = pair.UntrackedVolumeUSD.Add(derivedAmountUSD)
	pair.TxCount++
	pair.SyncBlockNumber = event.BlockNumber
	if err := m.store.SavePair(ctx, pair); err != nil {
		return err
	}

	factory, err := m.getOrCreateFactory(ctx)
	if err != nil {
		return err
	}
	factory.TotalVolumeUSD = factory.TotalVolumeUSD.Add(trackedAmountUSD)
	factory.TotalVolumeNative = factory.TotalVolumeNative.Add(trackedAmountNative)
	factory.UntrackedVolumeUSD = factory.UntrackedVolumeUSD.Add(derivedAmountUSD)
	factory.TxCount++
	factory.SyncBlockNumber = event.BlockNumber

	if err := m.store.SaveToken(ctx, token0); err != nil {
		return err
	}
	if err := m.store.SaveToken(ctx, token1); err != nil {
		return err
	}
	if err := m.store.SaveFactory(ctx, factory); err != nil {
		return err
	}

	transaction, err := m.createOrGetTransaction(ctx, event)
	if err != nil {
		return err
	}

	sender := argAddress(event, "sender")
	to := argAddress(event, "to")
	from, ok := m.transactionFrom(ctx, event)
	if !ok {
		from = addr(sender)
	}

	swap := &entity.Swap{
		ID:          fmt.Sprintf("%s-%d", transaction.ID, len(transaction.Swaps)),
		Transaction: transaction.ID,
		Timestamp:   event.Timestamp,
		Pair:        pair.ID,
		Sender:      addr(sender),
		From:        from,
		Amount0In:   amount0In,
		Amount1In:   amount1In,
		Amount0Out:  amount0Out,
		Amount1Out:  amount1Out,
		To:          addr(to),
		LogIndex:    event.LogIndex,
		AmountUSD:   trackedAmountUSD,
	}
	if swap.AmountUSD.IsZero() {
		swap.AmountUSD = derivedAmountUSD
	}
	if err := m.store.SaveSwap(ctx, swap); err != nil {
		return err
	}
	transaction.Swaps = append(transaction.Swaps, swap.ID)
	if err := m.store.SaveTransaction(ctx, transaction); err != nil {
		return err
	}

	if err := m.createUser(ctx, sender); err != nil {
		return err
	}
	if err := m.createUser(ctx, to); err != nil {
		return err
	}
	if err := m.createUser(ctx, common.HexToAddress(from)); err != nil {
		return err
	}
	user, err := m.store.User(ctx, from)
	if err != nil {
		return err
	}
	user.USDSwapped = user.USDSwapped.Add(trackedAmountUSD)
	if err := m.store.SaveUser(ctx, user); err != nil {
		return err
	}

	// Roll the trade into the time buckets.
	pairDayData, err := m.updatePairDayData(ctx, pair.ID, event)
	if err != nil {
		return err
	}
	pairHourData, err := m.updatePairHourData(ctx, pair.ID, event)
	if err != nil {
		return err
	}
	factoryDayData, err := m.updateFactoryDayData(ctx, event)
	if err != nil {
		return err
	}
	token0DayData, err := m.updateTokenDayData(ctx, token0, event)
	if err != nil {
		return err
	}
	token1DayData, err := m.updateTokenDayData(ctx, token1, event)
	if err != nil {
		return err
	}
	token0HourData, err := m.updateTokenHourData(ctx, token0, event)
	if err != nil {
		return err
	}
	token1HourData, err := m.updateTokenHourData(ctx, token1, event)
	if err != nil {
		return err
	}

	factoryDayData.DailyVolumeUSD = factoryDayData.DailyVolumeUSD.Add(trackedAmountUSD)
	factoryDayData.DailyVolumeNative = factoryDayData.DailyVolumeNative.Add(trackedAmountNative)
	factoryDayData.DailyVolumeUntracked = factoryDayData.DailyVolumeUntracked.Add(derivedAmountUSD)
	factoryDayData.TotalVolumeUSD = factory.TotalVolumeUSD
	factoryDayData.TotalVolumeNative = factory.TotalVolumeNative
	if err := m.store.SaveFactoryDayData(ctx, factoryDayData); err != nil {
		return err
	}

	pairDayData.DailyVolumeToken0 = pairDayData.DailyVolumeToken0.Add(amount0Total)
	pairDayData.DailyVolumeToken1 = pairDayData.DailyVolumeToken1.Add(amount1Total)
	pairDayData.DailyVolumeUSD = pairDayData.DailyVolumeUSD.Add(trackedAmountUSD)
	if err := m.store.SavePairDayData(ctx, pairDayData); err != nil {
		return err
	}

	pairHourData.HourlyVolumeToken0 = pairHourData.HourlyVolumeToken0.Add(amount0Total)
	pairHourData.HourlyVolumeToken1 = pairHourData.HourlyVolumeToken1.Add(amount1Total)
	pairHourData.HourlyVolumeUSD = pairHourData.HourlyVolumeUSD.Add(trackedAmountUSD)
	if err := m.store.SavePairHourData(ctx, pairHourData); err != nil {
		return err
	}

	token0DayData.DailyVolumeToken = token0DayData.DailyVolumeToken.Add(amount0Total)
	token0DayData.DailyVolumeNative = token0DayData.DailyVolumeNative.Add(amount0Total.Mul(token0.DerivedNative))
	token0DayData.DailyVolumeUSD = token0DayData.DailyVolumeUSD.Add(amount0Total.Mul(token0.DerivedNative).Mul(bundle.NativePriceUSD))
	if err := m.store.SaveTokenDayData(ctx, token0DayData); err != nil {
		return err
	}

	token1DayData.DailyVolumeToken = token1DayData.DailyVolumeToken.Add(amount1Total)
	token1DayData.DailyVolumeNative = token1DayData.DailyVolumeNative.Add(amount1Total.Mul(token1.DerivedNative))
	token1DayData.DailyVolumeUSD = token1DayData.DailyVolumeUSD.Add(amount1Total.Mul(token1.DerivedNative).Mul(bundle.NativePriceUSD))
	if err := m.store.SaveTokenDayData(ctx, token1DayData); err != nil {
		return err
	}

	token0HourData.HourlyVolumeToken = token0HourData.HourlyVolumeToken.Add(amount0Total)
	token0HourData.HourlyVolumeNative = token0HourData.HourlyVolumeNative.Add(amount0Total.Mul(token0.DerivedNative))
	token0HourData.HourlyVolumeUSD = token0HourData.HourlyVolumeUSD.Add(amount0Total.Mul(token0.DerivedNative).Mul(bundle.NativePriceUSD))
	if err := m.store.SaveTokenHourData(ctx, token0HourData); err != nil {
		return err
	}

	token1HourData.HourlyVolumeToken = token1HourData.HourlyVolumeToken.Add(amount1Total)
	token1HourData.HourlyVolumeNative = token1HourData.HourlyVolumeNative.Add(amount1Total.Mul(token1.DerivedNative))
	token1HourData.HourlyVolumeUSD = token1HourData.HourlyVolumeUSD.Add(amount1Total.Mul(token1.DerivedNative).Mul(bundle.NativePriceUSD))
	return m.store.SaveTokenHourData(ctx, token1HourData)
}

// updateAggregates refreshes the standard time buckets after a mint or
// burn, which carry no volume deltas of their own.
func (m *JswapModule) updateAggregates(ctx context.Context, pairAddress string, token0, token1 *entity.Token, event *core.ParsedEvent) error {
	if _, err := m.updatePairDayData(ctx, pairAddress, event); err != nil {
		return err
	}
	if _, err := m.updatePairHourData(ctx, pairAddress, event); err != nil {
		return err
	}
	if _, err := m.updateFactoryDayData(ctx, event); err != nil {
		return err
	}
	if _, err := m.updateTokenDayData(ctx, token0, event); err != nil {
		return err
	}
	if _, err := m.updateTokenDayData(ctx, token1, event); err != nil {
		return err
	}
	if _, err := m.updateTokenHourData(ctx, token0, event); err != nil {
		return err
	}
	if _, err := m.updateTokenHourData(ctx, token1, event); err != nil {
		return err
	}
	return nil
}
