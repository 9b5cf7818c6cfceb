package jswap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/dexmath"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/entity"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
	"github.com/jswap-finance/jswap-subgraph-v2/internal/store"
)

func handleClaim(ctx context.Context, m *JswapModule, event *core.ParsedEvent) error {
	amount := argBigInt(event, "amount")
	if amount.Sign() == 0 {
		return nil
	}

	trackAddress := addr(event.Address)
	track, err := m.store.PairFeesTrack(ctx, trackAddress)
	if errors.Is(err, store.ErrNotFound) {
		// The tracker shares its pair's address, so a claim from an
		// address we never saw a pair at is not ours to index.
		if _, pairErr := m.store.Pair(ctx, trackAddress); pairErr != nil {
			if errors.Is(pairErr, store.ErrNotFound) {
				m.logger.Warn().
					Str("tracker", trackAddress).
					Str("tx", event.TransactionHash.Hex()).
					Msg("Claim from unknown dividend tracker")
				return nil
			}
			return pairErr
		}
		track, err = m.createPairTrack(ctx, event.Address, event.Address, event)
		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if track.FeeToken == "" {
		m.logger.Warn().
			Str("tracker", track.ID).
			Msg("Claim on tracker without a reward token")
		return nil
	}
	token, err := m.store.Token(ctx, track.FeeToken)
	if err != nil {
		return err
	}

	bundle, err := m.getOrCreateBundle(ctx)
	if err != nil {
		return err
	}
	transaction, err := m.createOrGetTransaction(ctx, event)
	if err != nil {
		return err
	}

	account := argAddress(event, "account")
	userFee, err := m.createOrGetUserFee(ctx, account)
	if err != nil {
		return err
	}

	tokenAmount := dexmath.ToDecimal(amount, token.Decimals)
	derivedAmountNative := token.DerivedNative.Mul(tokenAmount)
	derivedAmountUSD := derivedAmountNative.Mul(bundle.NativePriceUSD)

	claim := &entity.Claim{
		ID:          fmt.Sprintf("%s-%d", transaction.ID, len(transaction.Claims)),
		Transaction: transaction.ID,
		Timestamp:   event.Timestamp,
		Tracker:     track.ID,
		User:        userFee.ID,
		Amount:      tokenAmount,
		AmountUSD:   derivedAmountUSD,
		Automatic:   argBool(event, "automatic"),
		LogIndex:    event.LogIndex,
	}
	if err := m.store.SaveClaim(ctx, claim); err != nil {
		return err
	}
	transaction.Claims = append(transaction.Claims, claim.ID)
	if err := m.store.SaveTransaction(ctx, transaction); err != nil {
		return err
	}

	userFee.ClaimedUSD = userFee.ClaimedUSD.Add(derivedAmountUSD)
	userFee.TxCount++
	if err := m.store.SaveUserFee(ctx, userFee); err != nil {
		return err
	}

	userPairFee, err := m.createOrGetUserPairFee(ctx, account, track.Pair)
	if err != nil {
		return err
	}
	userPairFee.AccumulatedNative = userPairFee.AccumulatedNative.Add(derivedAmountNative)
	userPairFee.AccumulatedUSD = userPairFee.AccumulatedUSD.Add(derivedAmountUSD)
	userPairFee.TxCount++
	if err := m.store.SaveUserPairFee(ctx, userPairFee); err != nil {
		return err
	}

	track.AccumulatedNative = track.AccumulatedNative.Add(derivedAmountNative)
	track.AccumulatedUSD = track.AccumulatedUSD.Add(derivedAmountUSD)
	track.TxCount++
	track.SyncBlockNumber = event.BlockNumber
	return m.store.SavePairFeesTrack(ctx, track)
}
