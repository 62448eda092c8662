package services

import (
	"context"
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// feePercent is the fixed cut forwarded to the operator on swaps and
// withdrawals.
const feePercent = 5

func percentShare(amount, percent int64) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return sdkmath.NewInt(amount).MulRaw(percent).QuoRaw(100).Int64()
}

// swapTokenAmount converts a stable amount into token units:
// floor(stableAmount * 100 / tokenToStableRate).
func swapTokenAmount(stableAmount, tokenToStableRate int64) int64 {
	if stableAmount <= 0 || tokenToStableRate <= 0 {
		return 0
	}
	return sdkmath.NewInt(stableAmount).MulRaw(100).QuoRaw(tokenToStableRate).Int64()
}

// Swap pulls stable assets from the caller into custody, pays the
// operator fee, sends the converted token amount back and runs the
// referral cascade on the token amount.
func (s *Service) Swap(ctx context.Context, caller string, stableAmount int64) (int64, *types.Error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if caller == "" {
		return 0, types.NewValidationFailedError(errors.New("caller is required"))
	}
	if stableAmount <= 0 {
		return 0, types.NewValidationFailedError(errors.New("stable amount must be positive"))
	}

	params, tErr := s.ledgerParams(ctx)
	if tErr != nil {
		return 0, tErr
	}
	if tErr := s.requireOperationsActive(params); tErr != nil {
		return 0, tErr
	}
	if tErr := s.requireExternalCaller(ctx, caller); tErr != nil {
		return 0, tErr
	}

	tokenAmount := swapTokenAmount(stableAmount, params.TokenToStableRate)
	fee := percentShare(stableAmount, feePercent)

	// A caller without an account can still swap; it simply has no
	// referrer to cascade to.
	referrer := ""
	account, err := s.db.GetAccount(ctx, caller)
	switch {
	case err == nil:
		referrer = account.Referrer
	case db.IsNotFoundError(err):
	default:
		return 0, types.NewInternalServiceError(
			fmt.Errorf("failed to look up account %s: %w", caller, err),
		)
	}

	if err := s.stableLedger.TransferFrom(ctx, caller, s.cfg.Ledger.CustodyAddress, stableAmount); err != nil {
		return 0, types.NewInternalServiceError(
			fmt.Errorf("failed to pull stable amount from %s: %w", caller, err),
		)
	}
	if fee > 0 {
		if err := s.stableLedger.Transfer(ctx, s.feeAddress(), fee); err != nil {
			return 0, types.NewInternalServiceError(
				fmt.Errorf("failed to forward swap fee: %w", err),
			)
		}
	}
	if err := s.tokenLedger.Transfer(ctx, caller, tokenAmount); err != nil {
		return 0, types.NewInternalServiceError(
			fmt.Errorf("failed to transfer tokens to %s: %w", caller, err),
		)
	}

	now := s.clock.Now()
	if referrer != "" {
		if tErr := s.runReferralCascade(ctx, params, caller, referrer, tokenAmount, now); tErr != nil {
			return 0, tErr
		}
	}

	log.Ctx(ctx).Info().
		Str("caller", caller).
		Int64("stable_amount", stableAmount).
		Int64("token_amount", tokenAmount).
		Int64("fee", fee).
		Msg("swapped stable for tokens")

	s.emit(ctx, &types.LedgerEvent{
		EventType:    types.EventSwap,
		Address:      caller,
		Timestamp:    now,
		StableAmount: stableAmount,
		TokenAmount:  tokenAmount,
		FeeAmount:    fee,
	})
	return tokenAmount, nil
}
