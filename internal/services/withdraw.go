package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// WithdrawStable pays out claimable balance: the operator takes the fixed
// fee and the caller receives the remainder. Sufficiency is an explicit
// guarded check; the stored balance can never wrap below zero.
func (s *Service) WithdrawStable(ctx context.Context, caller string, amount int64) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if amount <= 0 {
		return types.NewValidationFailedError(errors.New("withdrawal amount must be positive"))
	}

	params, tErr := s.ledgerParams(ctx)
	if tErr != nil {
		return tErr
	}
	// Withdrawals have their own pause flag, independent from the
	// general operations pause.
	if tErr := s.requireWithdrawalsActive(params); tErr != nil {
		return tErr
	}
	if tErr := s.requireExternalCaller(ctx, caller); tErr != nil {
		return tErr
	}

	account, err := s.db.GetAccount(ctx, caller)
	if err != nil {
		return accountLookupError(caller, err)
	}
	if account.ClaimableBalance < amount {
		return types.NewErrorWithMsg(
			http.StatusBadRequest,
			types.InsufficientBalance,
			"claimable balance is smaller than the withdrawal amount",
		)
	}

	fee := percentShare(amount, feePercent)
	remainder := amount - fee

	if fee > 0 {
		if err := s.stableLedger.Transfer(ctx, s.feeAddress(), fee); err != nil {
			return types.NewInternalServiceError(
				fmt.Errorf("failed to forward withdrawal fee: %w", err),
			)
		}
	}
	if err := s.stableLedger.Transfer(ctx, caller, remainder); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to pay out withdrawal to %s: %w", caller, err),
		)
	}

	if err := s.db.DebitClaimable(ctx, caller, amount); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to debit claimable balance of %s: %w", caller, err),
		)
	}

	now := s.clock.Now()
	log.Ctx(ctx).Info().
		Str("caller", caller).
		Int64("amount", amount).
		Int64("fee", fee).
		Msg("withdrew stable assets")

	s.emit(ctx, &types.LedgerEvent{
		EventType:    types.EventWithdrawal,
		Address:      caller,
		Timestamp:    now,
		Amount:       amount,
		FeeAmount:    fee,
		StableAmount: remainder,
	})
	return nil
}
