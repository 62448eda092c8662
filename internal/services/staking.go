package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// Stake pulls tokens from the caller into custody and adds them to the
// staked balance. Staking resets the accrual clock for the entire staked
// balance, not just the increment; this is a documented simplification.
func (s *Service) Stake(ctx context.Context, caller string, amount int64) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if amount <= 0 {
		return types.NewValidationFailedError(errors.New("stake amount must be positive"))
	}

	params, tErr := s.ledgerParams(ctx)
	if tErr != nil {
		return tErr
	}
	if tErr := s.requireOperationsActive(params); tErr != nil {
		return tErr
	}
	if tErr := s.requireExternalCaller(ctx, caller); tErr != nil {
		return tErr
	}

	if _, err := s.db.GetAccount(ctx, caller); err != nil {
		return accountLookupError(caller, err)
	}

	balance, err := s.tokenLedger.BalanceOf(ctx, caller)
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to read token balance of %s: %w", caller, err),
		)
	}
	if balance < amount {
		return types.NewErrorWithMsg(
			http.StatusBadRequest,
			types.InsufficientBalance,
			"token balance is smaller than the stake amount",
		)
	}

	if err := s.tokenLedger.TransferFrom(ctx, caller, s.cfg.Ledger.CustodyAddress, amount); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to pull stake from %s: %w", caller, err),
		)
	}

	now := s.clock.Now()
	if err := s.db.IncrementStake(ctx, caller, amount, now); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to increment stake of %s: %w", caller, err),
		)
	}

	log.Ctx(ctx).Info().
		Str("caller", caller).
		Int64("amount", amount).
		Msg("staked tokens")

	s.emit(ctx, &types.LedgerEvent{
		EventType: types.EventStake,
		Address:   caller,
		Timestamp: now,
		Amount:    amount,
	})
	return nil
}

// Unstake settles pending accrual up to the unstake instant, then
// decrements the staked balance and returns the tokens from custody.
func (s *Service) Unstake(ctx context.Context, caller string, amount int64) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if amount <= 0 {
		return types.NewValidationFailedError(errors.New("unstake amount must be positive"))
	}

	params, tErr := s.ledgerParams(ctx)
	if tErr != nil {
		return tErr
	}
	if tErr := s.requireOperationsActive(params); tErr != nil {
		return tErr
	}
	if tErr := s.requireExternalCaller(ctx, caller); tErr != nil {
		return tErr
	}

	account, err := s.db.GetAccount(ctx, caller)
	if err != nil {
		return accountLookupError(caller, err)
	}
	if account.StakedAmount < amount {
		return types.NewErrorWithMsg(
			http.StatusBadRequest,
			types.InsufficientStake,
			"staked balance is smaller than the unstake amount",
		)
	}

	if err := s.tokenLedger.Transfer(ctx, caller, amount); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to return stake to %s: %w", caller, err),
		)
	}

	// The departing portion still earns up to this instant.
	now := s.clock.Now()
	credit, tErr := s.settleAccount(ctx, account, params, now)
	if tErr != nil {
		return tErr
	}
	if err := s.db.DecrementStake(ctx, caller, amount); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to decrement stake of %s: %w", caller, err),
		)
	}

	log.Ctx(ctx).Info().
		Str("caller", caller).
		Int64("amount", amount).
		Int64("accrued", credit).
		Msg("unstaked tokens")

	s.emit(ctx, &types.LedgerEvent{
		EventType:     types.EventUnstake,
		Address:       caller,
		Timestamp:     now,
		Amount:        amount,
		AccruedAmount: credit,
	})
	return nil
}
