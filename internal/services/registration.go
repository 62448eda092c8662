package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/observability/metrics"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
	"github.com/rewardlabs-io/reward-ledger/pkg"
)

// RegisterAccount signs an identity up exactly once, stamps the accrual
// clock, appends it to the registry and credits the signup bonus from
// custody.
func (s *Service) RegisterAccount(ctx context.Context, address, referrer string) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := pkg.ValidateAddress(address); err != nil {
		return types.NewValidationFailedError(fmt.Errorf("invalid address: %w", err))
	}

	params, tErr := s.ledgerParams(ctx)
	if tErr != nil {
		return tErr
	}
	if tErr := s.requireOperationsActive(params); tErr != nil {
		return tErr
	}
	if tErr := s.requireExternalCaller(ctx, address); tErr != nil {
		return tErr
	}

	if _, err := s.db.GetAccount(ctx, address); err == nil {
		return types.NewErrorWithMsg(
			http.StatusConflict,
			types.AlreadyRegistered,
			fmt.Sprintf("account %s is already registered", address),
		)
	} else if !db.IsNotFoundError(err) {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to look up account %s: %w", address, err),
		)
	}

	resolvedReferrer := s.resolveReferrer(address, referrer)

	// Value moves before local state; every local write below can only
	// fail on infrastructure errors, not on business conditions.
	if params.SignupBonus > 0 {
		if err := s.tokenLedger.Transfer(ctx, address, params.SignupBonus); err != nil {
			return types.NewInternalServiceError(
				fmt.Errorf("failed to credit signup bonus to %s: %w", address, err),
			)
		}
	}

	position, err := s.db.NextRegistryPosition(ctx)
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to reserve registry position: %w", err),
		)
	}

	now := s.clock.Now()
	accountDoc := &model.AccountDocument{
		Address:       address,
		Registered:    true,
		LastClaimTime: now,
		Referrer:      resolvedReferrer,
		Position:      position,
		CreatedAt:     now,
	}
	if err := s.db.SaveNewAccount(ctx, accountDoc); err != nil {
		if db.IsDuplicateKeyError(err) {
			return types.NewErrorWithMsg(
				http.StatusConflict,
				types.AlreadyRegistered,
				fmt.Sprintf("account %s is already registered", address),
			)
		}
		return types.NewInternalServiceError(
			fmt.Errorf("failed to save account %s: %w", address, err),
		)
	}

	if count, err := s.db.GetAccountCount(ctx); err == nil {
		metrics.SetRegisteredAccounts(count)
	}

	log.Ctx(ctx).Info().
		Str("address", address).
		Str("referrer", resolvedReferrer).
		Int64("signup_bonus", params.SignupBonus).
		Msg("registered account")

	s.emit(ctx, &types.LedgerEvent{
		EventType: types.EventSignup,
		Address:   address,
		Timestamp: now,
		Amount:    params.SignupBonus,
		Referrer:  resolvedReferrer,
	})
	return nil
}

// SetAccountBalance is the trusted bulk-migration path: it force-sets the
// claimable balance and marks the identity registered unconditionally,
// creating the account when needed. No accrual settlement happens here.
func (s *Service) SetAccountBalance(
	ctx context.Context, address string, amount int64, referrer string,
) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if address == "" {
		return types.NewValidationFailedError(errors.New("address is required"))
	}
	if amount < 0 {
		return types.NewValidationFailedError(errors.New("amount must not be negative"))
	}

	now := s.clock.Now()

	_, err := s.db.GetAccount(ctx, address)
	switch {
	case err == nil:
		// The referrer of an existing account is never re-linked.
		if err := s.db.ForceSetBalance(ctx, address, amount); err != nil {
			return types.NewInternalServiceError(
				fmt.Errorf("failed to force-set balance of %s: %w", address, err),
			)
		}
	case db.IsNotFoundError(err):
		position, err := s.db.NextRegistryPosition(ctx)
		if err != nil {
			return types.NewInternalServiceError(
				fmt.Errorf("failed to reserve registry position: %w", err),
			)
		}
		accountDoc := &model.AccountDocument{
			Address:          address,
			Registered:       true,
			ClaimableBalance: amount,
			LastClaimTime:    now,
			Referrer:         s.resolveReferrer(address, referrer),
			Position:         position,
			CreatedAt:        now,
		}
		if err := s.db.SaveNewAccount(ctx, accountDoc); err != nil {
			return types.NewInternalServiceError(
				fmt.Errorf("failed to save account %s: %w", address, err),
			)
		}
		if count, err := s.db.GetAccountCount(ctx); err == nil {
			metrics.SetRegisteredAccounts(count)
		}
	default:
		return types.NewInternalServiceError(
			fmt.Errorf("failed to look up account %s: %w", address, err),
		)
	}

	log.Ctx(ctx).Info().
		Str("address", address).
		Int64("amount", amount).
		Msg("force-set account balance")

	s.emit(ctx, &types.LedgerEvent{
		EventType: types.EventBalanceSet,
		Address:   address,
		Timestamp: now,
		Amount:    amount,
	})
	return nil
}
