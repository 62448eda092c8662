package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// UpdateLedgerParams replaces the operator-mutable configuration. The
// referral table must always carry exactly five decaying levels.
func (s *Service) UpdateLedgerParams(
	ctx context.Context, params *model.LedgerParamsDocument,
) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if params.DailyInterestRate < 0 {
		return types.NewValidationFailedError(errors.New("daily interest rate must not be negative"))
	}
	if params.SignupBonus < 0 {
		return types.NewValidationFailedError(errors.New("signup bonus must not be negative"))
	}
	if params.TokenToStableRate <= 0 {
		return types.NewValidationFailedError(errors.New("token-to-stable rate must be positive"))
	}
	if len(params.ReferralPermille) != config.ReferralLevels {
		return types.NewValidationFailedError(
			fmt.Errorf("referral table must have exactly %d entries", config.ReferralLevels),
		)
	}
	for i, p := range params.ReferralPermille {
		if p < 0 || p > 1000 {
			return types.NewValidationFailedError(
				fmt.Errorf("referral table entry %d must be within [0, 1000]", i),
			)
		}
	}

	if err := s.db.SaveLedgerParams(ctx, params); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to save ledger params: %w", err),
		)
	}

	log.Ctx(ctx).Info().
		Int64("daily_interest_rate", params.DailyInterestRate).
		Int64("signup_bonus", params.SignupBonus).
		Int64("token_to_stable_rate", params.TokenToStableRate).
		Msg("updated ledger params")
	return nil
}

func (s *Service) PauseOperations(ctx context.Context, paused bool) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.db.SetPausedForOperations(ctx, paused); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to set operations pause flag: %w", err),
		)
	}
	log.Ctx(ctx).Info().Bool("paused", paused).Msg("toggled operations pause")
	return nil
}

func (s *Service) PauseWithdrawals(ctx context.Context, paused bool) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.db.SetPausedForWithdrawals(ctx, paused); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to set withdrawals pause flag: %w", err),
		)
	}
	log.Ctx(ctx).Info().Bool("paused", paused).Msg("toggled withdrawals pause")
	return nil
}

func (s *Service) FlagProgramIdentity(ctx context.Context, address string, flagged bool) *types.Error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if address == "" {
		return types.NewValidationFailedError(errors.New("address is required"))
	}

	var err error
	if flagged {
		err = s.db.FlagProgramIdentity(ctx, address, s.clock.Now())
	} else {
		err = s.db.UnflagProgramIdentity(ctx, address)
	}
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to update program identity flag of %s: %w", address, err),
		)
	}

	log.Ctx(ctx).Info().
		Str("address", address).
		Bool("flagged", flagged).
		Msg("updated program identity flag")
	return nil
}
