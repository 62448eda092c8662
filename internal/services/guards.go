package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

func (s *Service) requireOperationsActive(params *model.LedgerParamsDocument) *types.Error {
	if params.PausedForOperations {
		return types.NewErrorWithMsg(
			http.StatusServiceUnavailable,
			types.OperationsPaused,
			"ledger operations are paused",
		)
	}
	return nil
}

func (s *Service) requireWithdrawalsActive(params *model.LedgerParamsDocument) *types.Error {
	if params.PausedForWithdrawals {
		return types.NewErrorWithMsg(
			http.StatusServiceUnavailable,
			types.WithdrawalsPaused,
			"withdrawals are paused",
		)
	}
	return nil
}

// requireExternalCaller rejects identities flagged as programmatic. The
// on-chain "caller has code" heuristic is replaced by an explicit
// operator-maintained denylist.
func (s *Service) requireExternalCaller(ctx context.Context, caller string) *types.Error {
	isProgram, err := s.db.IsProgramIdentity(ctx, caller)
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to check program identity of %s: %w", caller, err),
		)
	}
	if isProgram {
		return types.NewErrorWithMsg(
			http.StatusForbidden,
			types.ProgramCallerDenied,
			"programmatic callers are not allowed",
		)
	}
	return nil
}

// resolveReferrer applies the registration fallback: self-referrals and
// absent referrers default to the operator identity.
func (s *Service) resolveReferrer(address, referrer string) string {
	if referrer == "" || referrer == address {
		return s.cfg.Ledger.OperatorAddress
	}
	return referrer
}

func (s *Service) feeAddress() string {
	if s.cfg.Ledger.FeeAddress != "" {
		return s.cfg.Ledger.FeeAddress
	}
	return s.cfg.Ledger.OperatorAddress
}
