package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

const secondsPerDay = 86400

// accruedAmount computes the time-proportional reward for a staked
// balance: floor(staked * rate * elapsed / 100 / 86400). The rate is
// percent per day; truncated fractions are permanently lost by design.
func accruedAmount(stakedAmount, dailyRate, elapsedSeconds int64) int64 {
	if stakedAmount <= 0 || dailyRate <= 0 || elapsedSeconds <= 0 {
		return 0
	}
	return sdkmath.NewInt(stakedAmount).
		MulRaw(dailyRate).
		MulRaw(elapsedSeconds).
		QuoRaw(100).
		QuoRaw(secondsPerDay).
		Int64()
}

// elapsedSince clamps the accrual window at zero so a clock that has not
// advanced (or an account stamped in the future) never produces a
// negative window.
func elapsedSince(lastClaimTime, now time.Time) int64 {
	elapsed := int64(now.Sub(lastClaimTime).Seconds())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// settleAccount converts pending accrual into claimable balance and
// resets the accrual clock. Caller holds opMu.
func (s *Service) settleAccount(
	ctx context.Context,
	account *model.AccountDocument,
	params *model.LedgerParamsDocument,
	now time.Time,
) (int64, *types.Error) {
	elapsed := elapsedSince(account.LastClaimTime, now)
	credit := accruedAmount(account.StakedAmount, params.DailyInterestRate, elapsed)

	if err := s.db.SettleAccrual(ctx, account.Address, credit, now); err != nil {
		return 0, types.NewInternalServiceError(
			fmt.Errorf("failed to settle accrual for %s: %w", account.Address, err),
		)
	}
	return credit, nil
}

// Claim settles pending accrual for the given account. It is a
// permissionless relayer trigger: any external caller may settle on
// behalf of any registered identity.
func (s *Service) Claim(ctx context.Context, caller, address string) (int64, *types.Error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

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

	account, err := s.db.GetAccount(ctx, address)
	if err != nil {
		return 0, accountLookupError(address, err)
	}
	if account.StakedAmount == 0 {
		return 0, types.NewErrorWithMsg(
			http.StatusBadRequest,
			types.NothingStaked,
			"account has nothing staked",
		)
	}

	now := s.clock.Now()
	credit, tErr := s.settleAccount(ctx, account, params, now)
	if tErr != nil {
		return 0, tErr
	}

	log.Ctx(ctx).Info().
		Str("address", address).
		Int64("accrued", credit).
		Msg("settled accrual")

	s.emit(ctx, &types.LedgerEvent{
		EventType:     types.EventClaim,
		Address:       address,
		Timestamp:     now,
		AccruedAmount: credit,
	})
	return credit, nil
}
