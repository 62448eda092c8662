package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// DistributeDailyRewards settles accrual for the first count identities
// in registration order and reports the percentage of the registry
// processed. Zero-stake accounts credit nothing but still advance their
// accrual clock, so sweeping the full registry advances every account.
// There is no resume state; callers track progress across invocations.
func (s *Service) DistributeDailyRewards(ctx context.Context, count int64) (float64, *types.Error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if count <= 0 {
		return 0, types.NewValidationFailedError(errors.New("count must be positive"))
	}

	params, tErr := s.ledgerParams(ctx)
	if tErr != nil {
		return 0, tErr
	}

	total, err := s.db.GetAccountCount(ctx)
	if err != nil {
		return 0, types.NewInternalServiceError(
			fmt.Errorf("failed to count accounts: %w", err),
		)
	}
	if count > total {
		return 0, types.NewErrorWithMsg(
			http.StatusBadRequest,
			types.RegistryExceeded,
			fmt.Sprintf("count %d exceeds registry size %d", count, total),
		)
	}

	accounts, err := s.db.GetAccountsByPosition(ctx, count)
	if err != nil {
		return 0, types.NewInternalServiceError(
			fmt.Errorf("failed to load accounts: %w", err),
		)
	}

	now := s.clock.Now()
	var settled int64
	for _, account := range accounts {
		credit, tErr := s.settleAccount(ctx, account, params, now)
		if tErr != nil {
			return 0, tErr
		}
		settled += credit
	}

	processed := float64(count) * 100 / float64(total)
	log.Ctx(ctx).Info().
		Int64("count", count).
		Int64("total", total).
		Int64("settled_amount", settled).
		Float64("processed_pct", processed).
		Msg("swept accrual over the registry")

	return processed, nil
}
