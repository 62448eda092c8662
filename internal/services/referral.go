package services

import (
	"context"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/observability/metrics"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// permilleShare computes floor(amount * permille / 1000).
func permilleShare(amount, permille int64) int64 {
	if amount <= 0 || permille <= 0 {
		return 0
	}
	return sdkmath.NewInt(amount).MulRaw(permille).QuoRaw(1000).Int64()
}

// runReferralCascade walks the referrer chain for at most
// len(params.ReferralPermille) levels, crediting each referrer a decaying
// share of the original reward. The share is always taken from the
// original reward, not from the previous level's payout. An empty
// referrer or a dangling account ends the walk early; the fixed iteration
// bound guarantees termination even on cyclic chains loaded through the
// migration path. Caller holds opMu.
func (s *Service) runReferralCascade(
	ctx context.Context,
	params *model.LedgerParamsDocument,
	source string,
	firstReferrer string,
	reward int64,
	now time.Time,
) *types.Error {
	referrer := firstReferrer
	for level := 0; level < len(params.ReferralPermille); level++ {
		if referrer == "" {
			break
		}

		account, err := s.db.GetAccount(ctx, referrer)
		if err != nil {
			if db.IsNotFoundError(err) {
				// Dangling link from a bulk load; treat as terminal.
				log.Ctx(ctx).Warn().
					Str("referrer", referrer).
					Int("level", level).
					Msg("referral chain points at an unknown account")
				break
			}
			return types.NewInternalServiceError(
				fmt.Errorf("failed to load referrer %s: %w", referrer, err),
			)
		}

		credit := permilleShare(reward, params.ReferralPermille[level])
		if credit > 0 {
			if err := s.db.CreditReferralReward(ctx, referrer, credit); err != nil {
				return types.NewInternalServiceError(
					fmt.Errorf("failed to credit referral reward ledger for %s: %w", referrer, err),
				)
			}
			if err := s.db.CreditClaimable(ctx, referrer, credit); err != nil {
				return types.NewInternalServiceError(
					fmt.Errorf("failed to credit claimable balance for %s: %w", referrer, err),
				)
			}
			metrics.IncReferralRewardsCredited()
			s.emit(ctx, &types.LedgerEvent{
				EventType:     types.EventReferralReward,
				Address:       referrer,
				Timestamp:     now,
				Amount:        credit,
				Referrer:      source,
				ReferralLevel: level + 1,
			})
		}

		referrer = account.Referrer
	}
	return nil
}
