package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// AccountView is a read-only snapshot of an account, with the pending
// accrual computed lazily from the stored state and the current time.
type AccountView struct {
	Address          string    `json:"address"`
	Registered       bool      `json:"registered"`
	StakedAmount     int64     `json:"staked_amount"`
	ClaimableBalance int64     `json:"claimable_balance"`
	PendingAccrual   int64     `json:"pending_accrual"`
	LastClaimTime    time.Time `json:"last_claim_time"`
	Referrer         string    `json:"referrer"`
	Position         int64     `json:"position"`
}

func (s *Service) GetAccount(ctx context.Context, address string) (*AccountView, *types.Error) {
	params, tErr := s.ledgerParams(ctx)
	if tErr != nil {
		return nil, tErr
	}

	account, err := s.db.GetAccount(ctx, address)
	if err != nil {
		return nil, accountLookupError(address, err)
	}

	now := s.clock.Now()
	pending := accruedAmount(
		account.StakedAmount,
		params.DailyInterestRate,
		elapsedSince(account.LastClaimTime, now),
	)

	return &AccountView{
		Address:          account.Address,
		Registered:       account.Registered,
		StakedAmount:     account.StakedAmount,
		ClaimableBalance: account.ClaimableBalance,
		PendingAccrual:   pending,
		LastClaimTime:    account.LastClaimTime,
		Referrer:         account.Referrer,
		Position:         account.Position,
	}, nil
}

// GetReferralReward returns the cumulative referral earnings of an
// identity, the informational figure distinct from the claimable
// balance.
func (s *Service) GetReferralReward(ctx context.Context, address string) (int64, *types.Error) {
	rewardDoc, err := s.db.GetReferralReward(ctx, address)
	if err != nil {
		return 0, types.NewInternalServiceError(
			fmt.Errorf("failed to load referral reward of %s: %w", address, err),
		)
	}
	return rewardDoc.TotalReward, nil
}
