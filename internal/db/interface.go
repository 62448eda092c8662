package db

import (
	"context"
	"time"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
)

type DbInterface interface {
	Ping(ctx context.Context) error

	SaveNewAccount(ctx context.Context, accountDoc *model.AccountDocument) error
	GetAccount(ctx context.Context, address string) (*model.AccountDocument, error)
	NextRegistryPosition(ctx context.Context) (int64, error)
	GetAccountCount(ctx context.Context) (int64, error)
	GetAccountsByPosition(ctx context.Context, limit int64) ([]*model.AccountDocument, error)

	IncrementStake(ctx context.Context, address string, amount int64, stakedAt time.Time) error
	DecrementStake(ctx context.Context, address string, amount int64) error
	SettleAccrual(ctx context.Context, address string, credit int64, settledAt time.Time) error
	CreditClaimable(ctx context.Context, address string, amount int64) error
	DebitClaimable(ctx context.Context, address string, amount int64) error
	ForceSetBalance(ctx context.Context, address string, amount int64) error

	CreditReferralReward(ctx context.Context, address string, amount int64) error
	GetReferralReward(ctx context.Context, address string) (*model.ReferralRewardDocument, error)

	SaveLedgerParams(ctx context.Context, params *model.LedgerParamsDocument) error
	GetLedgerParams(ctx context.Context) (*model.LedgerParamsDocument, error)
	SetPausedForOperations(ctx context.Context, paused bool) error
	SetPausedForWithdrawals(ctx context.Context, paused bool) error

	FlagProgramIdentity(ctx context.Context, address string, flaggedAt time.Time) error
	UnflagProgramIdentity(ctx context.Context, address string) error
	IsProgramIdentity(ctx context.Context, address string) (bool, error)
}
