package db

import (
	"context"
	"time"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) run(method string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObserveDBLatency(method, time.Since(start), err)
	return err
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) SaveNewAccount(ctx context.Context, accountDoc *model.AccountDocument) error {
	return d.run("SaveNewAccount", func() error {
		return d.db.SaveNewAccount(ctx, accountDoc)
	})
}

func (d *DbWithMetrics) GetAccount(ctx context.Context, address string) (result *model.AccountDocument, err error) {
	//nolint:errcheck
	d.run("GetAccount", func() error {
		result, err = d.db.GetAccount(ctx, address)
		return err
	})

	return
}

func (d *DbWithMetrics) NextRegistryPosition(ctx context.Context) (result int64, err error) {
	//nolint:errcheck
	d.run("NextRegistryPosition", func() error {
		result, err = d.db.NextRegistryPosition(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) GetAccountCount(ctx context.Context) (result int64, err error) {
	//nolint:errcheck
	d.run("GetAccountCount", func() error {
		result, err = d.db.GetAccountCount(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) GetAccountsByPosition(ctx context.Context, limit int64) (result []*model.AccountDocument, err error) {
	//nolint:errcheck
	d.run("GetAccountsByPosition", func() error {
		result, err = d.db.GetAccountsByPosition(ctx, limit)
		return err
	})

	return
}

func (d *DbWithMetrics) IncrementStake(ctx context.Context, address string, amount int64, stakedAt time.Time) error {
	return d.run("IncrementStake", func() error {
		return d.db.IncrementStake(ctx, address, amount, stakedAt)
	})
}

func (d *DbWithMetrics) DecrementStake(ctx context.Context, address string, amount int64) error {
	return d.run("DecrementStake", func() error {
		return d.db.DecrementStake(ctx, address, amount)
	})
}

func (d *DbWithMetrics) SettleAccrual(ctx context.Context, address string, credit int64, settledAt time.Time) error {
	return d.run("SettleAccrual", func() error {
		return d.db.SettleAccrual(ctx, address, credit, settledAt)
	})
}

func (d *DbWithMetrics) CreditClaimable(ctx context.Context, address string, amount int64) error {
	return d.run("CreditClaimable", func() error {
		return d.db.CreditClaimable(ctx, address, amount)
	})
}

func (d *DbWithMetrics) DebitClaimable(ctx context.Context, address string, amount int64) error {
	return d.run("DebitClaimable", func() error {
		return d.db.DebitClaimable(ctx, address, amount)
	})
}

func (d *DbWithMetrics) ForceSetBalance(ctx context.Context, address string, amount int64) error {
	return d.run("ForceSetBalance", func() error {
		return d.db.ForceSetBalance(ctx, address, amount)
	})
}

func (d *DbWithMetrics) CreditReferralReward(ctx context.Context, address string, amount int64) error {
	return d.run("CreditReferralReward", func() error {
		return d.db.CreditReferralReward(ctx, address, amount)
	})
}

func (d *DbWithMetrics) GetReferralReward(ctx context.Context, address string) (result *model.ReferralRewardDocument, err error) {
	//nolint:errcheck
	d.run("GetReferralReward", func() error {
		result, err = d.db.GetReferralReward(ctx, address)
		return err
	})

	return
}

func (d *DbWithMetrics) SaveLedgerParams(ctx context.Context, params *model.LedgerParamsDocument) error {
	return d.run("SaveLedgerParams", func() error {
		return d.db.SaveLedgerParams(ctx, params)
	})
}

func (d *DbWithMetrics) GetLedgerParams(ctx context.Context) (result *model.LedgerParamsDocument, err error) {
	//nolint:errcheck
	d.run("GetLedgerParams", func() error {
		result, err = d.db.GetLedgerParams(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) SetPausedForOperations(ctx context.Context, paused bool) error {
	return d.run("SetPausedForOperations", func() error {
		return d.db.SetPausedForOperations(ctx, paused)
	})
}

func (d *DbWithMetrics) SetPausedForWithdrawals(ctx context.Context, paused bool) error {
	return d.run("SetPausedForWithdrawals", func() error {
		return d.db.SetPausedForWithdrawals(ctx, paused)
	})
}

func (d *DbWithMetrics) FlagProgramIdentity(ctx context.Context, address string, flaggedAt time.Time) error {
	return d.run("FlagProgramIdentity", func() error {
		return d.db.FlagProgramIdentity(ctx, address, flaggedAt)
	})
}

func (d *DbWithMetrics) UnflagProgramIdentity(ctx context.Context, address string) error {
	return d.run("UnflagProgramIdentity", func() error {
		return d.db.UnflagProgramIdentity(ctx, address)
	})
}

func (d *DbWithMetrics) IsProgramIdentity(ctx context.Context, address string) (result bool, err error) {
	//nolint:errcheck
	d.run("IsProgramIdentity", func() error {
		result, err = d.db.IsProgramIdentity(ctx, address)
		return err
	})

	return
}
