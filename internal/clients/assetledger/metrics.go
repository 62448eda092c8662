package assetledger

import (
	"context"
	"time"

	"github.com/rewardlabs-io/reward-ledger/internal/observability/metrics"
)

type assetLedgerWithMetrics struct {
	ledger AssetLedger
	name   string
}

// NewAssetLedgerWithMetrics wraps an AssetLedger and records per-method
// latency under the given ledger name ("token" or "stable").
func NewAssetLedgerWithMetrics(ledger AssetLedger, name string) AssetLedger {
	return &assetLedgerWithMetrics{ledger: ledger, name: name}
}

func (a *assetLedgerWithMetrics) Transfer(ctx context.Context, to string, amount int64) error {
	return a.run("Transfer", func() error {
		return a.ledger.Transfer(ctx, to, amount)
	})
}

func (a *assetLedgerWithMetrics) TransferFrom(ctx context.Context, from, to string, amount int64) error {
	return a.run("TransferFrom", func() error {
		return a.ledger.TransferFrom(ctx, from, to, amount)
	})
}

func (a *assetLedgerWithMetrics) BalanceOf(ctx context.Context, address string) (result int64, err error) {
	//nolint:errcheck
	a.run("BalanceOf", func() error {
		result, err = a.ledger.BalanceOf(ctx, address)
		return err
	})

	return
}

func (a *assetLedgerWithMetrics) run(method string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObserveLedgerClientLatency(a.name, method, time.Since(start), err)
	return err
}
