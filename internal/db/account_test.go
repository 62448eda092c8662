//go:build integration

package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/testutil"
)

func newAccount(t *testing.T, position int64) *model.AccountDocument {
	t.Helper()
	address, err := testutil.RandomAddress(10)
	require.NoError(t, err)
	return &model.AccountDocument{
		Address:       address,
		Registered:    true,
		LastClaimTime: time.Now().UTC().Truncate(time.Millisecond),
		Position:      position,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestAccountLifecycle(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	account := newAccount(t, 1)
	require.NoError(t, testDB.SaveNewAccount(ctx, account))

	t.Run("duplicate insert fails", func(t *testing.T) {
		err := testDB.SaveNewAccount(ctx, account)
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKeyError(err))
	})

	t.Run("round trip", func(t *testing.T) {
		stored, err := testDB.GetAccount(ctx, account.Address)
		require.NoError(t, err)
		assert.Equal(t, account.Address, stored.Address)
		assert.True(t, stored.Registered)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := testDB.GetAccount(ctx, "rl1missing")
		require.Error(t, err)
		assert.True(t, db.IsNotFoundError(err))
	})
}

func TestRegistryPositions(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	first, err := testDB.NextRegistryPosition(ctx)
	require.NoError(t, err)
	second, err := testDB.NextRegistryPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestGetAccountsByPosition(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	for i := int64(3); i >= 1; i-- {
		require.NoError(t, testDB.SaveNewAccount(ctx, newAccount(t, i)))
	}

	accounts, err := testDB.GetAccountsByPosition(ctx, 2)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(1), accounts[0].Position)
	assert.Equal(t, int64(2), accounts[1].Position)
}

func TestStakeUpdates(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	account := newAccount(t, 1)
	require.NoError(t, testDB.SaveNewAccount(ctx, account))

	stakedAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, testDB.IncrementStake(ctx, account.Address, 1000, stakedAt))

	t.Run("increment stamps the clock", func(t *testing.T) {
		stored, err := testDB.GetAccount(ctx, account.Address)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), stored.StakedAmount)
		assert.Equal(t, stakedAt, stored.LastClaimTime.UTC())
	})

	t.Run("decrement below the balance fails closed", func(t *testing.T) {
		err := testDB.DecrementStake(ctx, account.Address, 2000)
		require.Error(t, err)
		assert.True(t, db.IsInsufficientFundsError(err))

		stored, err := testDB.GetAccount(ctx, account.Address)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), stored.StakedAmount)
	})

	t.Run("decrement within the balance", func(t *testing.T) {
		require.NoError(t, testDB.DecrementStake(ctx, account.Address, 400))

		stored, err := testDB.GetAccount(ctx, account.Address)
		require.NoError(t, err)
		assert.Equal(t, int64(600), stored.StakedAmount)
	})
}

func TestClaimableUpdates(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	account := newAccount(t, 1)
	require.NoError(t, testDB.SaveNewAccount(ctx, account))

	settledAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, testDB.SettleAccrual(ctx, account.Address, 50, settledAt))
	require.NoError(t, testDB.CreditClaimable(ctx, account.Address, 25))

	t.Run("credits accumulate", func(t *testing.T) {
		stored, err := testDB.GetAccount(ctx, account.Address)
		require.NoError(t, err)
		assert.Equal(t, int64(75), stored.ClaimableBalance)
		assert.Equal(t, settledAt, stored.LastClaimTime.UTC())
	})

	t.Run("debit beyond the balance fails closed", func(t *testing.T) {
		err := testDB.DebitClaimable(ctx, account.Address, 100)
		require.Error(t, err)
		assert.True(t, db.IsInsufficientFundsError(err))
	})

	t.Run("debit within the balance", func(t *testing.T) {
		require.NoError(t, testDB.DebitClaimable(ctx, account.Address, 75))

		stored, err := testDB.GetAccount(ctx, account.Address)
		require.NoError(t, err)
		assert.Zero(t, stored.ClaimableBalance)
	})

	t.Run("force set overwrites", func(t *testing.T) {
		require.NoError(t, testDB.ForceSetBalance(ctx, account.Address, 9000))

		stored, err := testDB.GetAccount(ctx, account.Address)
		require.NoError(t, err)
		assert.Equal(t, int64(9000), stored.ClaimableBalance)
	})
}

func TestReferralRewards(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	address, err := testutil.RandomAddress(10)
	require.NoError(t, err)

	t.Run("unknown identity reads as zero", func(t *testing.T) {
		rewardDoc, err := testDB.GetReferralReward(ctx, address)
		require.NoError(t, err)
		assert.Zero(t, rewardDoc.TotalReward)
	})

	t.Run("credits accumulate", func(t *testing.T) {
		require.NoError(t, testDB.CreditReferralReward(ctx, address, 100))
		require.NoError(t, testDB.CreditReferralReward(ctx, address, 50))

		rewardDoc, err := testDB.GetReferralReward(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, int64(150), rewardDoc.TotalReward)
	})
}

func TestProgramIdentities(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	address, err := testutil.RandomAddress(10)
	require.NoError(t, err)

	flagged, err := testDB.IsProgramIdentity(ctx, address)
	require.NoError(t, err)
	assert.False(t, flagged)

	require.NoError(t, testDB.FlagProgramIdentity(ctx, address, time.Now().UTC()))
	flagged, err = testDB.IsProgramIdentity(ctx, address)
	require.NoError(t, err)
	assert.True(t, flagged)

	require.NoError(t, testDB.UnflagProgramIdentity(ctx, address))
	flagged, err = testDB.IsProgramIdentity(ctx, address)
	require.NoError(t, err)
	assert.False(t, flagged)
}
