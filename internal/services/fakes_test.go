package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

const (
	testOperator = "rl1operator"
	testCustody  = "rl1custody"
)

// fakeDB is an in-memory stand-in for the mongo layer, mirroring its
// guarded-update semantics: debits below the stored figure fail with
// InsufficientFundsError instead of wrapping.
type fakeDB struct {
	mu       sync.Mutex
	accounts map[string]*model.AccountDocument
	params   *model.LedgerParamsDocument
	referral map[string]int64
	programs map[string]bool
	counter  int64
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		accounts: make(map[string]*model.AccountDocument),
		referral: make(map[string]int64),
		programs: make(map[string]bool),
	}
}

func (f *fakeDB) Ping(ctx context.Context) error { return nil }

func (f *fakeDB) SaveNewAccount(ctx context.Context, accountDoc *model.AccountDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[accountDoc.Address]; ok {
		return &db.DuplicateKeyError{Key: accountDoc.Address, Message: "account already exists"}
	}
	copied := *accountDoc
	f.accounts[accountDoc.Address] = &copied
	return nil
}

func (f *fakeDB) GetAccount(ctx context.Context, address string) (*model.AccountDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[address]
	if !ok {
		return nil, &db.NotFoundError{Key: address, Message: "account not found"}
	}
	copied := *account
	return &copied, nil
}

func (f *fakeDB) NextRegistryPosition(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return f.counter, nil
}

func (f *fakeDB) GetAccountCount(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.accounts)), nil
}

func (f *fakeDB) GetAccountsByPosition(ctx context.Context, limit int64) ([]*model.AccountDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accounts := make([]*model.AccountDocument, 0, len(f.accounts))
	for _, account := range f.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Position < accounts[j].Position
	})
	if limit < int64(len(accounts)) {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (f *fakeDB) IncrementStake(ctx context.Context, address string, amount int64, stakedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[address]
	if !ok || !account.Registered {
		return &db.NotFoundError{Key: address, Message: "account not found"}
	}
	account.StakedAmount += amount
	account.LastClaimTime = stakedAt
	return nil
}

func (f *fakeDB) DecrementStake(ctx context.Context, address string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[address]
	if !ok {
		return &db.NotFoundError{Key: address, Message: "account not found"}
	}
	if account.StakedAmount < amount {
		return &db.InsufficientFundsError{Key: address, Message: "staked amount too small"}
	}
	account.StakedAmount -= amount
	return nil
}

func (f *fakeDB) SettleAccrual(ctx context.Context, address string, credit int64, settledAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[address]
	if !ok {
		return &db.NotFoundError{Key: address, Message: "account not found"}
	}
	account.ClaimableBalance += credit
	account.LastClaimTime = settledAt
	return nil
}

func (f *fakeDB) CreditClaimable(ctx context.Context, address string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[address]
	if !ok {
		return &db.NotFoundError{Key: address, Message: "account not found"}
	}
	account.ClaimableBalance += amount
	return nil
}

func (f *fakeDB) DebitClaimable(ctx context.Context, address string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[address]
	if !ok {
		return &db.NotFoundError{Key: address, Message: "account not found"}
	}
	if account.ClaimableBalance < amount {
		return &db.InsufficientFundsError{Key: address, Message: "claimable balance too small"}
	}
	account.ClaimableBalance -= amount
	return nil
}

func (f *fakeDB) ForceSetBalance(ctx context.Context, address string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[address]
	if !ok {
		return &db.NotFoundError{Key: address, Message: "account not found"}
	}
	account.ClaimableBalance = amount
	account.Registered = true
	return nil
}

func (f *fakeDB) CreditReferralReward(ctx context.Context, address string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.referral[address] += amount
	return nil
}

func (f *fakeDB) GetReferralReward(ctx context.Context, address string) (*model.ReferralRewardDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.ReferralRewardDocument{
		Address:     address,
		TotalReward: f.referral[address],
	}, nil
}

func (f *fakeDB) SaveLedgerParams(ctx context.Context, params *model.LedgerParamsDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *params
	if f.params != nil {
		copied.PausedForOperations = f.params.PausedForOperations
		copied.PausedForWithdrawals = f.params.PausedForWithdrawals
	}
	f.params = &copied
	return nil
}

func (f *fakeDB) GetLedgerParams(ctx context.Context) (*model.LedgerParamsDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.params == nil {
		return nil, &db.NotFoundError{Key: "LEDGER", Message: "params not found"}
	}
	copied := *f.params
	return &copied, nil
}

func (f *fakeDB) SetPausedForOperations(ctx context.Context, paused bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.params == nil {
		return &db.NotFoundError{Key: "LEDGER", Message: "params not found"}
	}
	f.params.PausedForOperations = paused
	return nil
}

func (f *fakeDB) SetPausedForWithdrawals(ctx context.Context, paused bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.params == nil {
		return &db.NotFoundError{Key: "LEDGER", Message: "params not found"}
	}
	f.params.PausedForWithdrawals = paused
	return nil
}

func (f *fakeDB) FlagProgramIdentity(ctx context.Context, address string, flaggedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.programs[address] = true
	return nil
}

func (f *fakeDB) UnflagProgramIdentity(ctx context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.programs, address)
	return nil
}

func (f *fakeDB) IsProgramIdentity(ctx context.Context, address string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.programs[address], nil
}

// fakeAssetLedger records transfers and serves balances set by the test.
type fakeAssetLedger struct {
	mu        sync.Mutex
	balances  map[string]int64
	transfers []transferCall
}

type transferCall struct {
	from   string
	to     string
	amount int64
}

func newFakeAssetLedger() *fakeAssetLedger {
	return &fakeAssetLedger{balances: make(map[string]int64)}
}

func (f *fakeAssetLedger) Transfer(ctx context.Context, to string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transfers = append(f.transfers, transferCall{to: to, amount: amount})
	f.balances[to] += amount
	return nil
}

func (f *fakeAssetLedger) TransferFrom(ctx context.Context, from, to string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[from] < amount {
		return fmt.Errorf("balance of %s is below %d", from, amount)
	}
	f.transfers = append(f.transfers, transferCall{from: from, to: to, amount: amount})
	f.balances[from] -= amount
	f.balances[to] += amount
	return nil
}

func (f *fakeAssetLedger) BalanceOf(ctx context.Context, address string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[address], nil
}

func (f *fakeAssetLedger) setBalance(address string, amount int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[address] = amount
}

func (f *fakeAssetLedger) transferredTo(address string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, call := range f.transfers {
		if call.to == address {
			total += call.amount
		}
	}
	return total
}

// fakeEmitter collects published events in order.
type fakeEmitter struct {
	mu     sync.Mutex
	events []*types.LedgerEvent
}

func (f *fakeEmitter) PushLedgerEvent(ctx context.Context, event *types.LedgerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEmitter) eventsOfType(eventType types.EventType) []*types.LedgerEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*types.LedgerEvent
	for _, event := range f.events {
		if event.EventType == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// fakeClock serves a fixed instant that tests advance explicitly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type testEnv struct {
	svc     *Service
	db      *fakeDB
	token   *fakeAssetLedger
	stable  *fakeAssetLedger
	emitter *fakeEmitter
	clock   *fakeClock
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		Ledger: config.LedgerConfig{
			OperatorAddress:   testOperator,
			CustodyAddress:    testCustody,
			FeeAddress:        testOperator,
			DailyInterestRate: 2,
			SignupBonus:       100,
			TokenToStableRate: 50,
			ReferralPermille:  []int64{100, 50, 30, 20, 10},
		},
	}

	env := &testEnv{
		db:      newFakeDB(),
		token:   newFakeAssetLedger(),
		stable:  newFakeAssetLedger(),
		emitter: &fakeEmitter{},
		clock:   newFakeClock(),
	}
	env.svc = NewService(cfg, env.db, env.token, env.stable, env.emitter, env.clock)

	if err := env.svc.Bootstrap(context.Background()); err != nil {
		panic(err)
	}
	return env
}

// register creates an account directly, bypassing the signup transfer,
// so tests can set up fixtures without touching the asset ledgers.
func (env *testEnv) register(address, referrer string) {
	position, _ := env.db.NextRegistryPosition(context.Background())
	now := env.clock.Now()
	err := env.db.SaveNewAccount(context.Background(), &model.AccountDocument{
		Address:       address,
		Registered:    true,
		LastClaimTime: now,
		Referrer:      referrer,
		Position:      position,
		CreatedAt:     now,
	})
	if err != nil {
		panic(err)
	}
}
