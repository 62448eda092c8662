package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/clients/assetledger"
	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/observability/metrics"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// Clock supplies the execution-environment time used for accrual windows.
// It is never user-supplied, which rules out backdating.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// EventEmitter publishes the facts emitted by successful operations.
type EventEmitter interface {
	PushLedgerEvent(ctx context.Context, event *types.LedgerEvent) error
}

type Service struct {
	cfg          *config.Config
	db           db.DbInterface
	tokenLedger  assetledger.AssetLedger
	stableLedger assetledger.AssetLedger
	emitter      EventEmitter
	clock        Clock

	// opMu serializes every mutating operation end to end. This is the
	// execution model of the ledger (no two operations interleave) and
	// doubles as the reentrancy guard.
	opMu sync.Mutex
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	tokenLedger assetledger.AssetLedger,
	stableLedger assetledger.AssetLedger,
	emitter EventEmitter,
	clock Clock,
) *Service {
	return &Service{
		cfg:          cfg,
		db:           db,
		tokenLedger:  tokenLedger,
		stableLedger: stableLedger,
		emitter:      emitter,
		clock:        clock,
	}
}

// Bootstrap seeds the mutable ledger params from config when none exist
// yet and makes sure the operator account is present so referral chains
// can terminate on it.
func (s *Service) Bootstrap(ctx context.Context) error {
	if _, err := s.db.GetLedgerParams(ctx); err != nil {
		if !db.IsNotFoundError(err) {
			return fmt.Errorf("failed to load ledger params: %w", err)
		}
		params := &model.LedgerParamsDocument{
			DailyInterestRate: s.cfg.Ledger.DailyInterestRate,
			SignupBonus:       s.cfg.Ledger.SignupBonus,
			TokenToStableRate: s.cfg.Ledger.TokenToStableRate,
			ReferralPermille:  s.cfg.Ledger.ReferralPermille,
		}
		if err := s.db.SaveLedgerParams(ctx, params); err != nil {
			return fmt.Errorf("failed to seed ledger params: %w", err)
		}
		log.Ctx(ctx).Info().Msg("seeded ledger params from config")
	}

	operator := s.cfg.Ledger.OperatorAddress
	if _, err := s.db.GetAccount(ctx, operator); err != nil {
		if !db.IsNotFoundError(err) {
			return fmt.Errorf("failed to load operator account: %w", err)
		}
		position, err := s.db.NextRegistryPosition(ctx)
		if err != nil {
			return fmt.Errorf("failed to reserve operator registry position: %w", err)
		}
		now := s.clock.Now()
		accountDoc := &model.AccountDocument{
			Address:       operator,
			Registered:    true,
			LastClaimTime: now,
			// The operator has no referrer; cascades terminate here.
			Referrer:  "",
			Position:  position,
			CreatedAt: now,
		}
		if err := s.db.SaveNewAccount(ctx, accountDoc); err != nil && !db.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create operator account: %w", err)
		}
		log.Ctx(ctx).Info().Str("operator", operator).Msg("created operator account")
	}

	count, err := s.db.GetAccountCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	metrics.SetRegisteredAccounts(count)

	return nil
}

func (s *Service) ledgerParams(ctx context.Context) (*model.LedgerParamsDocument, *types.Error) {
	params, err := s.db.GetLedgerParams(ctx)
	if err != nil {
		return nil, types.NewInternalServiceError(
			fmt.Errorf("failed to load ledger params: %w", err),
		)
	}
	return params, nil
}

// emit publishes an emitted fact for an operation that has already
// committed. Publish failures are counted, never rolled back.
func (s *Service) emit(ctx context.Context, event *types.LedgerEvent) {
	if err := s.emitter.PushLedgerEvent(ctx, event); err != nil {
		metrics.RecordQueueSendError()
		log.Ctx(ctx).Error().
			Err(err).
			Str("event_type", event.EventType.String()).
			Str("address", event.Address).
			Msg("failed to push ledger event")
	}
}
