package config

import (
	"errors"
	"fmt"
)

// LedgerConfig carries the operator identity and the seed values for the
// mutable ledger parameters. The seed values are written to the params
// document only when none exists yet; afterwards the stored document is
// the single source of truth and is changed through the admin API.
type LedgerConfig struct {
	// OperatorAddress receives fees and acts as the default referrer.
	OperatorAddress string `mapstructure:"operator-address"`
	// CustodyAddress is the identity under which the core holds
	// tokens and stable assets on the external ledgers.
	CustodyAddress string `mapstructure:"custody-address"`
	// FeeAddress receives the fee cut of swaps and withdrawals. It
	// falls back to OperatorAddress when unset.
	FeeAddress  string `mapstructure:"fee-address"`
	OperatorKey string `mapstructure:"operator-key"`

	DailyInterestRate int64   `mapstructure:"daily-interest-rate"`
	SignupBonus       int64   `mapstructure:"signup-bonus"`
	TokenToStableRate int64   `mapstructure:"token-to-stable-rate"`
	ReferralPermille  []int64 `mapstructure:"referral-permille"`
}

const ReferralLevels = 5

func (cfg *LedgerConfig) Validate() error {
	if cfg.OperatorAddress == "" {
		return errors.New("ledger operator-address is required")
	}
	if cfg.CustodyAddress == "" {
		return errors.New("ledger custody-address is required")
	}
	if cfg.OperatorKey == "" {
		return errors.New("ledger operator-key is required")
	}
	if cfg.DailyInterestRate < 0 {
		return errors.New("ledger daily-interest-rate must not be negative")
	}
	if cfg.SignupBonus < 0 {
		return errors.New("ledger signup-bonus must not be negative")
	}
	if cfg.TokenToStableRate <= 0 {
		return errors.New("ledger token-to-stable-rate must be positive")
	}
	if len(cfg.ReferralPermille) != ReferralLevels {
		return fmt.Errorf("ledger referral-permille must have exactly %d entries", ReferralLevels)
	}
	for i, p := range cfg.ReferralPermille {
		if p < 0 || p > 1000 {
			return fmt.Errorf("ledger referral-permille[%d] must be within [0, 1000]", i)
		}
	}
	return nil
}
