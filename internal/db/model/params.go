package model

const GlobalParamsCollection = "global_params"

// LedgerParamsDocument holds the operator-mutable configuration read by
// every operation. A single document of type "LEDGER" exists; the
// versioning mirrors the other global params for future compatibility.
type LedgerParamsDocument struct {
	Type    string `bson:"type"`
	Version uint32 `bson:"version"`

	DailyInterestRate    int64   `bson:"daily_interest_rate"`
	SignupBonus          int64   `bson:"signup_bonus"`
	TokenToStableRate    int64   `bson:"token_to_stable_rate"`
	ReferralPermille     []int64 `bson:"referral_permille"`
	PausedForOperations  bool    `bson:"paused_for_operations"`
	PausedForWithdrawals bool    `bson:"paused_for_withdrawals"`
}
