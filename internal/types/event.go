package types

import "time"

type EventType string

func (e EventType) String() string {
	return string(e)
}

// Emitted facts, one per successful ledger operation. ReferralReward is
// emitted once per credited cascade level.
const (
	EventSignup         EventType = "rewardledger.v1.EventSignup"
	EventSwap           EventType = "rewardledger.v1.EventSwap"
	EventStake          EventType = "rewardledger.v1.EventStake"
	EventUnstake        EventType = "rewardledger.v1.EventUnstake"
	EventClaim          EventType = "rewardledger.v1.EventClaim"
	EventWithdrawal     EventType = "rewardledger.v1.EventWithdrawal"
	EventReferralReward EventType = "rewardledger.v1.EventReferralReward"
	EventBalanceSet     EventType = "rewardledger.v1.EventBalanceSet"
)

type LedgerEvent struct {
	EventType EventType `json:"event_type"`
	Address   string    `json:"address"`
	Timestamp time.Time `json:"timestamp"`

	// Operation-specific figures; zero values are omitted on the wire.
	Amount        int64  `json:"amount,omitempty"`
	TokenAmount   int64  `json:"token_amount,omitempty"`
	StableAmount  int64  `json:"stable_amount,omitempty"`
	FeeAmount     int64  `json:"fee_amount,omitempty"`
	AccruedAmount int64  `json:"accrued_amount,omitempty"`
	Referrer      string `json:"referrer,omitempty"`
	ReferralLevel int    `json:"referral_level,omitempty"`
}
