package model

import "time"

const (
	AccountCollection         = "accounts"
	RegistryCounterCollection = "registry_counter"
)

// AccountDocument is the per-identity ledger record. The document id is
// the account address; Position is the append-only registry ordinal
// assigned at registration and never reused.
type AccountDocument struct {
	Address          string    `bson:"_id"`
	Registered       bool      `bson:"registered"`
	StakedAmount     int64     `bson:"staked_amount"`
	ClaimableBalance int64     `bson:"claimable_balance"`
	LastClaimTime    time.Time `bson:"last_claim_time"`
	Referrer         string    `bson:"referrer"`
	Position         int64     `bson:"position"`
	CreatedAt        time.Time `bson:"created_at"`
}

type RegistryCounterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}
