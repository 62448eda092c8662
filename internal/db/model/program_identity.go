package model

import "time"

const ProgramIdentityCollection = "program_identities"

// ProgramIdentityDocument marks an identity as programmatic. Gated
// operations reject callers present in this collection.
type ProgramIdentityDocument struct {
	Address   string    `bson:"_id"`
	FlaggedAt time.Time `bson:"flagged_at"`
}
