package model

const ReferralRewardCollection = "referral_rewards"

// ReferralRewardDocument is the cumulative audit-trail figure per
// identity, distinct from the spendable claimable balance.
type ReferralRewardDocument struct {
	Address     string `bson:"_id"`
	TotalReward int64  `bson:"total_reward"`
}
