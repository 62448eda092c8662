package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
)

// CreditReferralReward adds amount to the cumulative referral earnings of
// the identity. The figure is an audit trail, separate from the spendable
// claimable balance.
func (db *Database) CreditReferralReward(
	ctx context.Context, address string, amount int64,
) error {
	filter := bson.M{"_id": address}
	update := bson.M{"$inc": bson.M{"total_reward": amount}}

	_, err := db.collection(model.ReferralRewardCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (db *Database) GetReferralReward(
	ctx context.Context, address string,
) (*model.ReferralRewardDocument, error) {
	filter := bson.M{"_id": address}

	var rewardDoc model.ReferralRewardDocument
	err := db.collection(model.ReferralRewardCollection).FindOne(ctx, filter).Decode(&rewardDoc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// No earnings yet is not an error, the cumulative figure is zero.
		return &model.ReferralRewardDocument{Address: address}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rewardDoc, nil
}
