package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
)

const (
	// ledgerParamsVersion is hardcoded to 0. The versioning is kept in
	// place for future compatibility with other global params.
	ledgerParamsVersion = 0
	ledgerParamsType    = "LEDGER"
)

func (db *Database) SaveLedgerParams(
	ctx context.Context, params *model.LedgerParamsDocument,
) error {
	params.Type = ledgerParamsType
	params.Version = ledgerParamsVersion

	filter := bson.M{
		"type":    ledgerParamsType,
		"version": ledgerParamsVersion,
	}
	// The pause flags are deliberately left out; they are owned by
	// setPauseFlag and must survive params updates.
	update := bson.M{"$set": bson.M{
		"type":                 params.Type,
		"version":              params.Version,
		"daily_interest_rate":  params.DailyInterestRate,
		"signup_bonus":         params.SignupBonus,
		"token_to_stable_rate": params.TokenToStableRate,
		"referral_permille":    params.ReferralPermille,
	}}

	_, err := db.collection(model.GlobalParamsCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (db *Database) GetLedgerParams(ctx context.Context) (*model.LedgerParamsDocument, error) {
	filter := bson.M{
		"type":    ledgerParamsType,
		"version": ledgerParamsVersion,
	}

	var params model.LedgerParamsDocument
	err := db.collection(model.GlobalParamsCollection).FindOne(ctx, filter).Decode(&params)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &NotFoundError{
			Key:     ledgerParamsType,
			Message: "ledger params not found",
		}
	}
	if err != nil {
		return nil, err
	}
	return &params, nil
}

func (db *Database) SetPausedForOperations(ctx context.Context, paused bool) error {
	return db.setPauseFlag(ctx, "paused_for_operations", paused)
}

func (db *Database) SetPausedForWithdrawals(ctx context.Context, paused bool) error {
	return db.setPauseFlag(ctx, "paused_for_withdrawals", paused)
}

func (db *Database) setPauseFlag(ctx context.Context, field string, paused bool) error {
	filter := bson.M{
		"type":    ledgerParamsType,
		"version": ledgerParamsVersion,
	}
	update := bson.M{"$set": bson.M{field: paused}}

	res, err := db.collection(model.GlobalParamsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     ledgerParamsType,
			Message: "ledger params not found when setting pause flag",
		}
	}
	return nil
}
