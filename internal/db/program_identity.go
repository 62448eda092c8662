package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
)

func (db *Database) FlagProgramIdentity(
	ctx context.Context, address string, flaggedAt time.Time,
) error {
	doc := &model.ProgramIdentityDocument{
		Address:   address,
		FlaggedAt: flaggedAt,
	}
	_, err := db.collection(model.ProgramIdentityCollection).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		// Already flagged, nothing to do.
		return nil
	}
	return err
}

func (db *Database) UnflagProgramIdentity(ctx context.Context, address string) error {
	filter := bson.M{"_id": address}
	_, err := db.collection(model.ProgramIdentityCollection).DeleteOne(ctx, filter)
	return err
}

func (db *Database) IsProgramIdentity(ctx context.Context, address string) (bool, error) {
	filter := bson.M{"_id": address}

	err := db.collection(model.ProgramIdentityCollection).FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
