package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
)

const registryCounterID = "registry"

func (db *Database) SaveNewAccount(
	ctx context.Context, accountDoc *model.AccountDocument,
) error {
	_, err := db.collection(model.AccountCollection).InsertOne(ctx, accountDoc)
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{
			Key:     accountDoc.Address,
			Message: "account already registered",
		}
	}
	return err
}

func (db *Database) GetAccount(
	ctx context.Context, address string,
) (*model.AccountDocument, error) {
	filter := bson.M{"_id": address}

	var accountDoc model.AccountDocument
	err := db.collection(model.AccountCollection).FindOne(ctx, filter).Decode(&accountDoc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &NotFoundError{
			Key:     address,
			Message: "account not found",
		}
	}
	if err != nil {
		return nil, err
	}
	return &accountDoc, nil
}

// NextRegistryPosition atomically reserves the next append-only registry
// ordinal.
func (db *Database) NextRegistryPosition(ctx context.Context) (int64, error) {
	filter := bson.M{"_id": registryCounterID}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter model.RegistryCounterDocument
	err := db.collection(model.RegistryCounterCollection).
		FindOneAndUpdate(ctx, filter, update, opts).
		Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (db *Database) GetAccountCount(ctx context.Context) (int64, error) {
	return db.collection(model.AccountCollection).CountDocuments(ctx, bson.M{})
}

// GetAccountsByPosition returns the first limit accounts in registration
// order.
func (db *Database) GetAccountsByPosition(
	ctx context.Context, limit int64,
) ([]*model.AccountDocument, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}}).
		SetLimit(limit)

	cursor, err := db.collection(model.AccountCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []*model.AccountDocument
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// IncrementStake adds amount to the staked balance and resets the accrual
// clock for the whole balance.
func (db *Database) IncrementStake(
	ctx context.Context, address string, amount int64, stakedAt time.Time,
) error {
	filter := bson.M{"_id": address, "registered": true}
	update := bson.M{
		"$inc": bson.M{"staked_amount": amount},
		"$set": bson.M{"last_claim_time": stakedAt},
	}

	res, err := db.collection(model.AccountCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     address,
			Message: "account not found when incrementing stake",
		}
	}
	return nil
}

// DecrementStake subtracts amount from the staked balance. The filter
// requires a sufficient staked balance so a racing unstake fails closed.
func (db *Database) DecrementStake(
	ctx context.Context, address string, amount int64,
) error {
	filter := bson.M{
		"_id":           address,
		"staked_amount": bson.M{"$gte": amount},
	}
	update := bson.M{"$inc": bson.M{"staked_amount": -amount}}

	res := db.collection(model.AccountCollection).FindOneAndUpdate(ctx, filter, update)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			return &InsufficientFundsError{
				Key:     address,
				Message: "staked balance is smaller than the unstake amount",
			}
		}
		return res.Err()
	}
	return nil
}

// SettleAccrual credits the accrued amount and advances the accrual clock
// in one update.
func (db *Database) SettleAccrual(
	ctx context.Context, address string, credit int64, settledAt time.Time,
) error {
	filter := bson.M{"_id": address}
	update := bson.M{
		"$inc": bson.M{"claimable_balance": credit},
		"$set": bson.M{"last_claim_time": settledAt},
	}

	res, err := db.collection(model.AccountCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     address,
			Message: "account not found when settling accrual",
		}
	}
	return nil
}

// CreditClaimable adds amount to the claimable balance without touching
// the accrual clock (referral credits).
func (db *Database) CreditClaimable(
	ctx context.Context, address string, amount int64,
) error {
	filter := bson.M{"_id": address}
	update := bson.M{"$inc": bson.M{"claimable_balance": amount}}

	res, err := db.collection(model.AccountCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     address,
			Message: "account not found when crediting claimable balance",
		}
	}
	return nil
}

// DebitClaimable subtracts amount from the claimable balance. The filter
// requires a sufficient balance so the figure can never go negative.
func (db *Database) DebitClaimable(
	ctx context.Context, address string, amount int64,
) error {
	filter := bson.M{
		"_id":               address,
		"claimable_balance": bson.M{"$gte": amount},
	}
	update := bson.M{"$inc": bson.M{"claimable_balance": -amount}}

	res := db.collection(model.AccountCollection).FindOneAndUpdate(ctx, filter, update)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			return &InsufficientFundsError{
				Key:     address,
				Message: "claimable balance is smaller than the withdrawal amount",
			}
		}
		return res.Err()
	}
	return nil
}

// ForceSetBalance overwrites the claimable balance of an existing account
// and marks it registered. Trusted migration path; the referrer of an
// existing account is never touched.
func (db *Database) ForceSetBalance(
	ctx context.Context, address string, amount int64,
) error {
	filter := bson.M{"_id": address}
	update := bson.M{
		"$set": bson.M{
			"claimable_balance": amount,
			"registered":        true,
		},
	}

	res, err := db.collection(model.AccountCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &NotFoundError{
			Key:     address,
			Message: "account not found when force-setting balance",
		}
	}
	return nil
}
