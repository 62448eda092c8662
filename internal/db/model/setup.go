package model

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
)

const setupTimeout = 30 * time.Second

// Setup creates the collections and indexes used by the service. It is
// idempotent and safe to run on every start.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	database := client.Database(cfg.DbName)

	collections := []string{
		AccountCollection,
		RegistryCounterCollection,
		GlobalParamsCollection,
		ReferralRewardCollection,
		ProgramIdentityCollection,
	}
	for _, collection := range collections {
		if err := createCollection(ctx, database, collection); err != nil {
			return err
		}
	}

	indexes := map[string][]mongo.IndexModel{
		AccountCollection: {
			{
				Keys:    bson.D{{Key: "position", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		GlobalParamsCollection: {
			{
				Keys:    bson.D{{Key: "type", Value: 1}, {Key: "version", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
	for collection, models := range indexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}

	return client.Disconnect(ctx)
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) error {
	// CreateCollection returns NamespaceExists on reruns, which is fine.
	err := database.CreateCollection(ctx, collectionName)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists" {
		return nil
	}
	return err
}
