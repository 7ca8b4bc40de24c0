package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DB holds the mongo client and the per-collection stores.
type DB struct {
	client *mongo.Client

	Users        *UserStore
	Products     *ProductStore
	Transactions *TransactionStore
	Orders       *OrderStore
}

// Connect dials mongo, verifies the connection and creates the indexes the
// stores rely on.
func Connect(ctx context.Context, uri, dbName string, logger *zap.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established",
		zap.String("database", dbName))

	return &DB{
		client:       client,
		Users:        &UserStore{col: db.Collection("users")},
		Products:     &ProductStore{col: db.Collection("products")},
		Transactions: &TransactionStore{col: db.Collection("transactions")},
		Orders:       &OrderStore{col: db.Collection("orders")},
	}, nil
}

// Disconnect closes the underlying mongo client.
func (d *DB) Disconnect(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("transactions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "gateway_order_id", Value: 1}}},
		{Keys: bson.D{{Key: "gateway_session_id", Value: 1}}},
	})
	if err != nil {
		return err
	}

	// The unique transaction_id index is what keeps webhook redelivery and
	// status polling from materializing the same order twice.
	_, err = db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "user_email", Value: 1}}},
	})
	return err
}
