package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ronitchordiya/Flint-and-Flour/models"
)

type TransactionStore struct {
	col *mongo.Collection
}

func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	_, err := s.col.InsertOne(ctx, tx)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return err
}

func (s *TransactionStore) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *TransactionStore) GetByGatewayOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	return s.findOne(ctx, bson.M{"gateway_order_id": orderID})
}

func (s *TransactionStore) GetByGatewaySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	return s.findOne(ctx, bson.M{"gateway_session_id": sessionID})
}

// Update replaces the stored transaction document.
func (s *TransactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	tx.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"id": tx.ID}, tx)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *TransactionStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *TransactionStore) findOne(ctx context.Context, filter bson.M) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.col.FindOne(ctx, filter).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
