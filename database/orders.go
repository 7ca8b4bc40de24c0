package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ronitchordiya/Flint-and-Flour/models"
)

type OrderStore struct {
	col *mongo.Collection
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	_, err := s.col.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return err
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *OrderStore) GetByTransactionID(ctx context.Context, transactionID string) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"transaction_id": transactionID})
}

// ListByEmail returns a customer's orders, newest first.
func (s *OrderStore) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.list(ctx, bson.M{"user_email": email})
}

// ListAll returns every order, newest first.
func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx, bson.M{})
}

// Update replaces the stored order document.
func (s *OrderStore) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"id": order.ID}, order)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *OrderStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

// CountByStatus groups order counts by order status.
func (s *OrderStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// RevenueByCurrency sums order totals per currency.
func (s *OrderStore) RevenueByCurrency(ctx context.Context) (map[string]float64, error) {
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$currency"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Currency string  `bson:"_id"`
		Total    float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Currency] = row.Total
	}
	return out, nil
}

func (s *OrderStore) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := s.col.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
