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

type ProductStore struct {
	col *mongo.Collection
}

func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	_, err := s.col.InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return err
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns the products matching the given IDs. Missing IDs are
// simply absent from the result.
func (s *ProductStore) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	cursor, err := s.col.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// List returns the catalog, optionally filtered by category.
func (s *ProductStore) List(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Update applies the non-nil fields of the request and returns the updated
// product.
func (s *ProductStore) Update(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.ImageURL != nil {
		set["image_url"] = *req.ImageURL
	}
	if req.SubscriptionEligible != nil {
		set["subscription_eligible"] = *req.SubscriptionEligible
	}
	if req.InStock != nil {
		set["in_stock"] = *req.InStock
	}

	var product models.Product
	err := s.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
