package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ronitchordiya/Flint-and-Flour/models"
)

type UserStore struct {
	col *mongo.Collection
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return err
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email_verification_token": token})
}

// GetByActiveResetToken matches only reset tokens that have not expired.
func (s *UserStore) GetByActiveResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	return s.findOne(ctx, bson.M{
		"password_reset_token":   token,
		"password_reset_expires": bson.M{"$gt": now},
	})
}

// MarkEmailVerified flips the verification flag and consumes the token.
func (s *UserStore) MarkEmailVerified(ctx context.Context, id string) error {
	return s.update(ctx, id, bson.M{
		"is_email_verified":        true,
		"email_verification_token": "",
	})
}

// SetResetToken stores a password reset token with its expiry.
func (s *UserStore) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	return s.update(ctx, id, bson.M{
		"password_reset_token":   token,
		"password_reset_expires": expires,
	})
}

// UpdatePassword replaces the password hash and consumes any reset token.
func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.update(ctx, id, bson.M{
		"password_hash":          passwordHash,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	})
}

// UpdateRegion changes the user's home region.
func (s *UserStore) UpdateRegion(ctx context.Context, id, region string) error {
	return s.update(ctx, id, bson.M{"region": region})
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) update(ctx context.Context, id string, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
