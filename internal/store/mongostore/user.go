package mongostore

import (
	"context"
	"strings"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.stamp(&u.CreatedAt, &u.UpdatedAt)
	_, err := s.DB.Collection(colUsers).InsertOne(ctx, u)
	return wrap(err, "create user")
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return findOne[models.User](ctx, s.DB.Collection(colUsers), bson.M{"_id": id}, "get user")
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return findOne[models.User](ctx, s.DB.Collection(colUsers), bson.M{"email": email}, "get user by email")
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = s.now()
	res, err := s.DB.Collection(colUsers).ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return wrap(err, "update user")
	}
	return notFoundIfNone(res.MatchedCount, "update user")
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.Collection(colUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "delete user")
	}
	return notFoundIfNone(res.DeletedCount, "delete user")
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.User](ctx, s.DB.Collection(colUsers), bson.M{}, "list users", opts)
}

func (s *Store) IncrementOTPAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"otpAttempts": 1})
	var u models.User
	err := s.DB.Collection(colUsers).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"otpAttempts": 1}}, opts).Decode(&u)
	if err != nil {
		return 0, wrap(err, "increment otp attempts")
	}
	return u.OTPAttempts, nil
}
