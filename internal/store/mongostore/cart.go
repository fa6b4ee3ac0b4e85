package mongostore

import (
	"context"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := findOne[models.Cart](ctx, s.DB.Collection(colCarts), bson.M{"user": userID}, "get cart")
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	return cart, nil
}

func (s *Store) SaveCart(ctx context.Context, cart *models.Cart) error {
	s.stamp(&cart.CreatedAt, &cart.UpdatedAt)
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	_, err := s.DB.Collection(colCarts).ReplaceOne(ctx, bson.M{"_id": cart.ID}, cart, options.Replace().SetUpsert(true))
	return wrap(err, "save cart")
}

func (s *Store) DeleteCart(ctx context.Context, userID uuid.UUID) error {
	_, err := s.DB.Collection(colCarts).DeleteOne(ctx, bson.M{"user": userID})
	return wrap(err, "delete cart")
}
