package mongostore

import (
	"context"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	s.stamp(&order.CreatedAt, &order.UpdatedAt)
	_, err := s.DB.Collection(colOrders).InsertOne(ctx, order)
	return wrap(err, "create order")
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return findOne[models.Order](ctx, s.DB.Collection(colOrders), bson.M{"_id": id}, "get order")
}

func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = s.now()
	res, err := s.DB.Collection(colOrders).ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return wrap(err, "update order")
	}
	return notFoundIfNone(res.MatchedCount, "update order")
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.DB.Collection(colOrders), bson.M{"user": userID}, "list user orders")
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Order](ctx, s.DB.Collection(colOrders), bson.M{}, "list orders", opts)
}
