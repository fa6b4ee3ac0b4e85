package mongostore

import (
	"context"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	s.stamp(&c.CreatedAt, &c.UpdatedAt)
	_, err := s.DB.Collection(colCategories).InsertOne(ctx, c)
	return wrap(err, "create category")
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return findOne[models.Category](ctx, s.DB.Collection(colCategories), bson.M{"_id": id}, "get category")
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[models.Category](ctx, s.DB.Collection(colCategories), bson.M{}, "list categories", opts)
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = s.now()
	res, err := s.DB.Collection(colCategories).UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"name":        c.Name,
		"description": c.Description,
		"updatedAt":   c.UpdatedAt,
	}})
	if err != nil {
		return wrap(err, "update category")
	}
	return notFoundIfNone(res.MatchedCount, "update category")
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.Collection(colCategories).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "delete category")
	}
	return notFoundIfNone(res.DeletedCount, "delete category")
}
