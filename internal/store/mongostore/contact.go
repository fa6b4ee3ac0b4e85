package mongostore

import (
	"context"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateMessage(ctx context.Context, m *models.ContactMessage) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	_, err := s.DB.Collection(colContacts).InsertOne(ctx, m)
	return wrap(err, "create message")
}

func (s *Store) ListMessages(ctx context.Context) ([]models.ContactMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.ContactMessage](ctx, s.DB.Collection(colContacts), bson.M{}, "list messages", opts)
}

func (s *Store) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.Collection(colContacts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "delete message")
	}
	return notFoundIfNone(res.DeletedCount, "delete message")
}
