// Package mongostore implements the store contracts on MongoDB, keeping
// reviews and cart lines embedded in their parent documents.
package mongostore

import (
	"context"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	colCatalog    = "catalog_items"
	colCategories = "categories"
	colCarts      = "carts"
	colOrders     = "orders"
	colUsers      = "users"
	colContacts   = "contact_messages"
)

type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
	Now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open connects with bounded server selection so an unreachable cluster
// fails requests instead of hanging them.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetRegistry(NewRegistry()).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongostore: connect")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongostore: ping")
	}

	return &Store{
		Client: client,
		DB:     client.Database(dbName),
		Now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		colUsers:      {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		colCarts:      {{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique}},
		colCategories: {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		colCatalog: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "rating", Value: -1}}},
		},
		colOrders: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		colContacts: {{Keys: bson.D{{Key: "createdAt", Value: -1}}}},
	}

	for col, idx := range indexes {
		if _, err := s.DB.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return wrap(err, "ensure indexes "+col)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return wrap(s.Client.Ping(ctx, readpref.Primary()), "ping")
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	*updated = now
}

func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	op = "mongostore: " + op
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return errors.Wrap(store.ErrNotFound, op)
	case mongo.IsDuplicateKeyError(err):
		return errors.Wrap(store.ErrDuplicate, op)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected), store.IsTransient(err):
		return errors.Wrapf(store.ErrUnavailable, "%s: %v", op, err)
	}
	return errors.Wrap(err, op)
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any, op string) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, wrap(err, op)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, op string, opts ...*options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrap(err, op)
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrap(err, op)
	}
	return out, nil
}

func notFoundIfNone(n int64, op string) error {
	if n == 0 {
		return wrap(mongo.ErrNoDocuments, op)
	}
	return nil
}
