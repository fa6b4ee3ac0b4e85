package mongostore

import (
	"context"
	"regexp"
	"strings"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) catalog() *mongo.Collection {
	return s.DB.Collection(colCatalog)
}

func (s *Store) CreateItem(ctx context.Context, item *models.CatalogItem) error {
	s.stamp(&item.CreatedAt, &item.UpdatedAt)
	if item.Reviews == nil {
		item.Reviews = []models.Review{}
	}
	_, err := s.catalog().InsertOne(ctx, item)
	return wrap(err, "create item")
}

func (s *Store) GetItem(ctx context.Context, kind models.Kind, id uuid.UUID) (*models.CatalogItem, error) {
	item, err := findOne[models.CatalogItem](ctx, s.catalog(), bson.M{"_id": id, "kind": kind}, "get item")
	if err != nil {
		return nil, err
	}
	if item.Reviews == nil {
		item.Reviews = []models.Review{}
	}
	return item, nil
}

func (s *Store) GetItems(ctx context.Context, ids []uuid.UUID) ([]models.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"reviews": 0})
	return findAll[models.CatalogItem](ctx, s.catalog(), bson.M{"_id": bson.M{"$in": ids}}, "get items", opts)
}

func (s *Store) UpdateItem(ctx context.Context, item *models.CatalogItem) error {
	item.UpdatedAt = s.now()
	res, err := s.catalog().UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": bson.M{
		"kind":        item.Kind,
		"name":        item.Name,
		"description": item.Description,
		"brand":       item.Brand,
		"category":    item.CategoryID,
		"image":       item.Image,
		"price":       item.Price,
		"stock":       item.Stock,
		"updatedAt":   item.UpdatedAt,
	}})
	if err != nil {
		return wrap(err, "update item")
	}
	return notFoundIfNone(res.MatchedCount, "update item")
}

func (s *Store) DeleteItem(ctx context.Context, kind models.Kind, id uuid.UUID) error {
	res, err := s.catalog().DeleteOne(ctx, bson.M{"_id": id, "kind": kind})
	if err != nil {
		return wrap(err, "delete item")
	}
	return notFoundIfNone(res.DeletedCount, "delete item")
}

func catalogFilter(f store.CatalogFilter) bson.M {
	filter := bson.M{"kind": f.Kind}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
	}
	if f.CategoryID != nil {
		filter["category"] = *f.CategoryID
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

func (s *Store) ListItems(ctx context.Context, f store.CatalogFilter) ([]models.CatalogItem, int64, error) {
	filter := catalogFilter(f)

	total, err := s.catalog().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrap(err, "count items")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit))
	items, err := findAll[models.CatalogItem](ctx, s.catalog(), filter, "list items", opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) TopItems(ctx context.Context, kind models.Kind, limit int) ([]models.CatalogItem, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "numReviews", Value: -1}}).
		SetLimit(int64(limit))
	return findAll[models.CatalogItem](ctx, s.catalog(), bson.M{"kind": kind}, "top items", opts)
}

// AddReview appends the review and recomputes rating/numReviews in a single
// document update; the filter refuses a second review from the same user.
func (s *Store) AddReview(ctx context.Context, item *models.CatalogItem, review models.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now()
	}
	filter := bson.M{"_id": item.ID, "reviews.user": bson.M{"$ne": review.UserID}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "reviews", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$reviews", bson.A{}}}},
				bson.A{bson.D{{Key: "$literal", Value: review}}},
			}}}},
			{Key: "updatedAt", Value: s.now()},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "numReviews", Value: bson.D{{Key: "$size", Value: "$reviews"}}},
			{Key: "rating", Value: bson.D{{Key: "$avg", Value: "$reviews.rating"}}},
		}}},
	}

	var updated models.CatalogItem
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.catalog().FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		item.NumReviews = updated.NumReviews
		item.Rating = updated.Rating
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return wrap(err, "add review")
	}

	n, cerr := s.catalog().CountDocuments(ctx, bson.M{"_id": item.ID})
	if cerr != nil {
		return wrap(cerr, "add review")
	}
	if n == 0 {
		return wrap(mongo.ErrNoDocuments, "add review")
	}
	return errors.Wrap(store.ErrDuplicate, "mongostore: add review")
}
