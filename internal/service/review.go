package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/events"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/search"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/google/uuid"
)

type ReviewService struct {
	Items  store.CatalogStore
	Index  search.Index
	Events events.Publisher
	Now    func() time.Time
}

// AddReview records one review per user and item and refreshes the
// item's rating and review count.
func (s *ReviewService) AddReview(ctx context.Context, kind models.Kind, itemID, userID uuid.UUID, userName string, rating int, comment string) (*models.CatalogItem, error) {
	l := logging.FromContext(ctx).With("svc", "review")

	if rating < 1 || rating > 5 {
		return nil, validationf("rating must be between 1 and 5")
	}

	item, err := s.Items.GetItem(ctx, kind, itemID)
	if err != nil {
		return nil, storeErr(err, kindLabel(kind))
	}

	for _, r := range item.Reviews {
		if r.UserID == userID {
			return nil, ErrAlreadyReviewed
		}
	}

	review := models.Review{
		ID:        uuid.New(),
		ItemID:    item.ID,
		UserID:    userID,
		Name:      userName,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: clock(s.Now),
	}
	if err := s.Items.AddReview(ctx, item, review); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, storeErr(err, kindLabel(kind))
	}
	item.Reviews = append(item.Reviews, review)

	l.Info("review_added", "item_id", item.ID, "user_id", userID, "rating", item.Rating, "num_reviews", item.NumReviews)

	indexItem(ctx, s.Index, item)
	publish(ctx, s.Events, events.TopicProducts, events.Event{
		Type:   "review_added",
		ID:     item.ID.String(),
		UserID: userID.String(),
		Data:   map[string]any{"kind": item.Kind, "rating": item.Rating, "numReviews": item.NumReviews},
	})
	return item, nil
}

func kindLabel(kind models.Kind) string {
	switch kind {
	case models.KindAccessory:
		return "accessory"
	case models.KindFullMarineSetup:
		return "full marine setup"
	}
	return "product"
}
