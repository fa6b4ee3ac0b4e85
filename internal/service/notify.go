package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/events"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/search"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/google/uuid"
)

const indexTimeout = 3 * time.Second

// publish never fails the caller; broker errors are logged.
func publish(ctx context.Context, pub events.Publisher, topic string, ev events.Event) {
	if pub == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := pub.Publish(ctx, topic, ev.ID, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", ev.Type, "error", err)
	}
}

func indexItem(ctx context.Context, idx search.Index, item *models.CatalogItem) {
	if idx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()
	if err := idx.IndexItem(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("index_item_error", "id", item.ID, "error", err)
	}
}

func unindexItem(ctx context.Context, idx search.Index, id uuid.UUID) {
	if idx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()
	if err := idx.DeleteItem(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("unindex_item_error", "id", id, "error", err)
	}
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}
