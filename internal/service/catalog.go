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
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/internal/util"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultTopLimit = 3

// ImageRemover deletes a previously uploaded image by its public URL.
type ImageRemover interface {
	Delete(ctx context.Context, url string) error
}

type CatalogService struct {
	Items      store.CatalogStore
	Categories store.CategoryStore
	Index      search.Index
	Images     ImageRemover
	Events     events.Publisher
	Now        func() time.Time
}

type ListParams struct {
	Keyword    string
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Page       int
	Size       int
}

func (s *CatalogService) List(ctx context.Context, kind models.Kind, p ListParams) (*transport.Page[models.CatalogItem], error) {
	if p.MinPrice != nil && p.MaxPrice != nil && p.MinPrice.GreaterThan(*p.MaxPrice) {
		return nil, validationf("minPrice must not exceed maxPrice")
	}
	page, from, limit := util.Calculate(p.Page, p.Size)

	items, total, err := s.Items.ListItems(ctx, store.CatalogFilter{
		Kind:       kind,
		Keyword:    p.Keyword,
		CategoryID: p.CategoryID,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
		Offset:     from,
		Limit:      limit,
	})
	if err != nil {
		return nil, storeErr(err, kindLabel(kind))
	}
	return newPage(items, page, limit, total), nil
}

func (s *CatalogService) Get(ctx context.Context, kind models.Kind, id uuid.UUID) (*models.CatalogItem, error) {
	item, err := s.Items.GetItem(ctx, kind, id)
	if err != nil {
		return nil, storeErr(err, kindLabel(kind))
	}
	return item, nil
}

func (s *CatalogService) Create(ctx context.Context, kind models.Kind, userID uuid.UUID, req transport.ItemRequest) (*models.CatalogItem, error) {
	if err := s.check(ctx, req); err != nil {
		return nil, err
	}

	now := clock(s.Now)
	item := &models.CatalogItem{
		ID:        uuid.New(),
		Kind:      kind,
		Reviews:   []models.Review{},
		CreatedBy: userID,
		CreatedAt: now,
	}
	applyItem(item, req, now)

	if err := s.Items.CreateItem(ctx, item); err != nil {
		return nil, storeErr(err, kindLabel(kind))
	}

	logging.FromContext(ctx).With("svc", "catalog").Info("item_created", "kind", kind, "id", item.ID)
	s.changed(ctx, "item_created", item)
	return item, nil
}

// Update changes only the fields present in req. An empty image keeps the
// current one; a new image replaces and deletes the old file.
func (s *CatalogService) Update(ctx context.Context, kind models.Kind, id uuid.UUID, req transport.UpdateItemRequest) (*models.CatalogItem, error) {
	item, err := s.Items.GetItem(ctx, kind, id)
	if err != nil {
		return nil, storeErr(err, kindLabel(kind))
	}

	merged := mergeItem(item, req)
	toCheck := merged
	if req.CategoryID == nil {
		// an unchanged category is not re-validated
		toCheck.CategoryID = nil
	}
	if err := s.check(ctx, toCheck); err != nil {
		return nil, err
	}

	oldImage := item.Image
	applyItem(item, merged, clock(s.Now))

	if err := s.Items.UpdateItem(ctx, item); err != nil {
		return nil, storeErr(err, kindLabel(kind))
	}
	if oldImage != "" && oldImage != item.Image {
		s.removeImage(ctx, oldImage)
	}

	logging.FromContext(ctx).With("svc", "catalog").Info("item_updated", "kind", kind, "id", item.ID)
	s.changed(ctx, "item_updated", item)
	return item, nil
}

func (s *CatalogService) Delete(ctx context.Context, kind models.Kind, id uuid.UUID) error {
	item, err := s.Items.GetItem(ctx, kind, id)
	if err != nil {
		return storeErr(err, kindLabel(kind))
	}
	if err := s.Items.DeleteItem(ctx, kind, id); err != nil {
		return storeErr(err, kindLabel(kind))
	}
	if item.Image != "" {
		s.removeImage(ctx, item.Image)
	}

	logging.FromContext(ctx).With("svc", "catalog").Info("item_deleted", "kind", kind, "id", id)
	unindexItem(ctx, s.Index, id)
	publish(ctx, s.Events, events.TopicProducts, events.Event{
		Type: "item_deleted",
		ID:   id.String(),
		Data: map[string]any{"kind": kind},
	})
	return nil
}

// Top returns the best rated items; limit <= 0 means DefaultTopLimit.
func (s *CatalogService) Top(ctx context.Context, kind models.Kind, limit int) ([]models.CatalogItem, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	limit = min(limit, util.MaxPageSize)
	items, err := s.Items.TopItems(ctx, kind, limit)
	if err != nil {
		return nil, storeErr(err, kindLabel(kind))
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	return items, nil
}

// Search ranks items with the search index when one is configured and
// falls back to the store keyword filter when it is missing or failing.
func (s *CatalogService) Search(ctx context.Context, kind models.Kind, query string, page, size int) (*transport.Page[models.CatalogItem], error) {
	query = strings.TrimSpace(query)
	if query == "" || s.Index == nil {
		return s.List(ctx, kind, ListParams{Keyword: query, Page: page, Size: size})
	}

	page, from, limit := util.Calculate(page, size)
	total, ids, err := s.Index.Search(ctx, kind, query, from, limit)
	if err != nil {
		logging.FromContext(ctx).With("svc", "catalog").Warn("search_index_error", "kind", kind, "error", err)
		return s.List(ctx, kind, ListParams{Keyword: query, Page: page, Size: size})
	}

	found, err := s.Items.GetItems(ctx, ids)
	if err != nil {
		return nil, storeErr(err, kindLabel(kind))
	}
	byID := make(map[uuid.UUID]models.CatalogItem, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}
	items := make([]models.CatalogItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok && it.Kind == kind {
			items = append(items, it)
		}
	}
	return newPage(items, page, limit, total), nil
}

func (s *CatalogService) check(ctx context.Context, req transport.ItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return validationf("name is required")
	}
	if req.Price.IsNegative() {
		return validationf("price must not be negative")
	}
	if req.Stock < 0 {
		return validationf("stock must not be negative")
	}
	if req.CategoryID != nil {
		_, err := s.Categories.GetCategory(ctx, *req.CategoryID)
		if errors.Is(err, store.ErrNotFound) {
			return validationf("category does not exist")
		}
		if err != nil {
			return storeErr(err, "category")
		}
	}
	return nil
}

func (s *CatalogService) removeImage(ctx context.Context, url string) {
	if s.Images == nil {
		return
	}
	if err := s.Images.Delete(ctx, url); err != nil {
		logging.FromContext(ctx).With("svc", "catalog").Warn("delete_image_error", "url", url, "error", err)
	}
}

func (s *CatalogService) changed(ctx context.Context, typ string, item *models.CatalogItem) {
	indexItem(ctx, s.Index, item)
	publish(ctx, s.Events, events.TopicProducts, events.Event{
		Type:   typ,
		ID:     item.ID.String(),
		UserID: item.CreatedBy.String(),
		Data:   map[string]any{"kind": item.Kind, "name": item.Name, "price": item.Price, "stock": item.Stock},
	})
}

func applyItem(item *models.CatalogItem, req transport.ItemRequest, now time.Time) {
	item.Name = strings.TrimSpace(req.Name)
	item.Description = req.Description
	item.Brand = req.Brand
	item.CategoryID = req.CategoryID
	item.Image = req.Image
	item.Price = req.Price
	item.Stock = req.Stock
	item.UpdatedAt = now
}

// mergeItem overlays the present fields of req on the stored item.
func mergeItem(item *models.CatalogItem, req transport.UpdateItemRequest) transport.ItemRequest {
	out := transport.ItemRequest{
		Name:        item.Name,
		Description: item.Description,
		Brand:       item.Brand,
		CategoryID:  item.CategoryID,
		Image:       item.Image,
		Price:       item.Price,
		Stock:       item.Stock,
	}
	if req.Name != nil {
		out.Name = *req.Name
	}
	if req.Description != nil {
		out.Description = *req.Description
	}
	if req.Brand != nil {
		out.Brand = *req.Brand
	}
	if req.CategoryID != nil {
		out.CategoryID = req.CategoryID
	}
	if req.Image != nil && *req.Image != "" {
		out.Image = *req.Image
	}
	if req.Price != nil {
		out.Price = *req.Price
	}
	if req.Stock != nil {
		out.Stock = *req.Stock
	}
	return out
}

func newPage[T any](items []T, page, size int, total int64) *transport.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &transport.Page[T]{Items: items, Page: page, Pages: util.Pages(total, size), Total: total}
}
