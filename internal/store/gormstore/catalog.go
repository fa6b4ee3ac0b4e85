package gormstore

import (
	"context"
	"strings"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderedReviews(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func (r *Store) CreateItem(ctx context.Context, item *models.CatalogItem) error {
	err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(item).Error
	return wrap(err, "create item")
}

func (r *Store) GetItem(ctx context.Context, kind models.Kind, id uuid.UUID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := r.DB.WithContext(ctx).
		Preload("Reviews", orderedReviews).
		Where("id = ? AND kind = ?", id, kind).
		First(&item).Error
	if err != nil {
		return nil, wrap(err, "get item")
	}
	if item.Reviews == nil {
		item.Reviews = []models.Review{}
	}
	return &item, nil
}

func (r *Store) GetItems(ctx context.Context, ids []uuid.UUID) ([]models.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	var items []models.CatalogItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", keys).Find(&items).Error; err != nil {
		return nil, wrap(err, "get items")
	}
	return items, nil
}

func (r *Store) UpdateItem(ctx context.Context, item *models.CatalogItem) error {
	res := r.DB.WithContext(ctx).
		Model(item).
		Select("*").
		Omit("created_at", "rating", "num_reviews", clause.Associations).
		Updates(item)
	if res.Error != nil {
		return wrap(res.Error, "update item")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "update item")
	}
	return nil
}

func (r *Store) DeleteItem(ctx context.Context, kind models.Kind, id uuid.UUID) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND kind = ?", id, kind).Delete(&models.CatalogItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("item_id = ?", id).Delete(&models.Review{}).Error
	})
	return wrap(err, "delete item")
}

func (r *Store) ListItems(ctx context.Context, f store.CatalogFilter) ([]models.CatalogItem, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.CatalogItem{}).Where("kind = ?", f.Kind)
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(kw)+"%")
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count items")
	}

	var items []models.CatalogItem
	err := q.Preload("Reviews", orderedReviews).
		Order("created_at DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, wrap(err, "list items")
	}
	return items, total, nil
}

func (r *Store) TopItems(ctx context.Context, kind models.Kind, limit int) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := r.DB.WithContext(ctx).
		Preload("Reviews", orderedReviews).
		Where("kind = ?", kind).
		Order("rating DESC").
		Order("num_reviews DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, wrap(err, "top items")
	}
	return items, nil
}

// AddReview inserts the review and recomputes the aggregate from the stored
// reviews inside one transaction; item's Rating and NumReviews are refreshed.
func (r *Store) AddReview(ctx context.Context, item *models.CatalogItem, review models.Review) error {
	review.ItemID = item.ID
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var agg struct {
			N    int64
			Mean float64
		}
		if err := tx.Model(&models.Review{}).
			Select("COUNT(*) AS n, COALESCE(AVG(rating), 0) AS mean").
			Where("item_id = ?", item.ID).
			Scan(&agg).Error; err != nil {
			return err
		}

		res := tx.Model(&models.CatalogItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{
				"rating":      agg.Mean,
				"num_reviews": agg.N,
				"updated_at":  time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		item.NumReviews = int(agg.N)
		item.Rating = agg.Mean
		return nil
	})
	return wrap(err, "add review")
}
