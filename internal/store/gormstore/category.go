package gormstore

import (
	"context"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return wrap(r.DB.WithContext(ctx).Create(c).Error, "create category")
}

func (r *Store) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, wrap(err, "get category")
	}
	return &c, nil
}

func (r *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list categories")
	}
	return out, nil
}

func (r *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	res := r.DB.WithContext(ctx).Model(c).Select("*").Omit("created_at").Updates(c)
	if res.Error != nil {
		return wrap(res.Error, "update category")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "update category")
	}
	return nil
}

func (r *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return wrap(res.Error, "delete category")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "delete category")
	}
	return nil
}
