package gormstore

import (
	"context"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Store) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, wrap(err, "get cart")
	}
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	return &cart, nil
}

func (r *Store) SaveCart(ctx context.Context, cart *models.Cart) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(cart).Select("items", "updated_at").Updates(cart)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(cart).Error
	})
	return wrap(err, "save cart")
}

func (r *Store) DeleteCart(ctx context.Context, userID uuid.UUID) error {
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Cart{}).Error
	return wrap(err, "delete cart")
}
