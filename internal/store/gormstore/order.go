package gormstore

import (
	"context"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return wrap(r.DB.WithContext(ctx).Create(order).Error, "create order")
}

func (r *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, wrap(err, "get order")
	}
	return &order, nil
}

func (r *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	res := r.DB.WithContext(ctx).Model(order).Select("*").Omit("created_at").Updates(order)
	if res.Error != nil {
		return wrap(res.Error, "update order")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "update order")
	}
	return nil
}

func (r *Store) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return nil, wrap(err, "list user orders")
	}
	return orders, nil
}

func (r *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, wrap(err, "list orders")
	}
	return orders, nil
}
