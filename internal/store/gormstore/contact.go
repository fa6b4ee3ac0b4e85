package gormstore

import (
	"context"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Store) CreateMessage(ctx context.Context, m *models.ContactMessage) error {
	return wrap(r.DB.WithContext(ctx).Create(m).Error, "create message")
}

func (r *Store) ListMessages(ctx context.Context) ([]models.ContactMessage, error) {
	var out []models.ContactMessage
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list messages")
	}
	return out, nil
}

func (r *Store) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.ContactMessage{})
	if res.Error != nil {
		return wrap(res.Error, "delete message")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "delete message")
	}
	return nil
}
