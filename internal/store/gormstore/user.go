package gormstore

import (
	"context"
	"strings"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Store) CreateUser(ctx context.Context, u *models.User) error {
	return wrap(r.DB.WithContext(ctx).Create(u).Error, "create user")
}

func (r *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, wrap(err, "get user")
	}
	return &u, nil
}

func (r *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrap(err, "get user by email")
	}
	return &u, nil
}

func (r *Store) UpdateUser(ctx context.Context, u *models.User) error {
	res := r.DB.WithContext(ctx).Model(u).Select("*").Omit("created_at").Updates(u)
	if res.Error != nil {
		return wrap(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "update user")
	}
	return nil
}

func (r *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return wrap(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "delete user")
	}
	return nil
}

func (r *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, wrap(err, "list users")
	}
	return users, nil
}

func (r *Store) IncrementOTPAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).
			UpdateColumn("otp_attempts", gorm.Expr("otp_attempts + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Select("otp_attempts").Where("id = ?", id).First(&u).Error
	})
	if err != nil {
		return 0, wrap(err, "increment otp attempts")
	}
	return u.OTPAttempts, nil
}
