// Package gormstore implements the store contracts on top of gorm
// (PostgreSQL in production, SQLite for tests and local runs).
package gormstore

import (
	"context"
	"strings"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (r *Store) Migrate(ctx context.Context) error {
	err := r.DB.WithContext(ctx).AutoMigrate(
		&models.Category{},
		&models.CatalogItem{},
		&models.Review{},
		&models.Cart{},
		&models.Order{},
		&models.User{},
		&models.ContactMessage{},
	)
	return errors.Wrap(err, "gormstore: migrate")
}

func (r *Store) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return errors.Wrap(err, "gormstore: ping")
	}
	return wrap(sqlDB.PingContext(ctx), "ping")
}

func (r *Store) Close(context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return errors.Wrap(err, "gormstore: close")
	}
	return sqlDB.Close()
}

func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	op = "gormstore: " + op
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(store.ErrNotFound, op)
	case isDuplicate(err):
		return errors.Wrap(store.ErrDuplicate, op)
	case store.IsTransient(err):
		return errors.Wrapf(store.ErrUnavailable, "%s: %v", op, err)
	}
	return errors.Wrap(err, op)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
