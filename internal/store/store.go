// Package store defines the persistence contracts shared by the SQL and
// document database adapters.
package store

import (
	"context"
	"errors"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("duplicate record")
	ErrUnavailable = errors.New("database unavailable")
)

type CatalogFilter struct {
	Kind       models.Kind
	Keyword    string
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Offset     int
	Limit      int
}

type CatalogStore interface {
	CreateItem(ctx context.Context, item *models.CatalogItem) error
	// GetItem loads the item with its reviews in insertion order.
	GetItem(ctx context.Context, kind models.Kind, id uuid.UUID) (*models.CatalogItem, error)
	// GetItems returns the items that exist among ids, of any kind, without reviews.
	GetItems(ctx context.Context, ids []uuid.UUID) ([]models.CatalogItem, error)
	UpdateItem(ctx context.Context, item *models.CatalogItem) error
	DeleteItem(ctx context.Context, kind models.Kind, id uuid.UUID) error
	ListItems(ctx context.Context, f CatalogFilter) ([]models.CatalogItem, int64, error)
	TopItems(ctx context.Context, kind models.Kind, limit int) ([]models.CatalogItem, error)
	// AddReview persists review and the aggregate fields of item.
	// ErrDuplicate is returned when the user already reviewed the item.
	AddReview(ctx context.Context, item *models.CatalogItem, review models.Review) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type CartStore interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// SaveCart inserts or replaces the cart. A second cart for the same
	// user fails with ErrDuplicate.
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID uuid.UUID) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) ([]models.User, error)
	// IncrementOTPAttempts atomically bumps the failed reset-code counter
	// and returns the new value.
	IncrementOTPAttempts(ctx context.Context, id uuid.UUID) (int, error)
}

type ContactStore interface {
	CreateMessage(ctx context.Context, m *models.ContactMessage) error
	ListMessages(ctx context.Context) ([]models.ContactMessage, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type Store interface {
	CatalogStore
	CategoryStore
	CartStore
	OrderStore
	UserStore
	ContactStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
