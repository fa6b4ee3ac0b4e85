package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is owned by exactly one user and holds at most one line per product.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"       bson:"_id"       json:"_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" bson:"user"  json:"user"`
	Items     []CartLine `gorm:"type:text;serializer:json"  bson:"cartItems" json:"cartItems"`
	CreatedAt time.Time  `                                  bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `                                  bson:"updatedAt" json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartLine keeps the name/price/image snapshot taken when the product was first added.
type CartLine struct {
	ProductID uuid.UUID       `bson:"product" json:"product"`
	Name      string          `bson:"name"    json:"name"`
	Price     decimal.Decimal `bson:"price"   json:"price"`
	Image     string          `bson:"image"   json:"image"`
	Qty       int             `bson:"qty"     json:"qty"`
}

func (c *Cart) Line(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
