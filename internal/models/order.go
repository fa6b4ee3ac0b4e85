package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderLine is a copy of the product data at order time.
type OrderLine struct {
	ProductID uuid.UUID       `bson:"product" json:"product"`
	Name      string          `bson:"name"    json:"name"`
	Image     string          `bson:"image"   json:"image"`
	Price     decimal.Decimal `bson:"price"   json:"price"`
	Qty       int             `bson:"qty"     json:"qty"`
}

// PaymentResult is stored as received from the payment provider.
type PaymentResult struct {
	ID           string `bson:"id"            json:"id"`
	Status       string `bson:"status"        json:"status"`
	UpdateTime   string `bson:"update_time"   json:"update_time"`
	EmailAddress string `bson:"email_address" json:"email_address"`
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"              bson:"_id"                     json:"_id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null"          bson:"user"                    json:"user"`
	OrderItems      []OrderLine     `gorm:"type:text;serializer:json"         bson:"orderItems"              json:"orderItems"`
	ShippingAddress Address         `gorm:"type:text;serializer:json"         bson:"shippingAddress"         json:"shippingAddress"`
	PaymentMethod   string          `                                         bson:"paymentMethod"           json:"paymentMethod"`
	PaymentResult   *PaymentResult  `gorm:"type:text;serializer:json"         bson:"paymentResult,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"       bson:"itemsPrice"              json:"itemsPrice"`
	TaxPrice        decimal.Decimal `gorm:"type:numeric(12,2);not null"       bson:"taxPrice"                json:"taxPrice"`
	ShippingPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"       bson:"shippingPrice"           json:"shippingPrice"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"       bson:"totalPrice"              json:"totalPrice"`
	IsPaid          bool            `gorm:"not null;default:false"            bson:"isPaid"                  json:"isPaid"`
	PaidAt          *time.Time      `                                         bson:"paidAt,omitempty"        json:"paidAt,omitempty"`
	IsDelivered     bool            `gorm:"not null;default:false"            bson:"isDelivered"             json:"isDelivered"`
	DeliveredAt     *time.Time      `                                         bson:"deliveredAt,omitempty"   json:"deliveredAt,omitempty"`
	Status          OrderStatus     `gorm:"size:32;not null;default:pending"  bson:"status"                  json:"status"`
	CreatedAt       time.Time       `gorm:"index"                             bson:"createdAt"               json:"createdAt"`
	UpdatedAt       time.Time       `                                         bson:"updatedAt"               json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}
