package transport

import (
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID        `json:"productId" validate:"required"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price"`
	Image     string           `json:"image"`
	Qty       int              `json:"qty"`
}

type SetQuantityRequest struct {
	Qty int `json:"qty"`
}

type CartLineView struct {
	Product *ProductSummary `json:"product"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Image   string          `json:"image"`
	Qty     int             `json:"qty"`
}

// ProductSummary is the current catalog state of a cart line's product.
// It is nil when the product no longer exists.
type ProductSummary struct {
	ID    uuid.UUID       `json:"_id"`
	Kind  models.Kind     `json:"kind"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Stock int             `json:"stock"`
}

type CartView struct {
	ID        *uuid.UUID     `json:"_id,omitempty"`
	UserID    uuid.UUID      `json:"user"`
	CartItems []CartLineView `json:"cartItems"`
}

// OrderLineRequest fields are optional; a missing price or qty counts as zero.
type OrderLineRequest struct {
	ProductID uuid.UUID        `json:"product"`
	Name      string           `json:"name"`
	Image     string           `json:"image"`
	Price     *decimal.Decimal `json:"price"`
	Qty       *int             `json:"qty"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderLineRequest  `json:"orderItems"`
	ShippingAddress models.Address      `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	ItemsPrice      *decimal.Decimal    `json:"itemsPrice"`
	TaxPrice        *decimal.Decimal    `json:"taxPrice"`
	ShippingPrice   *decimal.Decimal    `json:"shippingPrice"`
	TotalPrice      *decimal.Decimal    `json:"totalPrice"`
	Status          *models.OrderStatus `json:"status"`
	IsPaid          *bool               `json:"isPaid"`
}

type SetStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type ItemRequest struct {
	Name        string          `json:"name"        validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Brand       string          `json:"brand"       validate:"max=200"`
	CategoryID  *uuid.UUID      `json:"category"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"       validate:"min=0"`
}

// UpdateItemRequest carries the fields a client sent. Nil fields keep the
// stored value.
type UpdateItemRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Brand       *string          `json:"brand"       validate:"omitempty,max=200"`
	CategoryID  *uuid.UUID       `json:"category"`
	Image       *string          `json:"image"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
}

// ItemRequest fills a create request from the present fields.
func (r UpdateItemRequest) ItemRequest() ItemRequest {
	var out ItemRequest
	if r.Name != nil {
		out.Name = *r.Name
	}
	if r.Description != nil {
		out.Description = *r.Description
	}
	if r.Brand != nil {
		out.Brand = *r.Brand
	}
	out.CategoryID = r.CategoryID
	if r.Image != nil {
		out.Image = *r.Image
	}
	if r.Price != nil {
		out.Price = *r.Price
	}
	if r.Stock != nil {
		out.Stock = *r.Stock
	}
	return out
}

type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name            *string         `json:"name"            validate:"omitempty,max=100"`
	Email           *string         `json:"email"           validate:"omitempty,email"`
	Password        *string         `json:"password"        validate:"omitempty,min=6,max=72"`
	BillingAddress  *models.Address `json:"billingAddress"`
	ShippingAddress *models.Address `json:"shippingAddress"`
}

type AdminUpdateUserRequest struct {
	Name    *string `json:"name"    validate:"omitempty,max=100"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	IsAdmin *bool   `json:"isAdmin"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	OTP         string `json:"otp"         validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID      uuid.UUID `json:"_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"isAdmin"`
	Token   string    `json:"token"`
}

type ContactRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"max=40"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}
