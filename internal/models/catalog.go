package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindProduct         Kind = "product"
	KindAccessory       Kind = "accessory"
	KindFullMarineSetup Kind = "full_marine_setup"
)

func (k Kind) Valid() bool {
	switch k {
	case KindProduct, KindAccessory, KindFullMarineSetup:
		return true
	}
	return false
}

// CatalogItem is a product, accessory or full marine setup.
// Rating and NumReviews are derived from Reviews.
type CatalogItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"                      bson:"_id"                json:"_id"`
	Kind        Kind            `gorm:"size:32;index;not null"                    bson:"kind"               json:"kind"`
	Name        string          `gorm:"not null"                                  bson:"name"               json:"name"`
	Description string          `gorm:"type:text"                                 bson:"description"        json:"description"`
	Brand       string          `                                                 bson:"brand"              json:"brand"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"                           bson:"category,omitempty" json:"category,omitempty"`
	Image       string          `                                                 bson:"image"              json:"image"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"     bson:"price"              json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"       bson:"stock"              json:"stock"`
	Rating      float64         `gorm:"not null;default:0"                        bson:"rating"             json:"rating"`
	NumReviews  int             `gorm:"not null;default:0"                        bson:"numReviews"         json:"numReviews"`
	Reviews     []Review        `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" bson:"reviews"        json:"reviews"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid"                                 bson:"user"               json:"user"`
	CreatedAt   time.Time       `                                                 bson:"createdAt"          json:"createdAt"`
	UpdatedAt   time.Time       `                                                 bson:"updatedAt"          json:"updatedAt"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}

// Review is created once per (user, item) and never overwritten.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                               bson:"_id"       json:"_id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_item_user" bson:"-"         json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_item_user" bson:"user"      json:"user"`
	Name      string    `gorm:"not null"                                           bson:"name"      json:"name"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"         bson:"rating"    json:"rating"`
	Comment   string    `gorm:"type:text"                                          bson:"comment"   json:"comment"`
	CreatedAt time.Time `                                                          bson:"createdAt" json:"createdAt"`
}

func (Review) TableName() string {
	return "reviews"
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"  bson:"_id"         json:"_id"`
	Name        string    `gorm:"uniqueIndex;not null"  bson:"name"        json:"name"`
	Description string    `gorm:"type:text"             bson:"description" json:"description"`
	CreatedAt   time.Time `                             bson:"createdAt"   json:"createdAt"`
	UpdatedAt   time.Time `                             bson:"updatedAt"   json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}
