package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"       bson:"_id"                       json:"_id"`
	Name            string     `gorm:"not null"                   bson:"name"                      json:"name"`
	Email           string     `gorm:"uniqueIndex;not null"       bson:"email"                     json:"email"`
	PasswordHash    string     `gorm:"not null"                   bson:"password"                  json:"-"`
	IsAdmin         bool       `gorm:"not null;default:false"     bson:"isAdmin"                   json:"isAdmin"`
	BillingAddress  *Address   `gorm:"type:text;serializer:json"  bson:"billingAddress,omitempty"  json:"billingAddress,omitempty"`
	ShippingAddress *Address   `gorm:"type:text;serializer:json"  bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	OTPHash         string     `                                  bson:"otp,omitempty"             json:"-"`
	OTPExpiresAt    *time.Time `                                  bson:"otpExpires,omitempty"      json:"-"`
	OTPAttempts     int        `gorm:"not null;default:0"         bson:"otpAttempts"               json:"-"`
	CreatedAt       time.Time  `                                  bson:"createdAt"                 json:"createdAt"`
	UpdatedAt       time.Time  `                                  bson:"updatedAt"                 json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) ClearOTP() {
	u.OTPHash = ""
	u.OTPExpiresAt = nil
	u.OTPAttempts = 0
}
