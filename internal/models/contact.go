package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" bson:"_id"       json:"_id"`
	Name      string    `gorm:"not null"             bson:"name"      json:"name"`
	Email     string    `gorm:"not null"             bson:"email"     json:"email"`
	Phone     string    `                            bson:"phone"     json:"phone,omitempty"`
	Subject   string    `                            bson:"subject"   json:"subject,omitempty"`
	Message   string    `gorm:"type:text;not null"   bson:"message"   json:"message"`
	CreatedAt time.Time `gorm:"index"                bson:"createdAt" json:"createdAt"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
