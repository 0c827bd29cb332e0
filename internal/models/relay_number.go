package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RelayNumber is the masking number assigned to a user. One row per user.
// VCardLookupKey is the only public handle for the contact card; it is random,
// fixed at creation time, and never derived from the number or any id.
type RelayNumber struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Number         string    `gorm:"not null;index" json:"number"`
	VCardLookupKey string    `gorm:"column:vcard_lookup_key;uniqueIndex;not null" json:"vcard_lookup_key"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

func (r *RelayNumber) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
