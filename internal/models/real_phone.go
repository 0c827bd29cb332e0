package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RealPhone is the user's own verified number. One row per user; the unique
// index on UserID is the backstop for concurrent submissions.
type RealPhone struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID               uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Number               string     `gorm:"not null;index" json:"number"`
	VerificationCode     string     `gorm:"not null" json:"-"`
	VerificationSentDate time.Time  `gorm:"not null" json:"verification_sent_date"`
	VerificationAttempts int        `gorm:"not null;default:0" json:"-"`
	Verified             bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedDate         *time.Time `gorm:"default:null" json:"verified_date,omitempty"`
	CountryCode          string     `json:"country_code"`
	Carrier              string     `json:"carrier"`
	CreatedAt            time.Time  `json:"-"`
	UpdatedAt            time.Time  `json:"-"`
}

func (p *RealPhone) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CodeExpired reports whether the current verification code is past its window.
func (p *RealPhone) CodeExpired(window time.Duration, now time.Time) bool {
	return now.After(p.VerificationSentDate.Add(window))
}
