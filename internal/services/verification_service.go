package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/maskline/backend/internal/config"
	"github.com/maskline/backend/internal/models"
	"github.com/maskline/backend/pkg/phones"
	"gorm.io/gorm"
)

// VerificationService owns the real-phone ownership verification lifecycle:
// unset -> pending -> verified. Proving the number exists (carrier lookup)
// happens once on submission; proving possession (code match) never talks to
// the provider again, so verification survives provider downtime.
type VerificationService struct {
	db       *gorm.DB
	cfg      *config.Config
	provider PhoneProvider
}

func NewVerificationService(db *gorm.DB, cfg *config.Config, provider PhoneProvider) *VerificationService {
	return &VerificationService{db: db, cfg: cfg, provider: provider}
}

func generateVerificationCode(length int) (string, error) {
	const digits = "0123456789"
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b), nil
}

// GetRealPhone returns the user's RealPhone, or nil when none exists.
func (s *VerificationService) GetRealPhone(userID uuid.UUID) (*models.RealPhone, error) {
	var phone models.RealPhone
	if err := s.db.Where("user_id = ?", userID).First(&phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &phone, nil
}

// SubmitNumber starts (or restarts) verification of a real phone number.
//
// First submission runs a carrier lookup, creates the pending record and sends
// the code by SMS. Re-submitting the same unverified number is idempotent and
// skips the lookup; if the code has expired a fresh one is issued and sent.
// Submitting a different number resets the record entirely.
//
// On SMS failure the pending record is kept so the user can retry, and
// ErrMessageDeliveryFailed is returned together with the record.
func (s *VerificationService) SubmitNumber(ctx context.Context, userID uuid.UUID, number string) (*models.RealPhone, error) {
	if !phones.IsE164(number) {
		return nil, ErrInvalidNumberFormat
	}

	existing, err := s.GetRealPhone(userID)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.Number == number {
		if existing.Verified {
			return existing, nil
		}
		if !existing.CodeExpired(s.cfg.VerificationCodeExpiry, time.Now().UTC()) {
			// Idempotent re-submission; the issued code is still good.
			return existing, nil
		}
		// Expired code: issue a fresh one without repeating the carrier lookup.
		code, err := generateVerificationCode(s.cfg.VerificationCodeLength)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		updates := map[string]interface{}{
			"verification_code":      code,
			"verification_sent_date": now,
			"verification_attempts":  0,
		}
		if err := s.db.Model(existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		existing.VerificationCode = code
		existing.VerificationSentDate = now
		existing.VerificationAttempts = 0
		return existing, s.sendCode(ctx, existing.Number, code)
	}

	// New number (or first submission): prove it exists before spending an SMS.
	info, err := s.provider.LookupCarrier(ctx, number)
	if err != nil {
		log.Printf("carrier lookup for user %s failed: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrCarrierLookupFailed, err)
	}
	if info.LineType != "" && info.LineType != "mobile" && info.LineType != "landline" {
		return nil, fmt.Errorf("%w: unsupported line type %q", ErrCarrierLookupFailed, info.LineType)
	}

	code, err := generateVerificationCode(s.cfg.VerificationCodeLength)
	if err != nil {
		return nil, err
	}

	phone := &models.RealPhone{
		UserID:               userID,
		Number:               number,
		VerificationCode:     code,
		VerificationSentDate: time.Now().UTC(),
		CountryCode:          info.CountryCode,
		Carrier:              info.Carrier,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Restarting with a different number throws the old record away.
		if existing != nil {
			if err := tx.Delete(&models.RealPhone{}, "user_id = ?", userID).Error; err != nil {
				return err
			}
		}
		return tx.Create(phone).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent submission won the race; surface its record.
			return s.GetRealPhone(userID)
		}
		return nil, err
	}

	return phone, s.sendCode(ctx, number, code)
}

func (s *VerificationService) sendCode(ctx context.Context, number, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in %d hours.",
		code, int(s.cfg.VerificationCodeExpiry.Hours()))
	if err := s.provider.SendSMS(ctx, number, body); err != nil {
		log.Printf("verification SMS to %s failed: %v", number, err)
		return fmt.Errorf("%w: %v", ErrMessageDeliveryFailed, err)
	}
	return nil
}

// SubmitVerificationCode proves possession of the number. Only the most
// recently issued code matches, only within its expiry window, and only for a
// bounded number of attempts. A verified record short-circuits idempotently.
// No provider call happens on this path.
func (s *VerificationService) SubmitVerificationCode(userID uuid.UUID, number, code string) (*models.RealPhone, error) {
	var phone models.RealPhone
	if err := s.db.Where("user_id = ? AND number = ?", userID, number).First(&phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingVerification
		}
		return nil, err
	}

	if phone.Verified {
		return &phone, nil
	}
	if phone.VerificationAttempts >= s.cfg.MaxVerificationAttempts {
		return nil, ErrTooManyAttempts
	}
	if phone.CodeExpired(s.cfg.VerificationCodeExpiry, time.Now().UTC()) {
		return nil, ErrCodeExpired
	}
	if code == "" || code != phone.VerificationCode {
		if err := s.db.Model(&phone).Update("verification_attempts", gorm.Expr("verification_attempts + 1")).Error; err != nil {
			return nil, err
		}
		return nil, ErrCodeMismatch
	}

	// Conditional update so two concurrent matches cannot both transition.
	now := time.Now().UTC()
	res := s.db.Model(&models.RealPhone{}).
		Where("id = ? AND verified = ?", phone.ID, false).
		Updates(map[string]interface{}{"verified": true, "verified_date": now})
	if res.Error != nil {
		return nil, res.Error
	}

	phone.Verified = true
	phone.VerifiedDate = &now
	return &phone, nil
}
