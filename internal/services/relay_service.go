package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/maskline/backend/internal/config"
	"github.com/maskline/backend/internal/models"
	"github.com/maskline/backend/pkg/phones"
	"gorm.io/gorm"
)

// Fallback area codes of large metro hubs, used to fill the other-areas
// partition when the user's own area runs dry.
var fallbackAreaCodes = []string{"212", "213", "312", "415", "305", "206"}

// RelayService owns relay-number candidate search, suggestion ranking and
// assignment. Suggestions encode the product policy that users prefer a
// masking number that looks like their own; the provider knows nothing about
// that ranking, the engine composes it from plain inventory queries.
type RelayService struct {
	db       *gorm.DB
	cfg      *config.Config
	provider PhoneProvider
}

func NewRelayService(db *gorm.DB, cfg *config.Config, provider PhoneProvider) *RelayService {
	return &RelayService{db: db, cfg: cfg, provider: provider}
}

// SuggestionResult is the ranked, partitioned candidate view for one user.
// The three partitions are disjoint and each capped at the page size.
type SuggestionResult struct {
	RealNum           string   `json:"real_num"`
	SamePrefixOptions []string `json:"same_prefix_options"`
	SameAreaOptions   []string `json:"same_area_options"`
	OtherAreasOptions []string `json:"other_areas_options"`
}

// GetRelayNumber returns the user's RelayNumber, or nil when none exists.
func (s *RelayService) GetRelayNumber(userID uuid.UUID) (*models.RelayNumber, error) {
	var relay models.RelayNumber
	if err := s.db.Where("user_id = ?", userID).First(&relay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &relay, nil
}

func (s *RelayService) verifiedRealPhone(userID uuid.UUID) (*models.RealPhone, error) {
	var phone models.RealPhone
	err := s.db.Where("user_id = ? AND verified = ?", userID, true).First(&phone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoVerifiedRealPhone
		}
		return nil, err
	}
	return &phone, nil
}

// Suggest builds the three-tier candidate view for a user with a verified
// real phone and no relay number yet. Empty partitions are fine; a missing
// verified real phone or an already-assigned relay number is not.
func (s *RelayService) Suggest(ctx context.Context, userID uuid.UUID) (*SuggestionResult, error) {
	phone, err := s.verifiedRealPhone(userID)
	if err != nil {
		return nil, err
	}
	relay, err := s.GetRelayNumber(userID)
	if err != nil {
		return nil, err
	}
	if relay != nil {
		return nil, ErrRelayNumberAlreadyExists
	}

	areaCode, err := phones.AreaCode(phone.Number)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNumberFormat, err)
	}
	prefix, err := phones.Prefix(phone.Number)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNumberFormat, err)
	}

	pageSize := s.cfg.SuggestionPageSize
	result := &SuggestionResult{
		RealNum:           phone.Number,
		SamePrefixOptions: []string{},
		SameAreaOptions:   []string{},
		OtherAreasOptions: []string{},
	}

	// One broader in-area query, partitioned client-side on the prefix.
	inArea, err := s.provider.SearchNumbersByAreaCode(ctx, s.cfg.PhoneCountry, areaCode, pageSize*2)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, candidate := range inArea {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		candArea, err := phones.AreaCode(candidate)
		if err != nil || candArea != areaCode {
			continue
		}
		candPrefix, err := phones.Prefix(candidate)
		if err != nil {
			continue
		}
		if candPrefix == prefix && len(result.SamePrefixOptions) < pageSize {
			result.SamePrefixOptions = append(result.SamePrefixOptions, candidate)
		} else if candPrefix != prefix && len(result.SameAreaOptions) < pageSize {
			result.SameAreaOptions = append(result.SameAreaOptions, candidate)
		}
	}

	// Fallback tier from other area codes, skipping the user's own.
	for _, fallback := range fallbackAreaCodes {
		if fallback == areaCode || len(result.OtherAreasOptions) >= pageSize {
			continue
		}
		others, err := s.provider.SearchNumbersByAreaCode(ctx, s.cfg.PhoneCountry, fallback, pageSize)
		if err != nil {
			log.Printf("fallback area %s search failed: %v", fallback, err)
			continue
		}
		for _, candidate := range others {
			if seen[candidate] || len(result.OtherAreasOptions) >= pageSize {
				continue
			}
			seen[candidate] = true
			result.OtherAreasOptions = append(result.OtherAreasOptions, candidate)
		}
	}

	return result, nil
}

// Search passes exactly one filter through to the provider inventory,
// unranked, with the fixed result cap. Both or neither filter is an error.
func (s *RelayService) Search(ctx context.Context, location, areaCode string) ([]string, error) {
	if (location == "") == (areaCode == "") {
		return nil, ErrAmbiguousOrMissingFilter
	}
	if location != "" {
		return s.provider.SearchNumbersByLocality(ctx, s.cfg.PhoneCountry, location, s.cfg.SearchResultLimit)
	}
	return s.provider.SearchNumbersByAreaCode(ctx, s.cfg.PhoneCountry, areaCode, s.cfg.SearchResultLimit)
}

func (s *RelayService) generateLookupKey() (string, error) {
	for i := 0; i < 5; i++ {
		b := make([]byte, s.cfg.LookupKeyBytes)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		key := hex.EncodeToString(b)
		var count int64
		if err := s.db.Model(&models.RelayNumber{}).Where("vcard_lookup_key = ?", key).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return key, nil
		}
	}
	return "", errors.New("could not generate a unique lookup key")
}

// AssignNumber provisions the chosen number with the provider and records it
// as the user's relay number. The unique index on user_id is the backstop
// against two concurrent assignments racing past the existence check.
func (s *RelayService) AssignNumber(ctx context.Context, userID uuid.UUID, number string) (*models.RelayNumber, error) {
	if !phones.IsE164(number) {
		return nil, ErrInvalidNumberFormat
	}
	if _, err := s.verifiedRealPhone(userID); err != nil {
		return nil, err
	}
	existing, err := s.GetRelayNumber(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRelayNumberAlreadyExists
	}

	key, err := s.generateLookupKey()
	if err != nil {
		return nil, err
	}

	if err := s.provider.ProvisionNumber(ctx, number); err != nil {
		log.Printf("provisioning %s for user %s failed: %v", number, userID, err)
		return nil, fmt.Errorf("%w: %v", ErrNumberProvisioningFailed, err)
	}

	relay := &models.RelayNumber{
		UserID:         userID,
		Number:         number,
		VCardLookupKey: key,
	}
	if err := s.db.Create(relay).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRelayNumberAlreadyExists
		}
		return nil, err
	}
	return relay, nil
}
