package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maskline/backend/internal/services"
)

// statusForError maps service failure kinds onto HTTP statuses. Validation
// and verification-state failures are 400s, missing-resource lookups 404s.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrLookupKeyNotFound),
		errors.Is(err, services.ErrAmbiguousOrMissingFilter):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidNumberFormat),
		errors.Is(err, services.ErrCarrierLookupFailed),
		errors.Is(err, services.ErrMessageDeliveryFailed),
		errors.Is(err, services.ErrNoPendingVerification),
		errors.Is(err, services.ErrCodeExpired),
		errors.Is(err, services.ErrCodeMismatch),
		errors.Is(err, services.ErrTooManyAttempts),
		errors.Is(err, services.ErrNoVerifiedRealPhone),
		errors.Is(err, services.ErrRelayNumberAlreadyExists),
		errors.Is(err, services.ErrNumberProvisioningFailed),
		errors.Is(err, services.ErrProviderTransport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := userIDInterface.(uuid.UUID)
	return userID, ok
}
