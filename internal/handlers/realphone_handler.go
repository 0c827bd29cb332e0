package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maskline/backend/internal/services"
)

type RealPhoneHandler struct {
	verificationService *services.VerificationService
}

func NewRealPhoneHandler(verificationService *services.VerificationService) *RealPhoneHandler {
	return &RealPhoneHandler{verificationService: verificationService}
}

// GetRealPhone returns the user's real phone record, if any
func (h *RealPhoneHandler) GetRealPhone(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	phone, err := h.verificationService.GetRealPhone(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if phone == nil {
		c.JSON(http.StatusOK, gin.H{"real_phone": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"real_phone": phone})
}

// SubmitNumber starts verification of a number. When a verification_code is
// included the submission verifies in the same call.
func (h *RealPhoneHandler) SubmitNumber(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Number           string `json:"number" binding:"required"`
		VerificationCode string `json:"verification_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.VerificationCode != "" {
		phone, err := h.verificationService.SubmitVerificationCode(userID, req.Number, req.VerificationCode)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"number":        phone.Number,
			"verified":      phone.Verified,
			"verified_date": phone.VerifiedDate,
		})
		return
	}

	phone, err := h.verificationService.SubmitNumber(c.Request.Context(), userID, req.Number)
	if err != nil && !errors.Is(err, services.ErrMessageDeliveryFailed) {
		abortWithError(c, err)
		return
	}
	if err != nil {
		// Record was created but the SMS did not go out; the user can retry.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"number":                 phone.Number,
		"verified":               phone.Verified,
		"verification_sent_date": phone.VerificationSentDate,
		"message":                fmt.Sprintf("Sent verification code to %s", phone.Number),
	})
}

// SubmitVerificationCode verifies a pending number with its code
func (h *RealPhoneHandler) SubmitVerificationCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Number           string `json:"number" binding:"required"`
		VerificationCode string `json:"verification_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if id := c.Param("id"); id != "" {
		existing, err := h.verificationService.GetRealPhone(userID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if existing == nil || existing.ID.String() != id {
			c.JSON(http.StatusNotFound, gin.H{"error": "Real phone not found"})
			return
		}
	}

	phone, err := h.verificationService.SubmitVerificationCode(userID, req.Number, req.VerificationCode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"number":        phone.Number,
		"verified":      phone.Verified,
		"verified_date": phone.VerifiedDate,
	})
}
