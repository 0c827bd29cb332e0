package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maskline/backend/internal/services"
)

// VCardHandler serves relay-number contact cards. These routes are anonymous:
// the unguessable lookup key is the only credential.
type VCardHandler struct {
	vcardService *services.VCardService
}

func NewVCardHandler(vcardService *services.VCardService) *VCardHandler {
	return &VCardHandler{vcardService: vcardService}
}

// GetContactCard resolves a lookup key to a downloadable contact card
func (h *VCardHandler) GetContactCard(c *gin.Context) {
	lookupKey := c.Param("lookup_key")

	relay, card, err := h.vcardService.ResolveContactCard(lookupKey)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", relay.Number))
	c.JSON(http.StatusOK, gin.H{
		"number": relay.Number,
		"vcard":  card,
	})
}

// GetContactCardQRPDF renders a printable QR sheet for the contact card URL
func (h *VCardHandler) GetContactCardQRPDF(c *gin.Context) {
	lookupKey := c.Param("lookup_key")

	relay, _, err := h.vcardService.ResolveContactCard(lookupKey)
	if err != nil {
		abortWithError(c, err)
		return
	}

	pdf, err := h.vcardService.GenerateContactQRPDF(relay)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", relay.Number))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
