package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maskline/backend/internal/services"
)

type RelayNumberHandler struct {
	relayService *services.RelayService
}

func NewRelayNumberHandler(relayService *services.RelayService) *RelayNumberHandler {
	return &RelayNumberHandler{relayService: relayService}
}

// GetRelayNumber returns the user's relay number record, if any
func (h *RelayNumberHandler) GetRelayNumber(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	relay, err := h.relayService.GetRelayNumber(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if relay == nil {
		c.JSON(http.StatusOK, gin.H{"relay_number": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"relay_number": relay})
}

// Suggestions returns the three-tier ranked candidate view
func (h *RelayNumberHandler) Suggestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.relayService.Suggest(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search proxies an inventory search filtered by location or area code
func (h *RelayNumberHandler) Search(c *gin.Context) {
	location := c.Query("location")
	areaCode := c.Query("area_code")

	numbers, err := h.relayService.Search(c.Request.Context(), location, areaCode)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available_numbers": numbers})
}

// AssignNumber provisions a chosen number as the user's relay number
func (h *RelayNumberHandler) AssignNumber(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Number string `json:"number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	relay, err := h.relayService.AssignNumber(c.Request.Context(), userID, req.Number)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"relay_number": relay})
}
