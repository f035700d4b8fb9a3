package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-service/internal/models"
	"stock-service/internal/services"
)

// SocietyHandler serves society settings, subscription and the dashboard
type SocietyHandler struct {
	societyService *services.SocietyService
	stockService   *services.StockService
}

func NewSocietyHandler(societyService *services.SocietyService, stockService *services.StockService) *SocietyHandler {
	return &SocietyHandler{
		societyService: societyService,
		stockService:   stockService,
	}
}

// GetSociety returns the caller's society
func (h *SocietyHandler) GetSociety(c *gin.Context) {
	_, societyID := principal(c)

	society, err := h.societyService.GetSociety(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SocietyResponse{
		Success: true,
		Data:    society,
	})
}

// UpdateSettings toggles the drawer feature flags
func (h *SocietyHandler) UpdateSettings(c *gin.Context) {
	_, societyID := principal(c)

	var req models.UpdateSocietySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	society, err := h.societyService.UpdateSettings(c.Request.Context(), societyID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SocietyResponse{
		Success: true,
		Data:    society,
		Message: stringPtr("Settings updated successfully"),
	})
}

// ChangeSubscription moves the society to another subscription level
func (h *SocietyHandler) ChangeSubscription(c *gin.Context) {
	_, societyID := principal(c)

	var req models.ChangeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	society, err := h.societyService.ChangeSubscription(c.Request.Context(), societyID, req.Level)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SocietyResponse{
		Success: true,
		Data:    society,
		Message: stringPtr("Subscription changed successfully"),
	})
}

// Dashboard returns the society home summary
func (h *SocietyHandler) Dashboard(c *gin.Context) {
	_, societyID := principal(c)

	summary, err := h.stockService.Dashboard(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    summary,
	})
}
