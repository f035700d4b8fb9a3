package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-service/internal/models"
	"stock-service/internal/services"
)

// RefillHandler serves refill schedules and the prediction report
type RefillHandler struct {
	refillService *services.RefillService
}

func NewRefillHandler(refillService *services.RefillService) *RefillHandler {
	return &RefillHandler{refillService: refillService}
}

// CreateSchedule plans a future restock
func (h *RefillHandler) CreateSchedule(c *gin.Context) {
	_, societyID := principal(c)

	var req models.CreateRefillScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	refill, err := h.refillService.CreateSchedule(c.Request.Context(), societyID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    refill,
		Message: stringPtr("Refill schedule created successfully"),
	})
}

// ListSchedules lists refill schedules, optionally only pending ones
func (h *RefillHandler) ListSchedules(c *gin.Context) {
	_, societyID := principal(c)
	pendingOnly := c.DefaultQuery("pending", "false") == "true"

	refills, err := h.refillService.ListSchedules(c.Request.Context(), societyID, pendingOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Data:    refills,
	})
}

// GetSchedule returns one refill schedule
func (h *RefillHandler) GetSchedule(c *gin.Context) {
	_, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	refill, err := h.refillService.GetSchedule(c.Request.Context(), societyID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    refill,
	})
}

// CompleteSchedule applies a pending refill to stock. Completing an already
// completed schedule returns it unchanged with a warning message.
func (h *RefillHandler) CompleteSchedule(c *gin.Context) {
	userID, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	refill, applied, err := h.refillService.CompleteSchedule(c.Request.Context(), societyID, id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Refill schedule completed"
	if !applied {
		message = "Refill schedule was already completed"
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    refill,
		Message: stringPtr(message),
	})
}

// Prediction returns the refill prediction report, most pressing items first
func (h *RefillHandler) Prediction(c *gin.Context) {
	_, societyID := principal(c)

	predictions, err := h.refillService.Prediction(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Data:    predictions,
	})
}
