package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-service/internal/models"
	"stock-service/internal/repository"
	"stock-service/internal/services"
)

// UsageHandler serves object users and the usage log
type UsageHandler struct {
	repo            repository.StockRepository
	stockService    *services.StockService
	defaultPageSize int
	maxPageSize     int
}

func NewUsageHandler(repo repository.StockRepository, stockService *services.StockService, defaultPageSize, maxPageSize int) *UsageHandler {
	return &UsageHandler{
		repo:            repo,
		stockService:    stockService,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ========== Object User Handlers ==========

// CreateObjectUser creates a stock consumer
func (h *UsageHandler) CreateObjectUser(c *gin.Context) {
	_, societyID := principal(c)

	var req models.CreateObjectUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	objectUser := &models.ObjectUser{
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
		Notes:       req.Notes,
	}
	if err := h.repo.CreateObjectUser(c.Request.Context(), societyID, objectUser); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    objectUser,
		Message: stringPtr("Object user created successfully"),
	})
}

// ListObjectUsers lists the society's stock consumers
func (h *UsageHandler) ListObjectUsers(c *gin.Context) {
	_, societyID := principal(c)

	objectUsers, err := h.repo.ListObjectUsers(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Data:    objectUsers,
	})
}

// UpdateObjectUser updates a stock consumer
func (h *UsageHandler) UpdateObjectUser(c *gin.Context) {
	_, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateObjectUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ContactInfo != nil {
		updates["contact_info"] = *req.ContactInfo
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := h.repo.UpdateObjectUser(c.Request.Context(), societyID, id, updates); err != nil {
		respondServiceError(c, err)
		return
	}

	objectUser, err := h.repo.GetObjectUserByID(c.Request.Context(), societyID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    objectUser,
		Message: stringPtr("Object user updated successfully"),
	})
}

// DeleteObjectUser deletes a stock consumer
func (h *UsageHandler) DeleteObjectUser(c *gin.Context) {
	_, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteObjectUser(c.Request.Context(), societyID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Object user deleted successfully"),
	})
}

// ========== Usage Handlers ==========

// LogUsage records an object user consuming stock over a period
func (h *UsageHandler) LogUsage(c *gin.Context) {
	userID, societyID := principal(c)

	var req models.LogUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	usage, err := h.stockService.LogUsage(c.Request.Context(), societyID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    usage,
		Message: stringPtr("Usage logged successfully"),
	})
}

// ListUsages lists the usage log, newest first
func (h *UsageHandler) ListUsages(c *gin.Context) {
	_, societyID := principal(c)
	page, limit := parsePagination(c, h.defaultPageSize, h.maxPageSize)

	usages, total, err := h.repo.ListUsages(c.Request.Context(), societyID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success:    true,
		Data:       usages,
		Pagination: paginationMeta(page, limit, total),
	})
}
