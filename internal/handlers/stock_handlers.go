package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-service/internal/models"
	"stock-service/internal/repository"
	"stock-service/internal/services"
)

// StockHandler serves stock items, kinds and the movement ledger
type StockHandler struct {
	repo            repository.StockRepository
	societyRepo     repository.SocietyRepository
	stockService    *services.StockService
	defaultPageSize int
	maxPageSize     int
}

func NewStockHandler(repo repository.StockRepository, societyRepo repository.SocietyRepository, stockService *services.StockService, defaultPageSize, maxPageSize int) *StockHandler {
	return &StockHandler{
		repo:            repo,
		societyRepo:     societyRepo,
		stockService:    stockService,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ========== Stock Item Kind Handlers ==========

// CreateKind creates a stock item kind
func (h *StockHandler) CreateKind(c *gin.Context) {
	_, societyID := principal(c)

	var req models.CreateStockItemKindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	kind := &models.StockItemKind{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.repo.CreateKind(c.Request.Context(), societyID, kind); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    kind,
		Message: stringPtr("Stock item kind created successfully"),
	})
}

// ListKinds lists the society's stock item kinds
func (h *StockHandler) ListKinds(c *gin.Context) {
	_, societyID := principal(c)

	kinds, err := h.repo.ListKinds(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Data:    kinds,
	})
}

// UpdateKind updates a stock item kind
func (h *StockHandler) UpdateKind(c *gin.Context) {
	_, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateStockItemKindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := h.repo.UpdateKind(c.Request.Context(), societyID, id, updates); err != nil {
		respondServiceError(c, err)
		return
	}

	kind, err := h.repo.GetKindByID(c.Request.Context(), societyID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    kind,
		Message: stringPtr("Stock item kind updated successfully"),
	})
}

// DeleteKind deletes a stock item kind
func (h *StockHandler) DeleteKind(c *gin.Context) {
	_, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteKind(c.Request.Context(), societyID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Stock item kind deleted successfully"),
	})
}

// ========== Stock Item Handlers ==========

// CreateStockItem creates a stock item
func (h *StockHandler) CreateStockItem(c *gin.Context) {
	_, societyID := principal(c)

	var req models.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	item := &models.StockItem{
		Name:                req.Name,
		Description:         req.Description,
		KindID:              req.KindID,
		Unit:                req.Unit,
		LocationDescription: req.LocationDescription,
		IsActive:            true,
	}
	if req.CurrentQuantity != nil {
		item.CurrentQuantity = *req.CurrentQuantity
	}
	if req.MinimumQuantity != nil {
		item.MinimumQuantity = *req.MinimumQuantity
	}

	if err := h.repo.CreateItem(c.Request.Context(), societyID, item); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    item,
		Message: stringPtr("Stock item created successfully"),
	})
}

// GetStockItem returns an item with its recent activity
func (h *StockHandler) GetStockItem(c *gin.Context) {
	_, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	society, err := h.societyRepo.GetSocietyByID(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	detail, err := h.stockService.GetItemDetail(c.Request.Context(), society, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    detail,
	})
}

// ListStockItems lists the society's stock items, with drawer placements on
// each row when the society's feature flags allow it
func (h *StockHandler) ListStockItems(c *gin.Context) {
	_, societyID := principal(c)
	page, limit := parsePagination(c, h.defaultPageSize, h.maxPageSize)
	activeOnly := c.DefaultQuery("active", "true") == "true"

	society, err := h.societyRepo.GetSocietyByID(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items, total, err := h.stockService.ListItems(c.Request.Context(), society, activeOnly, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success:    true,
		Data:       items,
		Pagination: paginationMeta(page, limit, total),
	})
}

// UpdateStockItem updates item metadata. Quantities only move through the
// stock in/out and refill endpoints so every change leaves a ledger row.
func (h *StockHandler) UpdateStockItem(c *gin.Context) {
	_, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.KindID != nil {
		updates["kind_id"] = *req.KindID
	}
	if req.MinimumQuantity != nil {
		updates["minimum_quantity"] = *req.MinimumQuantity
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.LocationDescription != nil {
		updates["location_description"] = *req.LocationDescription
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := h.repo.UpdateItem(c.Request.Context(), societyID, id, updates); err != nil {
		respondServiceError(c, err)
		return
	}

	item, err := h.repo.GetItemByID(c.Request.Context(), societyID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    item,
		Message: stringPtr("Stock item updated successfully"),
	})
}

// DeleteStockItem deletes a stock item
func (h *StockHandler) DeleteStockItem(c *gin.Context) {
	_, societyID := principal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteItem(c.Request.Context(), societyID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Stock item deleted successfully"),
	})
}

// ========== Movement Handlers ==========

// StockIn adds stock and records an in movement
func (h *StockHandler) StockIn(c *gin.Context) {
	userID, societyID := principal(c)

	var req models.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	society, err := h.societyRepo.GetSocietyByID(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	item, err := h.stockService.StockIn(c.Request.Context(), society, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    item,
		Message: stringPtr("Stock added successfully"),
	})
}

// StockOut takes stock and records an out movement
func (h *StockHandler) StockOut(c *gin.Context) {
	userID, societyID := principal(c)

	var req models.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	society, err := h.societyRepo.GetSocietyByID(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	item, err := h.stockService.StockOut(c.Request.Context(), society, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    item,
		Message: stringPtr("Stock taken successfully"),
	})
}

// ListMovements lists the movement ledger, newest first
func (h *StockHandler) ListMovements(c *gin.Context) {
	_, societyID := principal(c)
	page, limit := parsePagination(c, h.defaultPageSize, h.maxPageSize)

	movements, total, err := h.repo.ListMovements(c.Request.Context(), societyID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success:    true,
		Data:       movements,
		Pagination: paginationMeta(page, limit, total),
	})
}
