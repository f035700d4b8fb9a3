package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-service/internal/models"
	"stock-service/internal/repository"
)

// DrawerHandler serves drawers and drawer placements. Every endpoint is
// gated on the society's drawer management flag.
type DrawerHandler struct {
	repo        repository.StockRepository
	societyRepo repository.SocietyRepository
}

func NewDrawerHandler(repo repository.StockRepository, societyRepo repository.SocietyRepository) *DrawerHandler {
	return &DrawerHandler{repo: repo, societyRepo: societyRepo}
}

// requireDrawers loads the society and rejects the request when drawer
// management is not enabled
func (h *DrawerHandler) requireDrawers(c *gin.Context) (*models.Society, bool) {
	_, societyID := principal(c)

	society, err := h.societyRepo.GetSocietyByID(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if !society.CanManageDrawers {
		respondError(c, http.StatusForbidden, "FEATURE_NOT_IN_PLAN", "Drawer management is not enabled for this society")
		return nil, false
	}
	return society, true
}

// CreateDrawer creates a drawer coordinate
func (h *DrawerHandler) CreateDrawer(c *gin.Context) {
	society, ok := h.requireDrawers(c)
	if !ok {
		return
	}

	var req models.CreateDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	drawer := &models.Drawer{
		CabinetName:   req.CabinetName,
		DrawerLetterX: req.DrawerLetterX,
		DrawerNumberY: req.DrawerNumberY,
		Description:   req.Description,
	}
	if err := h.repo.CreateDrawer(c.Request.Context(), society.ID, drawer); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    drawer,
		Message: stringPtr("Drawer created successfully"),
	})
}

// ListDrawers lists the society's drawers in cabinet order
func (h *DrawerHandler) ListDrawers(c *gin.Context) {
	society, ok := h.requireDrawers(c)
	if !ok {
		return
	}

	drawers, err := h.repo.ListDrawers(c.Request.Context(), society.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Data:    drawers,
	})
}

// UpdateDrawer updates a drawer
func (h *DrawerHandler) UpdateDrawer(c *gin.Context) {
	society, ok := h.requireDrawers(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.CabinetName != nil {
		updates["cabinet_name"] = *req.CabinetName
	}
	if req.DrawerLetterX != nil {
		updates["drawer_letter_x"] = *req.DrawerLetterX
	}
	if req.DrawerNumberY != nil {
		updates["drawer_number_y"] = *req.DrawerNumberY
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := h.repo.UpdateDrawer(c.Request.Context(), society.ID, id, updates); err != nil {
		respondServiceError(c, err)
		return
	}

	drawer, err := h.repo.GetDrawerByID(c.Request.Context(), society.ID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    drawer,
		Message: stringPtr("Drawer updated successfully"),
	})
}

// DeleteDrawer deletes a drawer
func (h *DrawerHandler) DeleteDrawer(c *gin.Context) {
	society, ok := h.requireDrawers(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteDrawer(c.Request.Context(), society.ID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Drawer deleted successfully"),
	})
}

// AssignPlacement sets the quantity of an item stored in a drawer
func (h *DrawerHandler) AssignPlacement(c *gin.Context) {
	society, ok := h.requireDrawers(c)
	if !ok {
		return
	}

	var req models.AssignPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if _, err := h.repo.GetItemByID(c.Request.Context(), society.ID, req.StockItemID); err != nil {
		respondServiceError(c, err)
		return
	}
	if _, err := h.repo.GetDrawerByID(c.Request.Context(), society.ID, req.DrawerID); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.repo.UpsertPlacement(c.Request.Context(), society.ID, req.StockItemID, req.DrawerID, req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}

	placements, err := h.repo.ListPlacementsForItem(c.Request.Context(), society.ID, req.StockItemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    placements,
		Message: stringPtr("Placement saved successfully"),
	})
}

// ListItemPlacements lists where an item is stored
func (h *DrawerHandler) ListItemPlacements(c *gin.Context) {
	society, ok := h.requireDrawers(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	placements, err := h.repo.ListPlacementsForItem(c.Request.Context(), society.ID, itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Data:    placements,
	})
}

// DeletePlacement removes an item from a drawer
func (h *DrawerHandler) DeletePlacement(c *gin.Context) {
	society, ok := h.requireDrawers(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeletePlacement(c.Request.Context(), society.ID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Placement deleted successfully"),
	})
}
