package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-service/internal/models"
	"stock-service/internal/services"
)

// MemberHandler serves society member administration. All routes behind
// RequireAdmin.
type MemberHandler struct {
	membershipService *services.MembershipService
}

func NewMemberHandler(membershipService *services.MembershipService) *MemberHandler {
	return &MemberHandler{membershipService: membershipService}
}

// ListMembers returns the roster with headcounts against the plan limits
func (h *MemberHandler) ListMembers(c *gin.Context) {
	_, societyID := principal(c)

	list, err := h.membershipService.ListMembers(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MemberListResponse{
		Success:    true,
		Data:       list.Members,
		TotalUsers: int(list.TotalUsers),
		AdminUsers: int(list.AdminUsers),
		MaxUsers:   list.Limits.MaxUsers,
		MaxAdmins:  list.Limits.MaxAdmins,
	})
}

// CreateMember adds a user to the society
func (h *MemberHandler) CreateMember(c *gin.Context) {
	_, societyID := principal(c)

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	member, err := h.membershipService.CreateMember(c.Request.Context(), societyID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    member,
		Message: stringPtr("Member created successfully"),
	})
}

// UpdateMember changes a member's account or membership
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	_, societyID := principal(c)
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	member, err := h.membershipService.UpdateMember(c.Request.Context(), societyID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    member,
		Message: stringPtr("Member updated successfully"),
	})
}

// DeleteMember removes a member from the society
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	_, societyID := principal(c)
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.membershipService.DeleteMember(c.Request.Context(), societyID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Member deleted successfully"),
	})
}
