package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stock-service/internal/middleware"
	"stock-service/internal/models"
	"stock-service/internal/repository"
	"stock-service/internal/services"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

// respondServiceError maps domain errors onto the response envelope. Unknown
// errors become an opaque 500 so internals never leak to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, repository.ErrDuplicate):
		respondError(c, http.StatusConflict, "DUPLICATE", "Resource already exists")
	case errors.Is(err, repository.ErrInsufficientStock):
		respondError(c, http.StatusConflict, "INSUFFICIENT_STOCK", "Not enough stock for this operation")
	case errors.Is(err, repository.ErrInsufficientDrawerStock):
		respondError(c, http.StatusConflict, "INSUFFICIENT_DRAWER_STOCK", "Not enough stock in the drawer for this operation")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, services.ErrSocietyExists):
		respondError(c, http.StatusConflict, "SOCIETY_EXISTS", "Society name or slug already taken")
	case errors.Is(err, services.ErrUserLimitReached):
		respondError(c, http.StatusConflict, "USER_LIMIT_REACHED", "Subscription user limit reached")
	case errors.Is(err, services.ErrAdminLimitReached):
		respondError(c, http.StatusConflict, "ADMIN_LIMIT_REACHED", "Subscription admin limit reached")
	case errors.Is(err, services.ErrLastAdmin):
		respondError(c, http.StatusConflict, "LAST_ADMIN", "Society must keep at least one admin")
	case errors.Is(err, services.ErrUsernameTaken):
		respondError(c, http.StatusConflict, "USERNAME_TAKEN", "Username already taken")
	case errors.Is(err, services.ErrEmailTaken):
		respondError(c, http.StatusConflict, "EMAIL_TAKEN", "Email already taken")
	case errors.Is(err, services.ErrFeatureNotInPlan):
		respondError(c, http.StatusForbidden, "FEATURE_NOT_IN_PLAN", "Feature not included in subscription level")
	case errors.Is(err, services.ErrInvalidSubscription):
		respondError(c, http.StatusBadRequest, "INVALID_SUBSCRIPTION", "Unknown subscription level")
	case errors.Is(err, services.ErrPastDate):
		respondError(c, http.StatusBadRequest, "PAST_DATE", "Scheduled date must not be in the past")
	case errors.Is(err, services.ErrInvalidDateRange):
		respondError(c, http.StatusBadRequest, "INVALID_DATE_RANGE", "End date must not be before start date")
	case errors.Is(err, services.ErrItemInactive):
		respondError(c, http.StatusBadRequest, "ITEM_INACTIVE", "Stock item is inactive")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// principal extracts the authenticated user and society from the context
func principal(c *gin.Context) (userID, societyID uuid.UUID) {
	if v, exists := c.Get(middleware.ContextUserID); exists {
		userID = v.(uuid.UUID)
	}
	if v, exists := c.Get(middleware.ContextSocietyID); exists {
		societyID = v.(uuid.UUID)
	}
	return userID, societyID
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context, defaultSize, maxSize int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSize)))
	if limit < 1 {
		limit = defaultSize
	}
	if limit > maxSize {
		limit = maxSize
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) *models.PaginationMeta {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return &models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func stringPtr(s string) *string {
	return &s
}
