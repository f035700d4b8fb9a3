package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock-service/internal/middleware"
	"stock-service/internal/models"
	"stock-service/internal/repository"
	"stock-service/internal/services"
)

// AuthHandler serves society registration and login
type AuthHandler struct {
	societyService *services.SocietyService
	authService    *services.AuthService
	societyRepo    repository.SocietyRepository
	jwtSecret      string
	jwtTTL         time.Duration
}

func NewAuthHandler(societyService *services.SocietyService, authService *services.AuthService, societyRepo repository.SocietyRepository, jwtSecret string, jwtTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		societyService: societyService,
		authService:    authService,
		societyRepo:    societyRepo,
		jwtSecret:      jwtSecret,
		jwtTTL:         jwtTTL,
	}
}

// RegisterSociety creates a society with its first admin user
func (h *AuthHandler) RegisterSociety(c *gin.Context) {
	var req models.RegisterSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	society, admin, err := h.societyService.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"society": society,
			"admin":   admin,
		},
		Message: stringPtr("Society registered successfully"),
	})
}

// Login authenticates a society-scoped user and issues a token. Every
// failure mode returns the same INVALID_CREDENTIALS response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.authService.Authenticate(c.Request.Context(), req.SocietyName, req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, expiresAt, err := middleware.GenerateToken(h.jwtSecret, result.User.ID, result.Society.ID, result.IsAdmin, h.jwtTTL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      result.User,
		Society:   result.Society,
		IsAdmin:   result.IsAdmin,
	})
}

// Me returns the authenticated principal
func (h *AuthHandler) Me(c *gin.Context) {
	userID, societyID := principal(c)

	user, err := h.societyRepo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	society, err := h.societyRepo.GetSocietyByID(c.Request.Context(), societyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	membership, err := h.societyRepo.GetMembership(c.Request.Context(), societyID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"user":    user,
			"society": society,
			"isAdmin": membership.IsAdmin,
		},
	})
}
