package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"stock-service/internal/middleware"
	"stock-service/internal/models"
	"stock-service/internal/repository"
	"stock-service/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext builds a request context with an authenticated principal
func testContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	c.Set(middleware.ContextUserID, uuid.New())
	c.Set(middleware.ContextSocietyID, uuid.New())
	c.Set(middleware.ContextIsAdmin, true)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterSociety_InvalidJSON(t *testing.T) {
	handler := NewAuthHandler(nil, nil, nil, "secret", 0)

	c, w := testContext(http.MethodPost, "/api/v1/societies", nil)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/societies", bytes.NewBufferString("{not json"))

	handler.RegisterSociety(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	handler := NewAuthHandler(nil, nil, nil, "secret", 0)

	c, w := testContext(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
		SocietyName: "Makers",
		// username and password missing
	})

	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockOut_ZeroQuantityRejected(t *testing.T) {
	handler := NewStockHandler(nil, nil, nil, 20, 100)

	c, w := testContext(http.MethodPost, "/api/v1/stock/out", models.StockMovementRequest{
		StockItemID: uuid.New(),
		Quantity:    0,
	})

	handler.StockOut(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)
}

func TestGetStockItem_InvalidID(t *testing.T) {
	handler := NewStockHandler(nil, nil, nil, 20, 100)

	c, w := testContext(http.MethodGet, "/api/v1/stock-items/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	handler.GetStockItem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeError(t, w).Error.Code)
}

func TestCreateMember_ShortPasswordRejected(t *testing.T) {
	handler := NewMemberHandler(nil)

	c, w := testContext(http.MethodPost, "/api/v1/members", models.CreateUserRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "short",
	})

	handler.CreateMember(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteSchedule_InvalidID(t *testing.T) {
	handler := NewRefillHandler(nil)

	c, w := testContext(http.MethodPost, "/api/v1/refills/xyz/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "xyz"}}

	handler.CompleteSchedule(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondServiceError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{repository.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{repository.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{repository.ErrInsufficientDrawerStock, http.StatusConflict, "INSUFFICIENT_DRAWER_STOCK"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{services.ErrUserLimitReached, http.StatusConflict, "USER_LIMIT_REACHED"},
		{services.ErrAdminLimitReached, http.StatusConflict, "ADMIN_LIMIT_REACHED"},
		{services.ErrLastAdmin, http.StatusConflict, "LAST_ADMIN"},
		{services.ErrFeatureNotInPlan, http.StatusForbidden, "FEATURE_NOT_IN_PLAN"},
		{services.ErrPastDate, http.StatusBadRequest, "PAST_DATE"},
		{services.ErrItemInactive, http.StatusBadRequest, "ITEM_INACTIVE"},
		{assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondServiceError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.code)
		assert.Equal(t, tc.code, decodeError(t, w).Error.Code)
	}
}

func TestParsePagination_Clamping(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/movements?page=-2&limit=9999", nil)

	page, limit := parsePagination(c, 20, 100)

	assert.Equal(t, 1, page)
	assert.Equal(t, 100, limit)
}

func TestPaginationMeta_Rounding(t *testing.T) {
	meta := paginationMeta(2, 20, 41)

	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(41), meta.TotalItems)
}
