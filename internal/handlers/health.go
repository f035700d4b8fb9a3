package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"stock-service/internal/events"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db        *gorm.DB
	publisher *events.Publisher
}

func NewHealthHandler(db *gorm.DB, publisher *events.Publisher) *HealthHandler {
	return &HealthHandler{db: db, publisher: publisher}
}

// Health returns service liveness
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stock-service",
	})
}

// Ready reports readiness, checking the database and the event broker.
// A missing broker degrades readiness but does not fail it.
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	status := "ready"
	httpStatus := http.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		checks["database"] = gin.H{"status": "unhealthy", "error": err.Error()}
		status = "not ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = gin.H{"status": "healthy"}
	}

	if h.publisher.IsConnected() {
		checks["nats"] = gin.H{"status": "healthy"}
	} else {
		checks["nats"] = gin.H{"status": "disconnected"}
		if status == "ready" {
			status = "degraded"
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":  status,
		"service": "stock-service",
		"checks":  checks,
	})
}
