package handlers

import (
	"context"
	"log"
	"net/http"

	"cadet_app_backend/quiz"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	provider quiz.Provider
}

func NewHealthHandler(db Pinger, provider quiz.Provider) *HealthHandler {
	return &HealthHandler{db: db, provider: provider}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	// Check database connection
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		log.Printf("Health check: database ping failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "Database connection failed",
		})
		return
	}

	// Check the default test can be loaded
	if _, err := h.provider.Dataset(c.Request.Context(), ""); err != nil {
		log.Printf("Health check: default test unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "Test dataset unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
