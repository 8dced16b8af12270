package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	ping func(c *gin.Context) error
}

// NewHealthHandler creates a health handler; ping checks the database.
func NewHealthHandler(ping func(c *gin.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Get handles GET /health
func (h *HealthHandler) Get(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
