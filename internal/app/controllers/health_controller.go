package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/pkg/logger"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness probes
type HealthController struct {
	driver string
	db     Pinger
}

// NewHealthController creates a HealthController. db may be nil for the in-memory driver.
func NewHealthController(driver string, db Pinger) *HealthController {
	return &HealthController{driver: driver, db: db}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			logger.Warn().Err(err).Msg("Health check: database ping failed")
			ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Database: c.driver})
			return
		}
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: c.driver})
}
