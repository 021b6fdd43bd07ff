package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"switchbridge/pkg/api/types"
	"switchbridge/pkg/bridge"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	registry *bridge.Registry
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry *bridge.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the bridge and the number of controllers
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "No devices bridged"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	count := h.registry.Len()

	status := "healthy"
	httpStatus := http.StatusOK
	if count == 0 {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Devices:   count,
		Timestamp: time.Now(),
	})
}
