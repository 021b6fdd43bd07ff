package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"switchbridge/pkg/api/types"
	"switchbridge/pkg/bridge"
)

// DevicesHandler handles device listing endpoints
type DevicesHandler struct {
	registry *bridge.Registry
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(registry *bridge.Registry) *DevicesHandler {
	return &DevicesHandler{registry: registry}
}

// deviceWithState flattens a registry entry into the response shape.
func deviceWithState(e *bridge.Entry) types.DeviceWithState {
	info := e.Controller.Info()
	var settable []string
	for _, ch := range e.Controller.Settable() {
		settable = append(settable, string(ch))
	}
	return types.DeviceWithState{
		ID:       info.ID,
		Name:     info.Name,
		Kind:     info.Kind,
		HubID:    info.HubID,
		Remote:   info.Remote,
		Settable: settable,
		State:    e.Sink.Snapshot(),
		Faults:   e.Sink.Faults(),
	}
}

// ListDevices handles GET /devices
// @Summary      List all devices
// @Description  Returns every bridged device with its current characteristic state
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.ListDevicesResponse
// @Router       /devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	entries := h.registry.List()

	result := make([]types.DeviceWithState, 0, len(entries))
	for _, e := range entries {
		result = append(result, deviceWithState(e))
	}

	c.JSON(http.StatusOK, types.ListDevicesResponse{
		Devices: result,
		Count:   len(result),
	})
}

// GetDevice handles GET /devices/:id
// @Summary      Get device details
// @Description  Returns details for a specific bridged device
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.DeviceResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	entry, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Device not found",
		})
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{Device: deviceWithState(entry)})
}
