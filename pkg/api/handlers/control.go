package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"switchbridge/pkg/api/types"
	"switchbridge/pkg/bridge"
	"switchbridge/pkg/schema"
)

// ControlHandler handles characteristic state endpoints
type ControlHandler struct {
	registry  *bridge.Registry
	validator *schema.Validator
}

// NewControlHandler creates a new control handler
func NewControlHandler(registry *bridge.Registry, validator *schema.Validator) *ControlHandler {
	return &ControlHandler{registry: registry, validator: validator}
}

// GetState handles GET /devices/:id/state
// @Summary      Get device state
// @Description  Returns the current characteristic state of a device
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.StateResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/state [get]
func (h *ControlHandler) GetState(c *gin.Context) {
	entry, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Device not found",
		})
		return
	}

	c.JSON(http.StatusOK, types.StateResponse{
		Device:    entry.Controller.Info().ID,
		State:     entry.Sink.Snapshot(),
		Faults:    entry.Sink.Faults(),
		Timestamp: time.Now(),
	})
}

// SetState handles POST /devices/:id/state
// @Summary      Set characteristics
// @Description  Writes one or more characteristics, validated against the device's settable surface. Pushes to the vendor are debounced.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Device id"
// @Param        request  body      object  true  "Characteristic values to set"
// @Success      200      {object}  types.StateResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/state [post]
func (h *ControlHandler) SetState(c *gin.Context) {
	entry, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Device not found",
		})
		return
	}

	var req map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	// Validate against the device's settable characteristics
	if err := h.validator.Validate(entry.Controller.SetSchema(), req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	for name, value := range req {
		if err := entry.Controller.Set(bridge.Characteristic(name), value); err != nil {
			status := http.StatusInternalServerError
			kind := "device_error"
			if errors.Is(err, bridge.ErrNotSettable) {
				status = http.StatusBadRequest
				kind = "not_settable"
			}
			c.JSON(status, types.ErrorResponse{
				Error:   kind,
				Message: err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, types.StateResponse{
		Device:    entry.Controller.Info().ID,
		State:     entry.Sink.Snapshot(),
		Faults:    entry.Sink.Faults(),
		Timestamp: time.Now(),
	})
}

// SetCharacteristic handles PUT /devices/:id/characteristics/:name
// @Summary      Set a single characteristic
// @Description  Writes one characteristic. The body is the bare JSON value.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id      path      string  true  "Device id"
// @Param        name    path      string  true  "Characteristic name"
// @Param        value   body      object  true  "Characteristic value"
// @Success      200     {object}  types.StateResponse
// @Failure      400     {object}  types.ErrorResponse  "Invalid request"
// @Failure      404     {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/characteristics/{name} [put]
func (h *ControlHandler) SetCharacteristic(c *gin.Context) {
	entry, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Device not found",
		})
		return
	}

	var value any
	if err := json.NewDecoder(c.Request.Body).Decode(&value); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	name := c.Param("name")
	if err := h.validator.Validate(entry.Controller.SetSchema(), map[string]any{name: value}); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if err := entry.Controller.Set(bridge.Characteristic(name), value); err != nil {
		status := http.StatusInternalServerError
		kind := "device_error"
		if errors.Is(err, bridge.ErrNotSettable) {
			status = http.StatusBadRequest
			kind = "not_settable"
		}
		c.JSON(status, types.ErrorResponse{
			Error:   kind,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.StateResponse{
		Device:    entry.Controller.Info().ID,
		State:     entry.Sink.Snapshot(),
		Faults:    entry.Sink.Faults(),
		Timestamp: time.Now(),
	})
}

// RefreshDevice handles POST /devices/:id/refresh
// @Summary      Refresh device state
// @Description  Forces an immediate poll of the vendor status for one device
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.RefreshResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      502  {object}  types.ErrorResponse  "Vendor request failed"
// @Router       /devices/{id}/refresh [post]
func (h *ControlHandler) RefreshDevice(c *gin.Context) {
	entry, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Device not found",
		})
		return
	}

	if err := entry.Controller.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, types.ErrorResponse{
			Error:   "vendor_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.RefreshResponse{
		Device:    entry.Controller.Info().ID,
		Status:    "refreshed",
		Timestamp: time.Now(),
	})
}
