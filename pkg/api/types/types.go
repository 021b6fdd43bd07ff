package types

import "time"

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Devices   int       `json:"devices"`
	Timestamp time.Time `json:"timestamp"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	Devices []DeviceWithState `json:"devices"`
	Count   int               `json:"count"`
}

// DeviceWithState combines device identity with its characteristic state.
type DeviceWithState struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	HubID    string         `json:"hub_id,omitempty"`
	Remote   bool           `json:"remote"`
	Settable []string       `json:"settable,omitempty"`
	State    map[string]any `json:"state,omitempty"`
	Faults   []string       `json:"faults,omitempty"`
}

// DeviceResponse is returned from GET /devices/:id
type DeviceResponse struct {
	Device DeviceWithState `json:"device"`
}

// StateResponse is returned from GET/POST /devices/:id/state
type StateResponse struct {
	Device    string         `json:"device"`
	State     map[string]any `json:"state"`
	Faults    []string       `json:"faults,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// RefreshResponse is returned from POST /devices/:id/refresh
type RefreshResponse struct {
	Device    string    `json:"device"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
