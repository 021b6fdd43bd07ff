package mcp

import "switchbridge/pkg/bridge"

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	Devices   int    `json:"devices" jsonschema:"description=Number of bridged devices"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Devices Tool ---

// ListDevicesOutput is the output for the list_devices tool
type ListDevicesOutput struct {
	Devices []DeviceInfo `json:"devices" jsonschema:"description=List of bridged devices"`
	Count   int          `json:"count" jsonschema:"description=Total number of devices"`
}

// DeviceInfo represents a device in tool outputs
type DeviceInfo struct {
	ID       string         `json:"id" jsonschema:"description=Vendor device id"`
	Name     string         `json:"name" jsonschema:"description=Device name from the vendor app"`
	Kind     string         `json:"kind" jsonschema:"description=Vendor device type"`
	HubID    string         `json:"hub_id,omitempty" jsonschema:"description=Hub the device is paired through"`
	Remote   bool           `json:"remote" jsonschema:"description=True for infrared remotes"`
	Settable []string       `json:"settable,omitempty" jsonschema:"description=Writable characteristic names"`
	State    map[string]any `json:"state,omitempty" jsonschema:"description=Current characteristic state"`
	Faults   []string       `json:"faults,omitempty" jsonschema:"description=Characteristics currently unreadable"`
}

// entryToInfo flattens a registry entry into tool output form.
func entryToInfo(e *bridge.Entry) DeviceInfo {
	info := e.Controller.Info()
	var settable []string
	for _, ch := range e.Controller.Settable() {
		settable = append(settable, string(ch))
	}
	return DeviceInfo{
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

// --- Get Device Tool ---

// GetDeviceOutput is the output for the get_device tool
type GetDeviceOutput struct {
	Device DeviceInfo `json:"device" jsonschema:"description=Device information"`
}

// --- State Tools ---

// GetDeviceStateOutput is the output for the get_device_state tool
type GetDeviceStateOutput struct {
	DeviceID string         `json:"device_id" jsonschema:"description=Vendor device id"`
	State    map[string]any `json:"state" jsonschema:"description=Current characteristic state"`
	Faults   []string       `json:"faults,omitempty" jsonschema:"description=Characteristics currently unreadable"`
}

// SetDeviceStateOutput is the output for the set_device_state tool
type SetDeviceStateOutput struct {
	DeviceID string         `json:"device_id" jsonschema:"description=Vendor device id"`
	State    map[string]any `json:"state" jsonschema:"description=Characteristic state after the write"`
}

// RefreshDeviceOutput is the output for the refresh_device tool
type RefreshDeviceOutput struct {
	DeviceID string         `json:"device_id" jsonschema:"description=Vendor device id"`
	State    map[string]any `json:"state" jsonschema:"description=Characteristic state after the poll"`
}

// TurnOnOutput is the output for the turn_on tool
type TurnOnOutput struct {
	DeviceID string         `json:"device_id" jsonschema:"description=Vendor device id"`
	State    map[string]any `json:"state" jsonschema:"description=Characteristic state after the write"`
}

// TurnOffOutput is the output for the turn_off tool
type TurnOffOutput struct {
	DeviceID string         `json:"device_id" jsonschema:"description=Vendor device id"`
	State    map[string]any `json:"state" jsonschema:"description=Characteristic state after the write"`
}
