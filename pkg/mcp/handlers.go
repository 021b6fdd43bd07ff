package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"switchbridge/pkg/bridge"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := s.registry.Len()

	status := "healthy"
	if count == 0 {
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:    status,
		Devices:   count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.registry.List()

	infos := make([]DeviceInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, entryToInfo(e))
	}

	out := ListDevicesOutput{
		Devices: infos,
		Count:   len(infos),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, ok := s.registry.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("device %q not found", id)), nil
	}

	out := GetDeviceOutput{Device: entryToInfo(entry)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDeviceState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, ok := s.registry.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("device %q not found", id)), nil
	}

	out := GetDeviceStateOutput{
		DeviceID: id,
		State:    entry.Sink.Snapshot(),
		Faults:   entry.Sink.Faults(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetDeviceState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, ok := s.registry.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("device %q not found", id)), nil
	}

	stateArg := request.GetArguments()["state"]
	req, ok := stateArg.(map[string]any)
	if !ok || len(req) == 0 {
		return mcp.NewToolResultError(`parameter "state" must be a non-empty object`), nil
	}

	if err := s.validator.Validate(entry.Controller.SetSchema(), req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid state: %s", err)), nil
	}

	if err := s.setAll(entry, req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set state: %s", err)), nil
	}

	out := SetDeviceStateOutput{
		DeviceID: id,
		State:    entry.Sink.Snapshot(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleRefreshDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, ok := s.registry.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("device %q not found", id)), nil
	}

	if err := entry.Controller.Refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("refresh failed: %s", err)), nil
	}

	out := RefreshDeviceOutput{
		DeviceID: id,
		State:    entry.Sink.Snapshot(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleTurnOn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handlePower(request, true)
}

func (s *Server) handleTurnOff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handlePower(request, false)
}

// handlePower routes a convenience on/off to whichever power characteristic
// the device kind exposes.
func (s *Server) handlePower(request mcp.CallToolRequest, on bool) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, ok := s.registry.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("device %q not found", id)), nil
	}

	req, err := powerRequest(entry, on)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.setAll(entry, req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set power: %s", err)), nil
	}

	state := entry.Sink.Snapshot()
	if on {
		return mcp.NewToolResultText(formatJSON(TurnOnOutput{DeviceID: id, State: state})), nil
	}
	return mcp.NewToolResultText(formatJSON(TurnOffOutput{DeviceID: id, State: state})), nil
}

func powerRequest(entry *bridge.Entry, on bool) (map[string]any, error) {
	for _, ch := range entry.Controller.Settable() {
		switch ch {
		case bridge.CharOn:
			return map[string]any{string(bridge.CharOn): on}, nil
		case bridge.CharActive:
			v := float64(bridge.Inactive)
			if on {
				v = float64(bridge.Active)
			}
			return map[string]any{string(bridge.CharActive): v}, nil
		}
	}
	return nil, fmt.Errorf("device %q has no power characteristic", entry.Controller.Info().ID)
}

func (s *Server) setAll(entry *bridge.Entry, req map[string]any) error {
	for name, value := range req {
		if err := entry.Controller.Set(bridge.Characteristic(name), value); err != nil {
			return err
		}
	}
	return nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
