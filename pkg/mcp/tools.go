package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health status of the bridge and the number of controlled devices"),
		),
		s.handleGetHealth,
	)

	// List devices
	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List all bridged devices with their current characteristic state"),
		),
		s.handleListDevices,
	)

	// Get device
	s.mcpServer.AddTool(
		mcp.NewTool("get_device",
			mcp.WithDescription("Get detailed information about a specific bridged device"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Vendor device id"),
			),
		),
		s.handleGetDevice,
	)

	// Get device state
	s.mcpServer.AddTool(
		mcp.NewTool("get_device_state",
			mcp.WithDescription("Get the current characteristic state of a device (On, TargetPosition, CurrentTemperature, etc.)"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Vendor device id"),
			),
		),
		s.handleGetDeviceState,
	)

	// Set device state
	s.mcpServer.AddTool(
		mcp.NewTool("set_device_state",
			mcp.WithDescription("Write one or more characteristics. Values are validated against the device's settable surface; the vendor push is debounced."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Vendor device id"),
			),
			mcp.WithObject("state",
				mcp.Required(),
				mcp.Description("Characteristic values to set (e.g. {\"On\": true} or {\"TargetPosition\": 75})"),
			),
		),
		s.handleSetDeviceState,
	)

	// Refresh device
	s.mcpServer.AddTool(
		mcp.NewTool("refresh_device",
			mcp.WithDescription("Force an immediate poll of the vendor status for one device"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Vendor device id"),
			),
		),
		s.handleRefreshDevice,
	)

	// Turn on (convenience)
	s.mcpServer.AddTool(
		mcp.NewTool("turn_on",
			mcp.WithDescription("Turn on a device, whichever power characteristic it exposes"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Vendor device id"),
			),
		),
		s.handleTurnOn,
	)

	// Turn off (convenience)
	s.mcpServer.AddTool(
		mcp.NewTool("turn_off",
			mcp.WithDescription("Turn off a device, whichever power characteristic it exposes"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Vendor device id"),
			),
		),
		s.handleTurnOff,
	)
}
