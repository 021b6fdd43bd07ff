package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"switchbridge/pkg/bridge"
	"switchbridge/pkg/schema"
)

// Server wraps the MCP server with bridge device control tools
type Server struct {
	mcpServer *server.MCPServer
	registry  *bridge.Registry
	validator *schema.Validator
}

// NewServer creates a new MCP server over the controller registry
func NewServer(registry *bridge.Registry, validator *schema.Validator) *Server {
	s := &Server{
		registry:  registry,
		validator: validator,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"switchbridge",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
