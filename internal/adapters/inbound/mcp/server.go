package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewThemeCheckMCPServer creates an MCP server exposing the theme checker.
// rootPath is analyzed when a tool call does not name a path.
func NewThemeCheckMCPServer(rootPath string, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"themecheck",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, rootPath, logger)
	registerResources(s, rootPath, logger)

	return s
}
