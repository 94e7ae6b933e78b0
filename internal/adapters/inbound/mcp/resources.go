package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const checksURI = "themecheck://checks"

func registerResources(s *server.MCPServer, rootPath string, logger *zap.Logger) {
	s.AddResource(
		mcplib.NewResource(
			checksURI,
			"Enabled Checks",
			mcplib.WithResourceDescription("Checks enabled by the configuration of the server root"),
			mcplib.WithMIMEType("application/json"),
		),
		handleChecksResource(rootPath, logger),
	)
}

func handleChecksResource(rootPath string, logger *zap.Logger) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		list, err := listChecks(rootPath, logger)
		if err != nil {
			return nil, fmt.Errorf("listing checks: %w", err)
		}

		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling checks: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      checksURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
