package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/abdidvp/themecheck/internal/adapters/inbound/mcp"
	"github.com/abdidvp/themecheck/internal/adapters/outbound/logger"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the themecheck MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	var themePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start themecheck MCP server (stdio)",
		Long:  "Start the themecheck MCP server using stdio transport. Assistants can analyze a theme, correct it and list its enabled checks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if themePath == "" {
				themePath = "."
			}
			// stdout carries the protocol, so logs go to stderr.
			log := logger.New(cmd.ErrOrStderr(), opts.verbose)
			defer func() { _ = log.Sync() }()

			s := mcpadapter.NewThemeCheckMCPServer(themePath, log)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&themePath, "path", "", "Theme path (defaults to current working directory)")

	return cmd
}
