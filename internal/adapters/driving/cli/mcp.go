package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesmith/internal/adapters/driving/mcp"
	"github.com/custodia-labs/notesmith/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Edits to config.toml are picked up while the server runs.

Examples:
  # Stdio mode (default, for Claude Desktop)
  notesmith mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  notesmith mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "notesmith": {
        "command": "/path/to/notesmith",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Notes:    notesService,
		Settings: settingsService,
		Audit:    auditService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	// Long-running: timestamp every log line.
	logger.SetTimestamps(true)
	defer logger.SetTimestamps(false)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	watchConfig(ctx)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// watchConfig reloads configuration on change until ctx is done.
// Failing to start the watcher only disables reloading.
func watchConfig(ctx context.Context) {
	if configWatcher == nil {
		return
	}
	reloads, err := configWatcher.Watch(ctx)
	if err != nil {
		logger.Warn("config reload disabled: %v", err)
		return
	}

	go func() {
		for err := range reloads {
			if err == nil {
				logger.Info("configuration reloaded")
			}
		}
	}()
}
