package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jarrod-feld/Youtuber-Scaper/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing collection tools",
	Long: `Run a Model Context Protocol (MCP) server that exposes ytscraper
functionality as tools:

- get_video_metadata: extract video metadata as formatted text
- get_transcript: fetch built-in captions (free)
- transcribe_whisper: download audio and transcribe with Whisper (paid)
- collect_channel: collect a whole channel/playlist into the dataset

Transport options:
- stdio (default): standard MCP transport via stdin/stdout
- http: HTTP transport on the specified port`,
	Example: `  # Run MCP server with stdio transport
  ytscraper mcp

  # Run MCP server with HTTP transport on port 8080
  ytscraper mcp --transport=http --port=8080`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the stdio protocol, keep it clean
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		internal.InitMCPLogging(config)

		app := internal.NewApp(config)
		mcpServer := internal.NewMCPServer(app)

		if transport == "http" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Starting MCP server on HTTP port %d...\n", port)
		}

		// Blocks until the context is cancelled or the transport closes
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	rootCmd.AddCommand(mcpCmd)
}
