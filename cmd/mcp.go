package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server exposing video learning tools",
	Long: `Run a Model Context Protocol (MCP) server that exposes video learning
functionality as tools.

Available tools:
- process_video: fetch a video transcript (with fallbacks)
- generate_summary: structured summary with key points and topics
- get_video_overview: quick description, topic, audience, and content type
- generate_quiz: multiple-choice questions at a chosen difficulty
- generate_flashcards: front/back study cards
- generate_learning_path: personalized study recommendations
- ask_video: answer a question about a video

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport
  vlearn mcp

  # Run MCP server with HTTP transport on port 8080
  vlearn mcp --transport=http --port=8080`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// MCP uses stdio protocol, so disable verbose logging
		config.Verbose = false
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		internal.InitMCPLogging(config)

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}

		mcpServer := internal.NewMCPServer(app)

		if config.Verbose {
			if transport == "http" {
				fmt.Printf("Starting vlearn MCP server on HTTP port %d...\n", port)
			} else {
				fmt.Println("Starting vlearn MCP server on stdio...")
			}
		}

		// Start the server (this will block until context is cancelled)
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	rootCmd.AddCommand(mcpCmd)
}
