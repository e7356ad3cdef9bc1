package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sanigam/video-learning/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vlearn [YouTube URL or ID]",
	Short: "Learn from YouTube videos with AI-generated study material",
	Long: `vlearn turns YouTube videos into study material using AI.

It fetches the transcript (real captions when available, AI transcription
as a fallback, and a built-in sample transcript in demo mode) and generates
summaries, quizzes, flashcards, and personalized learning paths with
Google's Gemini models.`,
	Example: `  # Summarize a YouTube video (default behavior)
  vlearn "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  vlearn tAP1eZYEuKA

  # Use a specific Gemini model
  vlearn "https://youtu.be/tAP1eZYEuKA" --model gemini-1.5-pro

  # Generate a quiz instead
  vlearn quiz tAP1eZYEuKA --questions 3`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate argument before processing
		arg := args[0]
		if internal.IsLikelyCommand(arg) {
			availableCommands := []string{"summarize", "overview", "quiz", "flashcards", "path", "chat", "transcript", "settings", "mcp", "version", "paths", "help"}
			var suggestions []string
			for _, cmdName := range availableCommands {
				if strings.Contains(cmdName, arg) || (len(arg) <= len(cmdName) && strings.Contains(arg, cmdName[:len(arg)])) {
					suggestions = append(suggestions, cmdName)
				}
			}

			if len(suggestions) > 0 {
				return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Did you mean: %s?", arg, strings.Join(suggestions, ", "))
			}
			return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Use --help to see available commands", arg)
		}

		app, err := buildApp(cmd, true)
		if err != nil {
			return err
		}

		video, err := app.ProcessVideo(cmd.Context(), arg, !config.Quiet)
		if err != nil {
			return err
		}
		printDemoNotice(video)

		summary := app.Summarize(cmd.Context(), video, resolveSummaryLength(cmd, app), !config.Quiet)
		return printSummary(video, summary)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A local .env can carry GEMINI_API_KEY during development
	_ = godotenv.Load()

	// Initialize configuration with Viper
	config = internal.InitConfig()
	internal.InitLogging(config)

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Shutting down...")
		cancel()
		os.Exit(0)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddGenerationFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/vlearn/config.toml)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
