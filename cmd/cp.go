package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// cpCmd copies the transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [YouTube URL or ID]",
	Short: "Copy a video transcript to the clipboard",
	Example: `  # Copy transcript to the clipboard
  vlearn cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  vlearn cp tAP1eZYEuKA`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, false)
		if err != nil {
			return err
		}

		video, err := app.ProcessVideo(cmd.Context(), args[0], !config.Quiet)
		if err != nil {
			return err
		}
		printDemoNotice(video)

		if err := clipboard.WriteAll(video.Transcript.Text); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
