package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// transcriptCmd represents the transcript command
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Print the transcript of a YouTube video",
	Example: `  # Print transcript to stdout
  vlearn transcript "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  vlearn transcript tAP1eZYEuKA`,
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

		if config.Verbose {
			fmt.Printf("Transcript source: %s\n\n", video.Transcript.Source)
		}
		fmt.Println(video.Transcript.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transcriptCmd)
}
