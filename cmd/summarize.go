package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [YouTube URL or ID]",
	Short: "Generate a structured summary of a YouTube video",
	Example: `  # Generate a summary at the default detail level
  vlearn summarize "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  vlearn summarize tAP1eZYEuKA

  # Control summary detail
  vlearn summarize tAP1eZYEuKA --length Concise
  vlearn summarize tAP1eZYEuKA --length Comprehensive

  # Refine a summary with feedback
  vlearn summarize tAP1eZYEuKA --refine "focus more on the practical examples"

  # Emit JSON instead of rendered markdown
  vlearn summarize tAP1eZYEuKA --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, true)
		if err != nil {
			return err
		}

		video, err := app.ProcessVideo(cmd.Context(), args[0], !config.Quiet)
		if err != nil {
			return err
		}
		printDemoNotice(video)

		length := resolveSummaryLength(cmd, app)
		summary := app.Summarize(cmd.Context(), video, length, !config.Quiet)

		if feedback, _ := cmd.Flags().GetString("refine"); feedback != "" {
			summary = app.RefineSummary(cmd.Context(), video, summary, feedback, !config.Quiet)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(summary)
		}
		return printSummary(video, summary)
	},
}

func init() {
	internal.AddGenerationFlags(summarizeCmd)
	summarizeCmd.Flags().StringP("length", "l", "Moderate", "Summary detail level (Concise, Moderate, Comprehensive)")
	summarizeCmd.Flags().String("refine", "", "Refine the summary with this feedback after generating it")
	summarizeCmd.Flags().Bool("json", false, "Output JSON instead of rendered markdown")
	rootCmd.AddCommand(summarizeCmd)
}
