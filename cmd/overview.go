package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// overviewCmd represents the overview command
var overviewCmd = &cobra.Command{
	Use:   "overview [YouTube URL or ID]",
	Short: "Generate a quick overview of a YouTube video",
	Long: `Generate a quick overview of a YouTube video: a short description,
its primary topic, target audience, and content type. Uses a small
sample of the transcript, so it is faster than a full summary.`,
	Example: `  vlearn overview "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  vlearn overview tAP1eZYEuKA --json`,
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

		overview := app.Overview(cmd.Context(), video)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(overview)
		}

		md := fmt.Sprintf("# %s\n\n%s\n\n- **Topic:** %s\n- **Audience:** %s\n- **Type:** %s\n",
			video.Info.Title, overview.Description, overview.PrimaryTopic, overview.TargetAudience, overview.ContentType)
		return printMarkdown(md)
	},
}

func init() {
	internal.AddGenerationFlags(overviewCmd)
	overviewCmd.Flags().Bool("json", false, "Output JSON instead of rendered markdown")
	rootCmd.AddCommand(overviewCmd)
}
