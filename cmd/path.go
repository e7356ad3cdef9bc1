package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// pathCmd represents the path command
var pathCmd = &cobra.Command{
	Use:   "path [YouTube URL or ID]",
	Short: "Generate a personalized learning path from a YouTube video",
	Long: `Generate learning recommendations (next steps, recommended videos,
additional resources, milestones, and skill assessments) from a video.

When user_email is configured, the path is stored in the user's settings
so it can be updated later with "vlearn path update".`,
	Example: `  # Generate a learning path from a video
  vlearn path "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Update the stored path with progress
  vlearn path update "finished the basics, comfortable with supervised learning"`,
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

		summary := app.Summarize(cmd.Context(), video, internal.LengthModerate, !config.Quiet)
		path, err := app.GenerateLearningPath(cmd.Context(), summary, !config.Quiet)
		if err != nil {
			fmt.Printf("Warning: could not store learning path: %v\n", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(path)
		}
		return printLearningPath(path)
	},
}

// pathUpdateCmd revises the stored learning path with a progress note.
var pathUpdateCmd = &cobra.Command{
	Use:   "update [progress note]",
	Short: "Update the stored learning path with your progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd, true)
		if err != nil {
			return err
		}

		progress := strings.Join(args, " ")
		path, err := app.UpdateLearningPath(cmd.Context(), progress, !config.Quiet)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(path)
		}
		return printLearningPath(path)
	},
}

func printLearningPath(path *internal.LearningPath) error {
	var b strings.Builder
	b.WriteString("# Learning Path\n\n## Next Steps\n\n")
	for _, step := range path.NextSteps {
		fmt.Fprintf(&b, "- %s\n", step)
	}
	if len(path.RecommendedVideos) > 0 {
		b.WriteString("\n## Recommended Videos\n\n")
		for _, video := range path.RecommendedVideos {
			fmt.Fprintf(&b, "- **%s**", video.Title)
			if video.Description != "" {
				fmt.Fprintf(&b, ": %s", video.Description)
			}
			b.WriteString("\n")
		}
	}
	if len(path.AdditionalResources) > 0 {
		b.WriteString("\n## Additional Resources\n\n")
		for _, resource := range path.AdditionalResources {
			fmt.Fprintf(&b, "- %s", resource.Title)
			if resource.Type != "" {
				fmt.Fprintf(&b, " (%s)", resource.Type)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n## Milestones\n\n")
	for _, milestone := range path.Milestones {
		fmt.Fprintf(&b, "- **%s** (%d%%)", milestone.Name, milestone.Progress)
		if milestone.Objective != "" {
			fmt.Fprintf(&b, ": %s", milestone.Objective)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n## Skill Assessments\n\n")
	for _, assessment := range path.SkillAssessments {
		fmt.Fprintf(&b, "- **%s**", assessment.Skill)
		if assessment.CurrentLevel != "" {
			fmt.Fprintf(&b, " (%s)", assessment.CurrentLevel)
		}
		if assessment.NextGoal != "" {
			fmt.Fprintf(&b, ": next, %s", assessment.NextGoal)
		}
		b.WriteString("\n")
	}

	return printMarkdown(b.String())
}

func init() {
	internal.AddGenerationFlags(pathCmd)
	internal.AddGenerationFlags(pathUpdateCmd)
	pathCmd.Flags().Bool("json", false, "Output JSON instead of rendered markdown")
	pathUpdateCmd.Flags().Bool("json", false, "Output JSON instead of rendered markdown")
	pathCmd.AddCommand(pathUpdateCmd)
	rootCmd.AddCommand(pathCmd)
}
