package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// flashcardsCmd represents the flashcards command
var flashcardsCmd = &cobra.Command{
	Use:   "flashcards [YouTube URL or ID]",
	Short: "Generate study flashcards from a YouTube video",
	Example: `  # Generate 10 flashcards
  vlearn flashcards "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Generate 5 flashcards as JSON
  vlearn flashcards tAP1eZYEuKA --cards 5 --json`,
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

		numCards, _ := cmd.Flags().GetInt("cards")
		set := app.GenerateFlashcards(cmd.Context(), video, numCards, !config.Quiet)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(set)
		}

		for i, card := range set.Cards {
			fmt.Printf("Card %d\n  Front: %s\n  Back:  %s\n\n", i+1, card.Front, card.Back)
		}
		return nil
	},
}

func init() {
	internal.AddGenerationFlags(flashcardsCmd)
	flashcardsCmd.Flags().IntP("cards", "n", internal.DefaultFlashcardCount, "Number of flashcards to generate")
	flashcardsCmd.Flags().Bool("json", false, "Output JSON instead of formatted cards")
	rootCmd.AddCommand(flashcardsCmd)
}
