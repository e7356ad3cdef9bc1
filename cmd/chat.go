package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [YouTube URL or ID]",
	Short: "Ask questions about a YouTube video",
	Long: `Start an interactive chat session about a video. Answers are grounded
in the transcript. Type "exit" or press Ctrl-D to leave the session.

With --question, a single question is answered non-interactively.`,
	Example: `  # Interactive chat about a video
  vlearn chat "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # One-shot question
  vlearn chat tAP1eZYEuKA --question "What are the three types of machine learning?"`,
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

		if question, _ := cmd.Flags().GetString("question"); question != "" {
			answer, _ := app.Ask(cmd.Context(), video, question, nil)
			fmt.Println(answer)
			return nil
		}

		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("interactive chat requires a terminal; use --question for one-shot mode")
		}

		return runChatSession(cmd, app, video)
	},
}

// runChatSession is the interactive read-ask-print loop.
func runChatSession(cmd *cobra.Command, app *internal.App, video *internal.ProcessedVideo) error {
	fmt.Printf("Chatting about %s. Type \"exit\" to quit.\n", video.Info.Title)

	scanner := bufio.NewScanner(os.Stdin)
	var history []internal.ChatTurn

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, _ := app.Ask(cmd.Context(), video, question, history)
		fmt.Println(answer)
		fmt.Println()

		history = append(history, internal.ChatTurn{Question: question, Answer: answer})
	}

	return scanner.Err()
}

func init() {
	internal.AddGenerationFlags(chatCmd)
	chatCmd.Flags().StringP("question", "q", "", "Ask a single question instead of starting a session")
	rootCmd.AddCommand(chatCmd)
}
