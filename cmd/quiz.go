package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// quizCmd represents the quiz command
var quizCmd = &cobra.Command{
	Use:   "quiz [YouTube URL or ID]",
	Short: "Generate a multiple-choice quiz from a YouTube video",
	Example: `  # Generate a 5-question quiz
  vlearn quiz "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Generate 3 questions and take the quiz interactively
  vlearn quiz tAP1eZYEuKA --questions 3

  # Emit the quiz as JSON
  vlearn quiz tAP1eZYEuKA --json`,
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

		numQuestions, _ := cmd.Flags().GetInt("questions")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		quiz := app.GenerateQuiz(cmd.Context(), video, numQuestions, internal.ParseQuizDifficulty(difficulty), !config.Quiet)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(quiz)
		}

		if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
			return runInteractiveQuiz(app, quiz)
		}
		return printQuiz(quiz)
	},
}

// runInteractiveQuiz walks the user through the quiz question by question.
func runInteractiveQuiz(app *internal.App, quiz *internal.Quiz) error {
	scanner := bufio.NewScanner(os.Stdin)
	score := 0

	for i, question := range quiz.Questions {
		fmt.Printf("\nQuestion %d of %d: %s\n", i+1, len(quiz.Questions), question.Question)
		for j, opt := range question.Options {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}

		fmt.Print("Your answer (1-4): ")
		if !scanner.Scan() {
			break
		}

		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || choice < 1 || choice > len(question.Options) {
			fmt.Println("Skipped (enter a number between 1 and 4).")
			continue
		}

		correct, feedback := app.EvaluateAnswer(question, question.Options[choice-1])
		if correct {
			score++
		}
		fmt.Println(feedback)
	}

	fmt.Printf("\nFinal score: %d/%d\n", score, len(quiz.Questions))
	return scanner.Err()
}

// printQuiz writes the quiz with answers for non-interactive use.
func printQuiz(quiz *internal.Quiz) error {
	for i, question := range quiz.Questions {
		fmt.Printf("%d. %s\n", i+1, question.Question)
		for j, opt := range question.Options {
			marker := " "
			if opt == question.CorrectAnswer {
				marker = "*"
			}
			fmt.Printf("  %s %c) %s\n", marker, 'a'+j, opt)
		}
		fmt.Println()
	}
	fmt.Println("(* marks the correct answer)")
	return nil
}

func init() {
	internal.AddGenerationFlags(quizCmd)
	quizCmd.Flags().IntP("questions", "n", internal.DefaultQuizQuestions, "Number of questions to generate")
	quizCmd.Flags().StringP("difficulty", "d", internal.DefaultQuizDifficulty, "Question difficulty: Easy, Medium, or Hard")
	quizCmd.Flags().Bool("json", false, "Output JSON instead of interactive quiz")
	rootCmd.AddCommand(quizCmd)
}
