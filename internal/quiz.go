package internal

import (
	"context"
	"fmt"
	"strings"
)

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	CorrectAnswer     string   `json:"correct_answer"`
	CorrectFeedback   string   `json:"correct_feedback"`
	IncorrectFeedback string   `json:"incorrect_feedback"`
}

// Quiz is the structured output of the quiz agent.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`

	Status ArtifactStatus `json:"status"`
}

const (
	DefaultQuizQuestions  = 5
	DefaultQuizDifficulty = "Medium"
	quizOptionCount       = 4
)

// ParseQuizDifficulty normalizes a user-supplied difficulty name. Unknown
// values fall back to Medium.
func ParseQuizDifficulty(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return "Easy"
	case "hard":
		return "Hard"
	default:
		return DefaultQuizDifficulty
	}
}

// QuizGenerator produces multiple-choice quizzes from transcripts.
type QuizGenerator struct {
	generator *TextGenerator
	prompts   *PromptBuilder
	minChars  int
}

// NewQuizGenerator creates a quiz generator backed by the given generator.
func NewQuizGenerator(generator *TextGenerator, prompts *PromptBuilder, minChars int) *QuizGenerator {
	if minChars <= 0 {
		minChars = DefaultTranscriptMinChars
	}
	return &QuizGenerator{generator: generator, prompts: prompts, minChars: minChars}
}

// Generate builds a quiz with numQuestions questions at the given difficulty.
// Malformed items in the model output are dropped; if nothing valid survives,
// a canned quiz is returned with a degraded status.
func (q *QuizGenerator) Generate(ctx context.Context, transcript string, info *VideoInfo, numQuestions int, difficulty string) *Quiz {
	if numQuestions <= 0 {
		numQuestions = DefaultQuizQuestions
	}
	difficulty = ParseQuizDifficulty(difficulty)

	if issue := transcriptIssue(transcript, q.minChars); issue != "" {
		quiz := cannedQuiz(numQuestions)
		quiz.Status = degradedStatus(ReasonInvalidInput, issue)
		return quiz
	}

	prompt, err := q.prompts.Build("quiz", PromptData{
		Transcript: TruncateHard(transcript, quizTranscriptLimit),
		NumItems:   numQuestions,
		Difficulty: strings.ToLower(difficulty),
	}.withVideo(info))
	if err != nil {
		quiz := cannedQuiz(numQuestions)
		quiz.Status = degradedStatus(ReasonProvider, err.Error())
		return quiz
	}

	items, status := generateJSON[[]QuizQuestion](ctx, q.generator, GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: q.prompts.System("quiz"),
		Temperature:  0.7,
	})
	if status != nil {
		quiz := cannedQuiz(numQuestions)
		quiz.Status = *status
		return quiz
	}

	valid := filterQuizQuestions(*items)
	if len(valid) == 0 {
		quiz := cannedQuiz(numQuestions)
		quiz.Status = degradedStatus(ReasonSchema, "no valid questions in model output")
		return quiz
	}
	if len(valid) > numQuestions {
		valid = valid[:numQuestions]
	}

	return &Quiz{Questions: valid, Status: validatedStatus()}
}

// EvaluateAnswer checks a learner's choice against a question and returns
// whether it was correct plus the matching feedback line.
func (q *QuizGenerator) EvaluateAnswer(question QuizQuestion, answer string) (bool, string) {
	if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(question.CorrectAnswer)) {
		feedback := question.CorrectFeedback
		if feedback == "" {
			feedback = "Correct!"
		}
		return true, feedback
	}

	feedback := question.IncorrectFeedback
	if feedback == "" {
		feedback = fmt.Sprintf("Not quite. The correct answer is: %s", question.CorrectAnswer)
	}
	return false, feedback
}

// filterQuizQuestions keeps only questions with all required fields, exactly
// four options, and a correct answer that appears among the options.
func filterQuizQuestions(items []QuizQuestion) []QuizQuestion {
	var valid []QuizQuestion
	for _, item := range items {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.CorrectAnswer) == "" {
			continue
		}
		if len(item.Options) != quizOptionCount {
			continue
		}
		found := false
		for _, opt := range item.Options {
			if opt == item.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		if item.CorrectFeedback == "" {
			item.CorrectFeedback = "Correct!"
		}
		if item.IncorrectFeedback == "" {
			item.IncorrectFeedback = fmt.Sprintf("Not quite. The correct answer is: %s", item.CorrectAnswer)
		}
		valid = append(valid, item)
	}
	return valid
}

var cannedQuizQuestions = []QuizQuestion{
	{
		Question:          "What is the main benefit of active recall when studying?",
		Options:           []string{"It takes less time than rereading", "It strengthens memory by retrieving information", "It removes the need for practice", "It only works for visual learners"},
		CorrectAnswer:     "It strengthens memory by retrieving information",
		CorrectFeedback:   "Correct! Retrieving information strengthens the memory trace.",
		IncorrectFeedback: "Not quite. Active recall works because retrieving information strengthens the memory trace.",
	},
	{
		Question:          "Which approach helps most when a topic feels overwhelming?",
		Options:           []string{"Skipping the fundamentals", "Breaking it into smaller parts", "Studying only before exams", "Memorizing without understanding"},
		CorrectAnswer:     "Breaking it into smaller parts",
		CorrectFeedback:   "Correct! Smaller parts are easier to understand and build on.",
		IncorrectFeedback: "Not quite. Breaking a topic into smaller parts makes it manageable.",
	},
}

// cannedQuiz cycles the built-in question set to the requested count.
func cannedQuiz(numQuestions int) *Quiz {
	questions := make([]QuizQuestion, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		questions = append(questions, cannedQuizQuestions[i%len(cannedQuizQuestions)])
	}
	return &Quiz{Questions: questions}
}
