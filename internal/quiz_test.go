package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuizValidResponse(t *testing.T) {
	client := &fakeGeminiClient{response: `[
		{
			"question": "What is supervised learning?",
			"options": ["Learning with labels", "Learning without labels", "Learning by reward", "None"],
			"correct_answer": "Learning with labels",
			"correct_feedback": "Right!",
			"incorrect_feedback": "It uses labeled data."
		},
		{
			"question": "What finds structure in unlabeled data?",
			"options": ["Supervised", "Unsupervised", "Reinforcement", "Transfer"],
			"correct_answer": "Unsupervised",
			"correct_feedback": "Right!",
			"incorrect_feedback": "Unsupervised learning does."
		}
	]`}
	q := NewQuizGenerator(newTestGenerator(client), testPrompts(t), 0)

	quiz := q.Generate(context.Background(), testTranscript, nil, 2, DefaultQuizDifficulty)

	assert.True(t, quiz.Status.Validated())
	assert.Len(t, quiz.Questions, 2)
	assert.Equal(t, 0.7, client.lastTemperature)
}

func TestQuizDropsMalformedItems(t *testing.T) {
	// 2 valid items mixed with 3 malformed ones: missing question, wrong
	// option count, and correct answer not among the options.
	client := &fakeGeminiClient{response: `[
		{"question": "Valid one?", "options": ["a", "b", "c", "d"], "correct_answer": "a"},
		{"question": "", "options": ["a", "b", "c", "d"], "correct_answer": "a"},
		{"question": "Too few options?", "options": ["a", "b"], "correct_answer": "a"},
		{"question": "Mismatched answer?", "options": ["a", "b", "c", "d"], "correct_answer": "e"},
		{"question": "Valid two?", "options": ["w", "x", "y", "z"], "correct_answer": "z"}
	]`}
	q := NewQuizGenerator(newTestGenerator(client), testPrompts(t), 0)

	quiz := q.Generate(context.Background(), testTranscript, nil, 5, DefaultQuizDifficulty)

	assert.True(t, quiz.Status.Validated())
	assert.Len(t, quiz.Questions, 2)
	for _, question := range quiz.Questions {
		assert.NotEmpty(t, question.Question)
		assert.Len(t, question.Options, 4)
		assert.Contains(t, question.Options, question.CorrectAnswer)
		assert.NotEmpty(t, question.CorrectFeedback)
		assert.NotEmpty(t, question.IncorrectFeedback)
	}
}

func TestQuizCannedFallbackCycles(t *testing.T) {
	client := &fakeGeminiClient{response: "garbage"}
	q := NewQuizGenerator(newTestGenerator(client), testPrompts(t), 0)

	quiz := q.Generate(context.Background(), testTranscript, nil, 5, DefaultQuizDifficulty)

	assert.Equal(t, StageDegraded, quiz.Status.Stage)
	assert.Len(t, quiz.Questions, 5)
	// The canned set has two questions, cycled.
	assert.Equal(t, quiz.Questions[0].Question, quiz.Questions[2].Question)
	assert.Equal(t, quiz.Questions[1].Question, quiz.Questions[3].Question)
}

func TestQuizEmptyTranscript(t *testing.T) {
	client := &fakeGeminiClient{response: "unused"}
	q := NewQuizGenerator(newTestGenerator(client), testPrompts(t), 0)

	quiz := q.Generate(context.Background(), "", nil, 3, DefaultQuizDifficulty)

	assert.Equal(t, ReasonInvalidInput, quiz.Status.Reason)
	assert.Len(t, quiz.Questions, 3)
	assert.Zero(t, client.calls)
}

func TestQuizShortTranscript(t *testing.T) {
	client := &fakeGeminiClient{response: "unused"}
	q := NewQuizGenerator(newTestGenerator(client), testPrompts(t), 0)

	quiz := q.Generate(context.Background(), "only twenty chars ok", nil, 3, DefaultQuizDifficulty)

	assert.Equal(t, ReasonInvalidInput, quiz.Status.Reason)
	assert.Zero(t, client.calls, "no model call for a transcript below the minimum length")
}

func TestQuizDifficultyInPrompt(t *testing.T) {
	client := &fakeGeminiClient{response: `[]`}
	q := NewQuizGenerator(newTestGenerator(client), testPrompts(t), 0)

	q.Generate(context.Background(), testTranscript, testVideoInfo(), 3, "Hard")

	assert.Contains(t, client.lastPrompt, "hard difficulty")
	assert.Contains(t, client.lastPrompt, "Video Title: Machine Learning Basics")
	assert.Contains(t, client.lastPrompt, "Video Channel: Learning Channel")
}

func TestParseQuizDifficulty(t *testing.T) {
	assert.Equal(t, "Easy", ParseQuizDifficulty("easy"))
	assert.Equal(t, "Hard", ParseQuizDifficulty(" HARD "))
	assert.Equal(t, "Medium", ParseQuizDifficulty("medium"))
	assert.Equal(t, "Medium", ParseQuizDifficulty(""))
	assert.Equal(t, "Medium", ParseQuizDifficulty("impossible"))
}

func TestQuizClipsToRequestedCount(t *testing.T) {
	client := &fakeGeminiClient{response: `[
		{"question": "One?", "options": ["a", "b", "c", "d"], "correct_answer": "a"},
		{"question": "Two?", "options": ["a", "b", "c", "d"], "correct_answer": "b"},
		{"question": "Three?", "options": ["a", "b", "c", "d"], "correct_answer": "c"}
	]`}
	q := NewQuizGenerator(newTestGenerator(client), testPrompts(t), 0)

	quiz := q.Generate(context.Background(), testTranscript, nil, 2, DefaultQuizDifficulty)
	assert.Len(t, quiz.Questions, 2)
}

func TestEvaluateAnswer(t *testing.T) {
	q := NewQuizGenerator(newTestGenerator(&fakeGeminiClient{}), testPrompts(t), 0)
	question := QuizQuestion{
		Question:          "Pick a.",
		Options:           []string{"a", "b", "c", "d"},
		CorrectAnswer:     "a",
		CorrectFeedback:   "Well done.",
		IncorrectFeedback: "The answer is a.",
	}

	correct, feedback := q.EvaluateAnswer(question, "a")
	assert.True(t, correct)
	assert.Equal(t, "Well done.", feedback)

	correct, feedback = q.EvaluateAnswer(question, " A ")
	assert.True(t, correct, "answer match is case-insensitive and trimmed")

	correct, feedback = q.EvaluateAnswer(question, "b")
	assert.False(t, correct)
	assert.Equal(t, "The answer is a.", feedback)
}
