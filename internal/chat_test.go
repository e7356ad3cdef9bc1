package internal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatAnswersQuestion(t *testing.T) {
	client := &fakeGeminiClient{response: "The video covers three learning paradigms."}
	c := NewChatAgent(newTestGenerator(client), testPrompts(t))

	answer, status := c.Ask(context.Background(), "a transcript about ml", testVideoInfo(), "What does it cover?", nil)

	assert.True(t, status.Validated())
	assert.Equal(t, "The video covers three learning paradigms.", answer)
	assert.Equal(t, 0.7, client.lastTemperature)
	assert.Equal(t, 300, client.lastMaxTokens)
	assert.Contains(t, client.lastPrompt, "What does it cover?")
	assert.Contains(t, client.lastPrompt, "Video Title: Machine Learning Basics")
}

func TestChatNoTranscriptShortCircuits(t *testing.T) {
	client := &fakeGeminiClient{response: "unused"}
	c := NewChatAgent(newTestGenerator(client), testPrompts(t))

	answer, status := c.Ask(context.Background(), "", nil, "What does it cover?", nil)

	assert.Equal(t, ReasonInvalidInput, status.Reason)
	assert.Contains(t, answer, "process a video first")
	assert.Zero(t, client.calls, "no model call without a transcript")
}

func TestChatEmptyQuestion(t *testing.T) {
	client := &fakeGeminiClient{response: "unused"}
	c := NewChatAgent(newTestGenerator(client), testPrompts(t))

	_, status := c.Ask(context.Background(), "a transcript", nil, "  ", nil)
	assert.Equal(t, ReasonInvalidInput, status.Reason)
	assert.Zero(t, client.calls)
}

func TestChatHistoryLimitedToLastTurns(t *testing.T) {
	client := &fakeGeminiClient{response: "ok"}
	c := NewChatAgent(newTestGenerator(client), testPrompts(t))

	var history []ChatTurn
	for _, q := range []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7"} {
		history = append(history, ChatTurn{Question: q, Answer: "a-" + q})
	}

	_, status := c.Ask(context.Background(), "a transcript", nil, "latest question", history)
	require.True(t, status.Validated())

	// Only the last five turns are replayed.
	assert.NotContains(t, client.lastPrompt, "q1")
	assert.NotContains(t, client.lastPrompt, "q2")
	for _, q := range []string{"q3", "q4", "q5", "q6", "q7"} {
		assert.Contains(t, client.lastPrompt, "User: "+q)
	}
}

func TestFormatChatHistory(t *testing.T) {
	history := []ChatTurn{
		{Question: "first", Answer: "one"},
		{Question: "second", Answer: "two"},
	}

	formatted := FormatChatHistory(history, 5)
	assert.Equal(t, "User: first\nAssistant: one\nUser: second\nAssistant: two\n", formatted)

	assert.Empty(t, FormatChatHistory(nil, 5))
	assert.Equal(t, 1, strings.Count(FormatChatHistory(history, 1), "User:"))
}
