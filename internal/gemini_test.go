package internal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGeminiClient records the last call and returns a canned reply.
type fakeGeminiClient struct {
	response string
	err      error

	lastModel       string
	lastPrompt      string
	lastTemperature float64
	lastMaxTokens   int
	calls           int
}

func (f *fakeGeminiClient) GenerateContent(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error) {
	f.calls++
	f.lastModel = model
	f.lastPrompt = prompt
	f.lastTemperature = temperature
	f.lastMaxTokens = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestGenerator(client *fakeGeminiClient) *TextGenerator {
	return NewTextGenerator(client, DefaultModel, 30*time.Second)
}

func TestGenerateUsesDefaultModel(t *testing.T) {
	client := &fakeGeminiClient{response: "ok"}
	g := newTestGenerator(client)

	_, err := g.Generate(context.Background(), GenerationRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.lastModel)
}

func TestGeneratePerRequestModelOverride(t *testing.T) {
	client := &fakeGeminiClient{response: "ok"}
	g := newTestGenerator(client)

	_, err := g.Generate(context.Background(), GenerationRequest{Prompt: "hello", Model: "gemini-1.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", client.lastModel)

	// The override is per request, not sticky.
	_, err = g.Generate(context.Background(), GenerationRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.lastModel)
}

func TestGenerateRejectsUnsupportedModel(t *testing.T) {
	client := &fakeGeminiClient{response: "ok"}
	g := newTestGenerator(client)

	_, err := g.Generate(context.Background(), GenerationRequest{Prompt: "hello", Model: "gpt-4o"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Zero(t, client.calls)
}

func TestGenerateSystemPromptFraming(t *testing.T) {
	client := &fakeGeminiClient{response: "ok"}
	g := newTestGenerator(client)

	_, err := g.Generate(context.Background(), GenerationRequest{
		Prompt:       "transcribe this",
		SystemPrompt: "you are a transcriber",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(client.lastPrompt, "System: you are a transcriber\n\nUser: "))
	assert.Contains(t, client.lastPrompt, "transcribe this")
}

func TestGenerateJSONFormatAppendsInstruction(t *testing.T) {
	client := &fakeGeminiClient{response: `{"a":1}`}
	g := newTestGenerator(client)

	_, err := g.Generate(context.Background(), GenerationRequest{Prompt: "data", Format: FormatJSON})
	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "valid JSON object")
}

func TestGenerateStripsJSONFences(t *testing.T) {
	client := &fakeGeminiClient{response: "```json\n{\"a\": 1}\n```"}
	g := newTestGenerator(client)

	resp, err := g.Generate(context.Background(), GenerationRequest{Prompt: "data", Format: FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, resp.Text)
	assert.True(t, resp.FormatCleaned)
}

func TestGenerateWrapsProviderError(t *testing.T) {
	client := &fakeGeminiClient{err: errors.New("boom")}
	g := newTestGenerator(client)

	_, err := g.Generate(context.Background(), GenerationRequest{Prompt: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestCleanJSONFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		stripped bool
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`, false},
		{"json fences", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"bare fences", "```\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"leading prose", "Here you go:\n```json\n[1, 2]\n```", "[1, 2]", true},
		{"lone closing fence", "```json\n{\"a\": 1}", `{"a": 1}`, true},
		{"whitespace only", "  {\"a\": 1}  ", `{"a": 1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stripped := CleanJSONFences(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.stripped, stripped)
		})
	}
}

func TestValidateModel(t *testing.T) {
	assert.NoError(t, ValidateModel("gemini-1.5-flash"))
	assert.NoError(t, ValidateModel("gemini-2.5-flash"))
	assert.Error(t, ValidateModel("gpt-4o"))
	assert.Error(t, ValidateModel(""))
}

func TestValidateAPIKey(t *testing.T) {
	assert.NoError(t, ValidateAPIKey("key"))
	assert.Error(t, ValidateAPIKey(""))
}
