package internal

import (
	"context"
	"strings"
)

// ChatTurn is one question/answer exchange in a video conversation.
type ChatTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

const (
	// chatHistoryTurns bounds how much conversation is replayed per prompt.
	chatHistoryTurns = 5

	chatNoVideoMessage = "To answer your question about the video, I'll need to process a video first. Please provide a video URL and try again."
)

// ChatAgent answers free-form questions about a processed video.
type ChatAgent struct {
	generator *TextGenerator
	prompts   *PromptBuilder
}

// NewChatAgent creates a chat agent backed by the given generator.
func NewChatAgent(generator *TextGenerator, prompts *PromptBuilder) *ChatAgent {
	return &ChatAgent{generator: generator, prompts: prompts}
}

// Ask answers a question grounded in the transcript. Without a transcript it
// short-circuits with a fixed message and makes no model call.
func (c *ChatAgent) Ask(ctx context.Context, transcript string, info *VideoInfo, question string, history []ChatTurn) (string, ArtifactStatus) {
	if strings.TrimSpace(transcript) == "" {
		return chatNoVideoMessage, degradedStatus(ReasonInvalidInput, "no transcript available")
	}
	if strings.TrimSpace(question) == "" {
		return "Please ask a question about the video.", degradedStatus(ReasonInvalidInput, "empty question")
	}

	prompt, err := c.prompts.Build("chat", PromptData{
		Transcript: TruncateHard(transcript, chatTranscriptLimit),
		History:    FormatChatHistory(history, chatHistoryTurns),
		Question:   question,
	}.withVideo(info))
	if err != nil {
		return "Sorry, I couldn't answer that question right now.", degradedStatus(ReasonProvider, err.Error())
	}

	resp, genErr := c.generator.Generate(ctx, GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: c.prompts.System("chat"),
		Temperature:  0.7,
		MaxTokens:    300,
	})
	if genErr != nil {
		return "Sorry, I couldn't answer that question right now.", degradedStatus(ReasonProvider, genErr.Error())
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		return "Sorry, I couldn't answer that question right now.", degradedStatus(ReasonProvider, "empty model response")
	}
	return answer, validatedStatus()
}
