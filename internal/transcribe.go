package internal

import (
	"context"
	"fmt"
	"strings"
)

// unavailableToken is the sentinel the model is instructed to emit when it
// cannot produce a transcript, so refusal detection is an exact-token check
// instead of error-message sniffing.
const unavailableToken = "TRANSCRIPT_UNAVAILABLE"

const transcribeSystemPrompt = "You are a transcription assistant. When given a YouTube video identifier, " +
	"produce a plain-text transcript of the video's spoken content if you know it. " +
	"Output only the transcript text with no commentary. " +
	"If you cannot produce a transcript for this video, reply with exactly " + unavailableToken + " and nothing else."

// ModelTranscriber asks the generation provider to transcribe a video by
// identifier. It is the second acquisition tier: best effort, often refused.
type ModelTranscriber struct {
	generator *TextGenerator
}

// NewModelTranscriber creates the AI transcription adapter
func NewModelTranscriber(generator *TextGenerator) *ModelTranscriber {
	return &ModelTranscriber{generator: generator}
}

// Transcribe requests a transcript for the video. Failures are typed
// AdapterErrors so the pipeline can fall through without string matching.
func (t *ModelTranscriber) Transcribe(ctx context.Context, videoID string) (string, error) {
	resp, err := t.generator.Generate(ctx, GenerationRequest{
		Prompt:       fmt.Sprintf("Transcribe the YouTube video with ID %q (https://www.youtube.com/watch?v=%s).", videoID, videoID),
		SystemPrompt: transcribeSystemPrompt,
		Format:       FormatText,
		Temperature:  0.2,
	})
	if err != nil {
		return "", &AdapterError{Kind: FailureNetwork, Err: err}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", &AdapterError{Kind: FailureEmpty, Err: fmt.Errorf("model returned no text for %s", videoID)}
	}
	if strings.Contains(text, unavailableToken) {
		return "", &AdapterError{Kind: FailureRefused, Err: fmt.Errorf("model declined to transcribe %s", videoID)}
	}

	return text, nil
}
