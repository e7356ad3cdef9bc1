package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// TranscriptSource identifies which tier produced a transcript.
type TranscriptSource int

const (
	SourceCaptions TranscriptSource = iota
	SourceAIGenerated
	SourceSample
)

// String returns the serialized name of the source tier
func (s TranscriptSource) String() string {
	switch s {
	case SourceCaptions:
		return "captions"
	case SourceAIGenerated:
		return "ai_generated"
	case SourceSample:
		return "sample"
	default:
		return "unknown"
	}
}

// ParseTranscriptSource is the inverse of TranscriptSource.String
func ParseTranscriptSource(s string) TranscriptSource {
	switch s {
	case "captions":
		return SourceCaptions
	case "ai_generated":
		return SourceAIGenerated
	default:
		return SourceSample
	}
}

// TranscriptResult is the outcome of one acquisition run. Degraded is true
// whenever the text did not come from real captions. Immutable once produced.
type TranscriptResult struct {
	Text     string
	Source   TranscriptSource
	Degraded bool
}

// FailureKind is the closed set of adapter failure categories. The pipeline
// switches on these, never on error-message substrings.
type FailureKind int

const (
	FailureNetwork FailureKind = iota
	FailureNotFound
	FailureNoCaptions
	FailureDisabled
	FailureRestricted
	FailureRefused
	FailureEmpty
)

// String returns a short label for the failure category
func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureNotFound:
		return "not_found"
	case FailureNoCaptions:
		return "no_captions"
	case FailureDisabled:
		return "captions_disabled"
	case FailureRestricted:
		return "restricted"
	case FailureRefused:
		return "refused"
	case FailureEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// AdapterError is a typed failure from a transcript source.
type AdapterError struct {
	Kind FailureKind
	Err  error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *AdapterError) Unwrap() error { return e.Err }

// CaptionSource fetches existing captions for a video.
type CaptionSource interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// AITranscriber produces a transcript via a generative model.
type AITranscriber interface {
	Transcribe(ctx context.Context, videoID string) (string, error)
}

// DemoNotice prefixes transcripts served from the embedded sample so
// downstream consumers and the user can recognize demo mode.
const DemoNotice = "[DEMO MODE] Live transcript sources were unavailable; using a sample transcript.\n\n"

const fallbackSample = "This is a sample educational transcript used when no live transcript source is available. " +
	"It covers the basics of machine learning: supervised learning maps labeled inputs to outputs, " +
	"unsupervised learning finds structure in unlabeled data, and reinforcement learning trains an agent through rewards."

// LoadSampleTranscript returns the embedded demo transcript. It never fails:
// if the embedded file is unreadable it degrades to an in-memory literal.
func LoadSampleTranscript() string {
	data, err := defaultFS.ReadFile("sample_transcript.txt")
	if err != nil {
		return fallbackSample
	}
	return strings.TrimSpace(string(data))
}

// Pipeline acquires transcripts through a strict tier order:
// captions, then AI transcription, then the embedded sample.
type Pipeline struct {
	captions    CaptionSource
	transcriber AITranscriber
	minChars    int
}

// DefaultTranscriptMinChars is the content-quality threshold shared by the
// pipeline tiers and the agents' input validation.
const DefaultTranscriptMinChars = 50

// NewPipeline creates a transcript acquisition pipeline
func NewPipeline(captions CaptionSource, transcriber AITranscriber, minChars int) *Pipeline {
	if minChars <= 0 {
		minChars = DefaultTranscriptMinChars
	}
	return &Pipeline{
		captions:    captions,
		transcriber: transcriber,
		minChars:    minChars,
	}
}

// sufficient applies the content-quality gate shared by every tier.
// The threshold is strictly-greater: a tier returning exactly minChars
// trimmed characters is not enough.
func (p *Pipeline) sufficient(text string) bool {
	return len(strings.TrimSpace(text)) > p.minChars
}

// Acquire runs the tiered fallback. It never fails: adapter errors are
// logged as warnings and acquisition degrades to the next tier, ending at
// the infallible sample loader.
func (p *Pipeline) Acquire(ctx context.Context, videoID string) *TranscriptResult {
	if text, err := p.captions.Fetch(ctx, videoID); err == nil && p.sufficient(text) {
		return &TranscriptResult{Text: strings.TrimSpace(text), Source: SourceCaptions}
	} else {
		p.logTierFailure("captions", videoID, text, err)
	}

	if text, err := p.transcriber.Transcribe(ctx, videoID); err == nil && p.sufficient(text) {
		return &TranscriptResult{Text: strings.TrimSpace(text), Source: SourceAIGenerated, Degraded: true}
	} else {
		p.logTierFailure("transcriber", videoID, text, err)
	}

	return &TranscriptResult{
		Text:     DemoNotice + LoadSampleTranscript(),
		Source:   SourceSample,
		Degraded: true,
	}
}

func (p *Pipeline) logTierFailure(tier, videoID, text string, err error) {
	fields := logrus.Fields{"tier": tier, "video_id": videoID}
	if err != nil {
		var aerr *AdapterError
		if errors.As(err, &aerr) {
			fields["kind"] = aerr.Kind.String()
		}
		log.WithFields(fields).Warnf("transcript tier failed: %v", err)
		return
	}
	log.WithFields(fields).Warnf("transcript tier returned insufficient text (%d trimmed chars, need >%d)",
		len(strings.TrimSpace(text)), p.minChars)
}
