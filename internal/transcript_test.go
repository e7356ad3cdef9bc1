package internal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaptionSource struct {
	text  string
	err   error
	calls int
}

func (f *fakeCaptionSource) Fetch(ctx context.Context, videoID string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, videoID string) (string, error) {
	f.calls++
	return f.text, f.err
}

func longText(n int) string {
	return strings.Repeat("a", n)
}

func TestAcquireCaptionsFirst(t *testing.T) {
	captions := &fakeCaptionSource{text: longText(200)}
	transcriber := &fakeTranscriber{text: longText(200)}
	p := NewPipeline(captions, transcriber, 50)

	result := p.Acquire(context.Background(), "tAP1eZYEuKA")

	assert.Equal(t, SourceCaptions, result.Source)
	assert.False(t, result.Degraded)
	assert.Equal(t, longText(200), result.Text)
	assert.Zero(t, transcriber.calls, "AI tier must not run when captions succeed")
}

func TestAcquireFallsBackToTranscriber(t *testing.T) {
	captions := &fakeCaptionSource{err: &AdapterError{Kind: FailureNoCaptions}}
	transcriber := &fakeTranscriber{text: longText(200)}
	p := NewPipeline(captions, transcriber, 50)

	result := p.Acquire(context.Background(), "tAP1eZYEuKA")

	assert.Equal(t, SourceAIGenerated, result.Source)
	assert.True(t, result.Degraded)
	assert.Equal(t, 1, captions.calls)
}

func TestAcquireFallsBackToSample(t *testing.T) {
	captions := &fakeCaptionSource{err: &AdapterError{Kind: FailureNetwork}}
	transcriber := &fakeTranscriber{err: &AdapterError{Kind: FailureRefused}}
	p := NewPipeline(captions, transcriber, 50)

	result := p.Acquire(context.Background(), "tAP1eZYEuKA")

	assert.Equal(t, SourceSample, result.Source)
	assert.True(t, result.Degraded)
	assert.True(t, strings.HasPrefix(result.Text, DemoNotice))
	assert.Greater(t, len(result.Text), len(DemoNotice))
}

func TestAcquireMinCharsBoundary(t *testing.T) {
	// Exactly minChars trimmed characters is not sufficient.
	captions := &fakeCaptionSource{text: longText(50) + "   "}
	transcriber := &fakeTranscriber{text: longText(51)}
	p := NewPipeline(captions, transcriber, 50)

	result := p.Acquire(context.Background(), "tAP1eZYEuKA")
	assert.Equal(t, SourceAIGenerated, result.Source)

	// One more character flips the gate.
	captions = &fakeCaptionSource{text: longText(51)}
	p = NewPipeline(captions, transcriber, 50)

	result = p.Acquire(context.Background(), "tAP1eZYEuKA")
	assert.Equal(t, SourceCaptions, result.Source)
}

func TestAcquireNeverFails(t *testing.T) {
	captions := &fakeCaptionSource{text: ""}
	transcriber := &fakeTranscriber{text: "   "}
	p := NewPipeline(captions, transcriber, 50)

	result := p.Acquire(context.Background(), "tAP1eZYEuKA")
	require.NotNil(t, result)
	assert.Equal(t, SourceSample, result.Source)
}

func TestLoadSampleTranscriptIdempotent(t *testing.T) {
	first := LoadSampleTranscript()
	second := LoadSampleTranscript()

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestTranscriptSourceRoundTrip(t *testing.T) {
	for _, source := range []TranscriptSource{SourceCaptions, SourceAIGenerated, SourceSample} {
		assert.Equal(t, source, ParseTranscriptSource(source.String()))
	}
}

func TestAdapterErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := &AdapterError{Kind: FailureRestricted, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "restricted")
}
