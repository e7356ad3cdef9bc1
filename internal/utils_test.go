package internal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, SaveTranscript("tAP1eZYEuKA", "the transcript text", dir))
	assert.FileExists(t, filepath.Join(dir, "tAP1eZYEuKA.txt"))

	text, err := LoadCachedTranscript("tAP1eZYEuKA", dir)
	require.NoError(t, err)
	assert.Equal(t, "the transcript text", text)
}

func TestTranscriptMetaSidecar(t *testing.T) {
	dir := t.TempDir()

	result := &TranscriptResult{Text: "text", Source: SourceAIGenerated, Degraded: true}
	require.NoError(t, SaveTranscriptMeta("tAP1eZYEuKA", result, dir))
	assert.FileExists(t, filepath.Join(dir, "tAP1eZYEuKA.meta.json"))

	meta, err := LoadTranscriptMeta("tAP1eZYEuKA", dir)
	require.NoError(t, err)
	assert.Equal(t, "tAP1eZYEuKA", meta.VideoID)
	assert.Equal(t, "ai_generated", meta.Source)
	assert.True(t, meta.Degraded)
	assert.False(t, meta.CachedAt.IsZero())
}

func TestLoadTranscriptMetaMissing(t *testing.T) {
	_, err := LoadTranscriptMeta("missing_vid_", t.TempDir())
	assert.Error(t, err)
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "a", "b")

	require.NoError(t, EnsureDirs(nested))
	assert.DirExists(t, nested)

	// Idempotent on existing directories.
	require.NoError(t, EnsureDirs(nested, base))
}
