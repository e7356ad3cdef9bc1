package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// SaveTranscript stores a transcript in the cache directory as <id>.txt.
func SaveTranscript(videoID, transcript, transcriptsDir string) error {
	transcriptPath := filepath.Join(transcriptsDir, videoID+".txt")
	if err := os.WriteFile(transcriptPath, []byte(transcript), 0644); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

// LoadCachedTranscript reads a previously saved transcript.
func LoadCachedTranscript(videoID, transcriptsDir string) (string, error) {
	transcriptPath := filepath.Join(transcriptsDir, videoID+".txt")
	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		return "", fmt.Errorf("reading cached transcript: %w", err)
	}
	return string(data), nil
}

// TranscriptMeta is the cache sidecar recording where a transcript came from.
type TranscriptMeta struct {
	VideoID  string    `json:"video_id"`
	Source   string    `json:"source"`
	Degraded bool      `json:"degraded"`
	CachedAt time.Time `json:"cached_at"`
}

// SaveTranscriptMeta writes the <id>.meta.json sidecar for a cached transcript.
func SaveTranscriptMeta(videoID string, result *TranscriptResult, transcriptsDir string) error {
	meta := TranscriptMeta{
		VideoID:  videoID,
		Source:   result.Source.String(),
		Degraded: result.Degraded,
		CachedAt: time.Now().UTC(),
	}

	metaPath := filepath.Join(transcriptsDir, videoID+".meta.json")
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling transcript metadata: %w", err)
	}

	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return fmt.Errorf("saving transcript metadata: %w", err)
	}
	return nil
}

// LoadTranscriptMeta reads the cache sidecar for a video if present.
func LoadTranscriptMeta(videoID, transcriptsDir string) (*TranscriptMeta, error) {
	metaPath := filepath.Join(transcriptsDir, videoID+".meta.json")
	if !FileExists(metaPath) {
		return nil, fmt.Errorf("transcript metadata not found")
	}

	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("reading transcript metadata: %w", err)
	}

	var meta TranscriptMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing transcript metadata: %w", err)
	}
	return &meta, nil
}
