package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidReference marks input that doesn't resolve to a video ID.
// Surfaced to the caller as a rejected request, never retried.
var ErrInvalidReference = errors.New("invalid video reference")

// videoIDPattern matches the known YouTube URL shapes: watch?v=, youtu.be/,
// /embed/ and /v/. Video IDs are exactly 11 URL-safe characters.
var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:[^#\s]*&)?v=|embed/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})`)

var bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsValidVideoID checks if a string looks like a valid YouTube video ID
func IsValidVideoID(id string) bool {
	return bareIDPattern.MatchString(id)
}

// ExtractVideoID extracts the 11-character video ID from a YouTube URL.
func ExtractVideoID(url string) (string, error) {
	match := videoIDPattern.FindStringSubmatch(strings.TrimSpace(url))
	if match == nil {
		return "", fmt.Errorf("%w: %q is not a recognized YouTube URL", ErrInvalidReference, url)
	}
	return match[1], nil
}

// ParseArg normalizes a command argument that may be a YouTube URL or a bare
// video ID. Returns the canonical watch URL and the ID.
func ParseArg(arg string) (string, string, error) {
	arg = strings.TrimSpace(arg)

	if IsValidVideoID(arg) {
		return "https://www.youtube.com/watch?v=" + arg, arg, nil
	}

	id, err := ExtractVideoID(arg)
	if err != nil {
		return "", "", err
	}
	return "https://www.youtube.com/watch?v=" + id, id, nil
}

// IsLikelyCommand checks if a string looks like it might be a mistyped command
func IsLikelyCommand(arg string) bool {
	return len(arg) <= 10 && !IsValidVideoID(arg) && !strings.Contains(arg, "/")
}

// VideoInfo holds display information about a video. Without a metadata API
// this is a deterministic placeholder derived from the ID.
type VideoInfo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Channel string `json:"channel"`
	URL     string `json:"url"`
}

// BuildVideoInfo constructs placeholder info for a video ID
func BuildVideoInfo(videoID string) *VideoInfo {
	title := strings.NewReplacer("_", " ", "-", " ").Replace(videoID)
	return &VideoInfo{
		ID:      videoID,
		Title:   fmt.Sprintf("YouTube Video: %s", title),
		Channel: "YouTube Channel",
		URL:     "https://www.youtube.com/watch?v=" + videoID,
	}
}
