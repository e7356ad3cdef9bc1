package internal

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultTimedTextURL = "https://www.youtube.com/api/timedtext"

// CaptionClient fetches existing captions from YouTube's timedtext endpoint.
type CaptionClient struct {
	client   *http.Client
	baseURL  string
	language string
}

// NewCaptionClient creates a caption fetcher for the given language
func NewCaptionClient(language string) *CaptionClient {
	if language == "" {
		language = "en"
	}
	return &CaptionClient{
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  defaultTimedTextURL,
		language: language,
	}
}

// NewCaptionClientWithBase creates a caption fetcher against a custom endpoint,
// used in tests.
func NewCaptionClientWithBase(client *http.Client, baseURL, language string) *CaptionClient {
	cc := NewCaptionClient(language)
	if client != nil {
		cc.client = client
	}
	if baseURL != "" {
		cc.baseURL = baseURL
	}
	return cc
}

// timedTextDoc mirrors the caption XML: <transcript><text ...>…</text></transcript>
type timedTextDoc struct {
	XMLName xml.Name       `xml:"transcript"`
	Lines   []timedTextSeg `xml:"text"`
}

type timedTextSeg struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Body  string  `xml:",chardata"`
}

// Fetch retrieves captions for a video. Failures are typed AdapterErrors;
// the pipeline decides what to do with them.
func (c *CaptionClient) Fetch(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s?%s", c.baseURL, url.Values{
		"v":    {videoID},
		"lang": {c.language},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &AdapterError{Kind: FailureNetwork, Err: err}
	}

	// Browser-like headers; the endpoint rejects some default user agents.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &AdapterError{Kind: FailureNetwork, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", &AdapterError{Kind: FailureNotFound, Err: fmt.Errorf("video %s not found", videoID)}
	case resp.StatusCode == http.StatusForbidden:
		return "", &AdapterError{Kind: FailureRestricted, Err: fmt.Errorf("captions for %s are restricted", videoID)}
	case resp.StatusCode != http.StatusOK:
		return "", &AdapterError{Kind: FailureNetwork, Err: fmt.Errorf("timedtext returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AdapterError{Kind: FailureNetwork, Err: err}
	}

	// An empty 200 body means the video has no caption track in this language.
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", &AdapterError{Kind: FailureNoCaptions, Err: fmt.Errorf("no %s captions for %s", c.language, videoID)}
	}

	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", &AdapterError{Kind: FailureNoCaptions, Err: fmt.Errorf("parsing caption track: %w", err)}
	}

	if len(doc.Lines) == 0 {
		return "", &AdapterError{Kind: FailureEmpty, Err: fmt.Errorf("caption track for %s is empty", videoID)}
	}

	segments := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		if text := strings.TrimSpace(line.Body); text != "" {
			segments = append(segments, text)
		}
	}

	return CleanCaptionText(strings.Join(segments, " ")), nil
}

var (
	srtTimestampPattern = regexp.MustCompile(`\d+:\d+:\d+,\d+ --> \d+:\d+:\d+,\d+`)
	srtSequencePattern  = regexp.MustCompile(`(?m)^\d+$`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// CleanCaptionText scrubs timing artifacts and collapses whitespace.
func CleanCaptionText(text string) string {
	text = srtTimestampPattern.ReplaceAllString(text, "")
	text = srtSequencePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
