package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tAP1eZYEuKA", r.URL.Query().Get("v"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func fetchFrom(t *testing.T, server *httptest.Server) (string, error) {
	t.Helper()
	client := NewCaptionClientWithBase(server.Client(), server.URL, "en")
	return client.Fetch(context.Background(), "tAP1eZYEuKA")
}

func adapterKind(t *testing.T, err error) FailureKind {
	t.Helper()
	var aerr *AdapterError
	require.True(t, errors.As(err, &aerr), "expected AdapterError, got %v", err)
	return aerr.Kind
}

func TestCaptionFetchSuccess(t *testing.T) {
	body := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">Welcome to the course.</text>
  <text start="2.5" dur="3.0">Today we discuss machine learning.</text>
</transcript>`
	server := captionServer(t, http.StatusOK, body)

	text, err := fetchFrom(t, server)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the course. Today we discuss machine learning.", text)
}

func TestCaptionFetchStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   FailureKind
	}{
		{"not found", http.StatusNotFound, FailureNotFound},
		{"restricted", http.StatusForbidden, FailureRestricted},
		{"server error", http.StatusInternalServerError, FailureNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := captionServer(t, tt.status, "")
			_, err := fetchFrom(t, server)
			assert.Equal(t, tt.kind, adapterKind(t, err))
		})
	}
}

func TestCaptionFetchEmptyBody(t *testing.T) {
	server := captionServer(t, http.StatusOK, "")
	_, err := fetchFrom(t, server)
	assert.Equal(t, FailureNoCaptions, adapterKind(t, err))
}

func TestCaptionFetchMalformedXML(t *testing.T) {
	server := captionServer(t, http.StatusOK, "<transcript><text>unclosed")
	_, err := fetchFrom(t, server)
	assert.Equal(t, FailureNoCaptions, adapterKind(t, err))
}

func TestCaptionFetchNoLines(t *testing.T) {
	server := captionServer(t, http.StatusOK, "<transcript></transcript>")
	_, err := fetchFrom(t, server)
	assert.Equal(t, FailureEmpty, adapterKind(t, err))
}

func TestCleanCaptionText(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:04,000\nHello   world\n2\n00:00:04,000 --> 00:00:08,000\nmore    text"
	assert.Equal(t, "Hello world more text", CleanCaptionText(input))
}
