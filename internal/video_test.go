package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgURLForms(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		id   string
	}{
		{"watch url", "https://www.youtube.com/watch?v=tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"watch url extra params", "https://www.youtube.com/watch?list=PLx&v=tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"short url", "https://youtu.be/tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"embed url", "https://www.youtube.com/embed/tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"bare id", "tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"id with whitespace", "  tAP1eZYEuKA  ", "tAP1eZYEuKA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, id, err := ParseArg(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, "https://www.youtube.com/watch?v="+tt.id, url)
		})
	}
}

func TestParseArgInvalid(t *testing.T) {
	tests := []string{
		"",
		"not a url",
		"https://example.com/watch?v=tAP1eZYEuKA",
		"https://www.youtube.com/playlist?list=PLx",
		"shortid",
	}

	for _, arg := range tests {
		_, _, err := ParseArg(arg)
		assert.ErrorIs(t, err, ErrInvalidReference, "arg %q", arg)
	}
}

func TestIsValidVideoID(t *testing.T) {
	assert.True(t, IsValidVideoID("tAP1eZYEuKA"))
	assert.True(t, IsValidVideoID("abc_def-123"))
	assert.False(t, IsValidVideoID("too-short"))
	assert.False(t, IsValidVideoID("twelve-chars"))
	assert.False(t, IsValidVideoID("bad!chars!!"))
}

func TestBuildVideoInfo(t *testing.T) {
	info := BuildVideoInfo("intro_to-ml")

	assert.Equal(t, "intro_to-ml", info.ID)
	assert.Equal(t, "YouTube Video: intro to ml", info.Title)
	assert.Equal(t, "YouTube Channel", info.Channel)
	assert.Equal(t, "https://www.youtube.com/watch?v=intro_to-ml", info.URL)
}

func TestIsLikelyCommand(t *testing.T) {
	assert.True(t, IsLikelyCommand("sumarize"))
	assert.True(t, IsLikelyCommand("quizz"))
	assert.False(t, IsLikelyCommand("tAP1eZYEuKA"))
	assert.False(t, IsLikelyCommand("https://youtu.be/tAP1eZYEuKA"))
}
