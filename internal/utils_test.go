package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantURL string
		wantID  string
	}{
		{
			name:    "watch URL",
			arg:     "https://www.youtube.com/watch?v=tAP1eZYEuKA",
			wantURL: "https://www.youtube.com/watch?v=tAP1eZYEuKA",
			wantID:  "tAP1eZYEuKA",
		},
		{
			name:    "short URL",
			arg:     "https://youtu.be/tAP1eZYEuKA",
			wantURL: "https://youtu.be/tAP1eZYEuKA",
			wantID:  "tAP1eZYEuKA",
		},
		{
			name:    "bare video ID",
			arg:     "tAP1eZYEuKA",
			wantURL: "https://www.youtube.com/watch?v=tAP1eZYEuKA",
			wantID:  "tAP1eZYEuKA",
		},
		{
			// a malformed v parameter is not treated as a video ID
			name:    "watch URL with invalid video ID",
			arg:     "https://www.youtube.com/watch?v=short",
			wantURL: "https://www.youtube.com/watch?v=short",
			wantID:  "https://www.youtube.com/watch?v=short",
		},
		{
			name:    "playlist URL",
			arg:     "https://www.youtube.com/playlist?list=PLlaN88a7y2_plecYoJxvRFTLHVbIVAOoc",
			wantURL: "https://www.youtube.com/playlist?list=PLlaN88a7y2_plecYoJxvRFTLHVbIVAOoc",
			wantID:  "PLlaN88a7y2_plecYoJxvRFTLHVbIVAOoc",
		},
		{
			name:    "bare playlist ID",
			arg:     "PLlaN88a7y2_plecYoJxvRFTLHVbIVAOoc",
			wantURL: "https://www.youtube.com/playlist?list=PLlaN88a7y2_plecYoJxvRFTLHVbIVAOoc",
			wantID:  "PLlaN88a7y2_plecYoJxvRFTLHVbIVAOoc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, id := ParseArg(tt.arg)
			assert.Equal(t, tt.wantURL, url)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestParseChannelURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantKind  ChannelRefKind
		wantValue string
		wantErr   bool
	}{
		{
			name:      "channel ID form",
			url:       "https://www.youtube.com/channel/UC2D2CMWXMOVWx7giW1n3LIg",
			wantKind:  ChannelRefID,
			wantValue: "UC2D2CMWXMOVWx7giW1n3LIg",
		},
		{
			name:      "legacy username form",
			url:       "https://www.youtube.com/user/hubermanlab",
			wantKind:  ChannelRefUsername,
			wantValue: "hubermanlab",
		},
		{
			name:      "custom URL form",
			url:       "https://www.youtube.com/c/AndrewHubermanLab",
			wantKind:  ChannelRefCustom,
			wantValue: "AndrewHubermanLab",
		},
		{
			name:      "handle form",
			url:       "https://www.youtube.com/@hubermanlab",
			wantKind:  ChannelRefHandle,
			wantValue: "@hubermanlab",
		},
		{
			name:    "watch URL is not a channel",
			url:     "https://www.youtube.com/watch?v=tAP1eZYEuKA",
			wantErr: true,
		},
		{
			name:    "non-YouTube host",
			url:     "https://vimeo.com/channel/whatever",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseChannelURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, ref.Kind)
			assert.Equal(t, tt.wantValue, ref.Value)
		})
	}
}

func TestIsChannelURL(t *testing.T) {
	assert.True(t, IsChannelURL("https://www.youtube.com/@hubermanlab"))
	assert.True(t, IsChannelURL("https://www.youtube.com/channel/UC2D2CMWXMOVWx7giW1n3LIg"))
	assert.False(t, IsChannelURL("https://www.youtube.com/watch?v=tAP1eZYEuKA"))
	assert.False(t, IsChannelURL("tAP1eZYEuKA"))
}

func TestIsValidYouTubeID(t *testing.T) {
	assert.True(t, IsValidYouTubeID("tAP1eZYEuKA"))
	assert.True(t, IsValidYouTubeID("dQw4w9WgXcQ"))
	assert.False(t, IsValidYouTubeID("short"))
	assert.False(t, IsValidYouTubeID("exactly12chr"))
	assert.False(t, IsValidYouTubeID("has space 11"))
}

func TestReadInputList(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads lines, skips blanks and comments", func(t *testing.T) {
		path := filepath.Join(dir, "channels.txt")
		content := "# my channels\nhttps://www.youtube.com/@hubermanlab\n\nhttps://www.youtube.com/channel/UCabc\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		urls, err := ReadInputList(path)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://www.youtube.com/@hubermanlab",
			"https://www.youtube.com/channel/UCabc",
		}, urls)
	})

	t.Run("empty file is an error", func(t *testing.T) {
		path := filepath.Join(dir, "empty.txt")
		require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0644))

		_, err := ReadInputList(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("absent file is an error", func(t *testing.T) {
		_, err := ReadInputList(filepath.Join(dir, "missing.txt"))
		require.Error(t, err)
	})
}

func TestResultCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	result := TranscriptResult{ID: "abc123", Source: SourceCaptions, Text: "hello"}
	require.NoError(t, SaveResult(result, dir))

	loaded, err := LoadCachedResult("abc123", dir)
	require.NoError(t, err)
	assert.Equal(t, result, loaded)

	_, err = LoadCachedResult("missing", dir)
	require.Error(t, err)
}
