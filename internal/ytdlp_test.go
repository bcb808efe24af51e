package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSRT(t *testing.T) {
	srt := "1\n00:00:00,000 --> 00:00:02,000\nhello there\n\n" +
		"2\n00:00:02,000 --> 00:00:04,000\nsecond line\nwrapped text\n\n" +
		"3\n00:00:04,000 --> 00:00:06,000\n\n"

	lines := parseSRT(srt)
	assert.Equal(t, []string{"hello there", "second line", "wrapped text"}, lines)
}

func TestRemoveDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "consecutive exact repeats",
			input: []string{"a b c", "a b c", "d e f"},
			want:  []string{"a b c", "d e f"},
		},
		{
			name: "auto-caption rolling overlap",
			// auto captions repeat the previous line inside the next one
			input: []string{"hello there", "hello there friends", "something else"},
			want:  []string{"hello there", "something else"},
		},
		{
			name:  "no duplicates",
			input: []string{"one", "two", "three"},
			want:  []string{"one", "two", "three"},
		},
		{
			name:  "empty",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removeDuplicates(tt.input))
		})
	}
}

func TestExtractSubtitleInfo(t *testing.T) {
	assert.True(t, extractSubtitleInfo(map[string]any{
		"subtitles": map[string]any{"en": []any{}},
	}))
	assert.True(t, extractSubtitleInfo(map[string]any{
		"subtitles":          map[string]any{},
		"automatic_captions": map[string]any{"en": []any{}},
	}))
	assert.False(t, extractSubtitleInfo(map[string]any{
		"subtitles":          map[string]any{},
		"automatic_captions": map[string]any{},
	}))
	assert.False(t, extractSubtitleInfo(map[string]any{}))
}
