package internal

import "fmt"

// TranscriptSource identifies which acquisition tier produced a transcript
type TranscriptSource string

const (
	// SourceCaptions means the transcript came from creator-provided or
	// auto-generated YouTube captions.
	SourceCaptions TranscriptSource = "captions"
	// SourceAudioTranscription means the transcript was produced by
	// downloading the audio track and running speech-to-text on it.
	SourceAudioTranscription TranscriptSource = "audio-transcription"
)

// VideoReference identifies a video to collect, with optional grouping.
// Immutable once read from input.
type VideoReference struct {
	ID       string
	Title    string
	Channel  string
	Playlist string
}

// URL returns the canonical watch URL for the referenced video
func (v VideoReference) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

func (v VideoReference) String() string {
	if v.Title != "" {
		return fmt.Sprintf("%s (%s)", v.Title, v.ID)
	}
	return v.ID
}

// TranscriptResult is the outcome of resolving one video. Exactly one of
// Text (with Source set) or Failure is populated. Created once per video,
// never mutated after creation.
type TranscriptResult struct {
	ID      string           `json:"id"`
	Source  TranscriptSource `json:"source,omitempty"`
	Text    string           `json:"text,omitempty"`
	Failure string           `json:"failure,omitempty"`
}

// OK reports whether a transcript was acquired
func (r TranscriptResult) OK() bool {
	return r.Failure == "" && r.Text != ""
}
