package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Transcript acquisition error taxonomy. The resolver recovers from the
// first two by falling through to the next tier; the last one is terminal.
var (
	ErrCaptionsUnavailable = errors.New("captions unavailable")
	ErrDownloadFailed      = errors.New("audio download failed")
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// CaptionsFetcher retrieves creator-provided or auto-generated caption text
// for a video. Implementations return ErrCaptionsUnavailable (possibly
// wrapped) when no usable track exists.
type CaptionsFetcher interface {
	FetchCaptions(ctx context.Context, videoID string) (string, error)
}

// AudioDownloader downloads a video's audio track and returns the local
// file path.
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, videoID string) (string, error)
}

// SpeechTranscriber converts a local audio file to text
type SpeechTranscriber interface {
	TranscribeAudio(ctx context.Context, audioFile string) (string, error)
}

// strategy is one tier of the fallback chain: attempt transcript
// acquisition, signal success or failure. An attempt that returns no
// text and no error counts as failing with the tier's empty error.
type strategy struct {
	source  TranscriptSource
	attempt func(ctx context.Context, ref VideoReference) (string, error)
	empty   error
}

// TranscriptResolver produces a transcript for a video using an ordered
// list of strategies, evaluated until one succeeds: captions lookup first,
// then audio download plus speech-to-text. The audio tier is only ever
// reached after a captions attempt failed or returned empty.
type TranscriptResolver struct {
	captions    CaptionsFetcher
	downloader  AudioDownloader
	transcriber SpeechTranscriber
	ui          UIManager
}

// NewTranscriptResolver creates a resolver over the three collaborators
func NewTranscriptResolver(captions CaptionsFetcher, downloader AudioDownloader, transcriber SpeechTranscriber, ui UIManager) *TranscriptResolver {
	return &TranscriptResolver{
		captions:    captions,
		downloader:  downloader,
		transcriber: transcriber,
		ui:          ui,
	}
}

// strategies returns the fallback chain in evaluation order. When the
// audio tier is disabled the chain is captions only.
func (r *TranscriptResolver) strategies(allowAudio bool) []strategy {
	chain := []strategy{
		{source: SourceCaptions, attempt: r.attemptCaptions, empty: ErrCaptionsUnavailable},
	}
	if allowAudio {
		chain = append(chain, strategy{source: SourceAudioTranscription, attempt: r.attemptAudioTranscription, empty: ErrTranscriptionFailed})
	}
	return chain
}

// Resolve runs the fallback chain for one video and always returns a
// result: tagged text on success, a failure reason when every tier fails.
func (r *TranscriptResolver) Resolve(ctx context.Context, ref VideoReference, allowAudio bool) TranscriptResult {
	var lastErr error
	for _, s := range r.strategies(allowAudio) {
		text, err := s.attempt(ctx, ref)
		if err == nil && strings.TrimSpace(text) != "" {
			return TranscriptResult{ID: ref.ID, Source: s.source, Text: text}
		}
		if err == nil {
			err = s.empty
		}
		lastErr = err
		r.ui.Verbose("%s tier failed for %s: %v\n", s.source, ref.ID, err)
	}
	return TranscriptResult{ID: ref.ID, Failure: lastErr.Error()}
}

// ResolveAll resolves a batch of videos sequentially. A single video's
// failure never aborts the batch: len(results) == len(refs) always holds.
// A context cancellation does stop the batch early.
func (r *TranscriptResolver) ResolveAll(ctx context.Context, refs []VideoReference, allowAudio bool) ([]TranscriptResult, error) {
	results := make([]TranscriptResult, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.Resolve(ctx, ref, allowAudio))
	}
	return results, nil
}

func (r *TranscriptResolver) attemptCaptions(ctx context.Context, ref VideoReference) (string, error) {
	text, err := r.captions.FetchCaptions(ctx, ref.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCaptionsUnavailable, err)
	}
	return text, nil
}

func (r *TranscriptResolver) attemptAudioTranscription(ctx context.Context, ref VideoReference) (string, error) {
	audioFile, err := r.downloader.DownloadAudio(ctx, ref.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	text, err := r.transcriber.TranscribeAudio(ctx, audioFile)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	return text, nil
}
