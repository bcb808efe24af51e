package internal

import (
	"context"
	"fmt"
	"os"
)

// App holds the application state and dependencies
type App struct {
	tube        *DataAPI
	youtube     *YouTube
	audio       *Audio
	transcriber *Transcriber
	resolver    *TranscriptResolver
	config      *Config
	ui          UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	ui := NewUIManager(config.Verbose, config.Quiet)

	cmdRunner := &DefaultCommandRunner{}
	audio := NewAudio(cmdRunner, config.TempDir)
	youtube := NewYouTube(config.CacheDir, config.CaptionLang, ui)
	transcriber := NewTranscriberWithKey(config.OpenAIAPIKey, audio, WhisperLimit, config.WhisperTimeout, ui)

	app := &App{
		tube:        NewDataAPI(config.YouTubeAPIKey),
		youtube:     youtube,
		audio:       audio,
		transcriber: transcriber,
		resolver:    NewTranscriptResolver(youtube, youtube, transcriber, ui),
		config:      config,
		ui:          ui,
	}

	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithDataAPI sets a custom YouTube Data API client
func WithDataAPI(tube *DataAPI) AppOption {
	return func(a *App) {
		a.tube = tube
	}
}

// WithResolver sets a custom transcript resolver
func WithResolver(resolver *TranscriptResolver) AppOption {
	return func(a *App) {
		a.resolver = resolver
	}
}

// WithYouTube sets a custom YouTube downloader
func WithYouTube(youtube *YouTube) AppOption {
	return func(a *App) {
		a.youtube = youtube
	}
}

// ResolveTranscript resolves one video through the fallback chain, using
// the on-disk cache when the video was collected before
func (app *App) ResolveTranscript(ctx context.Context, ref VideoReference, allowAudio bool) TranscriptResult {
	if cached, err := LoadCachedResult(ref.ID, app.config.TranscriptsDir); err == nil && cached.OK() {
		app.ui.Verbose("Using cached transcript for %s\n", ref.ID)
		return cached
	}

	if err := EnsureDirs(app.config.TranscriptsDir); err != nil {
		return TranscriptResult{ID: ref.ID, Failure: fmt.Sprintf("creating transcripts directory: %v", err)}
	}

	result := app.resolver.Resolve(ctx, ref, allowAudio)

	if result.OK() {
		if err := SaveResult(result, app.config.TranscriptsDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return result
}

// ResolveInteractive resolves one video and, when captions fail and the
// audio tier was not requested up front, offers the Whisper fallback
// interactively. Batch collection never prompts; failed videos become
// failure records there instead.
func (app *App) ResolveInteractive(ctx context.Context, ref VideoReference, allowAudio bool) TranscriptResult {
	result := app.ResolveTranscript(ctx, ref, allowAudio)
	if result.OK() || allowAudio || app.config.Quiet {
		return result
	}
	if app.config.OpenAIAPIKey == "" {
		return result
	}

	if !AskUser(fmt.Sprintf("No captions for %s. Transcribe it using OpenAI's whisper ($$$)?", ref.ID)) {
		return result
	}

	return app.ResolveTranscript(ctx, ref, true)
}

// CollectStats summarizes one collection run
type CollectStats struct {
	Videos       int
	FromCaptions int
	FromAudio    int
	Failed       int
}

// Add merges another run's counts
func (s *CollectStats) Add(other CollectStats) {
	s.Videos += other.Videos
	s.FromCaptions += other.FromCaptions
	s.FromAudio += other.FromAudio
	s.Failed += other.Failed
}

// CollectVideos resolves each video sequentially and appends one dataset
// record per video. A failed video produces a failure record and the run
// continues; only a dataset write error or context cancellation aborts.
func (app *App) CollectVideos(ctx context.Context, refs []VideoReference, writer *DatasetWriter, allowAudio bool) (CollectStats, error) {
	var stats CollectStats

	bar := app.ui.NewProgressBar(len(refs), "Collecting transcripts")
	defer bar.Finish()

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		bar.Set(i)

		result := app.ResolveTranscript(ctx, ref, allowAudio)

		if err := writer.Write(VideoRecord(ref, result)); err != nil {
			return stats, err
		}

		stats.Videos++
		switch {
		case result.Source == SourceCaptions:
			stats.FromCaptions++
		case result.Source == SourceAudioTranscription:
			stats.FromAudio++
		default:
			stats.Failed++
			app.ui.Verbose("Failed to resolve %s: %s\n", ref, result.Failure)
		}
	}

	bar.Set(len(refs))
	return stats, nil
}

// CollectURL collects from one input URL: a channel URL enumerates the
// uploads playlist, a playlist URL its items, anything else is treated as
// a single video.
func (app *App) CollectURL(ctx context.Context, rawURL string, writer *DatasetWriter, allowAudio bool) (CollectStats, error) {
	switch {
	case IsChannelURL(rawURL):
		if err := ValidateYouTubeAPIKey(app.config.YouTubeAPIKey); err != nil {
			return CollectStats{}, err
		}

		channel, refs, err := app.tube.ChannelVideos(ctx, rawURL)
		if err != nil {
			return CollectStats{}, fmt.Errorf("listing channel videos: %w", err)
		}
		app.ui.Printf("Found %d videos on channel %s\n", len(refs), channel.Title)
		return app.CollectVideos(ctx, refs, writer, allowAudio)

	default:
		_, id := ParseArg(rawURL)
		if IsValidPlaylistID(id) {
			if err := ValidateYouTubeAPIKey(app.config.YouTubeAPIKey); err != nil {
				return CollectStats{}, err
			}

			refs, err := app.tube.PlaylistVideos(ctx, id)
			if err != nil {
				return CollectStats{}, fmt.Errorf("listing playlist videos: %w", err)
			}
			app.ui.Printf("Found %d videos in playlist %s\n", len(refs), id)
			return app.CollectVideos(ctx, refs, writer, allowAudio)
		}

		if !IsValidYouTubeID(id) {
			return CollectStats{}, fmt.Errorf("not a video, playlist or channel URL: %q", rawURL)
		}
		return app.CollectVideos(ctx, []VideoReference{{ID: id}}, writer, allowAudio)
	}
}

// CollectInputFile reads the input list and collects every URL on it.
// One URL's enumeration failure is reported and skipped; the remaining
// URLs are still collected.
func (app *App) CollectInputFile(ctx context.Context, path string, writer *DatasetWriter, allowAudio bool) (CollectStats, error) {
	urls, err := ReadInputList(path)
	if err != nil {
		return CollectStats{}, err
	}

	var total CollectStats
	for _, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		stats, err := app.CollectURL(ctx, rawURL, writer, allowAudio)
		total.Add(stats)
		if err != nil {
			if ctx.Err() != nil {
				return total, err
			}
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", rawURL, err)
		}
	}

	return total, nil
}

// CollectPapers searches the paper sources and appends one record per
// paper. Source errors are reported but do not abort the run.
func (app *App) CollectPapers(ctx context.Context, sources []PaperSource, query string, limit int, writer *DatasetWriter) ([]Paper, error) {
	papers, errs := SearchPapers(ctx, sources, query, limit)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if writer != nil {
		for _, p := range papers {
			if err := writer.Write(PaperRecord(p)); err != nil {
				return papers, err
			}
		}
	}

	return papers, nil
}

// Metadata gets video metadata, cached or fresh
func (app *App) Metadata(ctx context.Context, youtubeURL string) (*VideoMetadata, error) {
	_, videoID := ParseArg(youtubeURL)

	if cached, err := LoadCachedMetadata(videoID, app.config.TranscriptsDir); err == nil {
		app.ui.Verbose("Using cached metadata for %s\n", videoID)
		return cached, nil
	}

	spinner := app.ui.NewSpinner("Fetching video metadata...")
	metadata, err := app.youtube.Metadata(ctx, youtubeURL)
	spinner.Finish()
	if err != nil {
		return nil, err
	}

	if err := EnsureDirs(app.config.TranscriptsDir); err == nil {
		if err := SaveMetadata(videoID, metadata, app.config.TranscriptsDir); err != nil {
			app.ui.Verbose("Warning: failed to cache metadata: %v\n", err)
		}
	}

	return metadata, nil
}

// PaperSources builds the configured source list
func (app *App) PaperSources(names []string) ([]PaperSource, error) {
	var sources []PaperSource
	for _, name := range names {
		switch name {
		case "arxiv":
			sources = append(sources, NewArxivSource())
		case "semantic-scholar":
			sources = append(sources, NewSemanticScholarSource(""))
		case "pubmed":
			sources = append(sources, NewPubMedSource())
		default:
			return nil, fmt.Errorf("unknown paper source %q (available: arxiv, semantic-scholar, pubmed)", name)
		}
	}
	return sources, nil
}
