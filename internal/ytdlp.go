package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// VideoMetadata contains YouTube video information
type VideoMetadata struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Channel     string   `json:"channel"`
	Uploader    string   `json:"uploader"`
	Duration    float64  `json:"duration"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	HasCaptions bool     `json:"has_captions"`
}

// YouTube handles video captions, audio and metadata via yt-dlp
type YouTube struct {
	cacheDir    string
	captionLang string
	ui          UIManager
}

// NewYouTube creates a new YouTube downloader
func NewYouTube(cacheDir, captionLang string, ui UIManager) *YouTube {
	return &YouTube{
		cacheDir:    cacheDir,
		captionLang: captionLang,
		ui:          ui,
	}
}

// Metadata fetches video details using yt-dlp
func (yt *YouTube) Metadata(ctx context.Context, youtubeURL string) (*VideoMetadata, error) {
	yt.ui.Verbose("Extracting video metadata...\n")

	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		if result != nil {
			yt.ui.Verbose("Metadata extraction stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	// Raw map first, for the subtitle availability fields that have no
	// stable struct shape
	var rawData map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &rawData); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	metadata.HasCaptions = extractSubtitleInfo(rawData)

	yt.ui.Verbose("Title: %s\nChannel: %s\nDuration: %.2f seconds\n",
		metadata.Title, metadata.Channel, metadata.Duration)

	return &metadata, nil
}

// DownloadAudio gets mp3 audio for a video ID and returns the file path.
// Implements AudioDownloader.
func (yt *YouTube) DownloadAudio(ctx context.Context, videoID string) (string, error) {
	yt.ui.Verbose("Downloading audio for %s...\n", videoID)

	if err := EnsureDirs(yt.cacheDir); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	outputPath := filepath.Join(yt.cacheDir, "%(id)s.%(ext)s")

	dl := ytdlp.New().
		Format("bestaudio").
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality("10").
		Output(outputPath)

	result, err := dl.Run(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = result.Stderr
		}
		return "", fmt.Errorf("yt-dlp failed: %w\nOutput: %s", err, stderr)
	}

	yt.ui.Verbose("Audio download completed\n")

	return filepath.Join(yt.cacheDir, videoID+".mp3"), nil
}

// FetchCaptions downloads subtitles for a video ID and returns the caption
// text. Implements CaptionsFetcher. "Transcripts disabled" and "no
// transcript found" are the same condition here: no subtitle file shows up.
func (yt *YouTube) FetchCaptions(ctx context.Context, videoID string) (string, error) {
	yt.ui.Verbose("Downloading subtitles for %s...\n", videoID)

	if err := EnsureDirs(yt.cacheDir); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	// Reuse a subtitle file from a previous run if one is still around
	if path := yt.findSubtitleFile(videoID); path != "" {
		return yt.processSrtFile(path)
	}

	outputPath := filepath.Join(yt.cacheDir, "%(id)s")

	dl := ytdlp.New().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(yt.captionLang).
		ConvertSubs("srt").
		SkipDownload().
		Output(outputPath)

	result, err := dl.Run(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		if result != nil {
			yt.ui.Verbose("Subtitle download stderr: %s\n", result.Stderr)
		}
		return "", fmt.Errorf("downloading subtitles: %w", err)
	}

	path := yt.findSubtitleFile(videoID)
	if path == "" {
		return "", fmt.Errorf("no subtitle files found for %s", videoID)
	}

	return yt.processSrtFile(path)
}

// findSubtitleFile locates a downloaded .srt file for the video
func (yt *YouTube) findSubtitleFile(videoID string) string {
	entries, err := os.ReadDir(yt.cacheDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, videoID) && strings.HasSuffix(name, ".srt") {
			return filepath.Join(yt.cacheDir, name)
		}
	}
	return ""
}

// processSrtFile converts an SRT file to clean plain text and removes the
// source file from the cache
func (yt *YouTube) processSrtFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading SRT file: %w", err)
	}

	lines := removeDuplicates(parseSRT(string(content)))
	text := strings.TrimSpace(strings.Join(lines, "\n"))

	if err := os.Remove(filePath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to remove SRT file from cache: %v\n", err)
	}

	return text, nil
}

// parseSRT extracts text content from SRT format
func parseSRT(content string) []string {
	var lines []string

	for block := range strings.SplitSeq(content, "\n\n") {
		blockLines := strings.Split(block, "\n")
		if len(blockLines) >= 3 {
			// Skip sequence number and timestamp, keep text lines
			for i := 2; i < len(blockLines); i++ {
				if strings.TrimSpace(blockLines[i]) != "" {
					lines = append(lines, strings.TrimSpace(blockLines[i]))
				}
			}
		}
	}

	return lines
}

// removeDuplicates eliminates consecutive repeated lines, which
// auto-generated captions produce constantly
func removeDuplicates(lines []string) []string {
	result := make([]string, 0, len(lines))
	prevLine := ""

	for _, line := range lines {
		isDuplicate := prevLine != "" && (strings.Contains(line, prevLine) || strings.Contains(prevLine, line))
		if !isDuplicate {
			result = append(result, line)
		}
		prevLine = line
	}

	return result
}

// extractSubtitleInfo extracts subtitle availability from yt-dlp JSON output
func extractSubtitleInfo(rawData map[string]any) bool {
	if subtitles, ok := rawData["subtitles"].(map[string]any); ok && len(subtitles) > 0 {
		return true
	}

	if autoCaptions, ok := rawData["automatic_captions"].(map[string]any); ok && len(autoCaptions) > 0 {
		return true
	}

	return false
}
