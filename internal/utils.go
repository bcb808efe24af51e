package internal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ParseArg normalizes YouTube video IDs and URLs, also handles playlists
func ParseArg(arg string) (string, string) {
	if strings.HasPrefix(arg, "https://") {
		// Try video ID first - prioritize individual videos over playlists
		videoID, err := getVideoID(arg)
		if err == nil {
			return arg, videoID
		}

		if strings.Contains(arg, "list=") {
			playlistID, err := getPlaylistID(arg)
			if err != nil {
				return arg, arg
			}
			return arg, playlistID
		}

		return arg, arg
	}

	if IsValidPlaylistID(arg) {
		return "https://www.youtube.com/playlist?list=" + arg, arg
	}

	return "https://www.youtube.com/watch?v=" + arg, arg
}

// getVideoID extracts the video ID from a YouTube URL
func getVideoID(youtubeURL string) (string, error) {
	youtubeURL = strings.TrimSpace(youtubeURL)
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	if u.Host != "www.youtube.com" && u.Host != "youtube.com" && u.Host != "youtu.be" {
		return "", fmt.Errorf("not a YouTube URL: %s", youtubeURL)
	}

	if v := u.Query().Get("v"); v != "" {
		if !IsValidYouTubeID(v) {
			return "", fmt.Errorf("invalid video ID %q in URL: %s", v, youtubeURL)
		}
		return v, nil
	}

	if strings.Contains(u.Path, "/playlist") {
		return "", fmt.Errorf("this is a playlist URL, not a video URL: %s", youtubeURL)
	}

	// Channel URLs never identify a single video
	if IsChannelURL(youtubeURL) {
		return "", fmt.Errorf("this is a channel URL, not a video URL: %s", youtubeURL)
	}

	parts := strings.Split(u.Path, "/")
	if last := parts[len(parts)-1]; IsValidYouTubeID(last) {
		return last, nil
	}

	return "", fmt.Errorf("could not extract video ID from URL: %s", youtubeURL)
}

// getPlaylistID extracts playlist ID from YouTube URLs
func getPlaylistID(youtubeURL string) (string, error) {
	youtubeURL = strings.TrimSpace(youtubeURL)
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	if u.Host != "www.youtube.com" && u.Host != "youtube.com" {
		return "", fmt.Errorf("not a YouTube URL: %s", youtubeURL)
	}

	if list := u.Query().Get("list"); list != "" {
		if IsValidPlaylistID(list) {
			return list, nil
		}
		return "", fmt.Errorf("invalid playlist ID format: %s", list)
	}

	return "", fmt.Errorf("could not extract playlist ID from URL: %s", youtubeURL)
}

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	// YouTube video IDs are exactly 11 characters long
	if len(id) != 11 {
		return false
	}

	matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
	return matched
}

// IsValidPlaylistID checks if a string looks like a valid YouTube playlist ID
func IsValidPlaylistID(id string) bool {
	playlistPrefixes := []string{"PL", "UU", "FL", "RD", "LP", "BP", "QL", "SV", "EL", "LL", "UC"}

	for _, prefix := range playlistPrefixes {
		if strings.HasPrefix(id, prefix) {
			// Standard playlist IDs are typically 18, 34, or 36 characters
			if len(id) == 18 || len(id) == 34 || len(id) == 36 {
				matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
				return matched
			}
		}
	}

	if strings.HasPrefix(id, "OLAK5uy_") || strings.HasPrefix(id, "RDCLAK5uy_") {
		if len(id) == 40 {
			matched, _ := regexp.MatchString(`^[A-Za-z0-9_-]+$`, id)
			return matched
		}
	}

	return false
}

// ChannelRefKind says how a channel URL identifies the channel
type ChannelRefKind int

const (
	ChannelRefID ChannelRefKind = iota
	ChannelRefUsername
	ChannelRefCustom
	ChannelRefHandle
)

// ChannelRef is a parsed channel URL: the kind plus the raw value that
// still has to be resolved to a channel ID (except for ChannelRefID).
type ChannelRef struct {
	Kind  ChannelRefKind
	Value string
}

// IsChannelURL reports whether the URL points at a channel rather than a
// video or playlist
func IsChannelURL(rawURL string) bool {
	_, err := ParseChannelURL(rawURL)
	return err == nil
}

// ParseChannelURL extracts the channel reference from a YouTube channel
// URL. Supported forms: /channel/ID, /user/NAME, /c/CUSTOM and /@handle.
func ParseChannelURL(rawURL string) (ChannelRef, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ChannelRef{}, fmt.Errorf("parsing URL: %w", err)
	}

	if u.Host != "www.youtube.com" && u.Host != "youtube.com" {
		return ChannelRef{}, fmt.Errorf("not a YouTube URL: %s", rawURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return ChannelRef{}, fmt.Errorf("invalid YouTube channel URL: %s", rawURL)
	}

	switch {
	case segments[0] == "channel" && len(segments) > 1:
		return ChannelRef{Kind: ChannelRefID, Value: segments[1]}, nil
	case segments[0] == "user" && len(segments) > 1:
		return ChannelRef{Kind: ChannelRefUsername, Value: segments[1]}, nil
	case segments[0] == "c" && len(segments) > 1:
		return ChannelRef{Kind: ChannelRefCustom, Value: segments[1]}, nil
	case strings.HasPrefix(segments[0], "@"):
		return ChannelRef{Kind: ChannelRefHandle, Value: segments[0]}, nil
	}

	return ChannelRef{}, fmt.Errorf("unsupported YouTube channel URL format: %s", rawURL)
}

// ReadInputList reads a list file of channel/playlist URLs, one per line.
// Blank lines and lines starting with # are skipped. An absent or empty
// file is an error, matching the behavior users expect from a batch run.
func ReadInputList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file %q: %w", path, err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input file %q: %w", path, err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("input file %q is empty", path)
	}

	return urls, nil
}

// AskUser is a variable that holds the function for asking user confirmation
// This allows it to be replaced in tests
var AskUser = func(message string) bool {
	fmt.Printf("%s (y/N): ", message)
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		response := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return strings.HasPrefix(response, "y")
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
	}
	return false
}

// CleanupTempDir purges files from a temporary directory
func CleanupTempDir(tempDir string) error {
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return fmt.Errorf("reading temp directory: %w", err)
	}

	for _, entry := range entries {
		filePath := filepath.Join(tempDir, entry.Name())
		if err := os.Remove(filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", filePath, err)
		}
	}

	if err := os.Remove(tempDir); err != nil {
		// The directory might not be empty, not worth failing over
		fmt.Fprintf(os.Stderr, "Note: could not remove temp directory %s: %v\n", tempDir, err)
	}

	return nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour. When stdout is not
// a terminal the content is returned as-is so piped output stays plain.
func RenderMarkdown(content string) (string, error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return content, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(getTerminalWidth()),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// cleanupFiles removes temporary files
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove file %s: %v\n", file, err)
		}
	}
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}

// ValidateYouTubeAPIKey checks if the YouTube Data API key is set
func ValidateYouTubeAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("YouTube Data API key is required - set it in config.toml or YOUTUBE_API_KEY environment variable")
	}
	return nil
}

// cachedResult is the on-disk shape of a resolved transcript
type cachedResult struct {
	ID       string           `json:"id"`
	Source   TranscriptSource `json:"source"`
	Text     string           `json:"text"`
	CachedAt time.Time        `json:"cached_at"`
}

// SaveResult caches a successful TranscriptResult so a later run can skip
// the captions/audio work entirely
func SaveResult(result TranscriptResult, transcriptsDir string) error {
	cached := cachedResult{
		ID:       result.ID,
		Source:   result.Source,
		Text:     result.Text,
		CachedAt: time.Now(),
	}

	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling transcript: %w", err)
	}

	resultPath := filepath.Join(transcriptsDir, result.ID+".json")
	if err := os.WriteFile(resultPath, data, 0644); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

// LoadCachedResult loads a previously resolved transcript from disk
func LoadCachedResult(videoID, transcriptsDir string) (TranscriptResult, error) {
	resultPath := filepath.Join(transcriptsDir, videoID+".json")

	data, err := os.ReadFile(resultPath)
	if err != nil {
		return TranscriptResult{}, fmt.Errorf("reading cached transcript: %w", err)
	}

	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return TranscriptResult{}, fmt.Errorf("parsing cached transcript: %w", err)
	}

	return TranscriptResult{ID: cached.ID, Source: cached.Source, Text: cached.Text}, nil
}

// CachedVideoMetadata extends VideoMetadata with cache information
type CachedVideoMetadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Channel     string    `json:"channel"`
	Duration    float64   `json:"duration"`
	Categories  []string  `json:"categories"`
	Tags        []string  `json:"tags"`
	HasCaptions bool      `json:"has_captions"`
	CachedAt    time.Time `json:"cached_at"`
}

// SaveMetadata saves video metadata to cache as JSON
func SaveMetadata(videoID string, metadata *VideoMetadata, transcriptsDir string) error {
	cached := CachedVideoMetadata{
		Title:       metadata.Title,
		Description: metadata.Description,
		Channel:     metadata.Channel,
		Duration:    metadata.Duration,
		Categories:  metadata.Categories,
		Tags:        metadata.Tags,
		HasCaptions: metadata.HasCaptions,
		CachedAt:    time.Now(),
	}

	metadataPath := filepath.Join(transcriptsDir, videoID+".meta.json")
	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	if err := os.WriteFile(metadataPath, data, 0644); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}

	return nil
}

// LoadCachedMetadata loads video metadata from cache
func LoadCachedMetadata(videoID, transcriptsDir string) (*VideoMetadata, error) {
	metadataPath := filepath.Join(transcriptsDir, videoID+".meta.json")

	if !FileExists(metadataPath) {
		return nil, fmt.Errorf("metadata cache not found")
	}

	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata cache: %w", err)
	}

	var cached CachedVideoMetadata
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("parsing metadata cache: %w", err)
	}

	return &VideoMetadata{
		Title:       cached.Title,
		Description: cached.Description,
		Channel:     cached.Channel,
		Duration:    cached.Duration,
		Categories:  cached.Categories,
		Tags:        cached.Tags,
		HasCaptions: cached.HasCaptions,
	}, nil
}
