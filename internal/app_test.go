package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captionsByID serves caption text for known videos and fails the rest
type captionsByID struct {
	texts map[string]string
}

func (f *captionsByID) FetchCaptions(ctx context.Context, videoID string) (string, error) {
	if text, ok := f.texts[videoID]; ok {
		return text, nil
	}
	return "", errors.New("no subtitle files found")
}

func newTestApp(t *testing.T, captions CaptionsFetcher, downloader AudioDownloader, transcriber SpeechTranscriber) *App {
	t.Helper()

	config := &Config{
		TranscriptsDir: t.TempDir(),
		Quiet:          true,
	}
	resolver := NewTranscriptResolver(captions, downloader, transcriber, NewUIManager(false, true))
	return NewApp(config, WithResolver(resolver))
}

func TestCollectVideosFailureIsolation(t *testing.T) {
	captions := &captionsByID{texts: map[string]string{
		"vid0000000a": "first transcript",
		"vid0000000c": "third transcript",
	}}
	app := newTestApp(t, captions, &fakeDownloader{err: errors.New("no network")}, &fakeTranscriber{})

	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	writer, err := OpenDataset(path)
	require.NoError(t, err)

	refs := []VideoReference{{ID: "vid0000000a"}, {ID: "vid0000000b"}, {ID: "vid0000000c"}}
	stats, err := app.CollectVideos(context.Background(), refs, writer, true)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	assert.Equal(t, CollectStats{Videos: 3, FromCaptions: 2, Failed: 1}, stats)

	// the failed middle video still yields a record
	records := readRecords(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, "first transcript", records[0].Text)
	assert.Equal(t, "captions", records[0].Source)
	assert.Equal(t, "vid0000000b", records[1].ID)
	assert.Empty(t, records[1].Text)
	assert.Contains(t, records[1].Failure, ErrDownloadFailed.Error())
	assert.Equal(t, "third transcript", records[2].Text)
}

func TestCollectInputFileSkipsFailingURL(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "channels.txt")
	content := "tAP1eZYEuKA\nhttps://www.youtube.com/channel/UCabc\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))

	captions := &captionsByID{texts: map[string]string{"tAP1eZYEuKA": "words"}}
	app := newTestApp(t, captions, &fakeDownloader{}, &fakeTranscriber{})

	writer, err := OpenDataset(filepath.Join(dir, "dataset.jsonl"))
	require.NoError(t, err)
	defer writer.Close()

	// no YouTube API key: channel enumeration fails, the run continues
	stats, err := app.CollectInputFile(context.Background(), input, writer, false)
	require.NoError(t, err)
	assert.Equal(t, CollectStats{Videos: 1, FromCaptions: 1}, stats)
}

func TestCollectURLRejectsNonVideoArgument(t *testing.T) {
	app := newTestApp(t, &fakeCaptions{}, &fakeDownloader{}, &fakeTranscriber{})

	_, err := app.CollectURL(context.Background(), "definitely not a video", nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a video")
}

func TestResolveInteractiveOffersWhisper(t *testing.T) {
	captions := &fakeCaptions{err: errors.New("disabled")}
	transcriber := &fakeTranscriber{text: "from audio"}
	app := newTestApp(t, captions, &fakeDownloader{path: "/tmp/a.mp3"}, transcriber)
	app.config.Quiet = false
	app.config.OpenAIAPIKey = "sk-test"

	asked := 0
	prev := AskUser
	AskUser = func(message string) bool {
		asked++
		return true
	}
	t.Cleanup(func() { AskUser = prev })

	result := app.ResolveInteractive(context.Background(), VideoReference{ID: "vid0000000a"}, false)

	require.True(t, result.OK())
	assert.Equal(t, SourceAudioTranscription, result.Source)
	assert.Equal(t, 1, asked)
}

func TestResolveInteractiveDeclined(t *testing.T) {
	captions := &fakeCaptions{err: errors.New("disabled")}
	transcriber := &fakeTranscriber{text: "unused"}
	app := newTestApp(t, captions, &fakeDownloader{path: "/tmp/a.mp3"}, transcriber)
	app.config.Quiet = false
	app.config.OpenAIAPIKey = "sk-test"

	prev := AskUser
	AskUser = func(message string) bool { return false }
	t.Cleanup(func() { AskUser = prev })

	result := app.ResolveInteractive(context.Background(), VideoReference{ID: "vid0000000a"}, false)

	require.False(t, result.OK())
	assert.Zero(t, transcriber.calls)
}

func TestResolveInteractiveQuietNeverPrompts(t *testing.T) {
	captions := &fakeCaptions{err: errors.New("disabled")}
	app := newTestApp(t, captions, &fakeDownloader{path: "/tmp/a.mp3"}, &fakeTranscriber{text: "unused"})
	app.config.OpenAIAPIKey = "sk-test"

	prev := AskUser
	AskUser = func(message string) bool {
		t.Fatal("prompted in quiet mode")
		return false
	}
	t.Cleanup(func() { AskUser = prev })

	result := app.ResolveInteractive(context.Background(), VideoReference{ID: "vid0000000a"}, false)
	require.False(t, result.OK())
}
