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

type fakeTranscriptionClient struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriptionClient) CreateTranscription(ctx context.Context, file *os.File) (string, error) {
	f.calls++
	return f.text, f.err
}

type noopBar struct{}

func (noopBar) Set(int)         {}
func (noopBar) Describe(string) {}
func (noopBar) Finish()         {}

// recordingUI counts progress indicators so tests can assert long-running
// stages surface status
type recordingUI struct {
	bars     int
	spinners int
}

func (u *recordingUI) NewProgressBar(total int, description string) ProgressBar {
	u.bars++
	return noopBar{}
}

func (u *recordingUI) NewSpinner(description string) ProgressBar {
	u.spinners++
	return noopBar{}
}

func (u *recordingUI) Verbose(format string, args ...any) {}
func (u *recordingUI) Printf(format string, args ...any)  {}
func (u *recordingUI) Println(args ...any)                {}

func TestTranscribeAudioSingleChunk(t *testing.T) {
	dir := t.TempDir()
	audioFile := filepath.Join(dir, "abc.mp3")
	require.NoError(t, os.WriteFile(audioFile, []byte("tiny"), 0644))

	client := &fakeTranscriptionClient{text: "spoken words"}
	ui := &recordingUI{}
	transcriber := NewTranscriber(client, NewAudio(&DefaultCommandRunner{}, dir), WhisperLimit, 0, ui)

	text, err := transcriber.TranscribeAudio(context.Background(), audioFile)
	require.NoError(t, err)
	assert.Equal(t, "spoken words", text)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 1, ui.spinners)

	// the source audio file is cleaned up after transcription
	assert.NoFileExists(t, audioFile)
}

func TestTranscribeAudioClientError(t *testing.T) {
	dir := t.TempDir()
	audioFile := filepath.Join(dir, "abc.mp3")
	require.NoError(t, os.WriteFile(audioFile, []byte("tiny"), 0644))

	client := &fakeTranscriptionClient{err: errors.New("api down")}
	transcriber := NewTranscriber(client, NewAudio(&DefaultCommandRunner{}, dir), WhisperLimit, 0, &recordingUI{})

	_, err := transcriber.TranscribeAudio(context.Background(), audioFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api down")
}

func TestTranscribeAudioRequiresKey(t *testing.T) {
	transcriber := NewTranscriberWithKey("", nil, WhisperLimit, 0, &recordingUI{})

	_, err := transcriber.TranscribeAudio(context.Background(), "missing.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI API key")
}
