package internal

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// TranscriptionClient defines the speech-to-text API surface we need
type TranscriptionClient interface {
	CreateTranscription(ctx context.Context, file *os.File) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// CreateTranscription implements the transcription method
func (c *OpenAIClient) CreateTranscription(ctx context.Context, file *os.File) (string, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  file,
		Model: openai.AudioModelWhisper1,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Transcriber converts audio files to text through the Whisper API,
// splitting files that exceed the API size limit into chunks first.
// Implements SpeechTranscriber.
type Transcriber struct {
	client       TranscriptionClient
	audio        *Audio
	whisperLimit int64
	timeout      time.Duration
	ui           UIManager
	apiKey       string
	clientOnce   sync.Once
}

// NewTranscriber creates a Transcriber with an explicit client, used in tests
func NewTranscriber(client TranscriptionClient, audio *Audio, whisperLimit int64, timeout time.Duration, ui UIManager) *Transcriber {
	return &Transcriber{
		client:       client,
		audio:        audio,
		whisperLimit: whisperLimit,
		timeout:      timeout,
		ui:           ui,
	}
}

// NewTranscriberWithKey creates a Transcriber with lazy client initialization
func NewTranscriberWithKey(apiKey string, audio *Audio, whisperLimit int64, timeout time.Duration, ui UIManager) *Transcriber {
	return &Transcriber{
		audio:        audio,
		whisperLimit: whisperLimit,
		timeout:      timeout,
		ui:           ui,
		apiKey:       apiKey,
	}
}

// ensureClient initializes the OpenAI client if needed
func (t *Transcriber) ensureClient() error {
	if t.client != nil {
		return nil
	}

	if t.apiKey == "" {
		return ValidateOpenAIAPIKey("")
	}

	t.clientOnce.Do(func() {
		t.client = NewOpenAIClient(t.apiKey)
	})

	return nil
}

// TranscribeAudio transcribes an audio file using OpenAI's Whisper API
func (t *Transcriber) TranscribeAudio(ctx context.Context, audioFile string) (string, error) {
	if err := t.ensureClient(); err != nil {
		return "", err
	}

	t.ui.Verbose("Transcribing audio file: %s\n", audioFile)

	info, err := os.Stat(audioFile)
	if err != nil {
		return "", fmt.Errorf("getting audio file info: %w", err)
	}

	numChunks := int(math.Ceil(float64(info.Size()) / float64(t.whisperLimit)))

	var chunks []string
	if numChunks > 1 {
		chunks, err = t.audio.Split(ctx, audioFile, numChunks)
		if err != nil {
			return "", fmt.Errorf("splitting audio: %w", err)
		}
	} else {
		chunks = []string{audioFile}
	}

	defer func() {
		cleanupFiles(chunks...)
		if len(chunks) > 1 {
			cleanupFiles(audioFile)
		}
	}()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	spinner := t.ui.NewSpinner("Transcribing audio...")
	transcript, err := t.processAudioChunks(ctx, chunks)
	spinner.Finish()
	if err != nil {
		return "", fmt.Errorf("transcribing audio: %w", err)
	}
	return transcript, nil
}

// processAudioChunks transcribes audio chunks sequentially
// NOTE: concurrent chunk submission returned a broken transcript for one
// chunk when tried; sequential submission is reliable
func (t *Transcriber) processAudioChunks(ctx context.Context, chunks []string) (string, error) {
	numChunks := len(chunks)

	t.ui.Verbose("Transcribing chunks (%d)\n", numChunks)

	var sb strings.Builder
	for i, chunkPath := range chunks {
		file, err := os.Open(chunkPath)
		if err != nil {
			return "", fmt.Errorf("opening chunk %s: %w", chunkPath, err)
		}

		text, err := t.client.CreateTranscription(ctx, file)
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close file %s: %v\n", chunkPath, closeErr)
		}
		if err != nil {
			return "", fmt.Errorf("transcribing chunk %d: %w", i+1, err)
		}

		sb.WriteString(text)
		if i < numChunks-1 {
			sb.WriteString("\n")
		}

		t.ui.Verbose("Transcribed chunk %d/%d\n", i+1, numChunks)
	}

	return sb.String(), nil
}
