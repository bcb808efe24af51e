package internal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, path string) []Record {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestDatasetWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "dataset.jsonl")

	writer, err := OpenDataset(path)
	require.NoError(t, err)

	ref := VideoReference{ID: "abc123", Title: "A Video", Channel: "A Channel", Playlist: "UUabc"}
	ok := TranscriptResult{ID: "abc123", Source: SourceCaptions, Text: "captions text"}
	failed := TranscriptResult{ID: "def456", Failure: "captions unavailable: disabled"}

	require.NoError(t, writer.Write(VideoRecord(ref, ok)))
	require.NoError(t, writer.Write(VideoRecord(VideoReference{ID: "def456"}, failed)))
	require.NoError(t, writer.Write(PaperRecord(Paper{
		ID:     "2401.01234",
		Title:  "A Paper",
		Source: "arxiv",
	})))
	require.NoError(t, writer.Close())

	records := readRecords(t, path)
	require.Len(t, records, 3)

	assert.Equal(t, "video", records[0].Kind)
	assert.Equal(t, "abc123", records[0].ID)
	assert.Equal(t, "captions", records[0].Source)
	assert.Equal(t, "captions text", records[0].Text)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", records[0].URL)
	assert.Empty(t, records[0].Failure)
	assert.NotEmpty(t, records[0].CollectedAt)

	// a failed video still produces a record, with no text body
	assert.Equal(t, "def456", records[1].ID)
	assert.Empty(t, records[1].Text)
	assert.Empty(t, records[1].Source)
	assert.Equal(t, "captions unavailable: disabled", records[1].Failure)

	assert.Equal(t, "paper", records[2].Kind)
	assert.Equal(t, "arxiv", records[2].Source)
}

func TestDatasetWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.jsonl")

	for _, id := range []string{"a", "b"} {
		writer, err := OpenDataset(path)
		require.NoError(t, err)
		require.NoError(t, writer.Write(Record{Kind: "video", ID: id}))
		require.NoError(t, writer.Close())
	}

	records := readRecords(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
}
