package internal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Record is one line of the output dataset: a collected video transcript
// or a collected paper. Exactly one of Text or Failure is set.
type Record struct {
	Kind        string   `json:"kind"` // "video" or "paper"
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	Playlist    string   `json:"playlist,omitempty"`
	Source      string   `json:"source,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	URL         string   `json:"url,omitempty"`
	Published   string   `json:"published,omitempty"`
	Text        string   `json:"text,omitempty"`
	Failure     string   `json:"failure,omitempty"`
	CollectedAt string   `json:"collected_at"`
}

// VideoRecord builds a dataset record from a resolved transcript
func VideoRecord(ref VideoReference, result TranscriptResult) Record {
	return Record{
		Kind:        "video",
		ID:          ref.ID,
		Title:       ref.Title,
		Channel:     ref.Channel,
		Playlist:    ref.Playlist,
		Source:      string(result.Source),
		URL:         ref.URL(),
		Text:        result.Text,
		Failure:     result.Failure,
		CollectedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// PaperRecord builds a dataset record from a collected paper
func PaperRecord(p Paper) Record {
	return Record{
		Kind:        "paper",
		ID:          p.ID,
		Title:       p.Title,
		Source:      p.Source,
		Authors:     p.Authors,
		URL:         p.URL,
		Published:   p.Published,
		Text:        p.Abstract,
		CollectedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// DatasetWriter appends JSONL records to the dataset file. One record per
// line, flushed on Close.
type DatasetWriter struct {
	file *os.File
	buf  *bufio.Writer
}

// OpenDataset opens (or creates) the dataset file for appending
func OpenDataset(path string) (*DatasetWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := EnsureDirs(dir); err != nil {
			return nil, fmt.Errorf("creating dataset directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening dataset file: %w", err)
	}

	return &DatasetWriter{file: file, buf: bufio.NewWriter(file)}, nil
}

// Write appends one record as a JSON line
func (w *DatasetWriter) Write(record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record %q: %w", record.ID, err)
	}

	if _, err := w.buf.Write(data); err != nil {
		return fmt.Errorf("writing record %q: %w", record.ID, err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing record %q: %w", record.ID, err)
	}
	return nil
}

// Close flushes buffered records and closes the file
func (w *DatasetWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("flushing dataset: %w", err)
	}
	return w.file.Close()
}
