package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	recordingSchema    = 1
	recordingExtension = ".svrec"
)

// Recording is a saved run that can be replayed without the backend.
type Recording struct {
	Schema        int      `msgpack:"schema"`
	Language      Language `msgpack:"language"`
	Code          string   `msgpack:"code"`
	Output        string   `msgpack:"output,omitempty"`
	ExecutionTime *int64   `msgpack:"execution_ms,omitempty"`
	Steps         Trace    `msgpack:"steps"`
	SavedAt       int64    `msgpack:"saved_at"`
}

var ErrEmptyRecording = errors.New("recording has no steps")

func newRecording(lang Language, code string, resp Response) Recording {
	return Recording{
		Schema:        recordingSchema,
		Language:      lang,
		Code:          code,
		Output:        resp.Output,
		ExecutionTime: resp.ExecutionTime,
		Steps:         resp.Steps,
		SavedAt:       time.Now().Unix(),
	}
}

// Source returns the recorded code split into lines.
func (r Recording) Source() []string {
	return splitLines(r.Code)
}

// saveRecording writes rec to path through a temp file and a rename, so a
// reader never sees a partial file.
func saveRecording(path string, rec Recording) (err error) {
	if len(rec.Steps) == 0 {
		return ErrEmptyRecording
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) && err == nil {
			err = removeErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&rec); err != nil {
		f.Close()
		return fmt.Errorf("encode recording: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func loadRecording(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, err
	}
	defer f.Close()

	var rec Recording
	if err := msgpack.NewDecoder(f).Decode(&rec); err != nil {
		return Recording{}, fmt.Errorf("%s: decode recording: %w", path, err)
	}
	if rec.Schema != recordingSchema {
		return Recording{}, fmt.Errorf("%s: unsupported recording schema %d", path, rec.Schema)
	}
	if len(rec.Steps) == 0 {
		return Recording{}, fmt.Errorf("%s: %w", path, ErrEmptyRecording)
	}
	return rec, nil
}

// recordingName builds a default file name for a recording.
func recordingName(lang Language, at time.Time) string {
	return fmt.Sprintf("%s-%s%s", lang, at.Format("20060102-150405"), recordingExtension)
}
