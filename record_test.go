package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordingRoundTrip(t *testing.T) {
	steps := makeTrace(2)
	steps[0].Variables = Bindings{F("xs", List(Number(1), Text("two")))}
	steps[1].ControlFlow = []ControlFlowEdge{{FromLine: 1, ToLine: 2, Kind: EdgeBranch, Condition: boolPtr(true)}}
	ms := int64(42)
	rec := newRecording(LangTypeScript, "let x = 1;\nx++;\n", Response{Output: "ok", ExecutionTime: &ms, Steps: steps})

	path := filepath.Join(t.TempDir(), "nested", "run"+recordingExtension)
	if err := saveRecording(path, rec); err != nil {
		t.Fatalf("saveRecording: %v", err)
	}
	got, err := loadRecording(path)
	if err != nil {
		t.Fatalf("loadRecording: %v", err)
	}
	if got.Language != LangTypeScript || got.Output != "ok" || *got.ExecutionTime != 42 {
		t.Fatalf("unexpected header %+v", got)
	}
	if len(got.Steps) != 2 || got.Steps[0].Variables.String() != "xs=[1,\"two\"]" {
		t.Fatalf("unexpected steps %+v", got.Steps)
	}
	edge := got.Steps[1].ControlFlow[0]
	if edge.Kind != EdgeBranch || edge.Condition == nil || !*edge.Condition {
		t.Fatalf("edge did not survive: %+v", edge)
	}
	if src := got.Source(); len(src) != 2 || src[1] != "x++;" {
		t.Fatalf("Source() = %q", src)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestSaveRecordingRejectsEmpty(t *testing.T) {
	err := saveRecording(filepath.Join(t.TempDir(), "x.svrec"), Recording{Schema: recordingSchema})
	if !errors.Is(err, ErrEmptyRecording) {
		t.Fatalf("err = %v, want ErrEmptyRecording", err)
	}
}

func TestLoadRecordingRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.svrec")
	if err := os.WriteFile(path, []byte("not msgpack"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadRecording(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRecordingName(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	if got := recordingName(LangPython, at); got != "python-20240305-140709.svrec" {
		t.Fatalf("recordingName = %q", got)
	}
}
