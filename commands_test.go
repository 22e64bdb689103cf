package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config := writeConfig(t, "start_tab = \"flow\"\n")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", config, "--ui", "off"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	steps := makeTrace(2)
	steps[1].ControlFlow = []ControlFlowEdge{{FromLine: 1, ToLine: 2, Kind: EdgeSequential}}
	recPath := filepath.Join(dir, "run"+recordingExtension)
	if err := saveRecording(recPath, newRecording(LangPython, "a\nb", Response{Steps: steps})); err != nil {
		t.Fatal(err)
	}

	txt := filepath.Join(dir, "out.txt")
	out, err := executeRoot(t, "export", recPath, "--tab", "flow", "--step", "2", "--format", "txt", "-o", txt)
	if err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}
	data, err := os.ReadFile(txt)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "SEQUENTIAL") {
		t.Fatalf("exported flow view missing edge label:\n%s", data)
	}

	if _, err := executeRoot(t, "export", recPath, "--step", "9"); err == nil {
		t.Fatalf("out-of-range step should fail")
	}
	if _, err := executeRoot(t, "export", recPath, "--format", "svg", "-o", filepath.Join(dir, "x.svg")); err == nil {
		t.Fatalf("unknown format should fail")
	}
}

func TestReplayCommandPlain(t *testing.T) {
	recPath := filepath.Join(t.TempDir(), "run"+recordingExtension)
	if err := saveRecording(recPath, newRecording(LangJava, "int x;", Response{Output: "out", Steps: makeTrace(1)})); err != nil {
		t.Fatal(err)
	}
	out, err := executeRoot(t, "replay", recPath)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out, "Java program") || !strings.Contains(out, "Step 1 of 1") {
		t.Fatalf("unexpected replay output:\n%s", out)
	}
}

func TestRootRequiresSubcommandWithoutTUI(t *testing.T) {
	if _, err := executeRoot(t); err == nil {
		t.Fatalf("plain mode without a subcommand should fail")
	}
}
