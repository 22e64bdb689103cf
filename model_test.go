package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeRunner struct {
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, op Operation, req Request) (Response, error) {
	f.calls++
	return Response{Success: true}, nil
}

func newTestModel(t *testing.T) (model, *fakeRunner) {
	t.Helper()
	backend := &fakeRunner{}
	m := initialModel(defaultConfig(), backend, LangPython, "x = 1\nprint(x)")
	m.width, m.height = 120, 40
	return m, backend
}

func TestStartRunEmptyCode(t *testing.T) {
	m, backend := newTestModel(t)
	m.code.code = "   "
	if cmd := m.startRun(OpVisualize); cmd != nil {
		t.Fatalf("empty code should not issue a request")
	}
	if m.loading || backend.calls != 0 {
		t.Fatalf("empty code should not start loading")
	}
	if m.output.Error != "Please enter some code to visualize." {
		t.Fatalf("output error = %q", m.output.Error)
	}
}

func TestStartRunEntersLoading(t *testing.T) {
	m, _ := newTestModel(t)
	m.playback.Load(makeTrace(3))
	cmd := m.startRun(OpVisualize)
	if cmd == nil {
		t.Fatalf("expected a request command")
	}
	if !m.loading || !m.output.Loading || !m.playback.Empty() {
		t.Fatalf("loading=%v output.Loading=%v empty=%v", m.loading, m.output.Loading, m.playback.Empty())
	}
	m.syncViewport()
	if !strings.Contains(m.viewport.View(), loadingVisualizationMessage) {
		t.Fatalf("viewport should show the loading state:\n%s", m.viewport.View())
	}
}

func TestApplyResultLoadsSteps(t *testing.T) {
	m, _ := newTestModel(t)
	m.startRun(OpVisualize)
	ms := int64(7)
	m.applyResult(traceResultMsg{seq: m.requestSeq, op: OpVisualize, resp: Response{Success: true, Output: "1", ExecutionTime: &ms, Steps: makeTrace(4)}})
	if m.loading || m.playback.Len() != 4 || m.playback.Index() != 0 {
		t.Fatalf("loading=%v len=%d index=%d", m.loading, m.playback.Len(), m.playback.Index())
	}
	if m.output.Output != "1" || m.output.Error != "" {
		t.Fatalf("unexpected output %+v", m.output)
	}
	if m.lastRun == nil || len(m.lastRun.Steps) != 4 {
		t.Fatalf("successful run should be kept for saving")
	}
}

func TestApplyResultIgnoresStaleReply(t *testing.T) {
	m, _ := newTestModel(t)
	m.startRun(OpVisualize)
	first := m.requestSeq
	m.startRun(OpVisualize)

	m.applyResult(traceResultMsg{seq: first, op: OpVisualize, resp: Response{Success: true, Steps: makeTrace(9)}})
	if !m.loading || !m.playback.Empty() {
		t.Fatalf("stale reply must not be applied")
	}
	m.applyResult(traceResultMsg{seq: m.requestSeq, op: OpVisualize, resp: Response{Success: true, Steps: makeTrace(2)}})
	if m.playback.Len() != 2 {
		t.Fatalf("latest reply should load 2 steps, got %d", m.playback.Len())
	}
}

func TestApplyResultErrorClearsTrace(t *testing.T) {
	m, _ := newTestModel(t)
	m.startRun(OpVisualize)
	m.applyResult(traceResultMsg{seq: m.requestSeq, op: OpVisualize, resp: Response{Success: true, Output: "out"}, err: ErrNotVisualizable})
	if !m.playback.Empty() || m.loading {
		t.Fatalf("failed run should leave an empty trace")
	}
	if m.output.Error != notVisualizableMessage {
		t.Fatalf("error = %q", m.output.Error)
	}
	if !strings.Contains(m.output.render("", false), notVisualizableMessage) {
		t.Fatalf("output panel should show the error")
	}

	m.startRun(OpExecute)
	m.applyResult(traceResultMsg{seq: m.requestSeq, op: OpExecute, err: &TransportError{Op: "execute", Err: context.DeadlineExceeded}})
	if m.output.Error != networkErrorMessage {
		t.Fatalf("error = %q", m.output.Error)
	}
}

func TestExecuteWithoutStepsKeepsOutput(t *testing.T) {
	m, _ := newTestModel(t)
	m.startRun(OpExecute)
	m.applyResult(traceResultMsg{seq: m.requestSeq, op: OpExecute, resp: Response{Success: true, Output: "hello"}})
	if m.output.Output != "hello" || m.output.Error != "" || !m.playback.Empty() {
		t.Fatalf("unexpected state output=%+v empty=%v", m.output, m.playback.Empty())
	}
}

func TestLanguageChangeResets(t *testing.T) {
	m, _ := newTestModel(t)
	m.startRun(OpVisualize)
	seq := m.requestSeq
	m.changeLanguage(LangJava)
	if m.code.code != LangJava.Template() || m.code.lang != LangJava {
		t.Fatalf("language change should load the template")
	}
	if m.loading || !m.playback.Empty() || m.output.Output != "" {
		t.Fatalf("language change should reset results")
	}
	m.applyResult(traceResultMsg{seq: seq, op: OpVisualize, resp: Response{Success: true, Steps: makeTrace(3)}})
	if !m.playback.Empty() {
		t.Fatalf("reply for the old code must be dropped")
	}
	if !m.code.undo() || m.code.code != "x = 1\nprint(x)" {
		t.Fatalf("template swap should be undoable")
	}
}

func TestUpdateKeysDrivePlayback(t *testing.T) {
	m, _ := newTestModel(t)
	m.playback.Load(makeTrace(3))

	press := func(m model, k tea.KeyMsg) (model, tea.Cmd) {
		next, cmd := m.Update(k)
		return next.(model), cmd
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.playback.Index() != 1 {
		t.Fatalf("right should advance, index %d", m.playback.Index())
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.playback.Index() != 2 {
		t.Fatalf("end should jump to last, index %d", m.playback.Index())
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil || !m.playback.Playing() {
		t.Fatalf("space should start autoplay")
	}
	next, _ := m.Update(autoplayTickMsg{gen: m.playback.gen})
	m = next.(model)
	if m.playback.Index() != 1 {
		t.Fatalf("tick should advance to 1, got %d", m.playback.Index())
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	if m.tab != TabFlow {
		t.Fatalf("4 should select the flow view, got %s", m.tab)
	}
}

func TestQuitWhileLoadingAsks(t *testing.T) {
	m, _ := newTestModel(t)
	m.startRun(OpVisualize)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(model)
	if cmd != nil || m.mode != ModeConfirm || m.confirmAction != ConfirmQuit {
		t.Fatalf("quit during a request should ask first")
	}
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = next.(model)
	if cmd == nil || !m.playback.closed {
		t.Fatalf("confirming should quit and close playback")
	}
}

func TestViewRendersPanes(t *testing.T) {
	m, _ := newTestModel(t)
	m.syncViewport()
	out := m.View()
	for _, want := range []string{"Code (Python)", "Timeline", emptyVisualizationMessage, "Output", "Mode: NORMAL"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestFilePromptUsesSaveDirectory(t *testing.T) {
	saveDir, workDir := t.TempDir(), t.TempDir()
	t.Chdir(workDir)

	m, _ := newTestModel(t)
	m.config.SaveDirectory = saveDir
	m.playback.Load(makeTrace(2))
	m.promptFile(FileOpSaveRecording)
	if m.mode != ModeFileInput {
		t.Fatalf("save should prompt for a file name, mode %s", m.modeString())
	}
	m.fileInput.SetValue("run" + recordingExtension)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if m.errorMessage != "" {
		t.Fatalf("save failed: %s", m.errorMessage)
	}
	if _, err := os.Stat(filepath.Join(saveDir, "run"+recordingExtension)); err != nil {
		t.Fatalf("recording not written to the save directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(workDir, "run"+recordingExtension)); err == nil {
		t.Fatalf("recording should not be written to the working directory")
	}
}
