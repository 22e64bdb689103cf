package main

import (
	"context"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// startRun submits the current code. Any previous trace is discarded and
// the new request becomes the only one whose reply will be applied.
func (m *model) startRun(op Operation) tea.Cmd {
	m.errorMessage, m.successMessage = "", ""
	code := m.code.code
	if strings.TrimSpace(code) == "" {
		m.output = outputPanel{Error: UserMessage(op, ErrEmptyCode)}
		return nil
	}

	m.requestSeq++
	m.loading = true
	m.replaying = false
	m.lastRun = nil
	m.playback.Clear()
	m.output = outputPanel{Loading: true}

	seq, backend := m.requestSeq, m.backend
	req := Request{Code: code, Language: m.code.lang}
	log.Printf("%s request %d: %d bytes of %s", op, seq, len(code), req.Language)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		resp, err := backend.Run(context.Background(), op, req)
		return traceResultMsg{seq: seq, op: op, resp: resp, err: err}
	})
}

// applyResult installs a reply if it answers the latest request.
func (m *model) applyResult(msg traceResultMsg) {
	if msg.seq != m.requestSeq {
		log.Printf("dropping stale %s response %d (latest is %d)", msg.op, msg.seq, m.requestSeq)
		return
	}
	m.loading = false
	m.output = outputPanel{Output: msg.resp.Output, ExecutionTime: msg.resp.ExecutionTime}
	if msg.err != nil {
		log.Printf("%s request %d failed: %v", msg.op, msg.seq, msg.err)
		m.output.Error = UserMessage(msg.op, msg.err)
		m.playback.Clear()
		return
	}
	if len(msg.resp.Steps) == 0 {
		return
	}
	log.Printf("%s request %d: loaded %d steps", msg.op, msg.seq, len(msg.resp.Steps))
	m.playback.Load(msg.resp.Steps)
	rec := newRecording(m.code.lang, m.code.code, msg.resp)
	m.lastRun = &rec
}

// discardTrace forgets the loaded trace and orphans any in-flight request.
func (m *model) discardTrace() {
	m.requestSeq++
	m.loading = false
	m.replaying = false
	m.lastRun = nil
	m.playback.Clear()
	if m.output.Loading {
		m.output = outputPanel{}
	}
}

// changeLanguage loads the language template and resets every result.
func (m *model) changeLanguage(lang Language) {
	if lang == m.code.lang {
		return
	}
	m.code.setLanguage(lang)
	m.discardTrace()
	m.output = outputPanel{}
}

// replaceCode swaps in new code; results for the old code are dropped.
func (m *model) replaceCode(code string) bool {
	if !m.code.replace(code) {
		return false
	}
	m.discardTrace()
	return true
}

// loadReplay installs a saved recording without contacting the backend.
func (m *model) loadReplay(rec Recording) {
	m.code = newCodePane(rec.Language, rec.Code)
	m.discardTrace()
	m.replaying = true
	m.output = outputPanel{Output: rec.Output, ExecutionTime: rec.ExecutionTime}
	m.playback.Load(rec.Steps)
	m.lastRun = &rec
}
