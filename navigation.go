package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handlePlaybackKey moves the step cursor. It reports whether msg was a
// playback key.
func (m *model) handlePlaybackKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	p := &m.playback
	switch {
	case key.Matches(msg, keys.Play):
		return p.TogglePlay(), true
	case key.Matches(msg, keys.Next):
		p.Next()
	case key.Matches(msg, keys.Prev):
		p.Previous()
	case key.Matches(msg, keys.First):
		p.GoTo(0)
	case key.Matches(msg, keys.Last):
		p.GoTo(p.Len() - 1)
	case key.Matches(msg, keys.JumpBack):
		p.GoTo(p.Index() - jumpSteps)
	case key.Matches(msg, keys.JumpAhead):
		p.GoTo(p.Index() + jumpSteps)
	default:
		return nil, false
	}
	return nil, true
}

// handleViewKey switches or scrolls the mounted view; 1-5 select a view directly.
func (m *model) handleViewKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.NextTab):
		m.tab = m.tab.next()
	case key.Matches(msg, keys.PrevTab):
		m.tab = m.tab.prev()
	case key.Matches(msg, keys.ScrollUp):
		m.viewport.LineUp(1)
		return true
	case key.Matches(msg, keys.ScrollDn):
		m.viewport.LineDown(1)
		return true
	default:
		s := msg.String()
		if len(s) != 1 || s[0] < '1' || int(s[0]-'1') >= len(viewTabs) {
			return false
		}
		m.tab = viewTabs[s[0]-'1']
	}
	m.viewport.GotoTop()
	return true
}

// stepStatus is the "Step i of N" line with a scrubber and play state.
func stepStatus(p Playback, width int, styled bool) string {
	if p.Empty() {
		return paint(subtleStyle, "No trace loaded", styled)
	}
	state := "⏸ paused"
	if p.Playing() {
		state = "▶ playing"
	}
	label := fmt.Sprintf("Step %d of %d", p.Index()+1, p.Len())
	bar := scrubber(p.Index(), p.Len(), width-len(label)-len(state)-4)
	return paint(statusStyle, label, styled) + "  " + bar + "  " + paint(subtleStyle, state, styled)
}

// scrubber draws the cursor position as a bar of the given width.
func scrubber(index, total, width int) string {
	if width < 3 || total <= 0 {
		return ""
	}
	filled := width
	if total > 1 {
		filled = (index*(width-1))/(total-1) + 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
