package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultAutoplayInterval = 1500 * time.Millisecond

// autoplayTickMsg is delivered by the autoplay timer. A tick whose gen does
// not match the playback's current generation is stale and ignored.
type autoplayTickMsg struct {
	gen int
}

// Playback owns the loaded trace, the step cursor and the autoplay state.
// It is the only mutator of the cursor; renderers read from Current.
type Playback struct {
	steps    Trace
	index    int
	playing  bool
	gen      int
	closed   bool
	interval time.Duration
}

func NewPlayback(interval time.Duration) Playback {
	if interval <= 0 {
		interval = defaultAutoplayInterval
	}
	return Playback{interval: interval}
}

// Load replaces the trace wholesale and rewinds to the first step.
// An empty trace leaves the playback Empty.
func (p *Playback) Load(steps Trace) {
	p.stop()
	p.steps = steps
	p.index = 0
}

// Clear discards the trace.
func (p *Playback) Clear() {
	p.Load(nil)
}

func (p Playback) Empty() bool { return len(p.steps) == 0 }
func (p Playback) Len() int { return len(p.steps) }
func (p Playback) Index() int { return p.index }
func (p Playback) Playing() bool { return p.playing }
func (p Playback) Steps() Trace { return p.steps }
func (p Playback) Interval() time.Duration { return p.interval }

func (p Playback) last() int { return len(p.steps) - 1 }

// Current returns the step under the cursor.
func (p Playback) Current() (Step, bool) {
	if p.Empty() {
		return Step{}, false
	}
	return p.steps[p.index], true
}

// HighlightedLine is the source line the code pane should emphasize.
func (p Playback) HighlightedLine() (int, bool) {
	step, ok := p.Current()
	if !ok {
		return 0, false
	}
	return step.Line()
}

// GoTo is a manual scrub: it clamps i into range and stops autoplay.
func (p *Playback) GoTo(i int) {
	if p.Empty() {
		return
	}
	p.stop()
	p.seek(i)
}

// Next advances one step. It reports false at the last step.
func (p *Playback) Next() bool {
	if p.Empty() || p.index >= p.last() {
		return false
	}
	p.index++
	return true
}

// Previous moves back one step. It reports false at the first step.
func (p *Playback) Previous() bool {
	if p.Empty() || p.index <= 0 {
		return false
	}
	p.index--
	return true
}

// TogglePlay starts or pauses autoplay. Starting is refused on the last
// step. The returned command schedules the first tick.
func (p *Playback) TogglePlay() tea.Cmd {
	if p.playing {
		p.stop()
		return nil
	}
	if p.closed || p.Empty() || p.index >= p.last() {
		return nil
	}
	p.gen++
	p.playing = true
	return p.schedule()
}

// Tick advances autoplay by one step, computed from the live cursor.
// Reaching the last step stops playback without scheduling another tick.
func (p *Playback) Tick(gen int) tea.Cmd {
	if gen != p.gen || !p.playing || p.closed {
		return nil
	}
	if p.index >= p.last() {
		p.stop()
		return nil
	}
	p.index++
	if p.index >= p.last() {
		p.stop()
		return nil
	}
	return p.schedule()
}

// Close stops playback for good; ticks already in flight become no-ops.
func (p *Playback) Close() {
	p.stop()
	p.closed = true
}

func (p *Playback) seek(i int) {
	if i < 0 {
		i = 0
	}
	if i > p.last() {
		i = p.last()
	}
	p.index = i
}

func (p *Playback) stop() {
	p.gen++
	p.playing = false
}

func (p *Playback) schedule() tea.Cmd {
	gen := p.gen
	return tea.Tick(p.interval, func(time.Time) tea.Msg {
		return autoplayTickMsg{gen: gen}
	})
}
