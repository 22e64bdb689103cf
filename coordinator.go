package main

import (
	"fmt"
	"strings"
)

// ViewTab selects which renderer is mounted.
type ViewTab int

const (
	TabTimeline ViewTab = iota
	TabStack
	TabMemory
	TabFlow
	TabData
)

var viewTabs = []ViewTab{TabTimeline, TabStack, TabMemory, TabFlow, TabData}

func (t ViewTab) String() string {
	switch t {
	case TabTimeline:
		return "Timeline"
	case TabStack:
		return "Call Stack"
	case TabMemory:
		return "Memory"
	case TabFlow:
		return "Control Flow"
	case TabData:
		return "Data Structures"
	default:
		return "Unknown"
	}
}

// Name is the identifier used in config files and flags.
func (t ViewTab) Name() string {
	switch t {
	case TabStack:
		return "stack"
	case TabMemory:
		return "memory"
	case TabFlow:
		return "flow"
	case TabData:
		return "data"
	default:
		return "timeline"
	}
}

func parseViewTab(s string) (ViewTab, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range viewTabs {
		if t.Name() == name {
			return t, nil
		}
	}
	if name == "" {
		return TabTimeline, nil
	}
	return TabTimeline, fmt.Errorf("unknown view %q (expected timeline|stack|memory|flow|data)", s)
}

func (t ViewTab) next() ViewTab { return viewTabs[(int(t)+1)%len(viewTabs)] }

func (t ViewTab) prev() ViewTab { return viewTabs[(int(t)+len(viewTabs)-1)%len(viewTabs)] }

const (
	loadingVisualizationMessage = "Generating visualization steps..."
	emptyVisualizationMessage   = "Press ctrl+r to see step-by-step execution"
)

// viewRequest is everything the coordinator needs for one render.
type viewRequest struct {
	Tab      ViewTab
	Loading  bool
	Spinner  string
	Playback Playback
	Source   []string
	Width    int
	Styled   bool
}

// renderView shows loading while a request is in flight, the empty prompt
// when no trace is loaded, and otherwise the active tab.
func renderView(req viewRequest) string {
	if req.Loading {
		return req.Spinner + " " + loadingVisualizationMessage
	}
	if req.Playback.Empty() {
		return emptyState(emptyVisualizationMessage, req.Styled)
	}
	return renderTab(req.Tab, req.Playback.Steps(), req.Playback.Index(), req.Source, req.Width, req.Styled)
}

// renderTab renders one view of steps[index]. It never mutates steps.
func renderTab(tab ViewTab, steps Trace, index int, source []string, width int, styled bool) string {
	if index < 0 || index >= len(steps) {
		return emptyState(emptyVisualizationMessage, styled)
	}
	step := steps[index]
	switch tab {
	case TabStack:
		return renderStack(step.StackFrames, width, styled)
	case TabMemory:
		var previous []MemoryObject
		if index > 0 {
			previous = steps[index-1].MemoryObjects
		}
		return renderMemory(step.MemoryObjects, step.Variables, previous, width, styled)
	case TabFlow:
		line, _ := step.Line()
		return renderFlow(step.ControlFlow, source, line, styled)
	case TabData:
		return renderData(step.Variables, step.DataStructures, width, styled)
	default:
		return renderTimeline(step, index, len(steps), styled)
	}
}

// renderTabs draws the tab selector.
func renderTabs(active ViewTab, styled bool) string {
	parts := make([]string, 0, len(viewTabs))
	for i, t := range viewTabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		switch {
		case styled && t == active:
			parts = append(parts, activeTabStyle.Render(label))
		case styled:
			parts = append(parts, tabStyle.Render(label))
		case t == active:
			parts = append(parts, "["+label+"]")
		default:
			parts = append(parts, " "+label+" ")
		}
	}
	return strings.Join(parts, " ")
}
