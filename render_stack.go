package main

import (
	"fmt"
	"strings"
)

const emptyStackMessage = "No active function calls"

const colorFrame = "#4a90e2"

// renderStack draws frames top to bottom in the order received; index 0 is
// the outermost call. Each deeper frame is indented one level.
func renderStack(frames []StackFrame, width int, styled bool) string {
	var b strings.Builder
	b.WriteString(sectionTitle("Call Stack", styled))
	b.WriteString("\n\n")
	if len(frames) == 0 {
		b.WriteString(emptyState(emptyStackMessage, styled))
		return b.String()
	}
	for i, frame := range frames {
		indent := min(i*2, width/4)
		card := renderCard(frameLines(frame), width-indent, colorFrame, i == len(frames)-1, styled)
		pad := strings.Repeat(" ", indent)
		for _, line := range strings.Split(card, "\n") {
			b.WriteString(pad)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func frameLines(frame StackFrame) []string {
	name := frame.FunctionName
	if name == "" {
		name = "(anonymous)"
	}
	lines := []string{fmt.Sprintf("%s  Line %d", name, frame.LineNumber)}
	if len(frame.Parameters) > 0 {
		lines = append(lines, "Parameters:")
		lines = append(lines, bindingLines(frame.Parameters)...)
	}
	if len(frame.LocalVariables) > 0 {
		lines = append(lines, "Local Variables:")
		lines = append(lines, bindingLines(frame.LocalVariables)...)
	}
	if frame.ReturnValue != nil {
		lines = append(lines, "Returns: "+frame.ReturnValue.String())
	}
	return lines
}

func bindingLines(b Bindings) []string {
	lines := make([]string, 0, len(b))
	for _, f := range b {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.Name, f.Value.String()))
	}
	return lines
}
