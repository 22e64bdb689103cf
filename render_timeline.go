package main

import (
	"fmt"
	"strings"
)

const noDescriptionMessage = "No description available"

// renderTimeline shows the step description, its variable states and any
// output produced at that step.
func renderTimeline(step Step, position, total int, styled bool) string {
	var b strings.Builder
	b.WriteString(sectionTitle(fmt.Sprintf("Step %d", position+1), styled))
	b.WriteString(paint(subtleStyle, fmt.Sprintf("  of %d", total), styled))
	if line, ok := step.Line(); ok {
		b.WriteString(paint(subtleStyle, fmt.Sprintf("  (line %d)", line), styled))
	}
	b.WriteString("\n")
	desc := step.Description
	if desc == "" {
		desc = noDescriptionMessage
	}
	b.WriteString(desc)

	if len(step.Variables) > 0 {
		b.WriteString("\n\n")
		b.WriteString(paint(labelStyle, "Variable States", styled))
		for _, f := range step.Variables {
			b.WriteString("\n")
			b.WriteString(paint(labelStyle, "  "+f.Name+":", styled))
			value := strings.ReplaceAll(f.Value.Pretty(), "\n", "\n    ")
			b.WriteString(" " + value)
		}
	}
	if step.Output != "" {
		b.WriteString("\n\n")
		b.WriteString(paint(labelStyle, "Output", styled))
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(step.Output, "\n"))
	}
	return b.String()
}
