package main

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	loadingOutputMessage = "Executing code..."
	emptyOutputMessage   = "No output yet. Run your code to see the results here."
)

var printer = message.NewPrinter(language.English)

// outputPanel is the passive output surface. Exactly one of loading, error,
// output or the empty prompt is shown.
type outputPanel struct {
	Loading       bool
	Error         string
	Output        string
	ExecutionTime *int64
}

func (o outputPanel) render(spinner string, styled bool) string {
	var b strings.Builder
	b.WriteString(sectionTitle("Output", styled))
	if o.ExecutionTime != nil && !o.Loading {
		b.WriteString(paint(subtleStyle, "  "+formatExecutionTime(*o.ExecutionTime), styled))
	}
	b.WriteString("\n")
	switch {
	case o.Loading:
		b.WriteString(spinner + " " + loadingOutputMessage)
	case o.Error != "":
		b.WriteString(paint(errorStyle, "⚠ "+o.Error, styled))
	case o.Output != "":
		b.WriteString(strings.TrimRight(o.Output, "\n"))
	default:
		b.WriteString(emptyState(emptyOutputMessage, styled))
	}
	return b.String()
}

func formatExecutionTime(ms int64) string {
	return printer.Sprintf("Executed in %dms", ms)
}
