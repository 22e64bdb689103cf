package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	plainHeaderColor = color.New(color.FgCyan, color.Bold)
	plainStepColor   = color.New(color.FgYellow, color.Bold)
	plainTabColor    = color.New(color.FgBlue)
	plainErrorColor  = color.New(color.FgRed)
)

// printRecording writes every step of rec, one section per view, without
// any terminal control beyond colour.
func printRecording(w io.Writer, rec Recording, tabs []ViewTab) error {
	plainHeaderColor.Fprintf(w, "%s program", rec.Language.Label())
	if rec.ExecutionTime != nil {
		fmt.Fprintf(w, " (%s)", formatExecutionTime(*rec.ExecutionTime))
	}
	fmt.Fprintln(w)

	if rec.Output != "" {
		plainTabColor.Fprintln(w, "Output:")
		fmt.Fprintln(w, strings.TrimRight(rec.Output, "\n"))
	}
	if len(rec.Steps) == 0 {
		plainErrorColor.Fprintln(w, "No steps recorded")
		return nil
	}

	source := rec.Source()
	for i, step := range rec.Steps {
		fmt.Fprintln(w)
		header := fmt.Sprintf("== Step %d of %d", i+1, len(rec.Steps))
		if line, ok := step.Line(); ok {
			header += fmt.Sprintf(" (line %d)", line)
		}
		plainStepColor.Fprintln(w, header+" ==")
		for _, tab := range tabs {
			plainTabColor.Fprintf(w, "-- %s --\n", tab)
			if _, err := fmt.Fprintln(w, renderTab(tab, rec.Steps, i, source, defaultColumns, false)); err != nil {
				return err
			}
		}
	}
	return nil
}
