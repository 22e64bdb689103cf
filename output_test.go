package main

import (
	"strings"
	"testing"
)

func TestOutputPanelStates(t *testing.T) {
	ms := int64(1234)
	cases := []struct {
		name  string
		panel outputPanel
		want  string
		not   string
	}{
		{"empty", outputPanel{}, emptyOutputMessage, ""},
		{"loading", outputPanel{Loading: true, Output: "old"}, loadingOutputMessage, "old"},
		{"error wins over output", outputPanel{Error: "boom", Output: "partial"}, "boom", "partial"},
		{"output", outputPanel{Output: "hi\n", ExecutionTime: &ms}, "Executed in 1,234ms", emptyOutputMessage},
	}
	for _, tc := range cases {
		out := tc.panel.render("*", false)
		if !strings.Contains(out, tc.want) {
			t.Fatalf("%s: missing %q in:\n%s", tc.name, tc.want, out)
		}
		if tc.not != "" && strings.Contains(out, tc.not) {
			t.Fatalf("%s: unexpected %q in:\n%s", tc.name, tc.not, out)
		}
	}
}
