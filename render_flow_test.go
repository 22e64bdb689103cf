package main

import (
	"fmt"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestLayoutFlowEmpty(t *testing.T) {
	if _, ok := LayoutFlow(nil, []string{"x = 1"}, 1); ok {
		t.Fatalf("no edges should produce no diagram")
	}
	out := renderFlow(nil, []string{"x = 1"}, 1, false)
	if !strings.Contains(out, emptyFlowMessage) {
		t.Fatalf("empty flow view missing message:\n%s", out)
	}
	if strings.Contains(out, "Sequential") {
		t.Fatalf("empty flow view should not draw a legend")
	}
}

func TestLayoutFlowMarkersOnePerKind(t *testing.T) {
	edges := []ControlFlowEdge{
		{FromLine: 1, ToLine: 2, Kind: EdgeSequential},
		{FromLine: 2, ToLine: 3, Kind: EdgeBranch, Condition: boolPtr(true)},
		{FromLine: 2, ToLine: 5, Kind: EdgeBranch, Condition: boolPtr(false)},
		{FromLine: 4, ToLine: 2, Kind: EdgeLoop},
		{FromLine: 1, ToLine: 2, Kind: EdgeSequential},
	}
	d, ok := LayoutFlow(edges, []string{"a", "b", "c"}, 2)
	if !ok {
		t.Fatalf("expected a diagram")
	}
	if len(d.Markers) != 3 {
		t.Fatalf("got %d markers, want 3 (one per distinct kind)", len(d.Markers))
	}
	branch, ok := d.Marker(EdgeBranch)
	if !ok || branch.Color != colorBranchTrue {
		t.Fatalf("branch marker = %+v, want first edge colour %s", branch, colorBranchTrue)
	}
	if len(d.Edges) != len(edges) {
		t.Fatalf("duplicate edges must be kept, got %d edges", len(d.Edges))
	}
	if len(d.Rows) != 5 {
		t.Fatalf("rows should extend to the highest referenced line, got %d", len(d.Rows))
	}
	if !d.Rows[1].Current || d.Rows[0].Current {
		t.Fatalf("line 2 should be the only current row")
	}
	if d.Rows[4].Text != "" {
		t.Fatalf("rows beyond the source should be blank")
	}
	if d.Edges[1].Label != "BRANCH" {
		t.Fatalf("label = %q, want BRANCH", d.Edges[1].Label)
	}
	if d.Edges[2].Color != colorBranchFalse {
		t.Fatalf("false branch colour = %s", d.Edges[2].Color)
	}
	if got, want := d.Edges[0].FromY, flowLineHeight/2; got != want {
		t.Fatalf("FromY = %v, want %v", got, want)
	}
}

func TestLayoutFlowLanes(t *testing.T) {
	edges := []ControlFlowEdge{
		{FromLine: 1, ToLine: 3, Kind: EdgeSequential},
		{FromLine: 2, ToLine: 4, Kind: EdgeSequential},
		{FromLine: 5, ToLine: 6, Kind: EdgeSequential},
	}
	d, _ := LayoutFlow(edges, nil, 0)
	if d.Edges[0].Lane != 0 || d.Edges[1].Lane != 1 || d.Edges[2].Lane != 0 {
		t.Fatalf("lanes = %d,%d,%d; want 0,1,0", d.Edges[0].Lane, d.Edges[1].Lane, d.Edges[2].Lane)
	}
	if d.Lanes != 2 {
		t.Fatalf("Lanes = %d, want 2", d.Lanes)
	}
}

func TestEdgeColor(t *testing.T) {
	cases := []struct {
		kind EdgeKind
		cond *bool
		want string
	}{
		{EdgeSequential, nil, colorSequential},
		{EdgeBranch, boolPtr(true), colorBranchTrue},
		{EdgeBranch, boolPtr(false), colorBranchFalse},
		{EdgeBranch, nil, colorBranchFalse},
		{EdgeLoop, nil, colorLoop},
		{EdgeReturn, nil, colorReturn},
		{EdgeCall, nil, colorCall},
		{EdgeKind("jump"), nil, colorSequential},
	}
	for _, tc := range cases {
		if got := edgeColor(tc.kind, tc.cond); got != tc.want {
			t.Fatalf("edgeColor(%s) = %s, want %s", tc.kind, got, tc.want)
		}
	}
}

func TestRenderFlowPlain(t *testing.T) {
	edges := []ControlFlowEdge{{FromLine: 1, ToLine: 3, Kind: EdgeLoop}}
	out := renderFlow(edges, []string{"for i in x:", "  y()", "done"}, 1, false)
	for _, want := range []string{"Control Flow", "for i in x:", "LOOP", "◀", "╮", "╯", "Function Call", "Branch (True/False)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("flow view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain render should not contain escape codes")
	}
}

func TestLayoutFlowOutOfRangeEdges(t *testing.T) {
	source := []string{"while True:", "    step()"}
	edges := []ControlFlowEdge{
		{FromLine: 1, ToLine: 2_000_000, Kind: EdgeLoop},
		{FromLine: 0, ToLine: -3, Kind: EdgeBranch},
		{FromLine: 1, ToLine: 2, Kind: EdgeSequential},
	}
	d, ok := LayoutFlow(edges, source, 1)
	if !ok {
		t.Fatalf("expected a diagram")
	}
	if got, limit := len(d.Rows), len(source)+flowRowSlack; got > limit {
		t.Fatalf("rows = %d, want at most %d", got, limit)
	}
	loop, branch, seq := d.Edges[0], d.Edges[1], d.Edges[2]
	if !loop.Clipped || loop.ToLine != len(d.Rows) || loop.Label != "LOOP 1→2000000" {
		t.Fatalf("loop edge = %+v", loop)
	}
	if !branch.Clipped || branch.FromLine != 1 || branch.ToLine != 1 || branch.Label != "BRANCH 0→-3" {
		t.Fatalf("branch edge = %+v", branch)
	}
	if seq.Clipped || seq.Label != "SEQUENTIAL" {
		t.Fatalf("in-range edge should be untouched: %+v", seq)
	}

	for _, e := range edges[:2] {
		out := renderFlow([]ControlFlowEdge{e}, source, 1, false)
		if lines := strings.Count(out, "\n"); lines > 40 {
			t.Fatalf("flow view for %+v has %d lines", e, lines)
		}
		want := fmt.Sprintf("%s %d→%d", strings.ToUpper(string(e.Kind)), e.FromLine, e.ToLine)
		if !strings.Contains(out, want) {
			t.Fatalf("clipped edge label %q missing:\n%s", want, out)
		}
	}
}
