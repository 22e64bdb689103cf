package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFlowCFG(t *testing.T) {
	edges := []ControlFlowEdge{
		{FromLine: 1, ToLine: 2, Kind: EdgeSequential},
		{FromLine: 2, ToLine: 3, Kind: EdgeBranch, Condition: boolPtr(true)},
		{FromLine: 2, ToLine: 5, Kind: EdgeBranch, Condition: boolPtr(false)},
		{FromLine: 3, ToLine: 7, Kind: EdgeCall},
		{FromLine: 5, ToLine: 1, Kind: EdgeReturn},
	}
	g := flowCFG("demo", edges)
	if len(g.Funcs) != 1 || g.Funcs[0].Name != "demo" {
		t.Fatalf("unexpected graph %+v", g)
	}
	blocks := g.Funcs[0].Blocks
	ids := make([]int, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	if len(blocks) != 5 || ids[0] != 1 || ids[4] != 7 {
		t.Fatalf("block ids = %v, want sorted lines 1,2,3,5,7", ids)
	}

	branch := blocks[1]
	if len(branch.Succs) != 2 || branch.Succs[0].Cond != "T" || branch.Succs[1].Cond != "F" {
		t.Fatalf("branch successors = %+v", branch.Succs)
	}
	call := blocks[2]
	if len(call.Calls) != 1 || call.Calls[0].Callee != "line 7" || len(call.Succs) != 0 {
		t.Fatalf("call block = %+v", call)
	}
	if !blocks[3].Term {
		t.Fatalf("return edge should terminate its block")
	}
}

func TestExportDOT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.dot")
	step := Step{ControlFlow: []ControlFlowEdge{{FromLine: 1, ToLine: 2, Kind: EdgeLoop}}}
	if err := exportDOT(path, "flow", step); err != nil {
		t.Fatalf("exportDOT: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) == "" {
		t.Fatalf("expected DOT output")
	}
	if err := exportDOT(path, "flow", Step{}); err == nil {
		t.Fatalf("step without edges should not export")
	}
}

func TestStepImageBounds(t *testing.T) {
	steps := makeTrace(1)
	steps[0].ControlFlow = []ControlFlowEdge{{FromLine: 1, ToLine: 3, Kind: EdgeLoop}}
	steps[0].Variables = Bindings{F("xs", List(Number(1), Number(12)))}
	steps[0].DataStructures = []DataStructureSnapshot{{Kind: StructLinkedList, Data: List(Text("a"), Text("b"), Text("c"))}}

	flow, err := stepImage(TabFlow, steps, 0, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("flow image: %v", err)
	}
	if h := flow.Bounds().Dy(); h < int(3*flowLineHeight) {
		t.Fatalf("flow image height %d too small for 3 rows", h)
	}

	data, err := stepImage(TabData, steps, 0, nil)
	if err != nil {
		t.Fatalf("data image: %v", err)
	}
	if w := data.Bounds().Dx(); w < int(dataDisplayWidth) {
		t.Fatalf("data image width %d narrower than the display width", w)
	}

	if _, err := stepImage(TabTimeline, steps, 0, nil); err != nil {
		t.Fatalf("text image: %v", err)
	}
	if _, err := stepImage(TabTimeline, steps, 3, nil); err == nil {
		t.Fatalf("out-of-range step should fail")
	}
}

func TestExportFramesAndText(t *testing.T) {
	rec := newRecording(LangPython, "a\nb\nc", Response{Steps: makeTrace(3)})
	dir := filepath.Join(t.TempDir(), "frames")
	paths, err := exportFrames(context.Background(), dir, TabTimeline, rec, 2)
	if err != nil {
		t.Fatalf("exportFrames: %v", err)
	}
	if len(paths) != 3 || filepath.Base(paths[2]) != "step-0003-timeline.png" {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing frame: %v", err)
		}
	}

	txt := filepath.Join(t.TempDir(), "step.txt")
	if err := exportText(txt, TabTimeline, rec.Steps, 1, rec.Source(), 80); err != nil {
		t.Fatalf("exportText: %v", err)
	}
	data, _ := os.ReadFile(txt)
	if !strings.Contains(string(data), "Step 2") {
		t.Fatalf("text export missing step header:\n%s", data)
	}
}
