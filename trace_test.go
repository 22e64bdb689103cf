package main

import "testing"

const sampleSteps = `[
  {
    "stepNumber": 0,
    "description": "Assign x",
    "lineHighlight": 2,
    "variableStates": {"x": 5, "items": [3, 1]},
    "stackFrames": [{"functionName": "main", "parameters": {}, "localVariables": {"x": 5}, "lineNumber": 2}],
    "memoryObjects": [{"address": "0x1", "type": "list", "value": [3, 1], "references": ["0x2"]}],
    "controlFlowEdges": [
      {"fromLine": 1, "toLine": 2, "type": "sequential"},
      {"fromLine": 2, "toLine": 4, "type": "branch", "condition": false},
      {"fromLine": 3}
    ],
    "dataStructures": [{"type": "linkedList", "data": [{"value": "A"}], "operations": ["append"]}],
    "timestamp": 1700000000
  },
  "not a step",
  {"description": null}
]`

func TestDecodeTrace(t *testing.T) {
	doc, err := ParseValue([]byte(sampleSteps))
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	steps := decodeTrace(doc.Items)
	if len(steps) != 3 {
		t.Fatalf("len(steps) = %d, want 3", len(steps))
	}

	first := steps[0]
	if line, ok := first.Line(); !ok || line != 2 {
		t.Fatalf("Line() = %d, %v", line, ok)
	}
	if first.Description != "Assign x" || first.Timestamp != 1700000000 {
		t.Fatalf("unexpected step header %+v", first)
	}
	if x, ok := first.Variables.Get("x"); !ok || x.Num != 5 {
		t.Fatalf("variable x = %v", x)
	}
	if len(first.StackFrames) != 1 || first.StackFrames[0].FunctionName != "main" || first.StackFrames[0].LineNumber != 2 {
		t.Fatalf("unexpected frames %+v", first.StackFrames)
	}
	if len(first.MemoryObjects) != 1 || first.MemoryObjects[0].References[0] != "0x2" {
		t.Fatalf("unexpected memory %+v", first.MemoryObjects)
	}
	if len(first.ControlFlow) != 2 {
		t.Fatalf("edges without both endpoints should be dropped, got %d", len(first.ControlFlow))
	}
	branch := first.ControlFlow[1]
	if branch.Kind != EdgeBranch || branch.Condition == nil || *branch.Condition {
		t.Fatalf("unexpected branch edge %+v", branch)
	}
	if first.ControlFlow[0].Condition != nil {
		t.Fatalf("sequential edge should have no condition")
	}
	ds := first.DataStructures[0]
	if ds.Kind != StructLinkedList || ds.Operations[0] != "append" {
		t.Fatalf("unexpected snapshot %+v", ds)
	}

	if steps[1].Index != 1 || steps[1].Description != "" {
		t.Fatalf("non-object entry should become a bare step, got %+v", steps[1])
	}
	if _, ok := steps[2].Line(); ok {
		t.Fatalf("step without lineHighlight should have no line")
	}
}

func TestStructureKindLabel(t *testing.T) {
	cases := map[StructureKind]string{
		StructLinkedList: "Linked List",
		StructArray:      "Array",
		StructTree:       "Tree",
		"élan":           "Élan",
		"":               "Unknown",
	}
	for kind, want := range cases {
		if got := kind.Label(); got != want {
			t.Fatalf("%q.Label() = %q, want %q", kind, got, want)
		}
	}
}
