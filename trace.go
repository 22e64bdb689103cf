package main

import (
	"unicode"
	"unicode/utf8"
)

// EdgeKind classifies a control-flow edge.
type EdgeKind string

const (
	EdgeSequential EdgeKind = "sequential"
	EdgeBranch     EdgeKind = "branch"
	EdgeLoop       EdgeKind = "loop"
	EdgeReturn     EdgeKind = "return"
	EdgeCall       EdgeKind = "call"
)

// EdgeKinds lists the known kinds in legend order.
var EdgeKinds = []EdgeKind{EdgeSequential, EdgeBranch, EdgeLoop, EdgeReturn, EdgeCall}

// StructureKind classifies a data-structure snapshot.
type StructureKind string

const (
	StructArray      StructureKind = "array"
	StructLinkedList StructureKind = "linkedList"
	StructTree       StructureKind = "tree"
	StructGraph      StructureKind = "graph"
	StructStack      StructureKind = "stack"
	StructQueue      StructureKind = "queue"
)

// Trace is the ordered, read-only sequence of steps of one run.
type Trace []Step

// Step is one point-in-time snapshot of the traced program.
type Step struct {
	Index          int                     `msgpack:"index"`
	Description    string                  `msgpack:"description"`
	LineHighlight  *int                    `msgpack:"line,omitempty"`
	Output         string                  `msgpack:"output,omitempty"`
	Variables      Bindings                `msgpack:"variables,omitempty"`
	StackFrames    []StackFrame            `msgpack:"stack,omitempty"`
	MemoryObjects  []MemoryObject          `msgpack:"memory,omitempty"`
	ControlFlow    []ControlFlowEdge       `msgpack:"flow,omitempty"`
	DataStructures []DataStructureSnapshot `msgpack:"data,omitempty"`
	Timestamp      int64                   `msgpack:"ts,omitempty"`
}

type StackFrame struct {
	FunctionName   string   `msgpack:"fn"`
	Parameters     Bindings `msgpack:"params,omitempty"`
	LocalVariables Bindings `msgpack:"locals,omitempty"`
	ReturnValue    *Value   `msgpack:"ret,omitempty"`
	LineNumber     int      `msgpack:"line"`
}

type MemoryObject struct {
	Address    string   `msgpack:"addr"`
	Type       string   `msgpack:"type"`
	Value      Value    `msgpack:"value"`
	References []string `msgpack:"refs,omitempty"`
}

type ControlFlowEdge struct {
	FromLine  int      `msgpack:"from"`
	ToLine    int      `msgpack:"to"`
	Kind      EdgeKind `msgpack:"kind"`
	Condition *bool    `msgpack:"cond,omitempty"`
}

type DataStructureSnapshot struct {
	Kind       StructureKind `msgpack:"kind"`
	Data       Value         `msgpack:"data"`
	Operations []string      `msgpack:"ops,omitempty"`
}

// Line returns the highlighted source line, if any.
func (s Step) Line() (int, bool) {
	if s.LineHighlight == nil {
		return 0, false
	}
	return *s.LineHighlight, true
}

// decodeTrace builds steps from decoded values. Entries that are not objects
// become steps with only an index, so step numbering stays aligned.
func decodeTrace(values []Value) Trace {
	steps := make(Trace, 0, len(values))
	for i, v := range values {
		steps = append(steps, decodeStep(i, v))
	}
	return steps
}

func decodeStep(pos int, v Value) Step {
	step := Step{Index: pos}
	if n, ok := intField(v, "index", "stepNumber"); ok {
		step.Index = n
	}
	if d, ok := v.Get("description"); ok {
		step.Description = d.textOr("")
	}
	if n, ok := intField(v, "lineHighlight"); ok {
		step.LineHighlight = &n
	}
	if out, ok := v.Get("output"); ok {
		step.Output = out.textOr("")
	}
	if vars, ok := v.Get("variableStates"); ok {
		step.Variables = bindingsOf(vars)
	}
	if ts, ok := v.Get("timestamp"); ok {
		if n, ok := ts.Int(); ok {
			step.Timestamp = int64(n)
		}
	}
	for _, item := range listField(v, "stackFrames") {
		step.StackFrames = append(step.StackFrames, decodeFrame(item))
	}
	for _, item := range listField(v, "memoryObjects") {
		step.MemoryObjects = append(step.MemoryObjects, decodeMemoryObject(item))
	}
	for _, item := range listField(v, "controlFlowEdges", "controlFlow") {
		if edge, ok := decodeEdge(item); ok {
			step.ControlFlow = append(step.ControlFlow, edge)
		}
	}
	for _, item := range listField(v, "dataStructures") {
		if ds, ok := decodeSnapshot(item); ok {
			step.DataStructures = append(step.DataStructures, ds)
		}
	}
	return step
}

func decodeFrame(v Value) StackFrame {
	frame := StackFrame{}
	if name, ok := v.Get("functionName"); ok {
		frame.FunctionName = name.textOr("")
	}
	if params, ok := v.Get("parameters"); ok {
		frame.Parameters = bindingsOf(params)
	}
	if locals, ok := v.Get("localVariables"); ok {
		frame.LocalVariables = bindingsOf(locals)
	}
	if ret, ok := v.Get("returnValue"); ok && ret.Kind != KindNull {
		r := ret
		frame.ReturnValue = &r
	}
	if n, ok := intField(v, "lineNumber"); ok {
		frame.LineNumber = n
	}
	return frame
}

func decodeMemoryObject(v Value) MemoryObject {
	obj := MemoryObject{Value: Null()}
	if addr, ok := v.Get("address"); ok {
		obj.Address = addr.textOr("")
	}
	if typ, ok := v.Get("type"); ok {
		obj.Type = typ.textOr("")
	}
	if val, ok := v.Get("value"); ok {
		obj.Value = val
	}
	for _, ref := range listField(v, "references") {
		obj.References = append(obj.References, ref.textOr(""))
	}
	return obj
}

// decodeEdge drops edges without both endpoints; there is nothing to draw.
func decodeEdge(v Value) (ControlFlowEdge, bool) {
	from, okFrom := intField(v, "fromLine")
	to, okTo := intField(v, "toLine")
	if !okFrom || !okTo {
		return ControlFlowEdge{}, false
	}
	edge := ControlFlowEdge{FromLine: from, ToLine: to, Kind: EdgeSequential}
	if kind, ok := v.Lookup("kind", "type"); ok && kind.Kind == KindText && kind.Text != "" {
		edge.Kind = EdgeKind(kind.Text)
	}
	if cond, ok := v.Get("condition"); ok && cond.Kind == KindBool {
		c := cond.Bool
		edge.Condition = &c
	}
	return edge, true
}

func decodeSnapshot(v Value) (DataStructureSnapshot, bool) {
	kind, ok := v.Lookup("kind", "type")
	if !ok || kind.Kind != KindText || kind.Text == "" {
		return DataStructureSnapshot{}, false
	}
	ds := DataStructureSnapshot{Kind: StructureKind(kind.Text), Data: Null()}
	if data, ok := v.Get("data"); ok {
		ds.Data = data
	}
	for _, op := range listField(v, "operations") {
		ds.Operations = append(ds.Operations, op.textOr(""))
	}
	return ds, true
}

func intField(v Value, names ...string) (int, bool) {
	got, ok := v.Lookup(names...)
	if !ok {
		return 0, false
	}
	return got.Int()
}

func listField(v Value, names ...string) []Value {
	got, ok := v.Lookup(names...)
	if !ok || got.Kind != KindList {
		return nil
	}
	return got.Items
}

func bindingsOf(v Value) Bindings {
	if v.Kind != KindMap {
		return nil
	}
	return Bindings(v.Fields)
}

// Label returns the display name of a structure kind.
func (k StructureKind) Label() string {
	switch k {
	case StructLinkedList:
		return "Linked List"
	case "":
		return "Unknown"
	}
	r, size := utf8.DecodeRuneInString(string(k))
	return string(unicode.ToUpper(r)) + string(k)[size:]
}
