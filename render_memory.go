package main

import (
	"strings"
)

const (
	emptyMemoryMessage    = "No memory objects allocated"
	emptyVariablesMessage = "No variables defined"
	memoryCardWidth       = 36
	colorMemory           = "#9c27b0"
	colorVariable         = "#2196f3"
)

// renderMemory draws the heap objects and the variable states as two card
// grids. Each grid has its own empty state. Objects that are new or changed
// since previous, matched by address, get an emphasized border.
func renderMemory(objects []MemoryObject, vars Bindings, previous []MemoryObject, width int, styled bool) string {
	var b strings.Builder
	b.WriteString(sectionTitle("Heap / Memory Objects", styled))
	b.WriteString("\n\n")
	if len(objects) == 0 {
		b.WriteString(emptyState(emptyMemoryMessage, styled))
	} else {
		before := objectIndex(previous)
		cards := make([]string, 0, len(objects))
		for _, obj := range objects {
			old, seen := before[obj.Address]
			changed := previous != nil && (!seen || old.Value.String() != obj.Value.String())
			cards = append(cards, renderCard(memoryLines(obj), memoryCardWidth, colorMemory, changed, styled))
		}
		b.WriteString(flowCards(cards, width))
	}

	b.WriteString("\n\n")
	b.WriteString(sectionTitle("Variable States", styled))
	b.WriteString("\n\n")
	if len(vars) == 0 {
		b.WriteString(emptyState(emptyVariablesMessage, styled))
	} else {
		cards := make([]string, 0, len(vars))
		for _, f := range vars {
			cards = append(cards, renderCard(variableLines(f), memoryCardWidth, colorVariable, false, styled))
		}
		b.WriteString(flowCards(cards, width))
	}
	return b.String()
}

func memoryLines(obj MemoryObject) []string {
	lines := []string{obj.Address, obj.Type}
	lines = append(lines, strings.Split(obj.Value.Pretty(), "\n")...)
	if len(obj.References) > 0 {
		lines = append(lines, "References: "+strings.Join(obj.References, ", "))
	}
	return lines
}

func variableLines(f Field) []string {
	lines := []string{f.Name}
	lines = append(lines, strings.Split(f.Value.Pretty(), "\n")...)
	return append(lines, f.Value.Category())
}

// objectIndex keys memory objects by address, for diffing consecutive steps.
func objectIndex(objects []MemoryObject) map[string]MemoryObject {
	index := make(map[string]MemoryObject, len(objects))
	for _, obj := range objects {
		index[obj.Address] = obj
	}
	return index
}
