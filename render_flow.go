package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Flow diagram geometry, in pixels, shared by the terminal and PNG back ends.
const (
	flowLineHeight = 35.0
	flowStartX     = 200.0
	flowCurve      = 50.0
	flowCodeChars  = 60
	flowLaneGap    = 3
	// flowRowSlack is how far past the last source line rows may extend to
	// reach an edge endpoint.
	flowRowSlack = 8
)

const (
	colorSequential  = "#757575"
	colorBranchTrue  = "#4caf50"
	colorBranchFalse = "#f44336"
	colorLoop        = "#2196f3"
	colorReturn      = "#ff9800"
	colorCall        = "#9c27b0"
	colorLineNumber  = "#666666"
	colorCurrentLine = "#ffd54f"
	colorCurrentRow  = "#fff9c4"
)

const emptyFlowMessage = "No control flow information available"

// edgeColor picks the stroke colour for an edge. Unknown kinds are drawn
// like sequential flow.
func edgeColor(kind EdgeKind, condition *bool) string {
	switch kind {
	case EdgeBranch:
		if condition != nil && *condition {
			return colorBranchTrue
		}
		return colorBranchFalse
	case EdgeLoop:
		return colorLoop
	case EdgeReturn:
		return colorReturn
	case EdgeCall:
		return colorCall
	default:
		return colorSequential
	}
}

type LegendEntry struct {
	Kind  EdgeKind
	Label string
	Color string
}

var flowLegend = []LegendEntry{
	{EdgeSequential, "Sequential", colorSequential},
	{EdgeBranch, "Branch (True/False)", colorBranchTrue},
	{EdgeLoop, "Loop", colorLoop},
	{EdgeReturn, "Return", colorReturn},
	{EdgeCall, "Function Call", colorCall},
}

// FlowRow is one source line of the diagram.
type FlowRow struct {
	Line    int
	Text    string
	Current bool
	Y       float64
}

// FlowEdge is one routed edge. FromY and ToY are row midpoints; Lane is the
// terminal routing column, shared by edges whose row spans do not overlap.
// A Clipped edge had an endpoint outside the rows; its lines are clamped
// and its label carries the lines it was given.
type FlowEdge struct {
	ControlFlowEdge
	Clipped bool
	Color   string
	Label   string
	FromY   float64
	ToY     float64
	Lane    int
}

// MidY is where the edge label goes.
func (e FlowEdge) MidY() float64 { return (e.FromY + e.ToY) / 2 }

// FlowMarker is an arrowhead definition, one per distinct edge kind.
type FlowMarker struct {
	Kind  EdgeKind
	Color string
}

type FlowDiagram struct {
	Rows    []FlowRow
	Edges   []FlowEdge
	Markers []FlowMarker
	Legend  []LegendEntry
	Lanes   int
}

// Marker returns the arrowhead registered for kind.
func (d FlowDiagram) Marker(kind EdgeKind) (FlowMarker, bool) {
	for _, m := range d.Markers {
		if m.Kind == kind {
			return m, true
		}
	}
	return FlowMarker{}, false
}

// Height is the pixel height of the row area.
func (d FlowDiagram) Height() float64 {
	return float64(len(d.Rows)) * flowLineHeight
}

func rowMidY(line int) float64 {
	return float64(line-1)*flowLineHeight + flowLineHeight/2
}

// LayoutFlow lays out edges against the source. currentLine <= 0 means no
// line is current. It reports false, and does no work, when there are no
// edges. Edges are kept in input order, including exact duplicates.
//
// Rows cover the source and extend to the furthest edge endpoint, but never
// more than flowRowSlack lines past the source. Endpoints outside the rows
// are clamped onto the first or last row and the edge is marked Clipped.
func LayoutFlow(edges []ControlFlowEdge, source []string, currentLine int) (FlowDiagram, bool) {
	if len(edges) == 0 {
		return FlowDiagram{}, false
	}
	rows := len(source)
	for _, e := range edges {
		rows = max(rows, e.FromLine, e.ToLine)
	}
	rows = max(min(rows, len(source)+flowRowSlack), 1)
	d := FlowDiagram{Legend: flowLegend}
	for line := 1; line <= rows; line++ {
		text := ""
		if line-1 < len(source) {
			text = runewidth.Truncate(strings.ReplaceAll(source[line-1], "\t", "    "), flowCodeChars, "")
		}
		d.Rows = append(d.Rows, FlowRow{
			Line:    line,
			Text:    text,
			Current: line == currentLine,
			Y:       rowMidY(line),
		})
	}

	d.Markers = markerSet(edges)

	var laneEnds [][][2]int
	for _, e := range edges {
		label := strings.ToUpper(string(e.Kind))
		clipped := e.FromLine < 1 || e.FromLine > rows || e.ToLine < 1 || e.ToLine > rows
		if clipped {
			label = fmt.Sprintf("%s %d→%d", label, e.FromLine, e.ToLine)
			e.FromLine = min(max(e.FromLine, 1), rows)
			e.ToLine = min(max(e.ToLine, 1), rows)
		}
		lo, hi := min(e.FromLine, e.ToLine), max(e.FromLine, e.ToLine)
		lane := 0
		for ; lane < len(laneEnds); lane++ {
			if !overlaps(laneEnds[lane], lo, hi) {
				break
			}
		}
		if lane == len(laneEnds) {
			laneEnds = append(laneEnds, nil)
		}
		laneEnds[lane] = append(laneEnds[lane], [2]int{lo, hi})
		d.Edges = append(d.Edges, FlowEdge{
			ControlFlowEdge: e,
			Clipped:         clipped,
			Color:           edgeColor(e.Kind, e.Condition),
			Label:           label,
			FromY:           rowMidY(e.FromLine),
			ToY:             rowMidY(e.ToLine),
			Lane:            lane,
		})
	}
	d.Lanes = len(laneEnds)
	return d, true
}

// markerSet builds the arrowhead definitions for one render pass. The
// marker of a kind takes the colour of the first edge of that kind.
func markerSet(edges []ControlFlowEdge) []FlowMarker {
	seen := make(map[EdgeKind]bool, len(EdgeKinds))
	var markers []FlowMarker
	for _, e := range edges {
		if seen[e.Kind] {
			continue
		}
		seen[e.Kind] = true
		markers = append(markers, FlowMarker{Kind: e.Kind, Color: edgeColor(e.Kind, e.Condition)})
	}
	return markers
}

func overlaps(spans [][2]int, lo, hi int) bool {
	for _, s := range spans {
		if lo <= s[1] && s[0] <= hi {
			return true
		}
	}
	return false
}

// renderFlow draws the control-flow view of a step for the terminal.
func renderFlow(edges []ControlFlowEdge, source []string, currentLine int, styled bool) string {
	d, ok := LayoutFlow(edges, source, currentLine)
	if !ok {
		return sectionTitle("Control Flow", styled) + "\n\n" + emptyState(emptyFlowMessage, styled)
	}

	gutter := len(fmt.Sprint(len(d.Rows))) + 1
	codeWidth := 0
	for _, row := range d.Rows {
		codeWidth = max(codeWidth, runewidth.StringWidth(row.Text))
	}
	codeCol := gutter + 1 + codeWidth + 1
	laneX := func(lane int) int { return codeCol + 2 + lane*flowLaneGap }
	labelWidth := len("SEQUENTIAL")
	for _, e := range d.Edges {
		labelWidth = max(labelWidth, runewidth.StringWidth(e.Label))
	}
	width := laneX(d.Lanes) + labelWidth + 1

	g := NewGrid(width, len(d.Rows))
	for i, row := range d.Rows {
		numColor, textColor := colorLineNumber, ""
		if row.Current {
			numColor = colorCurrentLine
			g.Shade(0, width-1, i, colorCurrentRow, true)
			textColor = "#000000"
		}
		g.WriteText(0, i, fmt.Sprintf("%*d", gutter, row.Line), numColor)
		g.WriteText(gutter+1, i, row.Text, textColor)
	}

	for _, e := range d.Edges {
		drawFlowEdge(g, d, e, codeCol, laneX(e.Lane))
	}

	var b strings.Builder
	b.WriteString(sectionTitle("Control Flow", styled))
	b.WriteString("\n\n")
	b.WriteString(g.String(styled))
	b.WriteString("\n\n")
	b.WriteString(renderLegend(d.Legend, styled))
	return b.String()
}

// drawFlowEdge routes an edge out of the code column to its lane and back,
// so the connector bulges to the right of the source.
func drawFlowEdge(g *Grid, d FlowDiagram, e FlowEdge, codeCol, lx int) {
	fromRow, toRow := e.FromLine-1, e.ToLine-1
	marker, _ := d.Marker(e.Kind)
	switch {
	case fromRow == toRow:
		g.HLine(codeCol+1, lx-1, fromRow, e.Color)
		g.Set(lx, fromRow, '↺', e.Color)
	case fromRow < toRow:
		g.HLine(codeCol+1, lx-1, fromRow, e.Color)
		g.Set(lx, fromRow, '╮', e.Color)
		g.VLine(lx, fromRow+1, toRow-1, e.Color)
		g.Set(lx, toRow, '╯', e.Color)
		g.HLine(codeCol+1, lx-1, toRow, e.Color)
	default:
		g.HLine(codeCol+1, lx-1, fromRow, e.Color)
		g.Set(lx, fromRow, '╯', e.Color)
		g.VLine(lx, toRow+1, fromRow-1, e.Color)
		g.Set(lx, toRow, '╮', e.Color)
		g.HLine(codeCol+1, lx-1, toRow, e.Color)
	}
	g.Set(codeCol, toRow, '◀', marker.Color)
	midRow := (fromRow + toRow) / 2
	g.WriteOver(lx+1, midRow, e.Label, e.Color)
}

func renderLegend(entries []LegendEntry, styled bool) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		g := NewGrid(4+runewidth.StringWidth(entry.Label), 1)
		g.HLine(0, 2, 0, entry.Color)
		g.WriteText(4, 0, entry.Label, "")
		lines = append(lines, g.String(styled))
	}
	return strings.Join(lines, "\n")
}
