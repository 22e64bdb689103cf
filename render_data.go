package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Data view geometry, in pixels.
const (
	barUnit          = 20.0
	barMaxHeight     = 200.0
	barDefaultHeight = 40.0
	dataDisplayWidth = 400.0

	listNodeWidth  = 80.0
	listNodeHeight = 60.0
	listSpacing    = 120.0
	listMargin     = 50.0
	listHeight     = 150.0
)

const (
	emptyDataMessage = "No data structures to visualize"
	colorNode        = "#4a90e2"
	colorConnector   = "#333333"
	colorBarDefault  = "#9e9e9e"
)

// MagnitudeBar is one element of a sequence variable drawn as a bar.
type MagnitudeBar struct {
	Value   Value
	Numeric bool
	X       float64
	Width   float64
	Height  float64
}

// MagnitudeSeries holds the bars of one sequence variable.
type MagnitudeSeries struct {
	Name string
	Bars []MagnitudeBar
}

// barHeight is proportional to |v| for numbers, capped; anything else gets
// the default height.
func barHeight(v Value) (float64, bool) {
	n, ok := v.Number()
	if !ok {
		return barDefaultHeight, false
	}
	return math.Min(math.Abs(n)*barUnit, barMaxHeight), true
}

// LayoutMagnitudes builds one series per variable whose value is a list.
// Bars of a series share displayWidth evenly.
func LayoutMagnitudes(vars Bindings, displayWidth float64) []MagnitudeSeries {
	var series []MagnitudeSeries
	for _, f := range vars {
		if f.Value.Kind != KindList {
			continue
		}
		s := MagnitudeSeries{Name: f.Name}
		items := f.Value.Items
		if len(items) > 0 {
			w := displayWidth / float64(len(items))
			for i, item := range items {
				h, numeric := barHeight(item)
				s.Bars = append(s.Bars, MagnitudeBar{
					Value:   item,
					Numeric: numeric,
					X:       float64(i) * w,
					Width:   w,
					Height:  h,
				})
			}
		}
		series = append(series, s)
	}
	return series
}

type ListNode struct {
	Label string
	X     float64
	Y     float64
}

// ListConnector links node From to node To = From+1.
type ListConnector struct {
	From, To int
	X1, X2   float64
	Y        float64
}

type ListDiagram struct {
	Nodes      []ListNode
	Connectors []ListConnector
}

// Width is the pixel extent of the diagram.
func (d ListDiagram) Width() float64 {
	if len(d.Nodes) == 0 {
		return 0
	}
	return d.Nodes[len(d.Nodes)-1].X + listNodeWidth + listMargin
}

// LayoutList lays out linked-list nodes left to right. Links follow
// sequence order; the last node has no outgoing connector.
func LayoutList(data Value) ListDiagram {
	var d ListDiagram
	if data.Kind != KindList {
		return d
	}
	y := listHeight / 2
	for i, node := range data.Items {
		x := float64(i)*listSpacing + listMargin
		d.Nodes = append(d.Nodes, ListNode{Label: nodeLabel(node), X: x, Y: y})
		if i < len(data.Items)-1 {
			d.Connectors = append(d.Connectors, ListConnector{
				From: i,
				To:   i + 1,
				X1:   x + listNodeWidth,
				X2:   x + listSpacing - 10,
				Y:    y,
			})
		}
	}
	return d
}

// nodeLabel shows a record's value field, or the node itself.
func nodeLabel(node Value) string {
	if v, ok := node.Get("value"); ok && v.Kind != KindNull {
		return v.String()
	}
	return node.String()
}

// SnapshotView is the layout of one data-structure snapshot. List is set
// for linked lists and Chips for arrays; other kinds have neither.
type SnapshotView struct {
	Snapshot DataStructureSnapshot
	List     *ListDiagram
	Chips    []string
}

// Specialized reports whether the kind has a dedicated layout.
func (v SnapshotView) Specialized() bool {
	return v.List != nil || v.Snapshot.Kind == StructArray
}

type DataView struct {
	Series    []MagnitudeSeries
	Snapshots []SnapshotView
	// ListMarker is true when any list connector needs the shared arrowhead.
	ListMarker bool
}

// LayoutData evaluates both modes for a step. It reports false when there
// is nothing to show in either.
func LayoutData(vars Bindings, snapshots []DataStructureSnapshot, displayWidth float64) (DataView, bool) {
	view := DataView{Series: LayoutMagnitudes(vars, displayWidth)}
	for _, ds := range snapshots {
		sv := SnapshotView{Snapshot: ds}
		switch ds.Kind {
		case StructLinkedList:
			d := LayoutList(ds.Data)
			sv.List = &d
			if len(d.Connectors) > 0 {
				view.ListMarker = true
			}
		case StructArray:
			if ds.Data.Kind == KindList {
				for _, item := range ds.Data.Items {
					sv.Chips = append(sv.Chips, item.String())
				}
			}
		}
		view.Snapshots = append(view.Snapshots, sv)
	}
	if len(view.Series) == 0 && len(view.Snapshots) == 0 {
		return view, false
	}
	return view, true
}

// renderData draws the data-structure view for the terminal.
func renderData(vars Bindings, snapshots []DataStructureSnapshot, width int, styled bool) string {
	var b strings.Builder
	b.WriteString(sectionTitle("Data Structures", styled))
	b.WriteString("\n\n")
	view, ok := LayoutData(vars, snapshots, dataDisplayWidth)
	if !ok {
		b.WriteString(emptyState(emptyDataMessage, styled))
		return b.String()
	}
	var sections []string
	if len(view.Series) > 0 {
		var s strings.Builder
		s.WriteString(paint(labelStyle, "Arrays", styled))
		for _, series := range view.Series {
			s.WriteString("\n")
			s.WriteString(series.Name + ":")
			s.WriteString("\n")
			s.WriteString(renderBars(series, min(width, 80), styled))
		}
		sections = append(sections, s.String())
	}
	for _, sv := range view.Snapshots {
		sections = append(sections, renderSnapshot(sv, width, styled))
	}
	b.WriteString(strings.Join(sections, "\n\n"))
	return b.String()
}

// renderBars scales the pixel geometry to terminal cells: one row per
// barUnit of height and columns in proportion to bar width.
func renderBars(series MagnitudeSeries, cols int, styled bool) string {
	if len(series.Bars) == 0 {
		return emptyState("(empty)", styled)
	}
	scale := float64(cols) / dataDisplayWidth
	heights := make([]int, len(series.Bars))
	rows := 1
	for i, bar := range series.Bars {
		h := int(math.Round(bar.Height / barUnit))
		if bar.Height > 0 && h == 0 {
			h = 1
		}
		heights[i] = h
		rows = max(rows, h)
	}
	g := NewGrid(cols, rows+1)
	for i, bar := range series.Bars {
		x0 := int(math.Round(bar.X * scale))
		w := max(int(bar.Width*scale)-1, 1)
		fg := colorNode
		if !bar.Numeric {
			fg = colorBarDefault
		}
		for y := rows - heights[i]; y < rows; y++ {
			for x := x0; x < x0+w; x++ {
				g.Set(x, y, '█', fg)
			}
		}
		g.WriteText(x0, rows, runewidth.Truncate(bar.Value.String(), w, ""), "")
	}
	return g.String(styled)
}

func renderSnapshot(sv SnapshotView, width int, styled bool) string {
	ds := sv.Snapshot
	var b strings.Builder
	title := ds.Kind.Label()
	b.WriteString(paint(labelStyle, title, styled))
	b.WriteString("\n")
	switch {
	case sv.List != nil:
		b.WriteString(renderList(*sv.List, styled))
	case ds.Kind == StructArray:
		chips := make([]string, 0, len(sv.Chips))
		for _, c := range sv.Chips {
			if styled {
				chips = append(chips, chipStyle.Render(c))
			} else {
				chips = append(chips, "[ "+c+" ]")
			}
		}
		if len(chips) == 0 {
			b.WriteString(emptyState("(empty)", styled))
		} else {
			b.WriteString(flowCards(chips, width))
		}
	default:
		b.WriteString(fmt.Sprintf("Kind: %s\n", ds.Kind))
		if ds.Data.Kind != KindNull {
			b.WriteString("Data: " + runewidth.Truncate(ds.Data.String(), max(width-6, 10), "…") + "\n")
		}
		b.WriteString(emptyState("(no specialized layout)", styled))
	}
	if len(ds.Operations) > 0 {
		b.WriteString("\n")
		b.WriteString(paint(labelStyle, "Operations:", styled))
		b.WriteString(" " + strings.Join(ds.Operations, ", "))
	}
	return b.String()
}

// renderList draws list nodes as boxes joined by arrows.
func renderList(d ListDiagram, styled bool) string {
	if len(d.Nodes) == 0 {
		return emptyState("(empty)", styled)
	}
	const gap = 4
	widths := make([]int, len(d.Nodes))
	total := 0
	for i, n := range d.Nodes {
		widths[i] = min(max(runewidth.StringWidth(n.Label)+4, 7), 18)
		total += widths[i] + gap
	}
	g := NewGrid(total, 3)
	x := 0
	starts := make([]int, len(d.Nodes))
	for i, n := range d.Nodes {
		starts[i] = x
		label := runewidth.Truncate(n.Label, widths[i]-4, "…")
		pad := (widths[i] - 2 - runewidth.StringWidth(label)) / 2
		g.Box(x, 0, widths[i], 3, []string{strings.Repeat(" ", pad) + label}, colorNode, false)
		x += widths[i] + gap
	}
	for _, c := range d.Connectors {
		from := starts[c.From] + widths[c.From]
		to := starts[c.To] - 1
		g.HLine(from, to-1, 1, colorConnector)
		g.Set(to, 1, '▶', colorConnector)
	}
	return g.String(styled)
}
