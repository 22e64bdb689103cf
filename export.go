package main

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/sync/errgroup"
)

// Character cell size for text drawn into images.
const (
	charWidth  = 8.0
	charHeight = 16.0
	pngMargin  = 20.0
)

var parseMono = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomono.TTF)
})

// monoFace returns a fresh face; faces cache glyphs and are not safe for
// concurrent use.
func monoFace(size float64) (font.Face, error) {
	f, err := parseMono()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func newPNGContext(width, height int) (*gg.Context, error) {
	face, err := monoFace(12)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(max(width, 1), max(height, 1))
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.SetFontFace(face)
	return dc, nil
}

// stepImage draws one view of steps[index]. The flow and data views are
// drawn as diagrams; the other views as their plain-text rendering.
func stepImage(tab ViewTab, steps Trace, index int, source []string) (image.Image, error) {
	if index < 0 || index >= len(steps) {
		return nil, fmt.Errorf("step %d out of range [0,%d)", index, len(steps))
	}
	step := steps[index]
	switch tab {
	case TabFlow:
		line, _ := step.Line()
		if d, ok := LayoutFlow(step.ControlFlow, source, line); ok {
			return flowImage(d)
		}
	case TabData:
		if view, ok := LayoutData(step.Variables, step.DataStructures, dataDisplayWidth); ok {
			return dataImage(view)
		}
	}
	text := renderTab(tab, steps, index, source, 100, false)
	return textImage(strings.Split(text, "\n"))
}

func exportPNG(path string, tab ViewTab, steps Trace, index int, source []string) error {
	img, err := stepImage(tab, steps, index, source)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

// flowImage draws the diagram: code rows on the left, bezier edges bulging
// right of startX, one arrowhead per marker kind, and the legend.
func flowImage(d FlowDiagram) (image.Image, error) {
	codeRight := 30.0
	for _, row := range d.Rows {
		codeRight = math.Max(codeRight, 30+float64(len([]rune(row.Text)))*7.2)
	}
	startX := math.Max(flowStartX, codeRight+10)
	legendX := startX + flowCurve + 110
	width := int(legendX + 170 + 2*pngMargin)
	height := int(math.Max(d.Height(), float64(len(d.Legend))*20+20) + 2*pngMargin)

	dc, err := newPNGContext(width, height)
	if err != nil {
		return nil, err
	}
	dc.Translate(pngMargin+20, pngMargin)

	for _, row := range d.Rows {
		if row.Current {
			dc.SetHexColor(colorCurrentRow)
			dc.DrawRectangle(25, row.Y-15, float64(width)-25-2*pngMargin, flowLineHeight)
			dc.Fill()
		}
	}
	for _, row := range d.Rows {
		numColor, textColor := colorLineNumber, "#333333"
		if row.Current {
			numColor, textColor = "#b28704", "#000000"
		}
		dc.SetHexColor(numColor)
		dc.DrawString(fmt.Sprint(row.Line), 0, row.Y+4)
		dc.SetHexColor(textColor)
		dc.DrawString(row.Text, 30, row.Y+4)
	}

	markers := make(map[EdgeKind]FlowMarker, len(d.Markers))
	for _, m := range d.Markers {
		markers[m.Kind] = m
	}
	for _, e := range d.Edges {
		dc.SetHexColor(e.Color)
		dc.SetLineWidth(2)
		bulge := 0.0
		if e.FromLine == e.ToLine {
			bulge = 12
		}
		dc.MoveTo(startX, e.FromY)
		dc.CubicTo(startX+flowCurve, e.FromY-bulge, startX+flowCurve, e.ToY+bulge, startX, e.ToY)
		dc.Stroke()
		drawArrowPNG(dc, startX+flowCurve, e.ToY+bulge, startX, e.ToY, markers[e.Kind].Color)

		dc.SetHexColor(e.Color)
		dc.DrawString(e.Label, startX+flowCurve+5, e.MidY())
	}

	for i, entry := range d.Legend {
		y := 10 + float64(i)*20
		dc.SetHexColor(entry.Color)
		dc.SetLineWidth(2)
		dc.DrawLine(legendX, y, legendX+20, y)
		dc.Stroke()
		dc.SetHexColor("#333333")
		dc.DrawString(entry.Label, legendX+25, y+4)
	}
	return dc.Image(), nil
}

// drawArrowPNG fills an arrowhead at (toX, toY) pointing away from
// (fromX, fromY).
func drawArrowPNG(dc *gg.Context, fromX, fromY, toX, toY float64, hex string) {
	dx := toX - fromX
	dy := toY - fromY
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	arrowSize := 8.0
	arrowAngle := 0.5

	baseX1 := toX - arrowSize*dx + arrowSize*dy*arrowAngle
	baseY1 := toY - arrowSize*dy - arrowSize*dx*arrowAngle
	baseX2 := toX - arrowSize*dx - arrowSize*dy*arrowAngle
	baseY2 := toY - arrowSize*dy + arrowSize*dx*arrowAngle

	dc.SetHexColor(hex)
	dc.MoveTo(toX, toY)
	dc.LineTo(baseX1, baseY1)
	dc.LineTo(baseX2, baseY2)
	dc.ClosePath()
	dc.Fill()
}

const (
	sectionGap  = 30.0
	chipHeight  = 24.0
	titleHeight = 24.0
)

// dataImage stacks the magnitude series and the snapshots vertically.
func dataImage(view DataView) (image.Image, error) {
	width := dataDisplayWidth
	height := 0.0
	for range view.Series {
		height += titleHeight + barMaxHeight + charHeight + sectionGap
	}
	for _, sv := range view.Snapshots {
		height += titleHeight + snapshotHeight(sv) + sectionGap
		if sv.List != nil {
			width = math.Max(width, sv.List.Width())
		}
		if len(sv.Snapshot.Operations) > 0 {
			height += charHeight
		}
	}
	dc, err := newPNGContext(int(width+2*pngMargin), int(height+2*pngMargin))
	if err != nil {
		return nil, err
	}
	dc.Translate(pngMargin, pngMargin)

	y := 0.0
	for _, series := range view.Series {
		dc.SetHexColor("#333333")
		dc.DrawString(series.Name+":", 0, y+14)
		y += titleHeight
		base := y + barMaxHeight
		for _, bar := range series.Bars {
			fill := colorNode
			if !bar.Numeric {
				fill = colorBarDefault
			}
			dc.SetHexColor(fill)
			dc.DrawRectangle(bar.X, base-bar.Height, math.Max(bar.Width-2, 1), bar.Height)
			dc.Fill()
			dc.SetHexColor("#333333")
			dc.DrawStringAnchored(bar.Value.String(), bar.X+bar.Width/2, base+12, 0.5, 0)
		}
		y = base + charHeight + sectionGap
	}

	for _, sv := range view.Snapshots {
		dc.SetHexColor("#333333")
		dc.DrawString(sv.Snapshot.Kind.Label(), 0, y+14)
		y += titleHeight
		switch {
		case sv.List != nil:
			drawListPNG(dc, *sv.List, y, view.ListMarker)
		case sv.Snapshot.Kind == StructArray:
			drawChipsPNG(dc, sv.Chips, y, width)
		default:
			dc.SetHexColor("#666666")
			dc.DrawString(fmt.Sprintf("Kind: %s (no specialized layout)", sv.Snapshot.Kind), 0, y+14)
		}
		y += snapshotHeight(sv)
		if ops := sv.Snapshot.Operations; len(ops) > 0 {
			dc.SetHexColor("#333333")
			dc.DrawString("Operations: "+strings.Join(ops, ", "), 0, y+12)
			y += charHeight
		}
		y += sectionGap
	}
	return dc.Image(), nil
}

func snapshotHeight(sv SnapshotView) float64 {
	switch {
	case sv.List != nil:
		return listHeight
	case sv.Specialized():
		return chipHeight + 8
	default:
		return charHeight + 8
	}
}

// drawListPNG draws nodes and connectors. The single shared arrowhead is
// used for every connector.
func drawListPNG(dc *gg.Context, d ListDiagram, top float64, marker bool) {
	for _, n := range d.Nodes {
		y := top + n.Y
		dc.DrawRoundedRectangle(n.X, y-listNodeHeight/2, listNodeWidth, listNodeHeight, 5)
		dc.SetHexColor(colorNode)
		dc.FillPreserve()
		dc.SetHexColor(colorConnector)
		dc.SetLineWidth(2)
		dc.Stroke()
		dc.SetHexColor("#ffffff")
		dc.DrawStringAnchored(n.Label, n.X+listNodeWidth/2, y, 0.5, 0.35)
	}
	for _, c := range d.Connectors {
		y := top + c.Y
		dc.SetHexColor(colorConnector)
		dc.SetLineWidth(2)
		dc.DrawLine(c.X1, y, c.X2, y)
		dc.Stroke()
		if marker {
			drawArrowPNG(dc, c.X1, y, c.X2, y, colorConnector)
		}
	}
}

func drawChipsPNG(dc *gg.Context, chips []string, top, width float64) {
	x := 0.0
	for _, chip := range chips {
		w, _ := dc.MeasureString(chip)
		w += 16
		if x > 0 && x+w > width {
			break
		}
		dc.DrawRoundedRectangle(x, top, w, chipHeight, 4)
		dc.SetHexColor(colorNode)
		dc.Fill()
		dc.SetHexColor("#ffffff")
		dc.DrawStringAnchored(chip, x+w/2, top+chipHeight/2, 0.5, 0.35)
		x += w + 6
	}
}

// textImage draws plain text lines on a character grid.
func textImage(lines []string) (image.Image, error) {
	cols := 1
	for _, line := range lines {
		cols = max(cols, len([]rune(line)))
	}
	dc, err := newPNGContext(int(float64(cols)*charWidth+2*pngMargin), int(float64(len(lines))*charHeight+2*pngMargin))
	if err != nil {
		return nil, err
	}
	dc.SetHexColor("#000000")
	for i, line := range lines {
		dc.DrawString(line, pngMargin, pngMargin+float64(i+1)*charHeight-4)
	}
	return dc.Image(), nil
}

// exportText writes the plain-text rendering of one view.
func exportText(path string, tab ViewTab, steps Trace, index int, source []string, width int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, renderTab(tab, steps, index, source, width, false)); err != nil {
		return err
	}
	return file.Close()
}

// flowCFG maps the control-flow edges of a step onto a CFG with one block
// per referenced source line.
func flowCFG(name string, edges []ControlFlowEdge) *lattice.CFGGraph {
	blocks := make(map[int]*lattice.BasicBlock)
	block := func(line int) *lattice.BasicBlock {
		b, ok := blocks[line]
		if !ok {
			b = &lattice.BasicBlock{ID: line, Start: line, End: line + 1}
			blocks[line] = b
		}
		return b
	}
	for _, e := range edges {
		from := block(e.FromLine)
		block(e.ToLine)
		switch e.Kind {
		case EdgeCall:
			from.Calls = append(from.Calls, lattice.CallSite{
				Offset: e.FromLine,
				Callee: fmt.Sprintf("line %d", e.ToLine),
			})
			continue
		case EdgeReturn:
			from.Term = true
		}
		succ := lattice.Successor{BlockID: e.ToLine}
		if e.Kind == EdgeBranch && e.Condition != nil {
			succ.Cond = "F"
			if *e.Condition {
				succ.Cond = "T"
			}
		}
		from.Succs = append(from.Succs, succ)
	}

	lines := make([]int, 0, len(blocks))
	for line := range blocks {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	fn := &lattice.FuncCFG{Name: name}
	for _, line := range lines {
		fn.Blocks = append(fn.Blocks, blocks[line])
	}
	return &lattice.CFGGraph{Funcs: []*lattice.FuncCFG{fn}}
}

func exportDOT(path, name string, step Step) error {
	if len(step.ControlFlow) == 0 {
		return fmt.Errorf("step %d has no control flow edges", step.Index)
	}
	dot := render.DOTCFG(flowCFG(name, step.ControlFlow), name)
	if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("write dot %s: %w", path, err)
	}
	return nil
}

// exportFrames writes one PNG per step into dir, at most jobs at a time.
func exportFrames(ctx context.Context, dir string, tab ViewTab, rec Recording, jobs int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	source := rec.Source()
	paths := make([]string, len(rec.Steps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(rec.Steps))))
	for i := range rec.Steps {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			path := filepath.Join(dir, fmt.Sprintf("step-%04d-%s.png", i+1, tab.Name()))
			if err := exportPNG(path, tab, rec.Steps, i, source); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
