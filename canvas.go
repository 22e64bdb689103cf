package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cell is one terminal column. A zero rune marks the trailing half of a
// wide rune and is skipped on output.
type cell struct {
	r    rune
	fg   string
	bg   string
	bold bool
}

// Grid is a fixed-size rune canvas with per-cell colours. Diagrams are laid
// out as geometry first and then drawn here for the terminal.
type Grid struct {
	cells  [][]cell
	width  int
	height int
}

func NewGrid(width, height int) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &Grid{cells: cells, width: width, height: height}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) isValidPos(x, y int) bool {
	return y >= 0 && y < g.height && x >= 0 && x < g.width
}

// At returns the rune drawn at (x, y), or a space outside the grid.
func (g *Grid) At(x, y int) rune {
	if !g.isValidPos(x, y) {
		return ' '
	}
	return g.cells[y][x].r
}

// Set draws r at (x, y). Line runes crossing existing line runes join.
func (g *Grid) Set(x, y int, r rune, fg string) {
	if !g.isValidPos(x, y) {
		return
	}
	c := &g.cells[y][x]
	c.r = joinRunes(c.r, r)
	if fg != "" {
		c.fg = fg
	}
}

// WriteText writes s starting at (x, y), clipped at the right edge, and
// returns the number of columns used.
func (g *Grid) WriteText(x, y int, s string, fg string) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if !g.isValidPos(col, y) || !g.isValidPos(col+w-1, y) {
			break
		}
		g.cells[y][col] = cell{r: r, fg: fg, bg: g.cells[y][col].bg, bold: g.cells[y][col].bold}
		for i := 1; i < w; i++ {
			g.cells[y][col+i] = cell{fg: fg, bg: g.cells[y][col+i].bg}
		}
		col += w
	}
	return col - x
}

// WriteOver writes s like WriteText but only into blank cells, so it never
// hides lines already drawn.
func (g *Grid) WriteOver(x, y int, s string, fg string) {
	col := x
	for _, r := range s {
		if !g.isValidPos(col, y) {
			return
		}
		if g.cells[y][col].r == ' ' && runewidth.RuneWidth(r) == 1 {
			g.cells[y][col].r = r
			g.cells[y][col].fg = fg
		}
		col++
	}
}

func (g *Grid) HLine(x1, x2, y int, fg string) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		g.Set(x, y, '─', fg)
	}
}

func (g *Grid) VLine(x, y1, y2 int, fg string) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		g.Set(x, y, '│', fg)
	}
}

// Box draws a bordered box with lines of text inside. Emphasized boxes use
// a heavier border.
func (g *Grid) Box(boxX, boxY, width, height int, lines []string, fg string, emphasized bool) {
	corner, horizontal, vertical := '+', '-', '|'
	if emphasized {
		corner, horizontal, vertical = '#', '#', '#'
	}
	for y := boxY; y < boxY+height; y++ {
		for x := boxX; x < boxX+width; x++ {
			if !g.isValidPos(x, y) {
				continue
			}
			switch {
			case (y == boxY || y == boxY+height-1) && (x == boxX || x == boxX+width-1):
				g.cells[y][x] = cell{r: corner, fg: fg}
			case y == boxY || y == boxY+height-1:
				g.cells[y][x] = cell{r: horizontal, fg: fg}
			case x == boxX || x == boxX+width-1:
				g.cells[y][x] = cell{r: vertical, fg: fg}
			}
		}
	}
	maxWidth := max(width-2, 0)
	for i, line := range lines {
		textY := boxY + 1 + i
		if textY >= boxY+height-1 {
			break
		}
		g.WriteText(boxX+1, textY, runewidth.Truncate(line, maxWidth, ""), fg)
	}
}

// Shade sets the background of columns x1..x2 on row y.
func (g *Grid) Shade(x1, x2, y int, bg string, bold bool) {
	for x := x1; x <= x2; x++ {
		if g.isValidPos(x, y) {
			g.cells[y][x].bg = bg
			g.cells[y][x].bold = bold
		}
	}
}

// Lines returns the rows of the grid. Styled output groups cells with the
// same colours into runs; plain output drops trailing spaces.
func (g *Grid) Lines(styled bool) []string {
	result := make([]string, g.height)
	for y, row := range g.cells {
		var line strings.Builder
		if !styled {
			for _, c := range row {
				if c.r != 0 {
					line.WriteRune(c.r)
				}
			}
			result[y] = strings.TrimRight(line.String(), " ")
			continue
		}
		var run strings.Builder
		current := row[0]
		flush := func() {
			if run.Len() == 0 {
				return
			}
			line.WriteString(styleFor(current).Render(run.String()))
			run.Reset()
		}
		for _, c := range row {
			if c.fg != current.fg || c.bg != current.bg || c.bold != current.bold {
				flush()
				current = c
			}
			if c.r != 0 {
				run.WriteRune(c.r)
			}
		}
		flush()
		result[y] = line.String()
	}
	return result
}

func (g *Grid) String(styled bool) string {
	return strings.Join(g.Lines(styled), "\n")
}

func styleFor(c cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.fg != "" {
		style = style.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		style = style.Background(lipgloss.Color(c.bg))
	}
	if c.bold {
		style = style.Bold(true)
	}
	return style
}

// joinRunes merges crossing box-drawing lines.
func joinRunes(existing, next rune) rune {
	switch {
	case existing == '│' && next == '─', existing == '─' && next == '│':
		return '┼'
	case existing == '┼' && (next == '─' || next == '│'):
		return '┼'
	case strings.ContainsRune("╮╯╭╰↺◀", existing) && (next == '─' || next == '│'):
		return existing
	}
	return next
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// renderCard draws lines inside a box no wider than maxWidth columns.
func renderCard(lines []string, maxWidth int, fg string, emphasized, styled bool) string {
	inner := 0
	for _, line := range lines {
		inner = max(inner, runewidth.StringWidth(line))
	}
	inner = min(inner+2, max(maxWidth-2, 4))
	g := NewGrid(inner+2, len(lines)+2)
	padded := make([]string, len(lines))
	for i, line := range lines {
		padded[i] = " " + runewidth.Truncate(line, inner-2, "…")
	}
	if !styled {
		fg = ""
	}
	g.Box(0, 0, inner+2, len(lines)+2, padded, fg, emphasized)
	return g.String(styled)
}

// flowCards lays cards out left to right, wrapping when a row would exceed
// width.
func flowCards(cards []string, width int) string {
	var rows []string
	var row []string
	used := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if len(row) > 0 && used+1+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		if len(row) > 0 {
			row = append(row, " ")
			used++
		}
		row = append(row, c)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}
