package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// codePane holds the program being visualized. It only consumes the
// highlighted line; the playback cursor decides which line that is.
type codePane struct {
	code    string
	lang    Language
	editing bool
	area    textarea.Model
	history codeHistory
}

func newCodePane(lang Language, code string) codePane {
	area := textarea.New()
	area.ShowLineNumbers = true
	area.CharLimit = 0
	area.MaxHeight = 0
	area.Prompt = ""
	return codePane{code: code, lang: lang, area: area}
}

func (c codePane) Lines() []string { return splitLines(c.code) }

func (c *codePane) startEdit(width, height int) tea.Cmd {
	c.editing = true
	c.area.SetWidth(max(width, 20))
	c.area.SetHeight(max(height, 3))
	c.area.SetValue(c.code)
	return c.area.Focus()
}

// finishEdit applies the edit buffer and reports whether the code changed.
func (c *codePane) finishEdit() bool {
	c.editing = false
	c.area.Blur()
	return c.replace(c.area.Value())
}

func (c *codePane) cancelEdit() {
	c.editing = false
	c.area.Blur()
}

// replace swaps in new code, keeping the old version for undo.
func (c *codePane) replace(code string) bool {
	if code == c.code {
		return false
	}
	c.history.record(c.code)
	c.code = code
	return true
}

func (c *codePane) undo() bool {
	code, ok := c.history.undo(c.code)
	if ok {
		c.code = code
	}
	return ok
}

func (c *codePane) redo() bool {
	code, ok := c.history.redo(c.code)
	if ok {
		c.code = code
	}
	return ok
}

// setLanguage switches language and loads its template.
func (c *codePane) setLanguage(lang Language) {
	c.lang = lang
	c.replace(lang.Template())
}

func (c codePane) update(msg tea.Msg) (codePane, tea.Cmd) {
	var cmd tea.Cmd
	c.area, cmd = c.area.Update(msg)
	return c, cmd
}

// view draws the code with a line-number gutter. The highlighted line
// (if any) is shaded and kept inside the visible window.
func (c codePane) view(highlight int, width, height int, styled bool) string {
	title := sectionTitle(fmt.Sprintf("Code (%s)", c.lang.Label()), styled)
	if c.editing {
		return title + "\n" + c.area.View()
	}
	lines := c.Lines()
	height = max(height, 1)
	top := 0
	if highlight > 0 && len(lines) > height {
		top = min(max(highlight-1-height/2, 0), len(lines)-height)
	}
	gutter := len(fmt.Sprint(len(lines))) + 1
	g := NewGrid(max(width, gutter+2), min(height, max(len(lines)-top, 1)))
	for row := 0; row < g.Height() && top+row < len(lines); row++ {
		line := top + row + 1
		text := strings.ReplaceAll(lines[line-1], "\t", "    ")
		text = runewidth.Truncate(text, g.Width()-gutter-2, "…")
		marker := " "
		numColor, textColor := colorLineNumber, ""
		if line == highlight {
			marker = "▶"
			numColor, textColor = colorCurrentLine, "#000000"
			g.Shade(0, g.Width()-1, row, colorCurrentRow, true)
		}
		g.WriteText(0, row, fmt.Sprintf("%*d", gutter, line), numColor)
		g.WriteText(gutter, row, marker, colorCurrentLine)
		g.WriteText(gutter+2, row, text, textColor)
	}
	return title + "\n" + g.String(styled)
}
