package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initialModel(config *Config, backend runner, lang Language, code string) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCurrentLine))

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 256

	if code == "" {
		code = lang.Template()
	}
	return model{
		config:    config,
		backend:   backend,
		code:      newCodePane(lang, code),
		playback:  NewPlayback(config.AutoplayInterval),
		tab:       config.StartTab,
		spinner:   sp,
		viewport:  viewport.New(defaultColumns, 20),
		helpModel: help.New(),
		fileInput: input,
	}
}

func (m model) Init() tea.Cmd {
	return m.initCmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncViewport()
	return m, cmd
}

func (m *model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpModel.Width = msg.Width
		if m.code.editing {
			w, h := m.codePaneSize()
			m.code.area.SetWidth(w)
			m.code.area.SetHeight(h)
		}
		return nil

	case autoplayTickMsg:
		return m.playback.Tick(msg.gen)

	case traceResultMsg:
		m.applyResult(msg)
		if msg.seq == m.requestSeq && !m.playback.Empty() {
			m.viewport.GotoTop()
		}
		return nil

	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		switch m.mode {
		case ModeEditing:
			return m.updateEditing(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateNormal(msg)
	}

	if m.mode == ModeEditing {
		var cmd tea.Cmd
		m.code, cmd = m.code.update(msg)
		return cmd
	}
	return nil
}

func (m *model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	if m.help {
		if key.Matches(msg, keys.Help, keys.Quit) || msg.String() == "esc" {
			m.help = false
		}
		return nil
	}
	m.errorMessage, m.successMessage = "", ""

	if cmd, ok := m.handlePlaybackKey(msg); ok {
		return cmd
	}
	if m.handleViewKey(msg) {
		return nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if m.loading {
			m.confirmAction = ConfirmQuit
			m.mode = ModeConfirm
			return nil
		}
		return m.quit()
	case key.Matches(msg, keys.Help):
		m.help = true
	case key.Matches(msg, keys.Visualize):
		return m.startRun(OpVisualize)
	case key.Matches(msg, keys.Execute):
		return m.startRun(OpExecute)
	case key.Matches(msg, keys.Edit):
		m.mode = ModeEditing
		w, h := m.codePaneSize()
		return m.code.startEdit(w, h)
	case key.Matches(msg, keys.Paste):
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = fmt.Sprintf("Clipboard: %v", err)
			return nil
		}
		if m.replaceCode(cleanPastedCode(text)) {
			m.successMessage = "Pasted code"
		}
	case key.Matches(msg, keys.Undo):
		if m.code.undo() {
			m.discardTrace()
		}
	case key.Matches(msg, keys.Redo):
		if m.code.redo() {
			m.discardTrace()
		}
	case key.Matches(msg, keys.Language):
		m.changeLanguage(nextLanguage(m.code.lang))
	case key.Matches(msg, keys.CopyOut):
		if m.output.Output == "" {
			m.errorMessage = "No output to copy"
			return nil
		}
		if err := writeClipboardText(m.output.Output); err != nil {
			m.errorMessage = fmt.Sprintf("Clipboard: %v", err)
			return nil
		}
		m.successMessage = "Copied output"
	case key.Matches(msg, keys.Save):
		return m.promptFile(FileOpSaveRecording)
	case key.Matches(msg, keys.ExportPNG):
		return m.promptFile(FileOpExportPNG)
	case key.Matches(msg, keys.ExportTXT):
		return m.promptFile(FileOpExportTXT)
	case key.Matches(msg, keys.ExportDOT):
		return m.promptFile(FileOpExportDOT)
	}
	return nil
}

func (m *model) quit() tea.Cmd {
	m.playback.Close()
	return tea.Quit
}

func (m *model) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, editKeys.Done):
		m.mode = ModeNormal
		if m.code.finishEdit() {
			m.discardTrace()
		}
		return nil
	case key.Matches(msg, editKeys.Cancel):
		m.mode = ModeNormal
		m.code.cancelEdit()
		return nil
	}
	var cmd tea.Cmd
	m.code, cmd = m.code.update(msg)
	return cmd
}

// promptFile asks for a destination path for op.
func (m *model) promptFile(op FileOperation) tea.Cmd {
	if m.playback.Empty() {
		m.errorMessage = "Nothing to save yet, visualize first"
		return nil
	}
	m.fileOp = op
	m.mode = ModeFileInput
	m.fileInput.SetValue(m.defaultFileName(op))
	m.fileInput.CursorEnd()
	return m.fileInput.Focus()
}

func (m model) defaultFileName(op FileOperation) string {
	now := time.Now()
	step := m.playback.Index() + 1
	switch op {
	case FileOpExportPNG:
		return fmt.Sprintf("%s-step%d.png", m.tab.Name(), step)
	case FileOpExportTXT:
		return fmt.Sprintf("%s-step%d.txt", m.tab.Name(), step)
	case FileOpExportDOT:
		return fmt.Sprintf("flow-step%d.dot", step)
	default:
		return recordingName(m.code.lang, now)
	}
}

func (m *model) updateFileInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.fileInput.Blur()
		return nil
	case "enter":
		name := strings.TrimSpace(m.fileInput.Value())
		m.fileInput.Blur()
		m.mode = ModeNormal
		if name == "" {
			m.errorMessage = "No file name given"
			return nil
		}
		path := m.config.GetSavePath(expandTilde(name))
		if _, err := os.Stat(path); err == nil {
			m.pendingPath = path
			m.confirmAction = ConfirmOverwriteFile
			m.mode = ModeConfirm
			return nil
		}
		m.writeFile(path)
		return nil
	}
	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return cmd
}

func (m *model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmOverwriteFile:
			m.writeFile(m.pendingPath)
			m.pendingPath = ""
		case ConfirmQuit:
			return m.quit()
		}
	case "n", "esc":
		m.mode = ModeNormal
		m.pendingPath = ""
	}
	return nil
}

// writeFile performs the pending file operation against path.
func (m *model) writeFile(path string) {
	steps, index := m.playback.Steps(), m.playback.Index()
	source := m.code.Lines()
	var err error
	switch m.fileOp {
	case FileOpSaveRecording:
		rec := m.lastRun
		if rec == nil {
			r := newRecording(m.code.lang, m.code.code, Response{Output: m.output.Output, Steps: steps})
			rec = &r
		}
		err = saveRecording(path, *rec)
	case FileOpExportPNG:
		err = exportPNG(path, m.tab, steps, index, source)
	case FileOpExportTXT:
		err = exportText(path, m.tab, steps, index, source, m.vizWidth())
	case FileOpExportDOT:
		step, _ := m.playback.Current()
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		err = exportDOT(path, name, step)
	}
	if err != nil {
		log.Printf("%s %s: %v", m.fileOp, path, err)
		m.errorMessage = fmt.Sprintf("%s failed: %v", m.fileOp, err)
		return
	}
	m.successMessage = fmt.Sprintf("%s: %s", m.fileOp, path)
}

func (m model) codePaneSize() (int, int) {
	w, top := m.layout()
	return w, top - 1
}

// layout returns the code pane width and the height above the output panel.
func (m model) layout() (codeWidth, top int) {
	width := max(m.width, minPaneWidth*2)
	codeWidth = max(int(float64(width)*codePaneRatio), minPaneWidth)
	top = max(m.height-outputHeight-2, 6)
	return codeWidth, top
}

func (m model) vizWidth() int {
	codeWidth, _ := m.layout()
	return max(max(m.width, minPaneWidth*2)-codeWidth-3, minPaneWidth)
}

// syncViewport renders the active view into the scrollable viewport.
func (m *model) syncViewport() {
	_, top := m.layout()
	m.viewport.Width = m.vizWidth()
	m.viewport.Height = max(top-2, 1)
	m.viewport.SetContent(renderView(viewRequest{
		Tab:      m.tab,
		Loading:  m.loading,
		Spinner:  m.spinner.View(),
		Playback: m.playback,
		Source:   m.code.Lines(),
		Width:    m.viewport.Width,
		Styled:   true,
	}))
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	codeWidth, top := m.layout()

	highlight, _ := m.playback.HighlightedLine()
	left := lipgloss.NewStyle().Width(codeWidth).MaxHeight(top).
		Render(m.code.view(highlight, codeWidth, top-1, true))
	right := lipgloss.JoinVertical(lipgloss.Left,
		renderTabs(m.tab, true),
		stepStatus(m.playback, m.vizWidth(), true),
		m.viewport.View(),
	)
	divider := subtleStyle.Render(strings.TrimRight(strings.Repeat("│\n", top), "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", divider, " ", right)

	out := lipgloss.NewStyle().MaxHeight(outputHeight + 1).Render(m.output.render(m.spinner.View(), true))

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(out)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeFileInput:
		return fmt.Sprintf("Mode: FILE | %s to: %s", m.fileOp, m.fileInput.View())
	case ModeConfirm:
		message := "Are you sure? (y/n)"
		switch m.confirmAction {
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingPath)
		case ConfirmQuit:
			message = "A request is still running. Quit anyway? (y/n)"
		}
		return "Mode: CONFIRM | " + message
	case ModeEditing:
		return "Mode: EDIT | " + m.helpModel.ShortHelpView(editKeys.ShortHelp())
	}

	status := fmt.Sprintf("Mode: %s | %s", m.modeString(), m.code.lang.Label())
	if m.replaying {
		status += " | replay"
	}
	if m.successMessage != "" {
		status += " | " + successStyle.Render(m.successMessage)
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		status += " | " + m.helpModel.ShortHelpView(keys.ShortHelp())
	}
	return status
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) helpView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("stepview help"))
	b.WriteString("\n\n")
	b.WriteString(m.helpModel.FullHelpView(keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render("While editing: " + m.helpModel.ShortHelpView(editKeys.ShortHelp())))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Views: 1-5 select timeline, stack, memory, flow, data"))
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render("? or esc to close"))
	return b.String()
}
