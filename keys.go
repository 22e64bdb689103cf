package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Visualize key.Binding
	Execute   key.Binding
	Play      key.Binding
	Next      key.Binding
	Prev      key.Binding
	First     key.Binding
	Last      key.Binding
	JumpBack  key.Binding
	JumpAhead key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Edit      key.Binding
	Paste     key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Language  key.Binding
	Save      key.Binding
	ExportPNG key.Binding
	ExportTXT key.Binding
	ExportDOT key.Binding
	CopyOut   key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Visualize: key.NewBinding(key.WithKeys("ctrl+r", "r"), key.WithHelp("r", "visualize")),
	Execute:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "run")),
	Play:      key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
	Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next step")),
	Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous step")),
	First:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first step")),
	Last:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last step")),
	JumpBack:  key.NewBinding(key.WithKeys("pgup", "H"), key.WithHelp("H", "back 10 steps")),
	JumpAhead: key.NewBinding(key.WithKeys("pgdown", "L"), key.WithHelp("L", "ahead 10 steps")),
	NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),
	ScrollUp:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	ScrollDn:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit code")),
	Paste:     key.NewBinding(key.WithKeys("ctrl+v", "P"), key.WithHelp("P", "paste code")),
	Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo edit")),
	Redo:      key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "redo edit")),
	Language:  key.NewBinding(key.WithKeys("ctrl+l", "c"), key.WithHelp("c", "cycle language")),
	Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save recording")),
	ExportPNG: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "export PNG")),
	ExportTXT: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "export text")),
	ExportDOT: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "export DOT")),
	CopyOut:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy output")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Visualize, k.Play, k.Prev, k.Next, k.NextTab, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Visualize, k.Execute, k.Edit, k.Paste, k.Undo, k.Redo, k.Language},
		{k.Play, k.Prev, k.Next, k.First, k.Last, k.JumpBack, k.JumpAhead},
		{k.NextTab, k.PrevTab, k.ScrollUp, k.ScrollDn},
		{k.Save, k.ExportPNG, k.ExportTXT, k.ExportDOT, k.CopyOut, k.Help, k.Quit},
	}
}

// editKeys apply while the code pane is being edited.
type editKeyMap struct {
	Done   key.Binding
	Cancel key.Binding
}

var editKeys = editKeyMap{
	Done:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "finish editing")),
	Cancel: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "discard changes")),
}

func (k editKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Done, k.Cancel} }

func (k editKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
