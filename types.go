package main

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// runner submits code to the backend. *Client implements it.
type runner interface {
	Run(ctx context.Context, op Operation, req Request) (Response, error)
}

type model struct {
	width  int
	height int
	mode   Mode
	help   bool

	config   *Config
	backend  runner
	code     codePane
	playback Playback
	tab      ViewTab
	output   outputPanel

	// loading is true while the request tagged requestSeq is in flight.
	loading    bool
	requestSeq int
	lastRun    *Recording
	replaying  bool

	spinner   spinner.Model
	viewport  viewport.Model
	helpModel help.Model
	fileInput textinput.Model

	fileOp        FileOperation
	confirmAction ConfirmAction
	pendingPath   string

	errorMessage   string
	successMessage string

	// initCmd is returned from Init, e.g. a run requested on the command line.
	initCmd tea.Cmd
}

// traceResultMsg carries a backend reply, tagged with the request that
// produced it.
type traceResultMsg struct {
	seq  int
	op   Operation
	resp Response
	err  error
}
