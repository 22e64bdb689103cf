package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSaveRecording FileOperation = iota
	FileOpExportPNG
	FileOpExportTXT
	FileOpExportDOT
)

func (op FileOperation) String() string {
	switch op {
	case FileOpSaveRecording:
		return "Save recording"
	case FileOpExportPNG:
		return "Export PNG"
	case FileOpExportTXT:
		return "Export text"
	case FileOpExportDOT:
		return "Export DOT"
	default:
		return "File"
	}
}

type ConfirmAction int

const (
	ConfirmOverwriteFile ConfirmAction = iota
	ConfirmQuit
)

const (
	// codePaneRatio is the share of the width given to the code pane.
	codePaneRatio  = 0.4
	minPaneWidth   = 30
	outputHeight   = 6
	jumpSteps      = 10
	defaultColumns = 100
)
