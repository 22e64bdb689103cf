package main

const maxHistory = 100

// codeHistory keeps whole-code snapshots for undo and redo of edits made in
// the code pane (edit sessions, pastes, template resets).
type codeHistory struct {
	undoStack []string
	redoStack []string
}

// record saves the code as it was before a change.
func (h *codeHistory) record(before string) {
	if n := len(h.undoStack); n > 0 && h.undoStack[n-1] == before {
		return
	}
	h.undoStack = append(h.undoStack, before)
	if len(h.undoStack) > maxHistory {
		h.undoStack = h.undoStack[len(h.undoStack)-maxHistory:]
	}
	h.redoStack = h.redoStack[:0]
}

func (h *codeHistory) undo(current string) (string, bool) {
	if len(h.undoStack) == 0 {
		return current, false
	}
	lastIndex := len(h.undoStack) - 1
	previous := h.undoStack[lastIndex]
	h.undoStack = h.undoStack[:lastIndex]
	h.redoStack = append(h.redoStack, current)
	return previous, true
}

func (h *codeHistory) redo(current string) (string, bool) {
	if len(h.redoStack) == 0 {
		return current, false
	}
	lastIndex := len(h.redoStack) - 1
	next := h.redoStack[lastIndex]
	h.redoStack = h.redoStack[:lastIndex]
	h.undoStack = append(h.undoStack, current)
	return next, true
}
