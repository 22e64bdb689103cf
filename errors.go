package main

import (
	"errors"
	"fmt"
)

const (
	networkErrorMessage    = "Network error. Please check if the backend server is running."
	notVisualizableMessage = "No visualization steps generated. The code may not be suitable for step-by-step visualization."
	invalidResponseMessage = "Invalid response from server"
)

var (
	// ErrEmptyCode rejects a run locally before any request is made.
	ErrEmptyCode = errors.New("empty code")
	// ErrNotVisualizable is a successful run that produced no steps.
	ErrNotVisualizable = errors.New("no visualization steps")
)

// TransportError means no response reached us (refused, reset, timed out).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError carries a failure reported by the backend itself.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend (%d): %s", e.Status, e.Message)
	}
	return "backend: " + e.Message
}

// MalformedResponseError means a response arrived but could not be understood.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil {
		return "malformed response"
	}
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// UserMessage maps an acquisition error to the single readable message shown
// in the output panel.
func UserMessage(op Operation, err error) string {
	if err == nil {
		return ""
	}
	var transport *TransportError
	var backend *BackendError
	var malformed *MalformedResponseError
	switch {
	case errors.Is(err, ErrEmptyCode):
		return fmt.Sprintf("Please enter some code to %s.", op.verb())
	case errors.Is(err, ErrNotVisualizable):
		return notVisualizableMessage
	case errors.As(err, &transport):
		return networkErrorMessage
	case errors.As(err, &backend):
		if backend.Message == "" {
			return op.failure()
		}
		return backend.Message
	case errors.As(err, &malformed):
		return invalidResponseMessage
	default:
		return "An unexpected error occurred: " + err.Error()
	}
}
