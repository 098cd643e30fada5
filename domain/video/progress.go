package video

import (
	"fmt"
	"strings"
)

// ProgressMode selects where progress markers are read from
type ProgressMode string

const (
	// ProgressStderr scans the tool's diagnostic text for "time=" markers
	ProgressStderr ProgressMode = "stderr"
	// ProgressPipe asks the tool for key=value progress on stdout (-progress pipe:1)
	ProgressPipe ProgressMode = "pipe"
)

// DefaultProgressEvent is the event name progress notifications carry
const DefaultProgressEvent = "progress"

// Valid reports whether m is a known mode
func (m ProgressMode) Valid() bool {
	return m == ProgressStderr || m == ProgressPipe
}

// ParseProgressMode parses a mode name; empty selects ProgressStderr
func ParseProgressMode(s string) (ProgressMode, error) {
	m := ProgressMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ProgressStderr, nil
	}
	if !m.Valid() {
		return "", fmt.Errorf("unknown progress mode %q (want stderr or pipe)", s)
	}
	return m, nil
}

// ProgressEvent is one progress line forwarded to the UI
type ProgressEvent struct {
	OperationID string  `json:"operation_id,omitempty"`
	Name        string  `json:"event"`
	Line        string  `json:"line"`
	Seconds     float64 `json:"seconds"`
	HasTime     bool    `json:"has_time"`
}

// ProgressSink receives progress events. Delivery is fire-and-forget:
// a returned error is logged by the caller and never aborts the operation.
type ProgressSink interface {
	Emit(ev ProgressEvent) error
}

// SinkFunc adapts a function to ProgressSink
type SinkFunc func(ev ProgressEvent) error

// Emit implements ProgressSink
func (f SinkFunc) Emit(ev ProgressEvent) error {
	return f(ev)
}

// DiscardProgress drops every event
var DiscardProgress ProgressSink = SinkFunc(func(ProgressEvent) error { return nil })
