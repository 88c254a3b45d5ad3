package logview

import (
	"time"

	"porter/internal/app/stream"
)

// LineKind separates lifecycle notices from streamed data
type LineKind string

const (
	KindNotice LineKind = "notice"
	KindData   LineKind = "data"
)

// Line is one visible record, stamped when it was received
type Line struct {
	Kind     LineKind
	Text     string
	Source   string
	Received time.Time
}

// IsNotice reports whether the line was produced by the client
func (l Line) IsNotice() bool {
	return l.Kind == KindNotice
}

// Status is the lifecycle state of the current session
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusLive       Status = "live"
	StatusClosed     Status = "closed"
)

// View is a consistent copy of the controller state for rendering
type View struct {
	Config   stream.Config
	Status   Status
	Paused   bool
	Lines    []Line
	Buffered int
	Err      string
}

// Listener is told when controller state changed; it must not block
type Listener interface {
	Changed()
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func()

// Changed calls f
func (f ListenerFunc) Changed() {
	f()
}
