package stream

import (
	"encoding/json"
	"fmt"
	"strings"

	"porter/internal/app/errors"
)

// FrameType represents the type of a server-pushed event
type FrameType string

// Frame types sent by the stream endpoint
const (
	// FrameConnected acknowledges the subscription
	FrameConnected FrameType = "connected"
	// FrameLog carries one log line
	FrameLog FrameType = "log"
	// FrameError reports a server side failure; the stream ends after it
	FrameError FrameType = "error"
	// FrameClosed ends the stream gracefully
	FrameClosed FrameType = "closed"
)

// Frame is one decoded server event. Only the fields of its type are set.
type Frame struct {
	Type    FrameType `json:"type,omitempty"`
	Kind    string    `json:"kind,omitempty"`
	Target  string    `json:"target,omitempty"`
	Line    string    `json:"line,omitempty"`
	Source  string    `json:"source,omitempty"`
	Message string    `json:"message,omitempty"`
	Reason  string    `json:"reason,omitempty"`
}

// DecodeFrame turns an SSE event into a Frame. The SSE event name wins over
// the payload's "type" field, so both named and envelope-style events work.
func DecodeFrame(ev Event) (Frame, error) {
	var frame Frame

	data := strings.TrimSpace(ev.Data)
	if data == "" {
		data = "{}"
	}

	if err := json.Unmarshal([]byte(data), &frame); err != nil {
		return Frame{}, fmt.Errorf("%w: %w", errors.ErrMalformedFrame, err)
	}

	if ev.Name != "" {
		frame.Type = FrameType(ev.Name)
	}

	switch frame.Type {
	case FrameConnected, FrameLog, FrameError, FrameClosed:
		return frame, nil
	default:
		return Frame{}, fmt.Errorf("%w: '%s'", errors.ErrUnknownFrame, frame.Type)
	}
}
