package stream

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// maxLineSize bounds a single SSE line; container logs can carry long JSON records
const maxLineSize = 1 << 20

// Event is one Server-Sent Event
type Event struct {
	Name string
	Data string
}

// Scanner reads Server-Sent Events from a text/event-stream body.
// Comment lines and the id/retry fields are ignored.
type Scanner struct {
	reader *bufio.Reader
	event  Event
	err    error
	done   bool
}

// NewScanner creates a scanner over r
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next advances to the next event with data; it returns false at the end of the stream or on error
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	var (
		name  string
		data  []string
		ready bool
	)

	emit := func() bool {
		if !ready {
			return false
		}

		s.event = Event{Name: name, Data: strings.Join(data, "\n")}

		return true
	}

	for {
		line, err := s.readLine()
		if errors.Is(err, bufio.ErrTooLong) {
			s.fail(err)
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "" && err == nil:
			if emit() {
				return true
			}

			name = ""
		case line == "", strings.HasPrefix(line, ":"):
		default:
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")

			switch field {
			case "event":
				name = value
			case "data":
				data = append(data, value)
				ready = true
			}
		}

		if err != nil {
			s.fail(err)
			return emit()
		}
	}
}

// readLine reads up to and including '\n', failing with bufio.ErrTooLong as soon as the line outgrows maxLineSize
func (s *Scanner) readLine() (string, error) {
	var line []byte

	for {
		chunk, err := s.reader.ReadSlice('\n')
		if len(line)+len(chunk) > maxLineSize {
			return "", bufio.ErrTooLong
		}

		line = append(line, chunk...)

		if !errors.Is(err, bufio.ErrBufferFull) {
			return string(line), err
		}
	}
}

// Event returns the event read by the last successful Next
func (s *Scanner) Event() Event {
	return s.event
}

// Err returns the error that ended scanning, nil for a clean end of stream
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}

	return s.err
}

func (s *Scanner) fail(err error) {
	s.done = true
	s.err = err
}
