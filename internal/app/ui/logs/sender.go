package logs

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshMsg tells the model to redraw from a fresh controller snapshot
type refreshMsg struct{}

// Sender forwards controller changes into the Bubble Tea program.
// Notifications are coalesced: at most one refresh is in flight until the model acknowledges it.
type Sender struct {
	mu      sync.RWMutex
	send    func(tea.Msg)
	pending atomic.Bool
}

// NewSender creates a new Sender
func NewSender() *Sender {
	return &Sender{}
}

// Set sets the send function
func (s *Sender) Set(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.send = send
}

// Send sends a message if the send function is set
func (s *Sender) Send(msg tea.Msg) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.send == nil {
		return false
	}

	s.send(msg)

	return true
}

// Changed schedules a refresh without blocking the caller
func (s *Sender) Changed() {
	if !s.pending.CompareAndSwap(false, true) {
		return
	}

	go func() {
		if !s.Send(refreshMsg{}) {
			s.pending.Store(false)
		}
	}()
}

// Ack marks the in-flight refresh as handled
func (s *Sender) Ack() {
	s.pending.Store(false)
}
