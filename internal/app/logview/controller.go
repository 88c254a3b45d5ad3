//go:generate mockgen -source=controller.go -destination=controller_mock.go -package=logview
package logview

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/samber/lo"

	"porter/internal/app/errors"
	"porter/internal/app/stream"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// Lifecycle notices appended by the controller
const (
	NoticeStopped = "stream stopped by user"
	NoticeLost    = "connection lost — stream ended"
)

// Controller owns one log stream session and its pause buffer
type Controller interface {
	Start(ctx context.Context, cfg stream.Config) error
	Stop()
	TogglePause() bool
	Clear()
	ExportText() string
	Export(w io.Writer) error
	Teardown() <-chan struct{}
	Snapshot() View
	SetListener(l Listener)
}

type controller struct {
	transport      stream.Transport
	releaser       stream.Releaser
	log            logger.Logger
	now            func() time.Time
	timeFormat     string
	releaseTimeout time.Duration

	mu       sync.Mutex
	status   *fsm.FSM
	session  stream.Config
	sub      stream.Subscription
	cancel   context.CancelFunc
	seq      uint64
	paused   bool
	lines    []Line
	overflow []Line
	err      string
	listener Listener
}

// NewController creates a controller with no open session
func NewController(cfg *config.Config, transport stream.Transport, releaser stream.Releaser, log logger.Logger) Controller {
	log = log.WithComponent("LOGVIEW")

	return &controller{
		transport:      transport,
		releaser:       releaser,
		log:            log,
		now:            time.Now,
		timeFormat:     cfg.Stream.TimeFormat,
		releaseTimeout: cfg.Stream.ReleaseTimeout,
		status:         newStatusFSM(log),
	}
}

// SetListener registers the host to be told about state changes
func (c *controller) SetListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listener = l
}

// Start opens a new session, superseding any open one. A validation error opens nothing.
func (c *controller) Start(ctx context.Context, cfg stream.Config) error {
	if cfg.Lines <= 0 {
		cfg.Lines = stream.DefaultLines
	}

	if err := cfg.Validate(); err != nil {
		c.mu.Lock()
		c.err = err.Error()
		c.mu.Unlock()
		c.notify()

		return err
	}

	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.closeLocked()
	c.seq++
	seq := c.seq
	c.session = cfg
	c.cancel = cancel
	c.lines = nil
	c.overflow = nil
	c.err = ""
	transition(c.status, evStart, c.log)
	c.mu.Unlock()
	c.notify()

	c.log.Info().Str("machine", cfg.MachineID).Str("kind", string(cfg.Kind)).Str("target", cfg.Target).Msg("Starting stream")

	sub, err := c.transport.Open(ctx, cfg)

	c.mu.Lock()

	if seq != c.seq {
		c.mu.Unlock()
		cancel()

		if sub != nil {
			sub.Close()
		}

		return nil
	}

	if err != nil {
		c.cancel = nil
		c.err = err.Error()
		transition(c.status, evEnd, c.log)
		c.mu.Unlock()
		cancel()
		c.notify()

		c.log.Error().Err(err).Str("machine", cfg.MachineID).Msg("Failed to open stream")

		return err
	}

	c.sub = sub
	c.mu.Unlock()

	go c.pump(sub)

	return nil
}

// Stop closes the session from the client side; a no-op without an active session
func (c *controller) Stop() {
	c.mu.Lock()

	if !c.activeLocked() {
		c.mu.Unlock()
		return
	}

	machineID := c.session.MachineID

	c.closeLocked()
	c.lines = append(c.lines, c.notice(NoticeStopped))
	transition(c.status, evEnd, c.log)
	c.mu.Unlock()

	c.log.Info().Str("machine", machineID).Msg("Stream stopped by user")
	c.notify()
}

// TogglePause flips the pause state and returns it; resuming flushes the overflow in order
func (c *controller) TogglePause() bool {
	c.mu.Lock()

	if c.paused {
		c.lines = append(c.lines, c.overflow...)
		c.overflow = nil
		c.paused = false
	} else {
		c.paused = true
	}

	paused := c.paused
	c.mu.Unlock()
	c.notify()

	return paused
}

// Clear empties the visible buffer and the overflow without touching the session
func (c *controller) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.overflow = nil
	c.mu.Unlock()
	c.notify()
}

// ExportText renders the visible buffer as "[received] text" lines
func (c *controller) ExportText() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	rendered := lo.Map(c.lines, func(l Line, _ int) string {
		return fmt.Sprintf("[%s] %s", l.Received.Format(c.timeFormat), l.Text)
	})

	return strings.Join(rendered, "\n")
}

// Export writes ExportText to w
func (c *controller) Export(w io.Writer) error {
	if _, err := io.WriteString(w, c.ExportText()); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToWriteExport, err)
	}

	return nil
}

// Teardown closes any open session and tells the backend to release it.
// The release runs in the background; the returned channel closes when it is done.
func (c *controller) Teardown() <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	active := c.activeLocked()
	machineID := c.session.MachineID

	c.closeLocked()

	if active {
		transition(c.status, evEnd, c.log)
	}
	c.mu.Unlock()

	if !active {
		close(done)
		return done
	}

	c.notify()

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), c.releaseTimeout)
		defer cancel()

		if err := c.releaser.Release(ctx, machineID); err != nil {
			c.log.Warn().Err(err).Str("machine", machineID).Msg("Failed to release stream")
		}
	}()

	return done
}

// Snapshot returns a copy of the current state
func (c *controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Config:   c.session,
		Status:   Status(c.status.Current()),
		Paused:   c.paused,
		Lines:    slices.Clone(c.lines),
		Buffered: len(c.overflow),
		Err:      c.err,
	}
}

// pump feeds frames of sub into the controller until the transport ends
func (c *controller) pump(sub stream.Subscription) {
	for frame := range sub.Frames() {
		c.handleFrame(sub, frame)
	}

	c.handleTransportEnd(sub)
}

func (c *controller) handleFrame(sub stream.Subscription, frame stream.Frame) {
	c.mu.Lock()

	if c.sub != sub {
		c.mu.Unlock()
		return
	}

	switch frame.Type {
	case stream.FrameConnected:
		transition(c.status, evAck, c.log)
		c.appendLocked(c.notice(c.connectedText(frame)))
	case stream.FrameLog:
		c.appendLocked(Line{Kind: KindData, Text: frame.Line, Source: frame.Source, Received: c.now()})
	case stream.FrameError:
		c.err = frame.Message
		if c.err == "" {
			c.err = "stream error"
		}

		c.closeLocked()
		transition(c.status, evEnd, c.log)
		c.log.Warn().Str("machine", c.session.MachineID).Str("error", c.err).Msg("Server reported stream error")
	case stream.FrameClosed:
		reason := frame.Reason
		if reason == "" {
			reason = "closed by server"
		}

		c.appendLocked(c.notice("stream closed: " + reason))
		c.closeLocked()
		transition(c.status, evEnd, c.log)
	}

	c.mu.Unlock()
	c.notify()
}

func (c *controller) handleTransportEnd(sub stream.Subscription) {
	c.mu.Lock()

	if c.sub != sub {
		c.mu.Unlock()
		return
	}

	if err := sub.Err(); err != nil {
		c.log.Warn().Err(err).Str("machine", c.session.MachineID).Msg("Transport failed")
	}

	c.closeLocked()
	c.appendLocked(c.notice(NoticeLost))
	transition(c.status, evEnd, c.log)
	c.mu.Unlock()
	c.notify()
}

// closeLocked drops the handle before closing it so late callbacks of the old transport are ignored
func (c *controller) closeLocked() {
	sub := c.sub
	c.sub = nil

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if sub != nil {
		if err := sub.Close(); err != nil {
			c.log.Debug().Err(err).Msg("Closing subscription")
		}
	}

	c.seq++
}

func (c *controller) activeLocked() bool {
	return c.status.Is(string(StatusConnecting)) || c.status.Is(string(StatusLive))
}

// appendLocked routes traffic-driven lines to the overflow while paused
func (c *controller) appendLocked(line Line) {
	if c.paused {
		c.overflow = append(c.overflow, line)
		return
	}

	c.lines = append(c.lines, line)
}

func (c *controller) notice(text string) Line {
	return Line{Kind: KindNotice, Text: text, Received: c.now()}
}

func (c *controller) connectedText(frame stream.Frame) string {
	cfg := c.session

	if frame.Kind != "" {
		if kind, err := stream.ParseSourceKind(frame.Kind); err == nil {
			cfg.Kind = kind
		}
	}

	if frame.Target != "" {
		cfg.Target = frame.Target
	}

	return fmt.Sprintf("streaming %s from %s", cfg.Describe(), cfg.MachineID)
}

func (c *controller) notify() {
	c.mu.Lock()
	l := c.listener
	c.mu.Unlock()

	if l != nil {
		l.Changed()
	}
}
