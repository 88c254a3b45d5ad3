package logview

import (
	"context"

	"github.com/looplab/fsm"

	"porter/internal/app/errors"
	"porter/internal/config/logger"
)

// FSM events
const (
	evStart = "start"
	evAck   = "ack"
	evEnd   = "end"
)

// newStatusFSM creates the session lifecycle machine: idle → connecting → live → closed
func newStatusFSM(log logger.Logger) *fsm.FSM {
	idle := string(StatusIdle)
	connecting := string(StatusConnecting)
	live := string(StatusLive)
	closed := string(StatusClosed)

	return fsm.NewFSM(
		idle,
		fsm.Events{
			{Name: evStart, Src: []string{idle, connecting, live, closed}, Dst: connecting},
			{Name: evAck, Src: []string{connecting}, Dst: live},
			{Name: evEnd, Src: []string{connecting, live}, Dst: closed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug().Msgf("STATUS %s → %s (trigger: %s)", e.Src, e.Dst, e.Event)
			},
		},
	)
}

// transition fires ev, ignoring self transitions and events the current state does not accept
func transition(f *fsm.FSM, ev string, log logger.Logger) {
	err := f.Event(context.Background(), ev)
	if err == nil {
		return
	}

	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return
	}

	log.Debug().Err(err).Msgf("Ignoring %s in state %s", ev, f.Current())
}
