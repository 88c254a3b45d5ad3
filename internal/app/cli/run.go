package cli

import (
	"context"
	"fmt"

	"porter/internal/app/errors"
	"porter/internal/app/logview"
	"porter/internal/app/stream"
)

// runHeadless prints lines to stdout until the session ends or ctx is canceled
func (c *cli) runHeadless(ctx context.Context, session stream.Config) error {
	changed := make(chan struct{}, 1)

	c.ctrl.SetListener(logview.ListenerFunc(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))
	defer c.ctrl.SetListener(nil)

	c.formatter.RenderBanner(c.out, session)

	if err := c.ctrl.Start(ctx, session); err != nil {
		return err
	}

	label := session.Target
	if label == "" {
		label = string(session.Kind)
	}

	printed := 0

	for {
		view := c.ctrl.Snapshot()
		printed = c.printLines(label, view.Lines, printed)

		if view.Status == logview.StatusClosed {
			if view.Err != "" {
				return fmt.Errorf("%w: %s", errors.ErrStreamFailed, view.Err)
			}

			return nil
		}

		select {
		case <-ctx.Done():
			c.log.Debug().Msg("Interrupted, tearing down stream")
			<-c.ctrl.Teardown()

			return nil
		case <-changed:
		}
	}
}

// printLines writes lines past the printed cursor and returns the new cursor
func (c *cli) printLines(label string, lines []logview.Line, printed int) int {
	if printed > len(lines) {
		printed = 0
	}

	for _, line := range lines[printed:] {
		c.formatter.WriteLine(c.out, label, line)
	}

	return len(lines)
}
