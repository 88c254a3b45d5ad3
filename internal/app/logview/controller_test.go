package logview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"porter/internal/app/errors"
	"porter/internal/app/stream"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// fakeSubscription is driven by the test; closing it ends Frames like a dropped connection
type fakeSubscription struct {
	frames chan stream.Frame
	once   sync.Once
	closed atomic.Bool
	err    error
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{frames: make(chan stream.Frame, 16)}
}

func (s *fakeSubscription) Frames() <-chan stream.Frame { return s.frames }
func (s *fakeSubscription) Err() error                  { return s.err }

func (s *fakeSubscription) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.frames)
	})

	return nil
}

type fixture struct {
	ctrl      Controller
	impl      *controller
	transport *stream.MockTransport
	releaser  *stream.MockReleaser
	changes   atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mock := gomock.NewController(t)
	cfg := config.DefaultConfig()
	cfg.Stream.ReleaseTimeout = time.Second

	f := &fixture{
		transport: stream.NewMockTransport(mock),
		releaser:  stream.NewMockReleaser(mock),
	}

	f.ctrl = NewController(cfg, f.transport, f.releaser, logger.NewLoggerWithOutput(cfg, io.Discard))
	f.impl = f.ctrl.(*controller)

	tick := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.impl.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	f.ctrl.SetListener(ListenerFunc(func() { f.changes.Add(1) }))

	return f
}

func journalConfig(machine string) stream.Config {
	return stream.Config{MachineID: machine, Kind: stream.KindJournal, Lines: 50}
}

// start opens a session backed by a fake subscription
func (f *fixture) start(t *testing.T, cfg stream.Config) *fakeSubscription {
	t.Helper()

	sub := newFakeSubscription()
	f.transport.EXPECT().Open(gomock.Any(), cfg).Return(sub, nil)

	require.NoError(t, f.ctrl.Start(context.Background(), cfg))

	return sub
}

func (f *fixture) waitLines(t *testing.T, n int) View {
	t.Helper()

	require.Eventually(t, func() bool {
		return len(f.ctrl.Snapshot().Lines) == n
	}, time.Second, 5*time.Millisecond)

	return f.ctrl.Snapshot()
}

func (f *fixture) waitStatus(t *testing.T, status Status) View {
	t.Helper()

	require.Eventually(t, func() bool {
		return f.ctrl.Snapshot().Status == status
	}, time.Second, 5*time.Millisecond)

	return f.ctrl.Snapshot()
}

func logFrame(text, source string) stream.Frame {
	return stream.Frame{Type: stream.FrameLog, Line: text, Source: source}
}

func texts(lines []Line) []string {
	result := make([]string, len(lines))
	for i, l := range lines {
		result[i] = l.Text
	}

	return result
}

func Test_NewController(t *testing.T) {
	f := newFixture(t)

	view := f.ctrl.Snapshot()
	assert.Equal(t, StatusIdle, view.Status)
	assert.False(t, view.Paused)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.Buffered)
	assert.Empty(t, view.Err)
}

func Test_Start_Validation(t *testing.T) {
	tests := []struct {
		name   string
		cfg    stream.Config
		expect error
	}{
		{name: "Empty machine", cfg: stream.Config{Kind: stream.KindJournal}, expect: errors.ErrMachineRequired},
		{name: "Blank machine", cfg: stream.Config{MachineID: "  ", Kind: stream.KindJournal}, expect: errors.ErrMachineRequired},
		{name: "Unknown kind", cfg: stream.Config{MachineID: "m1", Kind: "syslog"}, expect: errors.ErrInvalidSourceKind},
		{name: "Container without target", cfg: stream.Config{MachineID: "m1", Kind: stream.KindContainer}, expect: errors.ErrTargetRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			err := f.ctrl.Start(context.Background(), tt.cfg)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expect)

			view := f.ctrl.Snapshot()
			assert.Equal(t, StatusIdle, view.Status)
			assert.Equal(t, err.Error(), view.Err)
		})
	}
}

func Test_Start_ValidationKeepsActiveSession(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	sub.frames <- stream.Frame{Type: stream.FrameConnected, Kind: "journal"}
	f.waitStatus(t, StatusLive)

	err := f.ctrl.Start(context.Background(), stream.Config{Kind: stream.KindJournal})
	require.ErrorIs(t, err, errors.ErrMachineRequired)

	assert.Equal(t, StatusLive, f.ctrl.Snapshot().Status)
	assert.False(t, sub.closed.Load())
}

func Test_Start_DefaultsLines(t *testing.T) {
	f := newFixture(t)

	sub := newFakeSubscription()
	f.transport.EXPECT().Open(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cfg stream.Config) (stream.Subscription, error) {
		assert.Equal(t, stream.DefaultLines, cfg.Lines)
		return sub, nil
	})

	require.NoError(t, f.ctrl.Start(context.Background(), stream.Config{MachineID: "m1", Kind: stream.KindJournal}))
	assert.Equal(t, stream.DefaultLines, f.ctrl.Snapshot().Config.Lines)
}

func Test_Start_OpenFailure(t *testing.T) {
	f := newFixture(t)
	cfg := journalConfig("m1")

	openErr := fmt.Errorf("%w: status 502", errors.ErrUnexpectedStatus)
	f.transport.EXPECT().Open(gomock.Any(), cfg).Return(nil, openErr)

	err := f.ctrl.Start(context.Background(), cfg)

	require.ErrorIs(t, err, errors.ErrUnexpectedStatus)

	view := f.ctrl.Snapshot()
	assert.Equal(t, StatusClosed, view.Status)
	assert.Equal(t, openErr.Error(), view.Err)
	assert.Empty(t, view.Lines)
}

func Test_Start_Lifecycle(t *testing.T) {
	f := newFixture(t)
	cfg := stream.Config{MachineID: "m1", Kind: stream.KindContainer, Target: "api", Lines: 50}
	sub := f.start(t, cfg)

	assert.Equal(t, StatusConnecting, f.ctrl.Snapshot().Status)

	sub.frames <- stream.Frame{Type: stream.FrameConnected, Kind: "container", Target: "api"}

	view := f.waitStatus(t, StatusLive)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, KindNotice, view.Lines[0].Kind)
	assert.Equal(t, "streaming container logs for api from m1", view.Lines[0].Text)
	assert.Equal(t, cfg, view.Config)
	assert.Positive(t, f.changes.Load())
}

func Test_Start_ClearsBuffers(t *testing.T) {
	f := newFixture(t)
	first := f.start(t, journalConfig("m1"))

	first.frames <- logFrame("a", "")
	f.waitLines(t, 1)

	f.ctrl.TogglePause()
	first.frames <- logFrame("b", "")
	require.Eventually(t, func() bool { return f.ctrl.Snapshot().Buffered == 1 }, time.Second, 5*time.Millisecond)

	f.start(t, journalConfig("m2"))

	view := f.ctrl.Snapshot()
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.Buffered)
	assert.True(t, view.Paused)
}

func Test_Start_SupersedesPreviousSession(t *testing.T) {
	f := newFixture(t)
	first := f.start(t, journalConfig("m1"))

	second := newFakeSubscription()
	f.transport.EXPECT().Open(gomock.Any(), journalConfig("m2")).DoAndReturn(func(context.Context, stream.Config) (stream.Subscription, error) {
		assert.True(t, first.closed.Load(), "previous subscription must be closed before opening the next")
		return second, nil
	})

	require.NoError(t, f.ctrl.Start(context.Background(), journalConfig("m2")))

	second.frames <- logFrame("from m2", "")

	view := f.waitLines(t, 1)
	assert.Equal(t, "from m2", view.Lines[0].Text)
	assert.Equal(t, StatusConnecting, view.Status)
}

func Test_Start_StopDuringOpen(t *testing.T) {
	f := newFixture(t)
	sub := newFakeSubscription()

	opened := make(chan struct{})
	release := make(chan struct{})

	f.transport.EXPECT().Open(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, stream.Config) (stream.Subscription, error) {
		close(opened)
		<-release

		return sub, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- f.ctrl.Start(context.Background(), journalConfig("m1"))
	}()

	<-opened
	f.ctrl.Stop()
	close(release)

	require.NoError(t, <-done)
	assert.True(t, sub.closed.Load())

	view := f.ctrl.Snapshot()
	assert.Equal(t, StatusClosed, view.Status)
	assert.Equal(t, []string{NoticeStopped}, texts(view.Lines))
}

func Test_LogFrames_InOrder(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	for i := range 5 {
		sub.frames <- logFrame(fmt.Sprintf("line %d", i), "stdout")
	}

	view := f.waitLines(t, 5)
	assert.Equal(t, []string{"line 0", "line 1", "line 2", "line 3", "line 4"}, texts(view.Lines))

	for i, line := range view.Lines {
		assert.Equal(t, KindData, line.Kind)
		assert.Equal(t, "stdout", line.Source)

		if i > 0 {
			assert.True(t, line.Received.After(view.Lines[i-1].Received))
		}
	}
}

func Test_Pause_RoutesToOverflow(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	sub.frames <- logFrame("visible", "")
	f.waitLines(t, 1)

	assert.True(t, f.ctrl.TogglePause())

	for _, text := range []string{"a", "b", "c"} {
		sub.frames <- logFrame(text, "")
	}

	require.Eventually(t, func() bool { return f.ctrl.Snapshot().Buffered == 3 }, time.Second, 5*time.Millisecond)

	view := f.ctrl.Snapshot()
	assert.True(t, view.Paused)
	assert.Equal(t, []string{"visible"}, texts(view.Lines))

	assert.False(t, f.ctrl.TogglePause())

	view = f.ctrl.Snapshot()
	assert.False(t, view.Paused)
	assert.Zero(t, view.Buffered)
	assert.Equal(t, []string{"visible", "a", "b", "c"}, texts(view.Lines))
}

func Test_Pause_ResumeEmptyOverflow(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	sub.frames <- logFrame("a", "")
	before := f.waitLines(t, 1)

	f.ctrl.TogglePause()
	f.ctrl.TogglePause()

	after := f.ctrl.Snapshot()
	assert.Equal(t, before.Lines, after.Lines)
	assert.Zero(t, after.Buffered)
}

func Test_Pause_NoticesFollowPause(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	f.ctrl.TogglePause()
	sub.frames <- stream.Frame{Type: stream.FrameConnected}
	sub.frames <- stream.Frame{Type: stream.FrameClosed, Reason: "unit stopped"}

	view := f.waitStatus(t, StatusClosed)
	assert.Empty(t, view.Lines)
	assert.Equal(t, 2, view.Buffered)

	f.ctrl.TogglePause()

	view = f.ctrl.Snapshot()
	assert.Equal(t, []string{"streaming system journal logs from m1", "stream closed: unit stopped"}, texts(view.Lines))
}

func Test_Clear(t *testing.T) {
	for _, paused := range []bool{false, true} {
		t.Run(fmt.Sprintf("paused=%v", paused), func(t *testing.T) {
			f := newFixture(t)
			sub := f.start(t, journalConfig("m1"))

			sub.frames <- stream.Frame{Type: stream.FrameConnected}
			sub.frames <- logFrame("a", "")
			f.waitLines(t, 2)

			if paused {
				f.ctrl.TogglePause()
				sub.frames <- logFrame("b", "")
				require.Eventually(t, func() bool { return f.ctrl.Snapshot().Buffered == 1 }, time.Second, 5*time.Millisecond)
			}

			f.ctrl.Clear()

			view := f.ctrl.Snapshot()
			assert.Empty(t, view.Lines)
			assert.Zero(t, view.Buffered)
			assert.Equal(t, StatusLive, view.Status)
			assert.Equal(t, paused, view.Paused)
			assert.False(t, sub.closed.Load())
		})
	}
}

func Test_Stop(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	sub.frames <- stream.Frame{Type: stream.FrameConnected}
	f.waitStatus(t, StatusLive)

	f.ctrl.Stop()
	assert.True(t, sub.closed.Load())

	// the pump observes the closed channel after the handle was dropped
	time.Sleep(20 * time.Millisecond)

	view := f.ctrl.Snapshot()
	assert.Equal(t, StatusClosed, view.Status)
	assert.Equal(t, []string{"streaming system journal logs from m1", NoticeStopped}, texts(view.Lines))
	assert.NotContains(t, texts(view.Lines), NoticeLost)
}

func Test_Stop_BypassesPause(t *testing.T) {
	f := newFixture(t)
	f.start(t, journalConfig("m1"))

	f.ctrl.TogglePause()
	f.ctrl.Stop()

	view := f.ctrl.Snapshot()
	assert.Equal(t, []string{NoticeStopped}, texts(view.Lines))
	assert.Zero(t, view.Buffered)
}

func Test_Stop_Idempotent(t *testing.T) {
	tests := []struct {
		name   string
		before func(t *testing.T, f *fixture)
		expect []string
	}{
		{
			name:   "No session",
			before: func(*testing.T, *fixture) {},
			expect: []string{},
		},
		{
			name: "Already stopped",
			before: func(t *testing.T, f *fixture) {
				f.start(t, journalConfig("m1"))
				f.ctrl.Stop()
			},
			expect: []string{NoticeStopped},
		},
		{
			name: "Closed by server",
			before: func(t *testing.T, f *fixture) {
				sub := f.start(t, journalConfig("m1"))
				sub.frames <- stream.Frame{Type: stream.FrameClosed}
				f.waitStatus(t, StatusClosed)
			},
			expect: []string{"stream closed: closed by server"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.before(t, f)

			f.ctrl.Stop()

			assert.Equal(t, tt.expect, texts(f.ctrl.Snapshot().Lines))
		})
	}
}

func Test_ErrorFrame(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	sub.frames <- stream.Frame{Type: stream.FrameConnected}
	sub.frames <- stream.Frame{Type: stream.FrameError, Message: "permission denied"}

	view := f.waitStatus(t, StatusClosed)
	assert.Equal(t, "permission denied", view.Err)
	assert.True(t, sub.closed.Load())

	time.Sleep(20 * time.Millisecond)

	view = f.ctrl.Snapshot()
	assert.Equal(t, []string{"streaming system journal logs from m1"}, texts(view.Lines))
}

func Test_ErrorFrame_ClearedByStart(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	sub.frames <- stream.Frame{Type: stream.FrameError}
	view := f.waitStatus(t, StatusClosed)
	assert.Equal(t, "stream error", view.Err)

	f.start(t, journalConfig("m1"))
	assert.Empty(t, f.ctrl.Snapshot().Err)
}

func Test_TransportLoss(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))
	sub.err = errors.ErrFailedToReadStream

	sub.frames <- stream.Frame{Type: stream.FrameConnected}
	sub.frames <- logFrame("a", "")
	f.waitLines(t, 2)

	sub.Close()

	view := f.waitStatus(t, StatusClosed)
	assert.Equal(t, []string{"streaming system journal logs from m1", "a", NoticeLost}, texts(view.Lines))
	assert.Empty(t, view.Err)
}

func Test_LateFramesIgnored(t *testing.T) {
	f := newFixture(t)
	first := newFakeSubscription()
	// keep the channel open after Close to simulate a transport that still delivers
	f.transport.EXPECT().Open(gomock.Any(), journalConfig("m1")).Return(&leakySubscription{first}, nil)
	require.NoError(t, f.ctrl.Start(context.Background(), journalConfig("m1")))

	f.ctrl.Stop()

	first.frames <- logFrame("late", "")
	close(first.frames)

	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, []string{NoticeStopped}, texts(f.ctrl.Snapshot().Lines))
}

type leakySubscription struct {
	*fakeSubscription
}

func (s *leakySubscription) Close() error { return nil }

func Test_ExportText(t *testing.T) {
	f := newFixture(t)
	t1 := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	t2 := t1.Add(1500 * time.Millisecond)

	f.impl.lines = []Line{
		{Kind: KindData, Text: "a", Received: t1},
		{Kind: KindData, Text: "b", Received: t2},
	}
	f.impl.overflow = []Line{{Kind: KindData, Text: "hidden", Received: t2}}

	expected := "[2026-03-04T05:06:07.000Z] a\n[2026-03-04T05:06:08.500Z] b"

	assert.Equal(t, expected, f.ctrl.ExportText())

	var buf bytes.Buffer
	require.NoError(t, f.ctrl.Export(&buf))
	assert.Equal(t, expected, buf.String())
}

func Test_ExportText_Empty(t *testing.T) {
	f := newFixture(t)
	assert.Empty(t, f.ctrl.ExportText())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func Test_Export_WriteFailure(t *testing.T) {
	f := newFixture(t)
	f.impl.lines = []Line{{Kind: KindData, Text: "a"}}

	err := f.ctrl.Export(failingWriter{})

	require.ErrorIs(t, err, errors.ErrFailedToWriteExport)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func Test_Teardown(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	sub.frames <- stream.Frame{Type: stream.FrameConnected}
	f.waitStatus(t, StatusLive)

	f.releaser.EXPECT().Release(gomock.Any(), "m1").DoAndReturn(func(ctx context.Context, _ string) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)

		return nil
	})

	done := f.ctrl.Teardown()

	assert.True(t, sub.closed.Load())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("release did not finish")
	}

	time.Sleep(20 * time.Millisecond)

	view := f.ctrl.Snapshot()
	assert.Equal(t, StatusClosed, view.Status)
	assert.NotContains(t, texts(view.Lines), NoticeLost)
}

func Test_Teardown_ReleaseFailure(t *testing.T) {
	f := newFixture(t)
	f.start(t, journalConfig("m1"))

	f.releaser.EXPECT().Release(gomock.Any(), "m1").Return(errors.ErrFailedToRelease)

	<-f.ctrl.Teardown()

	assert.Equal(t, StatusClosed, f.ctrl.Snapshot().Status)
}

func Test_Teardown_NoSession(t *testing.T) {
	tests := []struct {
		name   string
		before func(t *testing.T, f *fixture)
	}{
		{name: "Idle", before: func(*testing.T, *fixture) {}},
		{
			name: "Stopped",
			before: func(t *testing.T, f *fixture) {
				f.start(t, journalConfig("m1"))
				f.ctrl.Stop()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.before(t, f)

			select {
			case <-f.ctrl.Teardown():
			default:
				t.Fatal("teardown without a session must complete immediately")
			}
		})
	}
}

func Test_Snapshot_IsCopy(t *testing.T) {
	f := newFixture(t)
	sub := f.start(t, journalConfig("m1"))

	sub.frames <- logFrame("a", "")
	view := f.waitLines(t, 1)

	view.Lines[0].Text = "mutated"

	assert.Equal(t, "a", f.ctrl.Snapshot().Lines[0].Text)
}
