package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"

	"porter/internal/app/cli"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// mockLifecycle implements fx.Lifecycle for testing
type mockLifecycle struct {
	onAppend func(fx.Hook)
}

func (m *mockLifecycle) Append(hook fx.Hook) {
	if m.onAppend != nil {
		m.onAppend(hook)
	}
}

// mockShutdowner records the requested exit code
type mockShutdowner struct {
	called   chan struct{}
	options  []fx.ShutdownOption
	shutdown error
}

func newMockShutdowner() *mockShutdowner {
	return &mockShutdowner{called: make(chan struct{}, 1)}
}

func (m *mockShutdowner) Shutdown(opts ...fx.ShutdownOption) error {
	m.options = opts
	m.called <- struct{}{}

	return m.shutdown
}

func testLogger() logger.Logger {
	return logger.NewLoggerWithOutput(config.DefaultConfig(), io.Discard)
}

func Test_NewApp(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockCLI := cli.NewMockCLI(ctrl)
	log := testLogger()

	application := NewApp(mockCLI, newMockShutdowner(), log)

	assert.NotNil(t, application)
	assert.Equal(t, mockCLI, application.cli)
	assert.Equal(t, log, application.log)
}

func Test_execute(t *testing.T) {
	tests := []struct {
		name         string
		before       func(mockCLI *cli.MockCLI)
		expectedCode int
	}{
		{
			name: "Success",
			before: func(mockCLI *cli.MockCLI) {
				mockCLI.EXPECT().Execute().Return(0, nil)
			},
			expectedCode: 0,
		},
		{
			name: "Failure",
			before: func(mockCLI *cli.MockCLI) {
				mockCLI.EXPECT().Execute().Return(1, errors.New("stream failed"))
			},
			expectedCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockCLI := cli.NewMockCLI(ctrl)
			tt.before(mockCLI)

			app := NewApp(mockCLI, newMockShutdowner(), testLogger())

			assert.Equal(t, tt.expectedCode, app.execute())
		})
	}
}

func Test_App_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCLI := cli.NewMockCLI(ctrl)
	shutdowner := newMockShutdowner()
	shutdowner.shutdown = errors.New("already stopping")

	mockCLI.EXPECT().Execute().Return(1, errors.New("stream failed"))

	app := NewApp(mockCLI, shutdowner, testLogger())
	app.Run()

	select {
	case <-app.done:
	default:
		t.Fatal("done not closed")
	}

	require.Len(t, shutdowner.options, 1)
}

func Test_Register(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockCLI := cli.NewMockCLI(ctrl)
	shutdowner := newMockShutdowner()
	app := NewApp(mockCLI, shutdowner, testLogger())

	var capturedHook fx.Hook

	Register(&mockLifecycle{onAppend: func(hook fx.Hook) { capturedHook = hook }}, app)

	require.NotNil(t, capturedHook.OnStart)
	require.NotNil(t, capturedHook.OnStop)

	mockCLI.EXPECT().Execute().Return(0, nil)

	require.NoError(t, capturedHook.OnStart(context.Background()))

	select {
	case <-shutdowner.called:
	case <-time.After(time.Second):
		t.Fatal("app did not request shutdown")
	}

	assert.NoError(t, capturedHook.OnStop(context.Background()))
}

func Test_Register_OnStopTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)

	app := NewApp(cli.NewMockCLI(ctrl), newMockShutdowner(), testLogger())

	var capturedHook fx.Hook

	Register(&mockLifecycle{onAppend: func(hook fx.Hook) { capturedHook = hook }}, app)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, capturedHook.OnStop(ctx), context.Canceled)
}
