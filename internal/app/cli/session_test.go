package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"porter/internal/app/errors"
	"porter/internal/app/stream"
	"porter/internal/config"
)

func Test_Options_Session(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stream.Lines = 75

	tests := []struct {
		name     string
		opts     Options
		expected stream.Config
	}{
		{
			name:     "Config defaults",
			opts:     Options{Machine: "web-01"},
			expected: stream.Config{MachineID: "web-01", Kind: stream.KindJournal, Lines: 75},
		},
		{
			name:     "Kind alias and trimmed target",
			opts:     Options{Machine: " web-01 ", Kind: "docker", Target: " api "},
			expected: stream.Config{MachineID: "web-01", Kind: stream.KindContainer, Target: "api", Lines: 75},
		},
		{
			name:     "Lines parsed",
			opts:     Options{Machine: "web-01", Lines: "10"},
			expected: stream.Config{MachineID: "web-01", Kind: stream.KindJournal, Lines: 10},
		},
		{
			name:     "Bad lines coerced",
			opts:     Options{Machine: "web-01", Lines: "abc"},
			expected: stream.Config{MachineID: "web-01", Kind: stream.KindJournal, Lines: stream.DefaultLines},
		},
		{
			name:     "Filter and sudo carried",
			opts:     Options{Machine: "web-01", Kind: "file", Target: "/var/log/x", Filter: "f", Sudo: true},
			expected: stream.Config{MachineID: "web-01", Kind: stream.KindFile, Target: "/var/log/x", Lines: 75, Filter: "f", Elevated: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := tt.opts.Session(cfg)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, session)
		})
	}
}

func Test_Options_Session_Errors(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name   string
		opts   Options
		expect error
	}{
		{name: "Blank machine", opts: Options{Machine: "  "}, expect: errors.ErrMachineRequired},
		{name: "Unknown kind", opts: Options{Machine: "m", Kind: "syslog"}, expect: errors.ErrInvalidSourceKind},
		{name: "Missing target", opts: Options{Machine: "m", Kind: "compose"}, expect: errors.ErrTargetRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.Session(cfg)

			assert.ErrorIs(t, err, tt.expect)
		})
	}
}
