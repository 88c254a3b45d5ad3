package cli

import (
	"strings"

	"porter/internal/app/stream"
	"porter/internal/config"
)

// Session builds the stream configuration from parsed options, falling back to config defaults
func (o *Options) Session(cfg *config.Config) (stream.Config, error) {
	kindName := o.Kind
	if kindName == "" {
		kindName = cfg.Stream.Kind
	}

	kind, err := stream.ParseSourceKind(kindName)
	if err != nil {
		return stream.Config{}, err
	}

	lines := cfg.Stream.Lines
	if o.Lines != "" {
		lines = stream.ParseLines(o.Lines)
	}

	session := stream.Config{
		MachineID: strings.TrimSpace(o.Machine),
		Kind:      kind,
		Target:    strings.TrimSpace(o.Target),
		Lines:     lines,
		Filter:    o.Filter,
		Elevated:  o.Sudo,
	}

	if err := session.Validate(); err != nil {
		return stream.Config{}, err
	}

	return session, nil
}
