package stream

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"porter/internal/app/errors"
)

// DefaultLines is the backlog size used when the requested count cannot be parsed
const DefaultLines = 50

// Config describes one streaming session
type Config struct {
	MachineID string
	Kind      SourceKind
	Target    string
	Lines     int
	Filter    string
	Elevated  bool
}

// ParseLines converts user input to a backlog line count, coercing bad input to DefaultLines
func ParseLines(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultLines
	}

	return n
}

// Validate checks the fields the client can verify before opening a subscription
func (c Config) Validate() error {
	if strings.TrimSpace(c.MachineID) == "" {
		return errors.ErrMachineRequired
	}

	if !c.Kind.Valid() {
		return fmt.Errorf("%w: '%s'", errors.ErrInvalidSourceKind, c.Kind)
	}

	if c.Kind.NeedsTarget() && strings.TrimSpace(c.Target) == "" {
		return fmt.Errorf("%w: %s", errors.ErrTargetRequired, c.Kind)
	}

	return nil
}

// Query builds the endpoint parameters; options that do not apply to the kind are omitted
func (c Config) Query() url.Values {
	lines := c.Lines
	if lines <= 0 {
		lines = DefaultLines
	}

	q := url.Values{}
	q.Set("kind", string(c.Kind))
	q.Set("lines", strconv.Itoa(lines))

	if c.Target != "" {
		q.Set("target", c.Target)
	}

	if c.Filter != "" && c.Kind.SupportsFilter() {
		q.Set("filter", c.Filter)
	}

	if c.Elevated && c.Kind.SupportsElevated() {
		q.Set("sudo", "true")
	}

	return q
}

// Describe renders the source for notices, e.g. "container logs for web"
func (c Config) Describe() string {
	if c.Target == "" {
		return c.Kind.Label() + " logs"
	}

	return fmt.Sprintf("%s logs for %s", c.Kind.Label(), c.Target)
}
