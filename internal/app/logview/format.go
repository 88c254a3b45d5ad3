package logview

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/gobwas/glob"

	"porter/internal/app/errors"
	"porter/internal/app/stream"
	"porter/internal/app/ui/components"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// Formatter renders lines for plain terminal output
type Formatter struct {
	mu           sync.Mutex
	format       string
	timeFormat   string
	maxSourceLen int
	highlight    glob.Glob
	revision     uint64
	sourceStyles map[string]lipgloss.Style
}

// NewFormatter creates a Formatter; an invalid highlight pattern is an error
func NewFormatter(cfg *config.Config) (*Formatter, error) {
	f := &Formatter{
		format:       cfg.Logging.Format,
		timeFormat:   cfg.Stream.TimeFormat,
		sourceStyles: make(map[string]lipgloss.Style),
	}

	if err := f.SetHighlight(cfg.Stream.Highlight); err != nil {
		return nil, err
	}

	return f, nil
}

// SetHighlight replaces the highlight pattern; empty disables highlighting
func (f *Formatter) SetHighlight(pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if pattern == "" {
		f.highlight = nil
		f.revision++

		return nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", errors.ErrInvalidHighlight, pattern, err)
	}

	f.highlight = g
	f.revision++

	return nil
}

// Revision changes every time the highlight pattern is replaced
func (f *Formatter) Revision() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.revision
}

// Highlighted reports whether text matches the highlight pattern
func (f *Formatter) Highlighted(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.highlight != nil && f.highlight.Match(text)
}

// FormatLine renders one line terminated by a newline. label names the stream when the line has no source tag.
func (f *Formatter) FormatLine(label string, line Line) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	source := line.Source
	if source == "" {
		source = label
	}

	if f.format == logger.JSONFormat {
		return f.formatJSON(source, line)
	}

	if line.IsNotice() {
		return components.NoticeStyle.Render("── "+line.Text) + "\n"
	}

	message := line.Text
	if f.highlight != nil && f.highlight.Match(message) {
		message = components.HighlightStyle.Render(message)
	}

	return f.sourceColumn(source) + " " +
		components.SeparatorStyle.Render("|") + " " +
		message + "\n"
}

// WriteLine writes a formatted line to w
func (f *Formatter) WriteLine(w io.Writer, label string, line Line) {
	fmt.Fprint(w, f.FormatLine(label, line))
}

// RenderBanner writes a connection banner describing the session
func (f *Formatter) RenderBanner(w io.Writer, cfg stream.Config) {
	if f.format == logger.JSONFormat {
		return
	}

	width, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width < components.MinBannerWidth {
		width = components.DefaultViewportWidth
	}

	muted := components.MutedStyle.Render
	bold := components.BoldStyle.Render

	field := func(label, value string) string {
		return muted(label) + " " + bold(value)
	}

	target := cfg.Target
	if target == "" {
		target = "-"
	}

	rows := []string{
		components.TitleStyle.Render("logs") + " " + muted("v"+config.Version),
		field("machine:", cfg.MachineID),
		field("source: ", cfg.Kind.Label()),
		field("target: ", target),
		field("backlog:", fmt.Sprintf("%d lines", cfg.Lines)),
	}

	if cfg.Filter != "" && cfg.Kind.SupportsFilter() {
		rows = append(rows, field("filter: ", cfg.Filter))
	}

	panel := components.PanelBorderStyle.Width(width - components.PanelInnerPadding).Render(strings.Join(rows, "\n"))
	footer := " " + components.HelpStyle.Render("ctrl+c") + " " + muted("stop")

	fmt.Fprintln(w, panel)
	fmt.Fprintln(w, footer)
}

type jsonLine struct {
	Time   string `json:"time"`
	Kind   string `json:"kind"`
	Source string `json:"source,omitempty"`
	Text   string `json:"text"`
}

func (f *Formatter) formatJSON(source string, line Line) string {
	entry := jsonLine{
		Time:   line.Received.Format(f.timeFormat),
		Kind:   string(line.Kind),
		Source: source,
		Text:   line.Text,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"kind":%q,"text":%q}`+"\n", line.Kind, line.Text)
	}

	return string(data) + "\n"
}

// sourceColumn pads the source to the widest one seen so far
func (f *Formatter) sourceColumn(source string) string {
	if len(source) > components.LogSourceMaxWidth {
		source = components.Truncate(source, components.LogSourceMaxWidth)
	}

	width := lipgloss.Width(source)
	if width > f.maxSourceLen {
		f.maxSourceLen = width
	}

	style, ok := f.sourceStyles[source]
	if !ok {
		style = components.SourceStyle(source)
		f.sourceStyles[source] = style
	}

	return style.Render(source + strings.Repeat(" ", f.maxSourceLen-width))
}
