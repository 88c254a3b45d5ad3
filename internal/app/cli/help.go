package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"porter/internal/config"
)

var (
	sectionHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginTop(1).MarginBottom(1)
	commandName     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	exampleCode     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA726"))
	bodyText        = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))
	mutedText       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	appNameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	appVersionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BDBDBD"))
	errorLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

type helpRow struct {
	usage string
	desc  string
}

var (
	usageRows = []helpRow{
		{"porter logs <machine> [flags]", "Stream live logs from a machine"},
		{"porter init [--force] [--dry-run]", "Generate porter.yaml"},
		{"porter version", "Show version"},
		{"porter help", "Show help"},
	}

	flagRows = []helpRow{
		{"-k, --kind", "journal, user-journal, file, container, compose"},
		{"-t, --target", "Unit, file path, container or compose project"},
		{"-n, --lines", "Backlog lines (default 50)"},
		{"-f, --filter", "Journal match filter"},
		{"    --sudo", "Read files with elevated privileges"},
		{"    --highlight", "Glob of lines to highlight, e.g. '*error*'"},
		{"    --export", "Write the visible buffer to a file on exit"},
		{"    --no-ui", "Print to stdout instead of the viewer"},
	}

	exampleRows = []helpRow{
		{"porter logs web-01", "Follow the system journal"},
		{"porter logs web-01 -k container -t api", "Follow a container"},
		{"porter logs web-01 -k file -t /var/log/auth.log --sudo", "Tail a protected file"},
		{"porter logs web-01 --no-ui --export out.log", "Print and save on exit"},
	}
)

func renderTitle() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		appNameStyle.Render(config.AppName)+appVersionStyle.Render(" v"+config.Version),
		bodyText.Render(config.AppDescription),
	)
}

func renderRows(style lipgloss.Style, rows []helpRow) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.usage))
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		padding := strings.Repeat(" ", width-len(r.usage)+3)
		lines = append(lines, "  "+style.Render(r.usage)+padding+mutedText.Render(r.desc))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderHelp() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderTitle(),
		sectionHeader.Render("Usage:"),
		renderRows(commandName, usageRows),
		sectionHeader.Render("Flags:"),
		renderRows(commandName, flagRows),
		sectionHeader.Render("Examples:"),
		renderRows(exampleCode, exampleRows),
	) + "\n"
}

func renderVersion() string {
	return renderTitle()
}

func renderError(err error) string {
	return errorLabel.Render("Error:") + " " + err.Error()
}
