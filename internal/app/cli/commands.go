package cli

import (
	"github.com/spf13/cobra"

	"porter/internal/config"
)

// CommandType represents the type of CLI command
type CommandType int

// Command type values
const (
	CommandHelp CommandType = iota
	CommandLogs
	CommandInit
	CommandVersion
)

// Options contains the parsed command-line arguments
type Options struct {
	Type      CommandType
	NoUI      bool
	Machine   string
	Kind      string
	Target    string
	Lines     string
	Filter    string
	Sudo      bool
	Highlight string
	Export    string
	Force     bool
	DryRun    bool
}

// Parse parses command-line args and returns an Options struct
func Parse(args []string) (*Options, error) {
	result := &Options{Type: CommandHelp}

	var showVersion bool

	root := buildRootCommand(result, &showVersion)
	root.AddCommand(
		buildLogsCommand(result),
		buildInitCommand(result),
		buildVersionCommand(result),
	)

	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}

	if showVersion {
		result.Type = CommandVersion
	}

	return result, nil
}

// buildRootCommand creates the root cobra command
func buildRootCommand(result *Options, showVersion *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         config.AppDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandHelp
		},
	}

	cmd.PersistentFlags().BoolVar(&result.NoUI, "no-ui", false, "Print lines to stdout instead of the interactive viewer")
	cmd.Flags().BoolVarP(showVersion, "version", "v", false, "Show version information")

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		result.Type = CommandHelp
	})

	return cmd
}

// buildLogsCommand creates the logs subcommand
func buildLogsCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logs <machine>",
		Aliases: []string{"l"},
		Short:   "Stream live logs from a machine",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandLogs
			result.Machine = args[0]
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&result.Kind, "kind", "k", "", "Log source: journal, user-journal, file, container, compose")
	flags.StringVarP(&result.Target, "target", "t", "", "Unit, file path, container or compose project")
	flags.StringVarP(&result.Lines, "lines", "n", "", "Backlog lines to fetch before following")
	flags.StringVarP(&result.Filter, "filter", "f", "", "Journal match filter")
	flags.BoolVar(&result.Sudo, "sudo", false, "Read the file with elevated privileges")
	flags.StringVar(&result.Highlight, "highlight", "", "Glob pattern of lines to highlight")
	flags.StringVar(&result.Export, "export", "", "Write the visible buffer to this file on exit")

	return cmd
}

// buildInitCommand creates the init subcommand
func buildInitCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"i"},
		Short:   "Generate a " + config.ConfigFile + " with the default settings",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandInit
		},
	}

	cmd.Flags().BoolVarP(&result.Force, "force", "f", false, "Overwrite an existing "+config.ConfigFile)
	cmd.Flags().BoolVarP(&result.DryRun, "dry-run", "d", false, "Print the file instead of writing it")

	return cmd
}

// buildVersionCommand creates the version subcommand
func buildVersionCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandVersion
		},
	}
}
