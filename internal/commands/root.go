package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// Run without a subcommand it starts the interactive menu.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal expense tracker",
		Version: buildinfo.String(),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath, "config file")
	pf.StringVar(&flags.file, "file", "", "data file (overrides storage.path; with init, sets it)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (overrides log.level)")

	rootCmd.AddCommand(
		newInitCommand(flags),
		newMenuCommand(flags),
		newAddCommand(flags),
		newListCommand(flags),
		newEditCommand(flags),
		newDeleteCommand(flags),
		newSummaryCommand(flags),
		newChartCommand(flags),
		newImportCommand(flags),
		newLogCommand(flags),
	)

	return rootCmd
}
