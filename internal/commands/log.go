package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/report"
)

func newLogCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the history of changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			if s.activity == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Activity log is disabled (activity.path is empty).")
				return nil
			}

			entries, err := s.activity.Read()
			if err != nil {
				return err
			}
			report.Activity(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}
