package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/menu"
	"github.com/cleared-dev/tally/internal/prompt"
)

func newMenuCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, flags)
		},
	}
}

func runMenu(cmd *cobra.Command, flags *globalFlags) error {
	s, err := flags.open(cmd)
	if err != nil {
		return err
	}

	p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
	m := menu.New(s.svc, p, s.charts(), menu.Suggestions{
		Categories: s.cfg.Suggestions.Categories,
		Methods:    s.cfg.Suggestions.Methods,
	}, s.log)
	return m.Run()
}
