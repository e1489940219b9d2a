package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/chart"
	"github.com/cleared-dev/tally/internal/report"
)

func newSummaryCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "summary monthly|minmax|category|year",
		Short:     "Print summary statistics",
		ValidArgs: []string{"monthly", "minmax", "category", "year"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			l := s.svc.Ledger()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "monthly":
				report.MonthlySummary(out, l.MonthlySummary())
			case "minmax":
				maxAmt, minAmt, ok := l.MinMax()
				report.MinMax(out, maxAmt, minAmt, ok)
			case "category":
				report.Totals(out, "Category", l.TotalByCategory())
			case "year":
				report.Totals(out, "Year", l.TotalByYear())
			}
			return nil
		},
	}

	return cmd
}

func newChartCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "chart pie|years|histogram|category-year",
		Short:     "Render a chart to an HTML file",
		ValidArgs: []string{"pie", "years", "histogram", "category-year"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			l := s.svc.Ledger()
			r := s.charts()
			var path string
			switch args[0] {
			case "pie":
				path, err = r.CategoryPie(l.TotalByCategory())
			case "years":
				path, err = r.YearlyBar(l.TotalByYear())
			case "histogram":
				path, err = r.AmountHistogram(l.Amounts())
			case "category-year":
				path, err = r.CategoryYearBar(l.TotalByCategoryAndYear())
			}
			if errors.Is(err, chart.ErrNoData) {
				fmt.Fprintln(cmd.OutOrStdout(), "No data to plot.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to %s\n", path)
			return nil
		},
	}

	return cmd
}
