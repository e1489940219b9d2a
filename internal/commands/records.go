package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
	"github.com/cleared-dev/tally/internal/tracker"
)

// fieldFlags are the transaction fields settable from the command line.
type fieldFlags struct {
	date        string
	category    string
	amount      string
	method      string
	description string
}

func (f *fieldFlags) register(cmd *cobra.Command, dateDefault string) {
	cmd.Flags().StringVar(&f.date, "date", dateDefault, "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount")
	cmd.Flags().StringVar(&f.method, "method", "", "payment method")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
}

// apply overwrites the fields of t whose flags were set on cmd.
func (f *fieldFlags) apply(cmd *cobra.Command, t model.Transaction) (model.Transaction, error) {
	changed := cmd.Flags().Changed
	if changed("date") || t.Date.IsZero() {
		d, err := model.ParseDate(f.date)
		if err != nil {
			return t, fmt.Errorf("invalid --date: %w", err)
		}
		t.Date = d
	}
	if changed("amount") {
		a, err := model.ParseAmount(f.amount)
		if err != nil {
			return t, fmt.Errorf("invalid --amount: %w", err)
		}
		t.Amount = a
	}
	if changed("category") {
		t.Category = f.category
	}
	if changed("method") {
		t.Method = f.method
	}
	if changed("description") {
		t.Description = f.description
	}
	t.Kind = model.KindExpense
	return t, nil
}

func newAddCommand(flags *globalFlags) *cobra.Command {
	var fields fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			t, err := fields.apply(cmd, model.Transaction{})
			if err != nil {
				return err
			}
			if err := s.svc.Add(t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added expense #%d: %s\n", s.svc.Ledger().Len(), tracker.Describe(t))
			return nil
		},
	}

	fields.register(cmd, time.Now().Format(model.DateFormat))
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newListCommand(flags *globalFlags) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" {
				if _, err := time.Parse("2006-01", month); err != nil {
					return fmt.Errorf("invalid --month %q: use YYYY-MM", month)
				}
			}

			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			var entries []ledger.Entry
			for i, t := range s.svc.Ledger().All() {
				if month == "" || t.Month() == month {
					entries = append(entries, ledger.Entry{Index: i, Transaction: t})
				}
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses recorded.")
				return nil
			}
			report.Transactions(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "only show this month (YYYY-MM)")

	return cmd
}

func newEditCommand(flags *globalFlags) *cobra.Command {
	var fields fieldFlags

	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Change fields of an expense",
		Long:  "Change fields of the expense at the position shown by list. Only the given flags are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}

			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			current, ok := s.svc.Ledger().At(pos - 1)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No expense #%d; nothing changed.\n", pos)
				return nil
			}
			updated, err := fields.apply(cmd, current)
			if err != nil {
				return err
			}
			if _, err := s.svc.Replace(pos-1, updated); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated expense #%d: %s\n", pos, tracker.Describe(updated))
			return nil
		},
	}

	fields.register(cmd, "")

	return cmd
}

func newDeleteCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}

			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			t, ok := s.svc.Ledger().At(pos - 1)
			removed, err := s.svc.Remove(pos - 1)
			if err != nil {
				return err
			}
			if !ok || !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No expense #%d; nothing deleted.\n", pos)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense #%d: %s\n", pos, tracker.Describe(t))
			return nil
		},
	}

	return cmd
}

// parsePosition reads the 1-based position shown by list.
func parsePosition(arg string) (int, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid expense number %q", arg)
	}
	return pos, nil
}
