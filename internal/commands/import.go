package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/importer"
)

func newImportCommand(flags *globalFlags) *cobra.Command {
	var format, category, method string

	registry := importer.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import expenses from bank statement CSV files",
		Long: "Import the debits of bank statement CSV files as expenses. Without arguments, " +
			"every CSV in the import/ directory next to the data file is imported and then " +
			"moved to import/processed/. Debits already in the ledger with the same date, " +
			"amount and description are skipped, so importing a statement twice adds nothing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(registry.Formats(), ", "))
			}

			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			paths := args
			root := filepath.Dir(s.cfg.Storage.Path)
			scanned := len(args) == 0
			if scanned {
				files, err := importer.Scan(root)
				if err != nil {
					return err
				}
				for _, f := range files {
					paths = append(paths, f.Path)
				}
			}
			if len(paths) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No statements found in %s\n", filepath.Join(root, importer.ImportDir))
				return nil
			}

			for _, path := range paths {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening statement: %w", err)
				}
				rows, err := parser.Parse(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("parsing %s: %w", path, err)
				}

				name := filepath.Base(path)
				txns, skipped := importer.Unseen(s.svc.Ledger().All(), importer.Expenses(rows, category, method))
				if err := s.svc.AddAll(txns, name); err != nil {
					return err
				}
				if scanned {
					if err := importer.MarkProcessed(root, name); err != nil {
						return err
					}
				}
				s.log.WithField("file", name).WithField("rows", len(rows)).Debug("statement imported")
				if skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses from %s (%d already recorded)\n", len(txns), name, skipped)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses from %s\n", len(txns), name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "statement format ("+strings.Join(registry.Formats(), ", ")+")")
	cmd.Flags().StringVar(&category, "category", "other", "category for imported expenses")
	cmd.Flags().StringVar(&method, "method", "debit", "payment method for imported expenses")

	return cmd
}
