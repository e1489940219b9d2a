package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/store"
)

func newInitCommand(flags *globalFlags) *cobra.Command {
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a config file and an empty data file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			log := logging.Setup(cmd.ErrOrStderr(), config.Default().Log)
			dataFile := ""
			if flags.file != "" {
				if dataFile, err = filepath.Abs(flags.file); err != nil {
					return fmt.Errorf("resolving data file path: %w", err)
				}
			}

			hash, err := runInit(absDir, dataFile, withGit, log)
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized expense tracker at %s (%s)\n", absDir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized expense tracker at %s\n", absDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withGit, "git", false, "keep the data files in a git repository and commit every change")

	return cmd
}

// runInit writes tally.yaml and the data file into dir. A non-empty
// dataFile replaces the default storage path; it is stored relative to dir
// when it lies inside it.
func runInit(dir, dataFile string, withGit bool, log logrus.FieldLogger) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, config.DefaultPath)
	if _, err := os.Stat(cfgPath); err == nil {
		return "", fmt.Errorf("%s already exists", cfgPath)
	}

	// Write tally.yaml.
	cfg := config.Default()
	cfg.Git.AutoCommit = withGit
	if dataFile != "" {
		cfg.Storage.Path = dataFile
		if rel, err := filepath.Rel(dir, dataFile); err == nil && !strings.HasPrefix(rel, "..") {
			cfg.Storage.Path = rel
		}
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	// Write an empty data file unless one is already there.
	cfg.RelativeTo(cfgPath)
	if _, err := os.Stat(cfg.Storage.Path); errors.Is(err, fs.ErrNotExist) {
		st := store.New(cfg.Storage.Path, store.Options{}, log)
		if err := st.Save(ledger.New()); err != nil {
			return "", fmt.Errorf("writing data file: %w", err)
		}
	}

	if !withGit {
		return "", nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return "", fmt.Errorf("git init: %w", err)
		}
	}

	repo := gitops.Repo{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	hash, err := repo.Commit("init: create expense tracker", cfgPath, cfg.Storage.Path)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
