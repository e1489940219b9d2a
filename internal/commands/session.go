package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/chart"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/store"
	"github.com/cleared-dev/tally/internal/tracker"
)

type globalFlags struct {
	configPath string
	file       string
	logLevel   string
}

// session is everything a command needs to work on the ledger.
type session struct {
	cfg      *config.Config
	log      *logrus.Logger
	svc      *tracker.Service
	activity *activity.Log
}

// loadConfig resolves the config and returns it with the absolute config
// file path.
func (f *globalFlags) loadConfig() (*config.Config, string, error) {
	path, err := filepath.Abs(f.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("resolving config path: %w", err)
	}
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	cfg.RelativeTo(path)

	if f.file != "" {
		file, err := filepath.Abs(f.file)
		if err != nil {
			return nil, "", fmt.Errorf("resolving data file path: %w", err)
		}
		cfg.Storage.Path = file
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, path, nil
}

func (f *globalFlags) open(cmd *cobra.Command) (*session, error) {
	cfg, cfgPath, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.Setup(cmd.ErrOrStderr(), cfg.Log)

	st := store.New(cfg.Storage.Path, store.Options{
		SaveAttempts:   cfg.Storage.SaveAttempts,
		SaveRetryDelay: cfg.Storage.SaveRetryDelay,
	}, log)

	s := &session{cfg: cfg, log: log}
	var opts []tracker.Option
	if cfg.Activity.Path != "" {
		s.activity = activity.New(cfg.Activity.Path)
		opts = append(opts, tracker.WithRecorder(s.activity))
	}

	if cfg.Git.AutoCommit {
		// tally init --git creates the repository next to tally.yaml.
		repoDir := filepath.Dir(cfgPath)
		if gitops.IsRepo(repoDir) {
			opts = append(opts, tracker.WithCommitter(gitops.Repo{
				Dir:         repoDir,
				AuthorName:  cfg.Git.AuthorName,
				AuthorEmail: cfg.Git.AuthorEmail,
			}))
		} else {
			log.WithField("dir", repoDir).Warn("git.auto_commit is set but the config directory is not a git repository; run tally init --git")
		}
	}

	s.svc, err = tracker.Open(st, log, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) charts() *chart.Renderer {
	return chart.New(s.cfg.Charts.Dir, s.cfg.Charts.HistogramBins)
}
