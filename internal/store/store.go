// Package store persists a ledger to a flat CSV file.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/tally/internal/ledger"
)

// Store loads and saves a ledger at a fixed path.
type Store struct {
	path       string
	attempts   uint
	retryDelay time.Duration
	log        logrus.FieldLogger
}

// Options tunes how Save retries failed writes.
type Options struct {
	SaveAttempts   int
	SaveRetryDelay time.Duration
}

// New creates a Store for the CSV file at path.
func New(path string, opts Options, log logrus.FieldLogger) *Store {
	attempts := uint(1)
	if opts.SaveAttempts > 1 {
		attempts = uint(opts.SaveAttempts)
	}
	return &Store{
		path:       path,
		attempts:   attempts,
		retryDelay: opts.SaveRetryDelay,
		log:        log.WithField("file", path),
	}
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the data file. A missing file yields an empty ledger.
func (s *Store) Load() (*ledger.Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("data file not found, starting with an empty ledger")
		return ledger.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening data file %s: %w", s.path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f, s.log)
	if err != nil {
		return nil, fmt.Errorf("reading data file %s: %w", s.path, err)
	}
	s.log.WithField("transactions", len(txns)).Debug("ledger loaded")
	return ledger.New(txns...), nil
}

// Save rewrites the data file with the full ledger. The file is replaced
// atomically through a temporary file in the same directory.
func (s *Store) Save(l *ledger.Ledger) error {
	err := retry.Do(
		func() error {
			return s.write(l)
		},
		retry.Attempts(s.attempts),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.WithError(err).WithField("attempt", n+1).Warn("saving data file failed, retrying")
		}),
	)
	if err != nil {
		return fmt.Errorf("saving data file %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) write(l *ledger.Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteTransactions(tmp, l.All()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing data file: %w", err)
	}
	return nil
}
