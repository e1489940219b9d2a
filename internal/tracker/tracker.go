// Package tracker owns the ledger for a session and persists every
// mutation before returning.
package tracker

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Store loads and saves the ledger.
type Store interface {
	Load() (*ledger.Ledger, error)
	Save(l *ledger.Ledger) error
	Path() string
}

// Recorder appends to the activity log.
type Recorder interface {
	Record(action activity.Action, index int, details string) error
	Path() string
}

// Committer records file history.
type Committer interface {
	Commit(message string, paths ...string) (string, error)
}

// Service applies mutations to the ledger and writes the result back.
type Service struct {
	ledger    *ledger.Ledger
	store     Store
	recorder  Recorder
	committer Committer
	log       logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder logs every mutation to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithCommitter commits the data files after every save.
func WithCommitter(c Committer) Option {
	return func(s *Service) { s.committer = c }
}

// Open loads the ledger from store.
func Open(store Store, log logrus.FieldLogger, opts ...Option) (*Service, error) {
	l, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	s := &Service{ledger: l, store: store, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Ledger returns the session ledger for queries.
func (s *Service) Ledger() *ledger.Ledger {
	return s.ledger
}

// Add appends t and saves.
func (s *Service) Add(t model.Transaction) error {
	s.ledger.Add(t)
	return s.persist(activity.ActionAdd, s.ledger.Len()-1, t)
}

// Replace overwrites the entry at index i and saves. It reports false,
// without saving, when i is out of range.
func (s *Service) Replace(i int, t model.Transaction) (bool, error) {
	if !s.ledger.Replace(i, t) {
		s.log.WithField("index", i).Debug("replace ignored: index out of range")
		return false, nil
	}
	return true, s.persist(activity.ActionEdit, i, t)
}

// Remove deletes the entry at index i and saves. It reports false,
// without saving, when i is out of range.
func (s *Service) Remove(i int) (bool, error) {
	t, ok := s.ledger.At(i)
	if !ok {
		s.log.WithField("index", i).Debug("remove ignored: index out of range")
		return false, nil
	}
	s.ledger.Remove(i)
	return true, s.persist(activity.ActionDelete, i, t)
}

// AddAll appends ts in order and saves once. Each transaction is
// recorded in the activity log, and a single commit covers the batch.
func (s *Service) AddAll(ts []model.Transaction, source string) error {
	if len(ts) == 0 {
		return nil
	}
	first := s.ledger.Len()
	for _, t := range ts {
		s.ledger.Add(t)
	}
	if err := s.store.Save(s.ledger); err != nil {
		return err
	}
	for i, t := range ts {
		s.record(activity.ActionAdd, first+i, Describe(t))
	}
	return s.commit(fmt.Sprintf("import: %d expenses from %s", len(ts), source))
}

func (s *Service) persist(action activity.Action, index int, t model.Transaction) error {
	if err := s.store.Save(s.ledger); err != nil {
		return err
	}
	details := Describe(t)
	s.record(action, index, details)
	return s.commit(fmt.Sprintf("%s: %s", action, details))
}

// record writes to the activity log. The data file is already saved, so
// a failure here is only logged.
func (s *Service) record(action activity.Action, index int, details string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(action, index, details); err != nil {
		s.log.WithError(err).Warn("failed to write activity log")
	}
}

func (s *Service) commit(message string) error {
	if s.committer == nil {
		return nil
	}
	paths := []string{s.store.Path()}
	if s.recorder != nil {
		paths = append(paths, s.recorder.Path())
	}
	hash, err := s.committer.Commit(message, paths...)
	if err != nil {
		return fmt.Errorf("committing changes: %w", err)
	}
	if hash != "" {
		s.log.WithField("commit", hash).Debug("data files committed")
	}
	return nil
}

// Describe renders t as a one-line summary.
func Describe(t model.Transaction) string {
	return fmt.Sprintf("%s %s %s %s %s",
		t.Date.Format(model.DateFormat), t.Category, t.Amount.StringFixed(2), t.Method, t.Description)
}
