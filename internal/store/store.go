// Package store owns the in-memory todo list. The list is authoritative: every
// mutation lands in memory first and is then written behind, in full, to the
// Persister.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/cardtodo/internal/model"
)

// Persister moves the whole list in and out of durable storage.
// jsonstore.Adapter is the production implementation.
type Persister interface {
	// Load returns the stored list, or an empty one when nothing usable exists.
	Load(ctx context.Context) []model.Record
	// Save overwrites the stored list.
	Save(ctx context.Context, records []model.Record) error
}

// Store is the ordered, newest-first list of records.
type Store struct {
	mu sync.RWMutex
	// records is replaced, never modified in place, so a slice handed to the
	// writer stays valid. Snapshots are enqueued while mu is held.
	records []model.Record

	persist Persister
	ids     IDGenerator
	log     *zap.Logger
	w       *writer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDs replaces the id generator.
func WithIDs(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithClock drives the default millisecond id generator from now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.ids = NewMillisIDs(now) }
}

// New returns an empty Store writing through p. Call Load to pick up the
// persisted list and Close to stop the background writer.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		records: []model.Record{},
		persist: p,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewMillisIDs(nil)
	}
	s.w = newWriter(p.Save, s.log)
	return s
}

// Load replaces the list with whatever the Persister returns. A failed or
// empty load leaves an empty list.
func (s *Store) Load(ctx context.Context) {
	loaded := s.persist.Load(ctx)

	ids := make([]string, len(loaded))
	for i, r := range loaded {
		ids[i] = r.ID
	}
	s.ids.Seen(ids...)

	s.mu.Lock()
	s.records = append([]model.Record{}, loaded...)
	s.mu.Unlock()
	s.log.Debug("store loaded", zap.Int("count", len(loaded)))
}

// Add validates name and age, prepends a new record and schedules a save.
// The only error is a *model.ValidationError, returned with the list
// untouched when either value is empty.
func (s *Store) Add(name, age string) (model.Record, error) {
	name, age, err := model.Draft(name, age)
	if err != nil {
		return model.Record{}, err
	}
	r := model.Record{ID: s.ids.Next(), Name: name, Age: age}

	s.mu.Lock()
	next := make([]model.Record, 0, len(s.records)+1)
	next = append(next, r)
	next = append(next, s.records...)
	s.records = next
	s.w.enqueue(next)
	s.mu.Unlock()

	s.log.Debug("record added", zap.String("id", r.ID))
	return r, nil
}

// Remove drops the record with id. An unknown id is not an error; the list is
// still written so the stored copy matches memory. It reports whether a
// record was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	next := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	removed := len(next) != len(s.records)
	s.records = next
	s.w.enqueue(next)
	s.mu.Unlock()

	s.log.Debug("record removed", zap.String("id", id), zap.Bool("found", removed))
	return removed
}

// Toggle flips Completed on the record with id and returns the updated
// record. ok is false when no record has that id.
func (s *Store) Toggle(id string) (r model.Record, ok bool) {
	s.mu.Lock()
	next := make([]model.Record, len(s.records))
	copy(next, s.records)
	for i := range next {
		if next[i].ID == id {
			next[i].Completed = !next[i].Completed
			r, ok = next[i], true
			break
		}
	}
	s.records = next
	s.w.enqueue(next)
	s.mu.Unlock()

	s.log.Debug("record toggled", zap.String("id", id), zap.Bool("found", ok))
	return r, ok
}

// List returns a copy of the current list, newest first.
func (s *Store) List() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Flush waits for pending writes and returns the error of the latest one.
func (s *Store) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close flushes pending writes and stops the writer.
func (s *Store) Close(ctx context.Context) error {
	return s.w.close(ctx)
}
