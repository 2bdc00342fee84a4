// Package catalog provides the in-memory event collection feeding the
// filter engine. The collection is insertion-ordered except that new
// records are prepended; edits address records by their position in the
// current collection. Nothing here is persisted: a reload replaces the
// whole collection from the source document.
package catalog

import (
	"errors"
	"sync"

	"github.com/cmarchi/cartaz/internal/model"
)

// ErrIndexOutOfRange is returned by Update and Remove when the position
// does not exist in the current collection. The collection is left
// untouched; editing the wrong record would be worse than refusing.
var ErrIndexOutOfRange = errors.New("catalog: index out of range")

// Store owns the event collection. There is one logical writer (the
// serving layer); the mutex serializes its mutations against concurrent
// reads so positional indices always refer to a consistent snapshot.
type Store struct {
	mu       sync.RWMutex
	events   []model.Event
	revision uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// ReplaceAll swaps in a whole new collection. Used by the initial load,
// the periodic refresh, and bulk import.
func (s *Store) ReplaceAll(events []model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make([]model.Event, len(events))
	copy(s.events, events)
	s.revision++
}

// Add prepends a record; the collection is most-recent-first.
func (s *Store) Add(ev model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]model.Event{ev}, s.events...)
	s.revision++
}

// Update replaces the record at index in the current collection.
func (s *Store) Update(index int, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.events) {
		return ErrIndexOutOfRange
	}
	s.events[index] = ev
	s.revision++
	return nil
}

// Remove deletes the record at index in the current collection.
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.events) {
		return ErrIndexOutOfRange
	}
	s.events = append(s.events[:index], s.events[index+1:]...)
	s.revision++
	return nil
}

// Get returns the record at index.
func (s *Store) Get(index int) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.events) {
		return model.Event{}, ErrIndexOutOfRange
	}
	return s.events[index], nil
}

// Snapshot returns a copy of the full collection in its current order.
// The filter engine only ever reads snapshots.
func (s *Store) Snapshot() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// SnapshotWithRevision returns the collection copy together with the
// revision it belongs to, under one lock. Readers pairing the two must
// use this instead of separate Snapshot and Revision calls, or a
// mutation landing in between hands them a revision for the wrong
// snapshot.
func (s *Store) SnapshotWithRevision() ([]model.Event, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out, s.revision
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Revision is a counter bumped by every mutation. The pagination view
// watches it to reset to page one when the catalog changes under an
// unchanged filter.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}
