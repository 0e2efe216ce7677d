package cv

import (
	"sync"
	"time"
)

// Listener is notified with the new document after every applied command.
type Listener func(Document)

// Store holds exactly one Document and applies commands to it through Reduce.
//
// Commands are applied one at a time. The mutex only exists because listeners (such as the
// autosave timer) read snapshots from other goroutines.
type Store struct {
	mu        sync.RWMutex
	doc       Document
	now       func() time.Time
	listeners []Listener
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the time source used to stamp UpdatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithDocument seeds the store with an existing document instead of an empty one.
func WithDocument(doc Document) StoreOption {
	return func(s *Store) {
		s.doc = normalize(doc.Clone())
	}
}

// NewStore creates a store holding a new empty document.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.doc.ID == "" {
		s.doc = New(s.now())
	}
	return s
}

// Subscribe registers fn to run after every applied command.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Dispatch applies cmd and returns the resulting document. Listeners are only notified when
// the command was applied.
func (s *Store) Dispatch(cmd Command) Document {
	s.mu.Lock()
	next, applied := Reduce(s.doc, cmd, s.now())
	if applied {
		s.doc = next
	}
	listeners := s.listeners
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	if applied {
		for _, fn := range listeners {
			fn(snapshot.Clone())
		}
	}
	return snapshot
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Progress returns the completion percentage of the current document.
func (s *Store) Progress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Progress(s.doc)
}
