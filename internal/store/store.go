package store

import (
	"errors"
	"sync"

	"arbeitskorb/internal/domain"
)

var ErrNotFound = errors.New("not found")

// State holds the three live collections. Work items keep their seed
// order; document and protocol buckets are most-recent-first, so all
// inserts go to the front of a bucket.
type State struct {
	Items     []domain.WorkItem
	Documents map[domain.ContextKey][]domain.Document
	Protocol  map[domain.ContextKey][]domain.ProtocolEntry
}

// FindItem returns a pointer into the live item slice for in-place
// mutation inside an Update closure.
func (s *State) FindItem(id string) (*domain.WorkItem, error) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], nil
		}
	}
	return nil, ErrNotFound
}

// InsertDocument puts doc at the front of the key's bucket.
func (s *State) InsertDocument(key domain.ContextKey, doc domain.Document) {
	s.Documents[key] = append([]domain.Document{doc}, s.Documents[key]...)
}

// InsertProtocol puts entry at the front of the key's bucket.
func (s *State) InsertProtocol(key domain.ContextKey, entry domain.ProtocolEntry) {
	s.Protocol[key] = append([]domain.ProtocolEntry{entry}, s.Protocol[key]...)
}

func (s *State) clone() State {
	out := State{
		Items:     append([]domain.WorkItem(nil), s.Items...),
		Documents: make(map[domain.ContextKey][]domain.Document, len(s.Documents)),
		Protocol:  make(map[domain.ContextKey][]domain.ProtocolEntry, len(s.Protocol)),
	}
	for k, docs := range s.Documents {
		cp := append([]domain.Document(nil), docs...)
		for i := range cp {
			cp[i].IndexKeywords = append([]string(nil), cp[i].IndexKeywords...)
		}
		out.Documents[k] = cp
	}
	for k, entries := range s.Protocol {
		out.Protocol[k] = append([]domain.ProtocolEntry(nil), entries...)
	}
	return out
}

// Store owns the collections behind a single lock. Mutations run inside
// Update closures against a working copy that only replaces the live
// state when the closure succeeds, so a failed operation leaves no
// partial writes behind. Reads inside View may run concurrently.
type Store struct {
	mu    sync.RWMutex
	state State
	seed  State
	db    *persister
}

// New returns a volatile store holding the seed fixture.
func New() *Store {
	seed := Seed()
	return &Store{state: seed.clone(), seed: seed}
}

// View runs fn with shared read access to the live state. fn must not
// retain or mutate anything it reads; copy what leaves the closure.
func (s *Store) View(fn func(st *State) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

// Update runs fn against a working copy and commits it on success.
func (s *Store) Update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next
	return s.persist()
}

// Reset discards all mutations and restores the seed snapshot.
// Calling it repeatedly always yields the same state.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.seed.clone()
	return s.persist()
}

func (s *Store) persist() error {
	if s.db == nil {
		return nil
	}
	return s.db.save(&s.state)
}

// Close releases the snapshot database, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.close()
}
