package cache

import (
	"strings"
	"sync"

	"github.com/hupe1980/repolens/core"
)

// InMemoryStore is a volatile ResultCache implementation storing results in a
// process local map. It is safe for concurrent access and best suited for
// single-process CLI runs or tests. Each stored and returned result is cloned
// to prevent external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	results map[string]core.Result
}

// NewInMemoryStore constructs an empty in-memory result cache.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{results: make(map[string]core.Result)}
}

// key joins repo identity and kind; the separator cannot appear in either.
func key(repoID string, kind core.Kind) string {
	return repoID + "\x00" + string(kind)
}

// Get returns a clone of the cached result for the key, if present.
func (s *InMemoryStore) Get(repoID string, kind core.Kind) (core.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[key(repoID, kind)]
	if !ok {
		return core.Result{}, false
	}
	return res.Clone(), true
}

// Put stores a clone of the result, replacing any previous entry for the key.
func (s *InMemoryStore) Put(repoID string, kind core.Kind, result core.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[key(repoID, kind)] = result.Clone()
}

// Clear removes all entries for the repository, or everything when repoID is
// empty.
func (s *InMemoryStore) Clear(repoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if repoID == "" {
		s.results = make(map[string]core.Result)
		return
	}
	prefix := repoID + "\x00"
	for k := range s.results {
		if strings.HasPrefix(k, prefix) {
			delete(s.results, k)
		}
	}
}

// Len reports the number of stored entries.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
