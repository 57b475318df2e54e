package tracker

import (
	"sort"
	"sync"
)

// ActivePollSet holds the ids of jobs that have a poll loop in flight.
// An id appears at most once.
type ActivePollSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewActivePollSet creates an empty set
func NewActivePollSet() *ActivePollSet {
	return &ActivePollSet{ids: make(map[string]struct{})}
}

// Register adds id and reports whether it was absent
func (s *ActivePollSet) Register(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *ActivePollSet) IsActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *ActivePollSet) Deregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

func (s *ActivePollSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the active ids in lexical order
func (s *ActivePollSet) IDs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)
	return ids
}
