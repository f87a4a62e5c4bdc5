package llmcall

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of calls a Store keeps when none is given.
const DefaultCapacity = 1000

// Store keeps the most recent calls in memory. Once full, the oldest call is
// evicted for each new one.
type Store struct {
	mu       sync.RWMutex
	calls    []Call
	capacity int
}

// NewStore creates a Store holding at most capacity calls.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// QueryFilter specifies filters for listing calls.
type QueryFilter struct {
	RunID     string
	Property  string
	PromptKey string
	Provider  string
	After     *time.Time
	Before    *time.Time
	Success   *bool
	Limit     int
	Offset    int
}

// RecordCall stores a copy of call.
func (s *Store) RecordCall(call *Call) {
	if call == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) >= s.capacity {
		copy(s.calls, s.calls[1:])
		s.calls = s.calls[:len(s.calls)-1]
	}
	s.calls = append(s.calls, *call)
}

// Get retrieves a single call by ID. Returns nil if not found.
func (s *Store) Get(id string) *Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.calls {
		if s.calls[i].ID == id {
			c := s.calls[i]
			return &c
		}
	}
	return nil
}

// List retrieves calls matching the filter, newest first.
func (s *Store) List(filter QueryFilter) []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Call
	skipped := 0
	for i := len(s.calls) - 1; i >= 0; i-- {
		c := s.calls[i]
		if !filter.matches(c) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, c)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// Len returns the number of stored calls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// Reset drops every stored call.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (f QueryFilter) matches(c Call) bool {
	if f.RunID != "" && c.RunID != f.RunID {
		return false
	}
	if f.Property != "" && c.Property != f.Property {
		return false
	}
	if f.PromptKey != "" && c.PromptKey != f.PromptKey {
		return false
	}
	if f.Provider != "" && c.Provider != f.Provider {
		return false
	}
	if f.Success != nil && c.Success != *f.Success {
		return false
	}
	if f.After != nil && !c.Timestamp.After(*f.After) {
		return false
	}
	if f.Before != nil && !c.Timestamp.Before(*f.Before) {
		return false
	}
	return true
}
