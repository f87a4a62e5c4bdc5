// Package sentpool tracks which evidence sentences have been claimed during
// a single extraction run.
package sentpool

import (
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Stats summarizes pool usage.
type Stats struct {
	TotalUsed  int            `json:"totalUsed" yaml:"totalUsed"`
	ByProperty map[string]int `json:"byProperty" yaml:"byProperty"`
}

// Pool maps normalized sentence hashes to the property that claimed them.
// A claimed sentence stays unavailable to every property until Clear.
type Pool struct {
	mu    sync.RWMutex
	owner map[string]string
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{owner: make(map[string]string)}
}

// Hash returns a case- and whitespace-insensitive 64-bit hash of sentence as
// 16 hex characters. It is used for conflict detection only.
func Hash(sentence string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(sentence), " "))
	h := strconv.FormatUint(xxhash.Sum64String(normalized), 16)
	if len(h) < 16 {
		h = strings.Repeat("0", 16-len(h)) + h
	}
	return h
}

// IsAvailable reports whether sentence has not been claimed yet.
func (p *Pool) IsAvailable(sentence string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, used := p.owner[Hash(sentence)]
	return !used
}

// Owner returns the property that claimed sentence, if any.
func (p *Pool) Owner(sentence string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.owner[Hash(sentence)]
	return id, ok
}

// MarkUsed claims sentence for propertyID and returns its hash.
// An existing claim is left untouched.
func (p *Pool) MarkUsed(sentence, propertyID string) string {
	h := Hash(sentence)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, used := p.owner[h]; !used {
		p.owner[h] = propertyID
	}
	return h
}

// Stats returns the number of claimed sentences overall and per property.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := Stats{
		TotalUsed:  len(p.owner),
		ByProperty: make(map[string]int),
	}
	for _, id := range p.owner {
		s.ByProperty[id]++
	}
	return s
}

// Clear releases every claim.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.owner = make(map[string]string)
}
