package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds all live checkout flows in memory. Nothing here survives a
// restart; receipts exist only for the duration of their flow.
type Store struct {
	mu    sync.RWMutex
	flows map[string]*Flow
	ttl   time.Duration
}

// NewStore creates a flow store whose flows expire after ttl of inactivity
func NewStore(ttl time.Duration) *Store {
	return &Store{
		flows: make(map[string]*Flow),
		ttl:   ttl,
	}
}

// Create registers a new flow
func (s *Store) Create() *Flow {
	flow := newFlow(uuid.NewString())
	s.mu.Lock()
	s.flows[flow.ID] = flow
	s.mu.Unlock()
	return flow
}

// Get returns the flow with the given id, or nil
func (s *Store) Get(id string) *Flow {
	s.mu.RLock()
	flow := s.flows[id]
	s.mu.RUnlock()
	if flow != nil {
		flow.touch()
	}
	return flow
}

// Remove discards a flow and cancels its poll task
func (s *Store) Remove(id string) {
	s.mu.Lock()
	flow := s.flows[id]
	delete(s.flows, id)
	s.mu.Unlock()
	if flow != nil {
		flow.cancelTask()
	}
}

// Len returns the number of live flows
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flows)
}

// Sweep discards flows idle past the TTL, cancelling their poll tasks so no
// orphaned polling outlives its flow. Returns the number removed.
func (s *Store) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	var stale []*Flow
	for id, flow := range s.flows {
		if flow.expired(s.ttl, now) {
			stale = append(stale, flow)
			delete(s.flows, id)
		}
	}
	s.mu.Unlock()

	for _, flow := range stale {
		flow.cancelTask()
	}
	return len(stale)
}
