package scheduler

import (
	"log"
	"time"

	"go-paylink/internal/checkout"
)

// Scheduler manages recurring background tasks
type Scheduler struct {
	flows    *checkout.Store
	interval time.Duration
}

// New creates a new Scheduler
func New(flows *checkout.Store) *Scheduler {
	return &Scheduler{flows: flows, interval: time.Minute}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Checkout flow expiry sweep
	ticker := time.NewTicker(s.interval)
	go func() {
		for range ticker.C {
			s.sweepFlows()
		}
	}()
}

func (s *Scheduler) sweepFlows() {
	if n := s.flows.Sweep(); n > 0 {
		log.Printf("[SCHEDULER] Expired %d stale checkout flows (%d live)", n, s.flows.Len())
	}
}
