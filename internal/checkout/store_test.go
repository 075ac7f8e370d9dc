package checkout

import (
	"testing"
	"time"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Minute)

	flow := store.Create()
	if flow.ID == "" {
		t.Fatal("expected a flow id")
	}
	if got := store.Get(flow.ID); got != flow {
		t.Error("Get did not return the created flow")
	}
	if got := store.Get("unknown"); got != nil {
		t.Errorf("Get(unknown) = %v, want nil", got)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestStoreRemoveCancelsTask(t *testing.T) {
	store := NewStore(time.Minute)
	flow := store.Create()

	task := &PollTask{cancel: make(chan struct{}), done: make(chan struct{})}
	flow.startPolling("pay-1", task)

	store.Remove(flow.ID)
	if store.Get(flow.ID) != nil {
		t.Error("flow still present after Remove")
	}
	select {
	case <-task.cancel:
	default:
		t.Error("Remove did not cancel the flow's poll task")
	}
}

func TestStoreSweep(t *testing.T) {
	store := NewStore(50 * time.Millisecond)

	stale := store.Create()
	task := &PollTask{cancel: make(chan struct{}), done: make(chan struct{})}
	stale.startPolling("pay-1", task)

	time.Sleep(60 * time.Millisecond)

	// A flow touched after the sleep stays alive
	fresh := store.Create()

	removed := store.Sweep()
	if removed != 1 {
		t.Fatalf("Sweep removed %d flows, want 1", removed)
	}
	if store.Get(stale.ID) != nil {
		t.Error("stale flow survived the sweep")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("fresh flow was swept")
	}
	select {
	case <-task.cancel:
	default:
		t.Error("sweep did not cancel the stale flow's poll task")
	}
}
