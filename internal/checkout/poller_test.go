package checkout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-paylink/internal/backend"
	"go-paylink/internal/config"
	"go-paylink/internal/models"
)

func newTestCoordinator(t *testing.T, handler http.Handler, maxAttempts int) *Coordinator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := backend.New(&config.Config{
		BackendURL:     srv.URL,
		RequestTimeout: 2 * time.Second,
	})
	return &Coordinator{
		backend:     client,
		interval:    10 * time.Millisecond,
		maxAttempts: maxAttempts,
	}
}

func waitDone(t *testing.T, task *PollTask) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poll task did not finish in time")
	}
}

func statusHandler(calls *int64, confirmAfter int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(calls, 1)
		status := "pending"
		if n > confirmAfter {
			status = "confirmed"
		}
		json.NewEncoder(w).Encode(models.PaymentStatus{
			PaymentID:         "pay-1",
			Status:            status,
			ExternalReference: "REF-42",
			ReceiptURL:        "https://receipts.example.com/pay-1.pdf",
		})
	})
}

func TestPollConfirmsAfterPending(t *testing.T) {
	var calls int64
	c := newTestCoordinator(t, statusHandler(&calls, 3), 0)

	flow := newFlow("flow-1")
	task := c.poll(flow, "pay-1")
	waitDone(t, task)

	if got := flow.State(); got != StateConfirmed {
		t.Fatalf("flow state = %q, want %q", got, StateConfirmed)
	}

	receipt := flow.Receipt()
	if receipt == nil {
		t.Fatal("expected a stored receipt")
	}
	if receipt.PaymentID != "pay-1" {
		t.Errorf("receipt.PaymentID = %q, want %q", receipt.PaymentID, "pay-1")
	}
	if receipt.ExternalReference != "REF-42" {
		t.Errorf("receipt.ExternalReference = %q, want %q", receipt.ExternalReference, "REF-42")
	}
	if receipt.ReceiptURL != "https://receipts.example.com/pay-1.pdf" {
		t.Errorf("receipt.ReceiptURL = %q", receipt.ReceiptURL)
	}

	// The timer must stop on confirmation: no further checks after done
	settled := atomic.LoadInt64(&calls)
	time.Sleep(50 * time.Millisecond)
	if after := atomic.LoadInt64(&calls); after != settled {
		t.Errorf("poll kept running after confirmation: %d checks became %d", settled, after)
	}
}

func TestPollStoresExactlyOneReceipt(t *testing.T) {
	var calls int64
	c := newTestCoordinator(t, statusHandler(&calls, 0), 0)

	flow := newFlow("flow-1")
	task := c.poll(flow, "pay-1")
	waitDone(t, task)

	first := flow.Receipt()
	if first == nil {
		t.Fatal("expected a stored receipt")
	}

	// A late duplicate confirmation must not land
	if flow.confirm(&models.PaymentReceipt{PaymentID: "other"}) {
		t.Error("confirm succeeded on an already-confirmed flow")
	}
	if got := flow.Receipt(); got != first {
		t.Error("receipt was replaced after confirmation")
	}
}

func TestPollKeepsGoingOnUnrecognizedStatus(t *testing.T) {
	var calls int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		json.NewEncoder(w).Encode(models.PaymentStatus{PaymentID: "pay-1", Status: "processing"})
	})
	c := newTestCoordinator(t, handler, 0)

	flow := newFlow("flow-1")
	task := c.poll(flow, "pay-1")

	time.Sleep(60 * time.Millisecond)
	if got := flow.State(); got != StatePolling {
		t.Errorf("flow state = %q, want still %q", got, StatePolling)
	}
	if atomic.LoadInt64(&calls) < 2 {
		t.Errorf("expected repeated checks, got %d", atomic.LoadInt64(&calls))
	}

	task.Cancel()
	waitDone(t, task)
}

func TestPollSwallowsBackendErrors(t *testing.T) {
	var calls int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		if n <= 2 {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(models.PaymentStatus{PaymentID: "pay-1", Status: "confirmed"})
	})
	c := newTestCoordinator(t, handler, 0)

	flow := newFlow("flow-1")
	task := c.poll(flow, "pay-1")
	waitDone(t, task)

	if got := flow.State(); got != StateConfirmed {
		t.Errorf("flow state = %q, want %q after transient errors", got, StateConfirmed)
	}
}

func TestPollExpiresAfterMaxAttempts(t *testing.T) {
	var calls int64
	c := newTestCoordinator(t, statusHandler(&calls, 1000), 3)

	flow := newFlow("flow-1")
	task := c.poll(flow, "pay-1")
	waitDone(t, task)

	if got := flow.State(); got != StateExpired {
		t.Errorf("flow state = %q, want %q", got, StateExpired)
	}
	if got := atomic.LoadInt64(&calls); got != 3 {
		t.Errorf("checks = %d, want 3", got)
	}
}

func TestPollTaskCancelIsIdempotent(t *testing.T) {
	var calls int64
	c := newTestCoordinator(t, statusHandler(&calls, 1000), 0)

	flow := newFlow("flow-1")
	task := c.poll(flow, "pay-1")

	task.Cancel()
	task.Cancel()
	waitDone(t, task)

	// Safe after the task has already finished on its own
	task.Cancel()
}
