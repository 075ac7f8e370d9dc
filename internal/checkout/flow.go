package checkout

import (
	"sync"
	"time"

	"go-paylink/internal/models"
)

// State is the checkout flow state
type State string

const (
	StateIdle      State = "idle"
	StatePolling   State = "polling"
	StateConfirmed State = "confirmed"
	StateExpired   State = "expired"
)

// Flow is the state of one checkout attempt. It replaces ambient global
// state: a flow is created when a payer lands on a payment page and is
// discarded when it expires or the payer navigates away.
type Flow struct {
	ID string

	mu        sync.Mutex
	productID string
	product   *models.ProductResponse
	sessionID string
	paymentID string
	receipt   *models.PaymentReceipt
	state     State
	lastError string
	fetchSeq  uint64
	inFlight  bool
	task      *PollTask
	createdAt time.Time
	touchedAt time.Time
}

// FlowView is an immutable snapshot of a flow for rendering
type FlowView struct {
	ID        string                  `json:"id"`
	ProductID string                  `json:"productId"`
	Product   *models.ProductResponse `json:"-"`
	SessionID string                  `json:"-"`
	PaymentID string                  `json:"paymentId,omitempty"`
	Receipt   *models.PaymentReceipt  `json:"receipt,omitempty"`
	State     State                   `json:"state"`
	Error     string                  `json:"error,omitempty"`
}

func newFlow(id string) *Flow {
	now := time.Now()
	return &Flow{
		ID:        id,
		state:     StateIdle,
		createdAt: now,
		touchedAt: now,
	}
}

// View returns a consistent snapshot of the flow
func (f *Flow) View() FlowView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FlowView{
		ID:        f.ID,
		ProductID: f.productID,
		Product:   f.product,
		SessionID: f.sessionID,
		PaymentID: f.paymentID,
		Receipt:   f.receipt,
		State:     f.state,
		Error:     f.lastError,
	}
}

// Product returns the currently stored product data, if any
func (f *Flow) Product() *models.ProductResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.product
}

// SessionID returns the payment session id minted for this flow
func (f *Flow) SessionID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionID
}

// PaymentID returns the initiated payment id, empty before initiation
func (f *Flow) PaymentID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paymentID
}

// Receipt returns the stored receipt, nil until confirmation
func (f *Flow) Receipt() *models.PaymentReceipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipt
}

// State returns the current flow state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// RequiresQuantity reports whether the flow's product needs a quantity field
func (f *Flow) RequiresQuantity() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.product != nil && f.product.Product.HasQuantity()
}

// touch marks the flow as recently used
func (f *Flow) touch() {
	f.mu.Lock()
	f.touchedAt = time.Now()
	f.mu.Unlock()
}

// expired reports whether the flow has been idle longer than ttl
func (f *Flow) expired(ttl time.Duration, now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return now.Sub(f.touchedAt) > ttl
}

// beginFetch registers a new product fetch and returns its sequence number.
// Only the most recent fetch is allowed to land, so two consecutive fetches
// for different ids can never interleave stale data.
func (f *Flow) beginFetch(productID string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productID = productID
	f.fetchSeq++
	f.touchedAt = time.Now()
	return f.fetchSeq
}

// completeFetch stores a fetch result if it is still the latest one.
// A successful fetch supersedes prior data and clears any prior error.
func (f *Flow) completeFetch(seq uint64, data *models.ProductResponse, errMsg string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.fetchSeq {
		return false
	}
	if errMsg != "" {
		f.lastError = errMsg
		return true
	}
	f.product = data
	f.lastError = ""
	return true
}

// tryBegin sets the in-flight flag, refusing a duplicate concurrent action
func (f *Flow) tryBegin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return false
	}
	f.inFlight = true
	return true
}

// end clears the in-flight flag so the action can be retried manually
func (f *Flow) end() {
	f.mu.Lock()
	f.inFlight = false
	f.mu.Unlock()
}

func (f *Flow) setSessionID(id string) {
	f.mu.Lock()
	f.sessionID = id
	f.lastError = ""
	f.touchedAt = time.Now()
	f.mu.Unlock()
}

func (f *Flow) setError(msg string) {
	f.mu.Lock()
	f.lastError = msg
	f.mu.Unlock()
}

// startPolling records the initiated payment and its poll task
func (f *Flow) startPolling(paymentID string, task *PollTask) {
	f.mu.Lock()
	f.paymentID = paymentID
	f.task = task
	f.state = StatePolling
	f.lastError = ""
	f.touchedAt = time.Now()
	f.mu.Unlock()
}

// confirm stores the receipt and moves the flow to its terminal state.
// It is a no-op unless the flow is currently polling, so exactly one
// receipt is ever stored.
func (f *Flow) confirm(receipt *models.PaymentReceipt) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StatePolling {
		return false
	}
	f.receipt = receipt
	f.state = StateConfirmed
	f.touchedAt = time.Now()
	return true
}

// expire marks a polling flow as expired once its attempt budget runs out
func (f *Flow) expire() {
	f.mu.Lock()
	if f.state == StatePolling {
		f.state = StateExpired
	}
	f.mu.Unlock()
}

// cancelTask cancels the flow's poll task if one is running
func (f *Flow) cancelTask() {
	f.mu.Lock()
	task := f.task
	f.mu.Unlock()
	if task != nil {
		task.Cancel()
	}
}
