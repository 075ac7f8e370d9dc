package checkout

import (
	"errors"
	"time"

	"go-paylink/internal/backend"
	"go-paylink/internal/config"
	"go-paylink/internal/models"
)

// Orchestration errors surfaced to the handlers
var (
	ErrNoProduct       = errors.New("checkout: no product loaded")
	ErrInactiveProduct = errors.New("checkout: product is inactive")
	ErrNoSession       = errors.New("checkout: no payment session")
	ErrBusy            = errors.New("checkout: action already in progress")
)

// Coordinator drives the payment flow: product lookup, session
// authentication, detail submission and status polling.
type Coordinator struct {
	backend     *backend.Client
	interval    time.Duration
	maxAttempts int
}

// NewCoordinator creates a checkout coordinator
func NewCoordinator(client *backend.Client, cfg *config.Config) *Coordinator {
	return &Coordinator{
		backend:     client,
		interval:    cfg.PollInterval,
		maxAttempts: cfg.PollMaxAttempts,
	}
}

// LoadProduct fetches product and merchant data into the flow. A fresh fetch
// always supersedes previously stored data; on failure the error is stored
// and progression is blocked, with no automatic retry here.
func (c *Coordinator) LoadProduct(flow *Flow, productID string) (*models.ProductResponse, error) {
	seq := flow.beginFetch(productID)

	resp, err := c.backend.GetPaymentProduct(productID)
	if err != nil {
		flow.completeFetch(seq, nil, backend.UserMessage(err, "Failed to load product information"))
		return nil, err
	}

	flow.completeFetch(seq, resp, "")
	return resp, nil
}

// Authenticate mints a payment session for the flow's product. Gated on the
// product being active, guarded against duplicate concurrent attempts.
func (c *Coordinator) Authenticate(flow *Flow) (string, error) {
	product := flow.Product()
	if product == nil {
		return "", ErrNoProduct
	}
	if !product.Product.IsActive {
		return "", ErrInactiveProduct
	}

	if !flow.tryBegin() {
		return "", ErrBusy
	}
	defer flow.end()

	session, err := c.backend.AuthenticatePayment(product.Product.ID)
	if err != nil {
		flow.setError(backend.UserMessage(err, "Failed to authenticate payment"))
		return "", err
	}

	flow.setSessionID(session.ID)
	return session.ID, nil
}

// SubmitDetails validates the payer form and initiates the payment. When
// validation fails, the field errors are returned and no network call is
// made. On success the flow transitions to polling.
func (c *Coordinator) SubmitDetails(flow *Flow, form DetailForm) (string, map[string]string, error) {
	requireQuantity := flow.RequiresQuantity()

	if fieldErrs := form.Validate(requireQuantity); fieldErrs != nil {
		return "", fieldErrs, nil
	}

	sessionID := flow.SessionID()
	if sessionID == "" {
		return "", nil, ErrNoSession
	}

	if !flow.tryBegin() {
		return "", nil, ErrBusy
	}
	defer flow.end()

	resp, err := c.backend.InitiatePayment(form.request(sessionID, requireQuantity))
	if err != nil {
		flow.setError(backend.UserMessage(err, "Failed to initiate payment"))
		return "", nil, err
	}

	c.poll(flow, resp.ID)
	return resp.ID, nil, nil
}
