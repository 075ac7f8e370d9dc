package backend

import (
	"net/http"

	"go-paylink/internal/models"
)

// GetPaymentProduct fetches the product and merchant shown on the payment page
func (c *Client) GetPaymentProduct(productID string) (*models.ProductResponse, error) {
	var resp models.ProductResponse
	if err := c.get("/payments/product/"+productID, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AuthenticatePayment mints a payment session for one checkout attempt
func (c *Client) AuthenticatePayment(productID string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	if err := c.do(http.MethodPost, "/payments/authenticate/"+productID, "", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// InitiatePayment submits payer details against a payment session
func (c *Client) InitiatePayment(req models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	var resp models.InitiatePaymentResponse
	if err := c.do(http.MethodPost, "/payments/initiate", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPaymentStatus fetches the current status of an initiated payment.
// Callers poll this; it is an idempotent read.
func (c *Client) GetPaymentStatus(paymentID string) (*models.PaymentStatus, error) {
	var status models.PaymentStatus
	if err := c.get("/payments/status/"+paymentID, "", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetPaymentStats fetches the aggregate completed-transaction summary
func (c *Client) GetPaymentStats() (*models.PaymentStats, error) {
	var stats models.PaymentStats
	if err := c.get("/payments/stats", "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
