package checkout

import (
	"strconv"
	"strings"

	"go-paylink/internal/models"
)

// DetailForm holds the raw payer-detail form values
type DetailForm struct {
	PaymentMode  string
	PhoneNumber  string
	Quantity     string
	FullName     string
	EmailAddress string
	CurrencyCode string
	CountryCode  string
}

// Validate checks the form before any network call. Errors are field-scoped
// so each one clears independently as the payer edits that field. Quantity
// is validated only when the product has a finite quantity.
func (f DetailForm) Validate(requireQuantity bool) map[string]string {
	errs := make(map[string]string)

	switch f.PaymentMode {
	case models.PaymentModeMOMO, models.PaymentModeOM:
	case "":
		errs["paymentMode"] = "Payment mode is required"
	default:
		errs["paymentMode"] = "Invalid payment mode"
	}

	if strings.TrimSpace(f.PhoneNumber) == "" {
		errs["phoneNumber"] = "Phone number is required"
	}
	if strings.TrimSpace(f.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	if strings.TrimSpace(f.EmailAddress) == "" {
		errs["emailAddress"] = "Email address is required"
	}
	if strings.TrimSpace(f.CurrencyCode) == "" {
		errs["currencyCode"] = "Currency is required"
	}
	if strings.TrimSpace(f.CountryCode) == "" {
		errs["countryCode"] = "Country code is required"
	}

	if requireQuantity {
		qty, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
		if err != nil || qty <= 0 {
			errs["quantity"] = "Valid quantity is required"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// request builds the initiate payload. The session id is passed through
// unchanged as paymentId; the quantity key is absent entirely for
// null-quantity products.
func (f DetailForm) request(sessionID string, requireQuantity bool) models.InitiatePaymentRequest {
	req := models.InitiatePaymentRequest{
		PaymentID:    sessionID,
		PaymentMode:  f.PaymentMode,
		PhoneNumber:  strings.TrimSpace(f.PhoneNumber),
		FullName:     strings.TrimSpace(f.FullName),
		EmailAddress: strings.TrimSpace(f.EmailAddress),
		CurrencyCode: strings.TrimSpace(f.CurrencyCode),
		CountryCode:  strings.TrimSpace(f.CountryCode),
	}
	if requireQuantity {
		if qty, err := strconv.Atoi(strings.TrimSpace(f.Quantity)); err == nil {
			req.Quantity = &qty
		}
	}
	return req
}
