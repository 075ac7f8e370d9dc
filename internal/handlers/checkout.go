package handlers

import (
	"errors"
	"net/http"

	"go-paylink/internal/backend"
	"go-paylink/internal/checkout"
	"go-paylink/internal/models"
)

// flowFromRequest resolves the checkout flow bound to this browser, if any
func (h *Handler) flowFromRequest(r *http.Request) *checkout.Flow {
	flowID := h.Gate.FlowID(r)
	if flowID == "" {
		return nil
	}
	return h.Flows.Get(flowID)
}

type payData struct {
	ProductID string
	Data      *models.ProductResponse
	Error     string
}

// ServePay serves the payment entry page: fetch product and merchant data
// for the product id in the query string and bind a flow to the browser.
func (h *Handler) ServePay(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		h.render(w, "pay.html", payData{Error: "Product ID is required"})
		return
	}

	flow := h.flowFromRequest(r)
	if flow == nil {
		flow = h.Flows.Create()
		if err := h.Gate.SetFlow(w, flow.ID); err != nil {
			h.render(w, "pay.html", payData{ProductID: productID, Error: "Failed to start checkout"})
			return
		}
	}

	data, err := h.Checkout.LoadProduct(flow, productID)
	if err != nil {
		h.render(w, "pay.html", payData{
			ProductID: productID,
			Error:     backend.UserMessage(err, "Failed to load product information"),
		})
		return
	}

	h.render(w, "pay.html", payData{ProductID: productID, Data: data})
}

// ProceedToPayment handles the "proceed to payment" action: authenticate a
// payment session for the flow's product and move to the detail step.
func (h *Handler) ProceedToPayment(w http.ResponseWriter, r *http.Request) {
	flow := h.flowFromRequest(r)
	if flow == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sessionID, err := h.Checkout.Authenticate(flow)
	if err != nil {
		view := flow.View()
		data := payData{ProductID: view.ProductID, Data: view.Product}
		switch {
		case errors.Is(err, checkout.ErrNoProduct):
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		case errors.Is(err, checkout.ErrInactiveProduct):
			data.Error = "This product is currently inactive and cannot be purchased."
		case errors.Is(err, checkout.ErrBusy):
			data.Error = "A payment request is already in progress."
		default:
			data.Error = backend.UserMessage(err, "Failed to authenticate payment")
		}
		h.render(w, "pay.html", data)
		return
	}

	http.Redirect(w, r, "/proceed?sessionId="+sessionID, http.StatusSeeOther)
}

type proceedData struct {
	SessionID    string
	ShowQuantity bool
	Form         checkout.DetailForm
	Errors       map[string]string
	Error        string
}

// ServeProceed serves the payer detail form. Entry without a session id
// redirects to the entry point.
func (h *Handler) ServeProceed(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	flow := h.flowFromRequest(r)
	if sessionID == "" || flow == nil || flow.SessionID() != sessionID {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, "proceed.html", proceedData{
		SessionID:    sessionID,
		ShowQuantity: flow.RequiresQuantity(),
		Form: checkout.DetailForm{
			PaymentMode:  models.PaymentModeMOMO,
			CurrencyCode: "XAF",
			CountryCode:  "CM",
		},
	})
}

// SubmitDetails validates the payer form and initiates the payment. On
// success the redirect replaces the form step so the payer cannot navigate
// back into it.
func (h *Handler) SubmitDetails(w http.ResponseWriter, r *http.Request) {
	flow := h.flowFromRequest(r)
	if flow == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	form := checkout.DetailForm{
		PaymentMode:  r.FormValue("paymentMode"),
		PhoneNumber:  r.FormValue("phoneNumber"),
		Quantity:     r.FormValue("quantity"),
		FullName:     r.FormValue("fullName"),
		EmailAddress: r.FormValue("emailAddress"),
		CurrencyCode: r.FormValue("currencyCode"),
		CountryCode:  r.FormValue("countryCode"),
	}

	paymentID, fieldErrs, err := h.Checkout.SubmitDetails(flow, form)
	if fieldErrs != nil {
		h.render(w, "proceed.html", proceedData{
			SessionID:    flow.SessionID(),
			ShowQuantity: flow.RequiresQuantity(),
			Form:         form,
			Errors:       fieldErrs,
		})
		return
	}
	if err != nil {
		if errors.Is(err, checkout.ErrNoSession) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.render(w, "proceed.html", proceedData{
			SessionID:    flow.SessionID(),
			ShowQuantity: flow.RequiresQuantity(),
			Form:         form,
			Error:        backend.UserMessage(err, "Failed to initiate payment"),
		})
		return
	}

	http.Redirect(w, r, "/waiting?paymentId="+paymentID, http.StatusSeeOther)
}

type waitingData struct {
	PaymentID string
}

// ServeWaiting serves the confirmation-waiting page. A missing or unknown
// payment id redirects to the entry point immediately.
func (h *Handler) ServeWaiting(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("paymentId")
	flow := h.flowFromRequest(r)
	if paymentID == "" || flow == nil || flow.PaymentID() != paymentID {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, "waiting.html", waitingData{PaymentID: paymentID})
}

// CheckoutStatus reports the flow state to the waiting page
func (h *Handler) CheckoutStatus(w http.ResponseWriter, r *http.Request) {
	flow := h.flowFromRequest(r)
	if flow == nil {
		respondError(w, http.StatusNotFound, "No checkout in progress")
		return
	}
	respondJSON(w, http.StatusOK, flow.View())
}

type successData struct {
	Receipt *models.PaymentReceipt
}

// ServeSuccess serves the confirmation screen. Without a stored receipt it
// always redirects to the site root; receipts are not re-fetchable.
func (h *Handler) ServeSuccess(w http.ResponseWriter, r *http.Request) {
	flow := h.flowFromRequest(r)
	if flow == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	receipt := flow.Receipt()
	if receipt == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, "success.html", successData{Receipt: receipt})
}
