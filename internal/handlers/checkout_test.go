package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-paylink/internal/backend"
	"go-paylink/internal/checkout"
	"go-paylink/internal/config"
	"go-paylink/internal/middleware"
	"go-paylink/internal/models"
)

var testTemplates = map[string]string{
	"pay.html":     `{{if .Error}}error: {{.Error}}{{end}}{{if .Data}}product: {{.Data.Product.Title}}{{end}}`,
	"proceed.html": `session: {{.SessionID}}{{range $field, $msg := .Errors}} {{$field}}={{$msg}}{{end}}`,
	"waiting.html": `waiting: {{.PaymentID}}`,
	"success.html": `receipt: {{.Receipt.PaymentID}} {{.Receipt.ExternalReference}}`,
	"signin.html":  `{{if .Error}}error: {{.Error}}{{end}}`,
}

func newTestHandler(t *testing.T, backendHandler http.Handler) *Handler {
	t.Helper()

	srv := httptest.NewServer(backendHandler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	for name, body := range testTemplates {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("writing template %s: %v", name, err)
		}
	}

	cfg := &config.Config{
		BackendURL:     srv.URL,
		CookieSecret:   "test-secret",
		RequestTimeout: 2 * time.Second,
		PollInterval:   10 * time.Millisecond,
		FlowTTL:        time.Minute,
		TemplateGlob:   filepath.Join(dir, "*.html"),
	}

	client := backend.New(cfg)
	flows := checkout.NewStore(cfg.FlowTTL)
	coordinator := checkout.NewCoordinator(client, cfg)
	gate := middleware.NewGate(client, cfg)
	return NewHandler(client, flows, coordinator, gate, cfg)
}

func flowCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.FlowCookie {
			return cookie
		}
	}
	t.Fatal("flow cookie was not set")
	return nil
}

func checkoutBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/payments/product/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.ProductResponse{
			Product:  models.Product{ID: "prod-1", Title: "Widget", Price: 1500, Currency: "XAF", IsActive: true},
			Merchant: models.User{BusinessName: "Acme"},
		})
	})
	mux.HandleFunc("/payments/authenticate/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PaymentSession{ID: "sess-1"})
	})
	mux.HandleFunc("/payments/initiate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.InitiatePaymentResponse{ID: "pay-1"})
	})
	mux.HandleFunc("/payments/status/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PaymentStatus{
			PaymentID:         "pay-1",
			Status:            "confirmed",
			ExternalReference: "REF-42",
			ReceiptURL:        "https://receipts.example.com/pay-1.pdf",
		})
	})
	return mux
}

func TestServePayWithoutProductID(t *testing.T) {
	h := newTestHandler(t, checkoutBackend())

	rec := httptest.NewRecorder()
	h.ServePay(rec, httptest.NewRequest(http.MethodGet, "/pay", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Product ID is required") {
		t.Errorf("body = %q, want the missing-product-id message", rec.Body.String())
	}
}

func TestServeWaitingWithoutFlow(t *testing.T) {
	h := newTestHandler(t, checkoutBackend())

	rec := httptest.NewRecorder()
	h.ServeWaiting(rec, httptest.NewRequest(http.MethodGet, "/waiting?paymentId=pay-1", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Errorf("Location = %q, want /", got)
	}
}

func TestServeSuccessWithoutReceipt(t *testing.T) {
	h := newTestHandler(t, checkoutBackend())

	// Flow exists but never reached confirmation
	rec := httptest.NewRecorder()
	h.ServePay(rec, httptest.NewRequest(http.MethodGet, "/pay?productId=prod-1", nil))
	cookie := flowCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/payment-success", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeSuccess(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Errorf("Location = %q, want /", got)
	}
}

func TestCheckoutStatusWithoutFlow(t *testing.T) {
	h := newTestHandler(t, checkoutBackend())

	rec := httptest.NewRecorder()
	h.CheckoutStatus(rec, httptest.NewRequest(http.MethodGet, "/api/checkout/status", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCheckoutFlowEndToEnd(t *testing.T) {
	h := newTestHandler(t, checkoutBackend())

	// Step 1: payment entry page binds a flow and shows the product
	rec := httptest.NewRecorder()
	h.ServePay(rec, httptest.NewRequest(http.MethodGet, "/pay?productId=prod-1", nil))
	if !strings.Contains(rec.Body.String(), "product: Widget") {
		t.Fatalf("pay page body = %q", rec.Body.String())
	}
	cookie := flowCookie(t, rec)

	// Step 2: proceed mints a session and redirects to the detail form
	req := httptest.NewRequest(http.MethodPost, "/pay/proceed", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ProceedToPayment(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("proceed status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/proceed?sessionId=sess-1" {
		t.Fatalf("Location = %q, want /proceed?sessionId=sess-1", got)
	}

	// Step 3: submit payer details, initiating the payment
	form := url.Values{
		"paymentMode":  {"MOMO"},
		"phoneNumber":  {"677112233"},
		"fullName":     {"Jane Doe"},
		"emailAddress": {"jane@example.com"},
		"currencyCode": {"XAF"},
		"countryCode":  {"CM"},
	}
	req = httptest.NewRequest(http.MethodPost, "/proceed", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.SubmitDetails(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("submit status = %d, want %d (body %q)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/waiting?paymentId=pay-1" {
		t.Fatalf("Location = %q, want /waiting?paymentId=pay-1", got)
	}

	// Step 4: the waiting page accepts the initiated payment id
	req = httptest.NewRequest(http.MethodGet, "/waiting?paymentId=pay-1", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeWaiting(rec, req)
	if !strings.Contains(rec.Body.String(), "waiting: pay-1") {
		t.Fatalf("waiting page body = %q", rec.Body.String())
	}

	// Step 5: the status endpoint reports confirmation once the poll lands
	deadline := time.Now().Add(2 * time.Second)
	var view checkout.FlowView
	for {
		req = httptest.NewRequest(http.MethodGet, "/api/checkout/status", nil)
		req.AddCookie(cookie)
		rec = httptest.NewRecorder()
		h.CheckoutStatus(rec, req)
		if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
			t.Fatalf("decoding status response: %v", err)
		}
		if view.State == checkout.StateConfirmed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("payment never confirmed, last state %q", view.State)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if view.Receipt == nil || view.Receipt.ExternalReference != "REF-42" {
		t.Fatalf("status receipt = %v", view.Receipt)
	}

	// Step 6: the success page renders the stored receipt
	req = httptest.NewRequest(http.MethodGet, "/payment-success", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeSuccess(rec, req)
	if !strings.Contains(rec.Body.String(), "receipt: pay-1 REF-42") {
		t.Fatalf("success page body = %q", rec.Body.String())
	}
}

func TestSubmitDetailsRendersFieldErrors(t *testing.T) {
	h := newTestHandler(t, checkoutBackend())

	rec := httptest.NewRecorder()
	h.ServePay(rec, httptest.NewRequest(http.MethodGet, "/pay?productId=prod-1", nil))
	cookie := flowCookie(t, rec)

	form := url.Values{
		"paymentMode":  {"MOMO"},
		"currencyCode": {"XAF"},
		"countryCode":  {"CM"},
	}
	req := httptest.NewRequest(http.MethodPost, "/proceed", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.SubmitDetails(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{"Phone number is required", "Full name is required", "Email address is required"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %q", want, body)
		}
	}
}
