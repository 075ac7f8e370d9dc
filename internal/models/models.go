package models

import "time"

// Product represents a sellable item owned by a merchant
type Product struct {
	ID          string    `json:"id"`
	MerchantID  string    `json:"merchantId"`
	Image       string    `json:"image"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Quantity    *int      `json:"quantity"`
	Email       *string   `json:"email"`
	PaymentLink string    `json:"paymentLink"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasQuantity reports whether the product tracks a finite stock.
// Products with a null quantity are sold without a quantity field.
func (p *Product) HasQuantity() bool {
	return p.Quantity != nil
}

// User represents a merchant account (also used for admin users)
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PhoneNumber  string    `json:"phoneNumber"`
	BusinessName string    `json:"businessName"`
	SupportEmail *string   `json:"supportEmail"`
	Restricted   bool      `json:"restricted,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// User roles
const (
	RoleAdmin    = "admin"
	RoleMerchant = "merchant"
)

// ProductResponse is the payment page payload: the product plus its
// merchant's display profile
type ProductResponse struct {
	Product  Product `json:"product"`
	Merchant User    `json:"merchant"`
}

// LoginRequest holds sign-in credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest holds account registration data
type SignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhoneNumber  string `json:"phoneNumber"`
	BusinessName string `json:"businessName"`
	SupportEmail string `json:"supportEmail,omitempty"`
}

// AuthResponse is returned by login and signup
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// UpdateProfileRequest holds the editable profile fields
type UpdateProfileRequest struct {
	FirstName    string  `json:"firstName,omitempty"`
	LastName     string  `json:"lastName,omitempty"`
	PhoneNumber  string  `json:"phoneNumber,omitempty"`
	BusinessName string  `json:"businessName,omitempty"`
	SupportEmail *string `json:"supportEmail,omitempty"`
}

// ============== Checkout / Payment Models ==============

// PaymentSession is the opaque identifier minted by the authenticate call.
// It authorizes exactly one checkout attempt for a product.
type PaymentSession struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Payment modes supported by the initiate endpoint
const (
	PaymentModeMOMO = "MOMO"
	PaymentModeOM   = "OM"
)

// PaymentConfirmed is the terminal status sentinel reported by the backend
const PaymentConfirmed = "confirmed"

// InitiatePaymentRequest is the detail-submission payload. PaymentID carries
// the session id unchanged; Quantity is omitted for null-quantity products.
type InitiatePaymentRequest struct {
	PaymentID    string `json:"paymentId"`
	PaymentMode  string `json:"paymentMode"`
	PhoneNumber  string `json:"phoneNumber"`
	Quantity     *int   `json:"quantity,omitempty"`
	FullName     string `json:"fullName"`
	EmailAddress string `json:"emailAddress"`
	CurrencyCode string `json:"currencyCode"`
	CountryCode  string `json:"countryCode"`
}

// InitiatePaymentResponse is returned by the initiate call
type InitiatePaymentResponse struct {
	ID                string `json:"id"`
	Message           string `json:"message"`
	ProviderStatus    string `json:"providerStatus"`
	InternalPaymentID string `json:"internalPaymentId"`
}

// PaymentStatus is one status-check response
type PaymentStatus struct {
	PaymentID         string `json:"paymentId"`
	Status            string `json:"status"`
	ExternalReference string `json:"externalReference"`
	ReceiptURL        string `json:"receiptUrl"`
}

// PaymentReceipt is the terminal confirmation artifact held in flow memory
// until the payer navigates away
type PaymentReceipt struct {
	PaymentID         string `json:"paymentId"`
	Status            string `json:"status"`
	ExternalReference string `json:"externalReference"`
	ReceiptURL        string `json:"receiptUrl"`
}

// PaymentStats is the aggregate completed-transaction summary
type PaymentStats struct {
	TotalCompletedTransactions int64  `json:"total_completed_transactions"`
	AmountEarn                 string `json:"amount_earn"`
}

// TransactionReceipt is the receipt record attached to a payment row
type TransactionReceipt struct {
	ID         int64     `json:"id"`
	PaymentID  int64     `json:"paymentId"`
	ReceiptURL string    `json:"receiptUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PaymentRecord is one payment row in a product's transaction history
type PaymentRecord struct {
	ID                  int64               `json:"id"`
	ProductID           int64               `json:"productId"`
	CustomerName        string              `json:"customerName"`
	CustomerEmail       string              `json:"customerEmail"`
	CustomerPhoneNumber string              `json:"customerPhoneNumber"`
	Amount              float64             `json:"amount"`
	Status              string              `json:"status"`
	ExternalReference   string              `json:"externalReference"`
	MomoReference       string              `json:"momoReference"`
	CurrencyCode        string              `json:"currencyCode"`
	CountryCode         string              `json:"countryCode"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
	Receipt             *TransactionReceipt `json:"receipt"`
}

// ProductDetail is a product with its transaction history
type ProductDetail struct {
	Product
	Payments []PaymentRecord `json:"payments"`
}

// ============== Admin Models ==============

// StatWindow compares a metric against the previous period
type StatWindow struct {
	Current          float64 `json:"current"`
	Previous         float64 `json:"previous"`
	PercentageChange float64 `json:"percentageChange"`
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	Period            string     `json:"period"`
	TotalUsers        StatWindow `json:"totalUsers"`
	TotalPayments     StatWindow `json:"totalPayments"`
	TotalReceipts     StatWindow `json:"totalReceipts"`
	InitiatedPayments StatWindow `json:"initiatedPayments"`
}

// Pagination describes a page of a listing
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// UsersPage is one page of the admin user listing
type UsersPage struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// ProductsPage is one page of the admin product listing
type ProductsPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// AdminPayment is a payment row in the admin transaction view
type AdminPayment struct {
	ID                  string              `json:"id"`
	ProductID           string              `json:"productId"`
	CustomerName        string              `json:"customerName"`
	CustomerEmail       string              `json:"customerEmail"`
	CustomerPhoneNumber string              `json:"customerPhoneNumber"`
	Amount              float64             `json:"amount"`
	Status              string              `json:"status"`
	ExternalReference   string              `json:"externalReference"`
	MomoReference       string              `json:"momoReference"`
	CurrencyCode        string              `json:"currencyCode"`
	CountryCode         string              `json:"countryCode"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
	Receipt             *TransactionReceipt `json:"receipt"`
}

// AdminProductDetail is a product with its payments, as the admin sees it
type AdminProductDetail struct {
	Product
	Payments []AdminPayment `json:"payments"`
}

// RestrictUserRequest toggles a user's restriction flag
type RestrictUserRequest struct {
	UserID     string `json:"userId"`
	Restricted bool   `json:"restricted"`
}

// UpdateProductStatusRequest toggles a product's active flag
type UpdateProductStatusRequest struct {
	IsActive bool `json:"isActive"`
}
