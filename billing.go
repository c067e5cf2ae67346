package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fitroom/fitroom-go/routes"
)

// PaymentPackage is a purchasable credit bundle.
type PaymentPackage struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Credits     int64  `json:"credits"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`
}

// CheckoutRequest starts a checkout session with the payment provider.
type CheckoutRequest struct {
	PackageCode string `json:"packageCode"`
	SuccessURL  string `json:"successUrl"`
	CancelURL   string `json:"cancelUrl"`
	Platform    string `json:"platform"`
}

// Checkout is the created checkout session; the user completes payment at
// RedirectURL while the client polls PaymentStatus.
type Checkout struct {
	PaymentID   string `json:"paymentId"`
	Provider    string `json:"provider"`
	RedirectURL string `json:"redirectUrl"`
	ExpiresAt   string `json:"expiresAt"`
}

// PaymentStatus is the provider-agnostic state of one payment.
type PaymentStatus struct {
	PaymentID         string  `json:"paymentId"`
	Provider          string  `json:"provider"`
	ProviderInvoiceID *string `json:"providerInvoiceId,omitempty"`
	Status            string  `json:"status"`
	AmountMinor       int64   `json:"amountMinor"`
	Currency          string  `json:"currency"`
	Credits           int64   `json:"credits"`
	RedirectURL       *string `json:"redirectUrl,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// Terminal reports whether no further status transition is expected.
// The comparison is case-insensitive by contract.
func (p PaymentStatus) Terminal() bool {
	switch strings.ToUpper(p.Status) {
	case "PAID", "FAILED", "EXPIRED", "CANCELED":
		return true
	}
	return false
}

// Paid reports whether the payment settled successfully.
func (p PaymentStatus) Paid() bool {
	return strings.EqualFold(p.Status, "PAID")
}

// Balance is the caller's credit balance.
type Balance struct {
	CreditsBalance int64 `json:"creditsBalance"`
}

// BillingClient provides methods for credit packages, checkout, payment
// status, and balance.
type BillingClient struct {
	client *Client
}

// ensureInitialized returns an error if the client is not properly initialized.
func (c *BillingClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: billing client not initialized")
	}
	return nil
}

// Packages lists purchasable credit packages.
func (c *BillingClient) Packages(ctx context.Context) ([]PaymentPackage, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var resp []PaymentPackage
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.BillingPackages, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateCheckout starts a checkout session for the given package.
func (c *BillingClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (Checkout, error) {
	if err := c.ensureInitialized(); err != nil {
		return Checkout{}, err
	}
	if strings.TrimSpace(req.PackageCode) == "" {
		return Checkout{}, ConfigError{Reason: "package code required"}
	}
	var resp Checkout
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.BillingCheckout, req, &resp); err != nil {
		return Checkout{}, err
	}
	return resp, nil
}

// PaymentStatus fetches the current state of one payment.
func (c *BillingClient) PaymentStatus(ctx context.Context, paymentID string) (PaymentStatus, error) {
	if err := c.ensureInitialized(); err != nil {
		return PaymentStatus{}, err
	}
	if strings.TrimSpace(paymentID) == "" {
		return PaymentStatus{}, ConfigError{Reason: "payment id required"}
	}
	var resp PaymentStatus
	path := fmt.Sprintf("%s/%s", routes.BillingPayments, url.PathEscape(paymentID))
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return PaymentStatus{}, err
	}
	return resp, nil
}

// Balance returns the caller's credit balance.
func (c *BillingClient) Balance(ctx context.Context) (Balance, error) {
	if err := c.ensureInitialized(); err != nil {
		return Balance{}, err
	}
	var resp Balance
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.BillingBalance, nil, &resp); err != nil {
		return Balance{}, err
	}
	return resp, nil
}
