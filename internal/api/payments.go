package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Acode-Foundation/acode-site/internal/models"
)

// Earnings fetches one month of developer earnings via
// GET /api/user/earnings/{year}/{month}.
func (c *Client) Earnings(ctx context.Context, year, month int) (models.EarningsReport, error) {
	var report models.EarningsReport
	path := fmt.Sprintf("/api/user/earnings/%d/%d", year, month)
	err := c.do(ctx, http.MethodGet, path, nil, nil, &report)
	return report, err
}

// Payments fetches the developer's payout history via
// GET /api/user/payments or GET /api/user/payments/{year}.
func (c *Client) Payments(ctx context.Context, year int) ([]models.Payment, error) {
	path := "/api/user/payments"
	if year > 0 {
		path = fmt.Sprintf("%s/%d", path, year)
	}
	var payments []models.Payment
	err := c.do(ctx, http.MethodGet, path, nil, nil, &payments)
	return payments, err
}

// Receipt fetches a purchase receipt via GET /api/user/receipt/{id}.
func (c *Client) Receipt(ctx context.Context, id string) (models.Receipt, error) {
	var r models.Receipt
	err := c.do(ctx, http.MethodGet, "/api/user/receipt/"+url.PathEscape(id), nil, nil, &r)
	return r, err
}

// PaymentMethods lists the user's payout destinations via
// GET /api/user/payment-methods.
func (c *Client) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := c.do(ctx, http.MethodGet, "/api/user/payment-methods", nil, nil, &methods)
	return methods, err
}

// NewPaymentMethod is the POST /api/user/payment-method body. Exactly
// one variant group should be filled; the handler validates this before
// the call.
type NewPaymentMethod struct {
	PaypalEmail string `json:"paypal_email,omitempty" validate:"omitempty,email"`

	BankName          string `json:"bank_name,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty"`
	BankAccountHolder string `json:"bank_account_holder,omitempty"`
	BankSwiftCode     string `json:"bank_swift_code,omitempty"`

	WalletAddress string `json:"wallet_address,omitempty"`
	WalletType    string `json:"wallet_type,omitempty"`
}

// AddPaymentMethod registers a payout destination via
// POST /api/user/payment-method.
func (c *Client) AddPaymentMethod(ctx context.Context, m NewPaymentMethod) (models.PaymentMethod, error) {
	var created models.PaymentMethod
	err := c.do(ctx, http.MethodPost, "/api/user/payment-method", nil, m, &created)
	return created, err
}

// DeletePaymentMethod removes a payout destination via
// DELETE /api/user/payment-method/{id}.
func (c *Client) DeletePaymentMethod(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/user/payment-method/"+url.PathEscape(id), nil, nil, nil)
}

// SetDefaultPaymentMethod marks one destination as default via
// PATCH /api/user/payment-method/{id}. The server clears the previous
// default; the client only triggers the transition.
func (c *Client) SetDefaultPaymentMethod(ctx context.Context, id string) error {
	body := map[string]int{"is_default": 1}
	return c.do(ctx, http.MethodPatch, "/api/user/payment-method/"+url.PathEscape(id), nil, body, nil)
}
