package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Acode-Foundation/acode-site/internal/models"
)

// AdminStats fetches the admin dashboard summary via GET /api/admin/stats.
func (c *Client) AdminStats(ctx context.Context) (models.AdminStats, error) {
	var stats models.AdminStats
	err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &stats)
	return stats, err
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// AdminUsers lists registered users via GET /api/admin/users.
func (c *Client) AdminUsers(ctx context.Context, page, limit int) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/api/admin/users", pageQuery(page, limit), nil, &users)
	return users, err
}

// AdminPayments lists payouts, optionally filtered by status, via
// GET /api/admin/payments.
func (c *Client) AdminPayments(ctx context.Context, status string, page, limit int) ([]models.Payment, error) {
	q := pageQuery(page, limit)
	if status != "" {
		q.Set("status", status)
	}
	var payments []models.Payment
	err := c.do(ctx, http.MethodGet, "/api/admin/payments", q, nil, &payments)
	return payments, err
}

// AdminUserPaymentMethod fetches a user's default payout destination via
// GET /api/admin/payment-method/{userId}.
func (c *Client) AdminUserPaymentMethod(ctx context.Context, userID string) (models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := c.do(ctx, http.MethodGet, "/api/admin/payment-method/"+url.PathEscape(userID), nil, nil, &m)
	return m, err
}

// AdminReports lists moderation reports via GET /api/admin/reports.
func (c *Client) AdminReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := c.do(ctx, http.MethodGet, "/api/admin/reports", nil, nil, &reports)
	return reports, err
}

// AdminUpdatePaymentStatus moves a payout along none -> initiated ->
// paid via PATCH /api/admin/payment/{id}. Ordering is server-enforced.
func (c *Client) AdminUpdatePaymentStatus(ctx context.Context, id, status string) (models.Payment, error) {
	body := map[string]string{"status": status}
	var p models.Payment
	err := c.do(ctx, http.MethodPatch, "/api/admin/payment/"+url.PathEscape(id), nil, body, &p)
	return p, err
}

// AdminSetUserVerified toggles a developer's verified bit via
// PATCH /api/admin/user/{id}.
func (c *Client) AdminSetUserVerified(ctx context.Context, id string, verified bool) error {
	v := 0
	if verified {
		v = 1
	}
	body := map[string]int{"verified": v}
	return c.do(ctx, http.MethodPatch, "/api/admin/user/"+url.PathEscape(id), nil, body, nil)
}
