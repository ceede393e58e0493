package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Acode-Foundation/acode-site/internal/models"
)

// OTP request types accepted by POST /api/otp?type=.
const (
	OTPTypeEmail  = "email"
	OTPTypeSignup = "signup"
	OTPTypeReset  = "reset"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates against POST /api/login. The returned session
// carries the deep-link token from the body and the session cookie the
// upstream set, which later calls must present via WithSession.
func (c *Client) Login(ctx context.Context, creds Credentials) (*models.LoginSession, error) {
	const op = "api.Login"

	req, err := c.newRequest(ctx, http.MethodPost, "/api/login", nil, creds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeError(resp)
	}

	var session models.LoginSession
	if err := decodeJSON(resp, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName {
			session.Cookie = cookie.Value
		}
	}
	return &session, nil
}

// Logout destroys the upstream session via DELETE /api/login.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/login", nil, nil, nil)
}

// CurrentUser returns the session's user via GET /api/login.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/api/login", nil, nil, &u)
	return u, err
}

// UpdateUserRequest is the PUT /api/user body. OTP is attached only when
// the email is being changed; the server rejects an email change without
// a verified code.
type UpdateUserRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Github  string `json:"github,omitempty"`
	Website string `json:"website,omitempty"`
	OTP     *int   `json:"otp,omitempty"`
}

// UpdateUser persists profile fields via PUT /api/user.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPut, "/api/user", nil, req, &u)
	return u, err
}

// RequestOTP asks the server to send a one-time code to the given email
// via POST /api/otp?type=.
func (c *Client) RequestOTP(ctx context.Context, email, otpType string) error {
	q := url.Values{"type": {otpType}}
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/api/otp", q, body, nil)
}

// UpdateThreshold sets the developer's payout threshold via
// PUT /api/user/threshold.
func (c *Client) UpdateThreshold(ctx context.Context, threshold int) error {
	body := map[string]int{"threshold": threshold}
	return c.do(ctx, http.MethodPut, "/api/user/threshold", nil, body, nil)
}
