package api

import (
	"context"
	"net/http"

	"github.com/myshop/go-shop-client/session"
	"github.com/pkg/errors"
)

// RegisterRequest creates a new customer account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the payload of every auth endpoint. Early backend
// iterations also returned the refresh token in the body; the authoritative
// design transports it in an httpOnly cookie, so any body value is ignored.
type authResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType,omitempty"`
	ExpiresIn   int64        `json:"expiresIn,omitempty"` // milliseconds
	User        session.User `json:"user"`
}

func (r authResponse) credentials() (session.Credentials, error) {
	if r.AccessToken == "" {
		return session.Credentials{}, errors.New("auth response missing access token")
	}
	return session.Credentials{AccessToken: r.AccessToken, User: r.User}, nil
}

// Register creates an account and returns the credentials of the freshly
// authenticated session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (session.Credentials, error) {
	if err := c.validate.ValidateRegistration(req); err != nil {
		return session.Credentials{}, errors.Wrap(err, "[Client.Register]")
	}
	var resp authResponse
	if err := c.do(ctx, c.bare, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return session.Credentials{}, errors.Wrap(err, "[Client.Register]")
	}
	return resp.credentials()
}

// Login exchanges email and password for a session.
func (c *Client) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	if err := c.validate.ValidateLogin(email, password); err != nil {
		return session.Credentials{}, errors.Wrap(err, "[Client.Login]")
	}
	var resp authResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, c.bare, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return session.Credentials{}, errors.Wrap(err, "[Client.Login]")
	}
	return resp.credentials()
}

// Refresh silently mints new credentials from the durable refresh credential
// the cookie jar carries. It is the transport.Refresher implementation the
// pipeline and the bootstrapper share.
func (c *Client) Refresh(ctx context.Context) (session.Credentials, error) {
	var resp authResponse
	if err := c.do(ctx, c.bare, http.MethodPost, "/auth/refresh", nil, struct{}{}, &resp); err != nil {
		return session.Credentials{}, errors.Wrap(err, "[Client.Refresh]")
	}
	return resp.credentials()
}
