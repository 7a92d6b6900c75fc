package remote

import (
	"context"
	"fmt"
	"net/http"
)

// TokenWriter persists and discards the credential.
type TokenWriter interface {
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Session handles admin login and logout. It only moves the token between
// the server and the credential store; its lifecycle belongs to the store.
type Session struct {
	c      *Client
	tokens TokenWriter
}

// NewSession creates a Session.
func NewSession(c *Client, tokens TokenWriter) *Session {
	return &Session{c: c, tokens: tokens}
}

// Login exchanges credentials for a token and stores it.
func (s *Session) Login(ctx context.Context, email, password string) error {
	in := map[string]string{"email": email, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := s.c.sendJSON(ctx, http.MethodPost, "/api/admin/login", nil, in, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return &TransportError{Method: http.MethodPost, Path: "/api/admin/login", StatusCode: http.StatusOK, Err: fmt.Errorf("response carries no token")}
	}
	return s.tokens.SetToken(ctx, out.Token)
}

// Logout forgets the stored token.
func (s *Session) Logout(ctx context.Context) error {
	return s.tokens.ClearToken(ctx)
}
