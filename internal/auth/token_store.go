package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Hiltonrealtorsnm/frontend/internal/localstore"
)

// TokenStore keeps the admin credential in a named slot of a local store.
// The remote client reads it before each request; login and logout write it.
type TokenStore struct {
	store localstore.Store
	slot  string
	now   func() time.Time
}

// NewTokenStore creates a TokenStore over slot.
func NewTokenStore(store localstore.Store, slot string) *TokenStore {
	return &TokenStore{store: store, slot: slot, now: time.Now}
}

// Token returns the stored credential, or "" when none is present.
// An expired JWT is cleared and reported as absent.
func (t *TokenStore) Token(ctx context.Context) (string, error) {
	raw, ok, err := t.store.Get(ctx, t.slot)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if !ok || token == "" {
		return "", nil
	}

	if IsExpired(token, t.now()) {
		log.Printf("Stored admin token has expired, clearing it")
		if err := t.ClearToken(ctx); err != nil {
			return "", err
		}
		return "", nil
	}
	return token, nil
}

// SetToken stores token, replacing any previous one.
func (t *TokenStore) SetToken(ctx context.Context, token string) error {
	if err := t.store.Set(ctx, t.slot, []byte(token)); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// ClearToken removes the stored token.
func (t *TokenStore) ClearToken(ctx context.Context) error {
	if err := t.store.Delete(ctx, t.slot); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
