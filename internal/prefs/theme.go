package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hiltonrealtorsnm/frontend/internal/localstore"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme is the colour scheme slot. It defaults to dark.
type Theme struct {
	store localstore.Store
	slot  string
}

func NewTheme(store localstore.Store, slot string) *Theme {
	return &Theme{store: store, slot: slot}
}

func (t *Theme) Get(ctx context.Context) (string, error) {
	raw, ok, err := t.store.Get(ctx, t.slot)
	if err != nil {
		return "", fmt.Errorf("failed to read theme: %w", err)
	}
	if !ok {
		return ThemeDark, nil
	}
	return normalizeTheme(string(raw)), nil
}

func (t *Theme) Set(ctx context.Context, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := t.store.Set(ctx, t.slot, []byte(theme)); err != nil {
		return fmt.Errorf("failed to store theme: %w", err)
	}
	return nil
}

// Toggle switches between dark and light and returns the new theme.
func (t *Theme) Toggle(ctx context.Context) (string, error) {
	var next string
	_, err := t.store.Update(ctx, t.slot, func(current []byte, exists bool) ([]byte, error) {
		next = ThemeLight
		if exists && normalizeTheme(string(current)) == ThemeLight {
			next = ThemeDark
		}
		return []byte(next), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to toggle theme: %w", err)
	}
	return next, nil
}

func normalizeTheme(s string) string {
	if strings.ToLower(strings.TrimSpace(s)) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}
