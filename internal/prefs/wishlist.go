// Package prefs holds the user's client-local preferences: the wishlist of
// saved properties and the colour theme.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Hiltonrealtorsnm/frontend/internal/localstore"
	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Wishlist is a set of property IDs kept as a JSON array in one slot.
//
// Nothing is cached: every read decodes the slot and every toggle is an
// atomic read-modify-write, so several consumers of the same store (tabs)
// never overwrite each other with stale copies.
type Wishlist struct {
	store localstore.Store
	slot  string
}

// NewWishlist creates a Wishlist over slot.
func NewWishlist(store localstore.Store, slot string) *Wishlist {
	return &Wishlist{store: store, slot: slot}
}

// List returns the saved IDs in stored order.
func (w *Wishlist) List(ctx context.Context) ([]int64, error) {
	raw, ok, err := w.store.Get(ctx, w.slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read wishlist: %w", err)
	}
	if !ok {
		return []int64{}, nil
	}
	return decodeIDs(raw), nil
}

// Has reports whether id is saved.
func (w *Wishlist) Has(ctx context.Context, id int64) (bool, error) {
	ids, err := w.List(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(ids, id) >= 0, nil
}

// Toggle adds id when absent and removes it when present, returning whether
// it is saved afterwards.
func (w *Wishlist) Toggle(ctx context.Context, id int64) (bool, error) {
	var saved bool
	_, err := w.store.Update(ctx, w.slot, func(current []byte, exists bool) ([]byte, error) {
		ids := []int64{}
		if exists {
			ids = decodeIDs(current)
		}
		if i := indexOf(ids, id); i >= 0 {
			ids = append(ids[:i], ids[i+1:]...)
			saved = false
		} else {
			ids = append(ids, id)
			saved = true
		}
		return json.Marshal(ids)
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle wishlist entry %d: %w", id, err)
	}
	return saved, nil
}

// Watch calls fn with the current IDs now and after every change of the slot,
// whoever made it, until ctx is done. It returns once the subscription is in
// place.
func (w *Wishlist) Watch(ctx context.Context, fn func(ids []int64)) error {
	changes, err := w.store.Subscribe(ctx, w.slot)
	if err != nil {
		return fmt.Errorf("failed to watch wishlist: %w", err)
	}

	emit := func() {
		ids, err := w.List(ctx)
		if err != nil {
			log.Printf("Wishlist resync failed: %v", err)
			return
		}
		fn(ids)
	}

	emit()
	go func() {
		for range changes {
			emit()
		}
	}()
	return nil
}

// Resolve fetches the saved properties concurrently. IDs whose fetch fails
// (for example a property deleted since it was saved) are skipped.
func (w *Wishlist) Resolve(ctx context.Context, fetch func(ctx context.Context, id int64) (*models.Property, error)) ([]models.Property, error) {
	ids, err := w.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*models.Property, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := fetch(gctx, id)
			if err != nil {
				log.Printf("Skipping wishlist property %d: %v", id, err)
				return nil
			}
			results[i] = p
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.Property, 0, len(ids))
	for _, p := range results {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// decodeIDs reads a JSON array of IDs. Numbers and numeric strings are
// accepted; anything else in the slot is treated as an empty wishlist and
// duplicate entries are dropped.
func decodeIDs(raw []byte) []int64 {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("Wishlist slot is corrupt, treating as empty: %v", err)
		return []int64{}
	}

	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		id, ok := parseID(item)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func parseID(item json.RawMessage) (int64, bool) {
	if strings.TrimSpace(string(item)) == "null" {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(item, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
