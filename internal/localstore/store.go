// Package localstore holds small named slots of client-local persistent state
// (wishlist, admin token, theme). Several consumers ("tabs") may share one
// store; every mutation is a read-modify-write against the slot and every
// mutation is announced to subscribers of that slot.
package localstore

import (
	"context"
	"errors"
)

// UpdateFunc receives the current slot value and returns the value to store.
// Returning a nil slice deletes the slot.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// Store is the persistent slot contract.
type Store interface {
	Get(ctx context.Context, slot string) ([]byte, bool, error)
	Set(ctx context.Context, slot string, value []byte) error
	Delete(ctx context.Context, slot string) error
	// Update applies fn atomically with respect to other writers of the slot.
	Update(ctx context.Context, slot string, fn UpdateFunc) ([]byte, error)
	// Subscribe delivers a signal after every change of the slot, whoever made
	// it. The channel is closed when ctx is done.
	Subscribe(ctx context.Context, slot string) (<-chan struct{}, error)
}

var ErrEmptySlotName = errors.New("slot name must not be empty")
