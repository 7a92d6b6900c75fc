// Package collection loads, filters and sorts the list views: one Loader per
// mounted view, a stale-response guard per Loader.
package collection

import (
	"sort"
	"strings"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Key extracts a sortable value from an entity. Exactly one of Text or Number
// is set.
type Key[T any] struct {
	Text   func(T) string
	Number func(T) float64
}

// TextKey sorts case-insensitively on a string field.
func TextKey[T any](fn func(T) string) Key[T] {
	return Key[T]{Text: fn}
}

// NumberKey sorts numerically on a derived number.
func NumberKey[T any](fn func(T) float64) Key[T] {
	return Key[T]{Number: fn}
}

// Keys maps sort-key names to extractors.
type Keys[T any] map[string]Key[T]

// Sort returns a new, stably sorted slice. Unknown keys and an empty sort key
// leave the input order unchanged. Descending order is the exact reverse of
// ascending order for elements with distinct keys; equal keys keep their
// input order in both directions.
func Sort[T any](items []T, order models.SortSpec, keys Keys[T]) []T {
	out := make([]T, len(items))
	copy(out, items)

	key, ok := keys[order.Key]
	if !ok || order.Key == "" {
		return out
	}

	cmp := compareFunc(key)
	desc := order.Direction == models.Desc
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareFunc[T any](key Key[T]) func(a, b T) int {
	if key.Number != nil {
		return func(a, b T) int {
			x, y := key.Number(a), key.Number(b)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(key.Text(a)), strings.ToLower(key.Text(b)))
	}
}
