package handlers

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/karlseguin/ccache/v3"

	"github.com/Hiltonrealtorsnm/frontend/internal/services"
)

// ViewRegistry holds the mounted views. A view idle for longer than the TTL,
// or pushed out by MaxViews, is closed like an unmounted page.
type ViewRegistry struct {
	cache *ccache.Cache[*services.View]
	ttl   time.Duration
}

func NewViewRegistry(maxViews int, ttl time.Duration) *ViewRegistry {
	if maxViews <= 0 {
		maxViews = 1000
	}
	cache := ccache.New(ccache.Configure[*services.View]().
		MaxSize(int64(maxViews)).
		OnDelete(func(item *ccache.Item[*services.View]) {
			item.Value().Close()
			log.Printf("Closed view %s (%s)", item.Key(), item.Value().Resource())
		}))
	return &ViewRegistry{cache: cache, ttl: ttl}
}

// Add registers v under a fresh ID.
func (r *ViewRegistry) Add(v *services.View) string {
	id := uuid.NewString()
	r.cache.Set(id, v, r.ttl)
	return id
}

// Get returns a live view and extends its idle deadline.
func (r *ViewRegistry) Get(id string) (*services.View, bool) {
	item := r.cache.Get(id)
	if item == nil {
		return nil, false
	}
	if item.Expired() {
		r.cache.Delete(id)
		return nil, false
	}
	item.Extend(r.ttl)
	return item.Value(), true
}

// Remove unmounts a view. It reports whether the view existed.
func (r *ViewRegistry) Remove(id string) bool {
	return r.cache.Delete(id)
}

// Stop closes every view and stops the cache worker.
func (r *ViewRegistry) Stop() {
	r.cache.ForEachFunc(func(key string, item *ccache.Item[*services.View]) bool {
		item.Value().Close()
		return true
	})
	r.cache.Stop()
}
