// Package counts resolves per-parent aggregate counts (enquiries per
// property, images per project) for a loaded page.
package counts

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FetchFunc returns the count for one parent.
type FetchFunc func(ctx context.Context, parentID int64) (int, error)

// Resolver holds the latest complete count mapping. Readers never see a
// partially merged batch: a batch is merged privately and swapped in whole.
type Resolver struct {
	limit int // 0 means one goroutine per parent

	mu     sync.RWMutex
	counts map[int64]int
	batch  uint64
}

// NewResolver creates a Resolver running at most limit fetches at once.
func NewResolver(limit int) *Resolver {
	return &Resolver{limit: limit, counts: map[int64]int{}}
}

// Resolve fetches the count of every parent concurrently. A failed fetch
// counts as zero. When all fetches have settled the new mapping replaces the
// previous one, unless a newer Resolve started meanwhile, in which case the
// result is returned but not installed.
func (r *Resolver) Resolve(ctx context.Context, parentIDs []int64, fetch FetchFunc) map[int64]int {
	r.mu.Lock()
	r.batch++
	batch := r.batch
	r.mu.Unlock()

	results := make([]int, len(parentIDs))
	g := new(errgroup.Group)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, id := range parentIDs {
		i, id := i, id
		g.Go(func() error {
			n, err := fetch(ctx, id)
			if err != nil {
				log.Printf("Count for %d unavailable, using 0: %v", id, err)
				n = 0
			}
			results[i] = n
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[int64]int, len(parentIDs))
	for i, id := range parentIDs {
		merged[id] = results[i]
	}

	r.mu.Lock()
	if batch == r.batch {
		r.counts = merged
	}
	r.mu.Unlock()

	out := make(map[int64]int, len(merged))
	for k, v := range merged {
		out[k] = v
	}
	return out
}

// Get returns the installed count for id, zero when unknown.
func (r *Resolver) Get(id int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[id]
}

// Snapshot returns a copy of the installed mapping.
func (r *Resolver) Snapshot() map[int64]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// EnquiryCounter is satisfied by the remote enquiry resource.
type EnquiryCounter interface {
	CountByProperty(ctx context.Context, propertyID int64) (int, error)
}

// ImageCounter is satisfied by the remote project resource.
type ImageCounter interface {
	CountImages(ctx context.Context, projectID int64) (int, error)
}

// EnquiryCounts counts enquiries per property.
func EnquiryCounts(c EnquiryCounter) FetchFunc {
	return c.CountByProperty
}

// ImageCounts counts images per project.
func ImageCounts(c ImageCounter) FetchFunc {
	return c.CountImages
}
