package collection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

var (
	// ErrStaleResponse marks a response that arrived after a newer request
	// started. It is control flow, not a failure to show anyone.
	ErrStaleResponse = errors.New("response superseded by a newer request")
	// ErrViewClosed is returned once the view owning the loader went away.
	ErrViewClosed = errors.New("view is closed")
	// ErrFilterUnsupported is returned when criteria need a server-side
	// search the source does not offer.
	ErrFilterUnsupported = errors.New("collection does not support server-side filtering")
)

// State of a Loader.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	LoadFailed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "LOADING"
	case Loaded:
		return "LOADED"
	case LoadFailed:
		return "LOAD_FAILED"
	}
	return "IDLE"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const defaultPageSize = 10

// Query is everything a list view's content depends on. It is comparable;
// two queries with the same values are the same query.
type Query struct {
	Criteria models.FilterCriteria
	Sort     models.SortSpec
	Page     int
	Size     int
}

func (q Query) normalize() Query {
	q.Criteria = q.Criteria.Normalize()
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = defaultPageSize
	}
	return q
}

// serverCriteria is the part of the criteria the server filters on.
func (q Query) serverCriteria() models.FilterCriteria {
	c := q.Criteria
	c.Keyword = ""
	return c
}

// sameFetch reports whether a and b ask the server for the same data.
func sameFetch(a, b Query) bool {
	return a.serverCriteria() == b.serverCriteria() && a.Page == b.Page && a.Size == b.Size
}

// Source fetches pages of a collection. Search may be nil for collections
// the server cannot filter.
type Source[T any] struct {
	List   func(ctx context.Context, page, size int) (*models.Page[T], error)
	Search func(ctx context.Context, criteria models.FilterCriteria, page, size int) (*models.Page[T], error)
}

// Options shape what a view shows from the fetched page.
type Options[T any] struct {
	Keys Keys[T]
	// Refine is applied to every fetched page, e.g. "approved only" on
	// public pages. Nil keeps everything.
	Refine func(T) bool
	// Text returns the fields a keyword search looks at. Nil disables
	// keyword refinement.
	Text func(T) []string
}

// Snapshot is what a view renders.
type Snapshot[T any] struct {
	State         State  `json:"state"`
	Query         Query  `json:"-"`
	Items         []T    `json:"items"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int64  `json:"totalElements"`
	Generation    uint64 `json:"generation"`
	Err           error  `json:"-"`
}

// Loader drives one list view through IDLE, LOADING, LOADED and LOAD_FAILED.
//
// Every fetch carries a generation number. Only the response of the latest
// generation is applied; earlier responses are dropped with
// ErrStaleResponse, however late they arrive. Sort and keyword changes are
// applied to the loaded page without another fetch.
type Loader[T any] struct {
	source Source[T]
	opts   Options[T]

	mu            sync.Mutex
	gen           uint64
	closed        bool
	state         State
	query         Query
	fetched       []T // server order, before refinement
	items         []T
	totalPages    int
	totalElements int64
	err           error

	notifyMu  sync.Mutex
	observers map[int]func(Snapshot[T])
	nextObs   int
}

// NewLoader creates an idle Loader.
func NewLoader[T any](source Source[T], opts Options[T]) *Loader[T] {
	return &Loader[T]{
		source:    source,
		opts:      opts,
		observers: make(map[int]func(Snapshot[T])),
	}
}

// Load brings the view to q. A query equal to the loaded one is answered
// from memory; so is a query differing only in sort or keyword.
func (l *Loader[T]) Load(ctx context.Context, q Query) (Snapshot[T], error) {
	return l.load(ctx, q.normalize(), false)
}

// Refresh refetches the current query, e.g. after a moderation action.
func (l *Loader[T]) Refresh(ctx context.Context) (Snapshot[T], error) {
	l.mu.Lock()
	q := l.query.normalize()
	l.mu.Unlock()
	return l.load(ctx, q, true)
}

// SortBy toggles the sort on key: the same key flips direction, a new key
// starts ascending.
func (l *Loader[T]) SortBy(ctx context.Context, key string) (Snapshot[T], error) {
	l.mu.Lock()
	q := l.query
	l.mu.Unlock()
	q.Sort = q.Sort.Toggle(key)
	return l.Load(ctx, q)
}

// Reset clears every filter and returns to the first unfiltered page,
// keeping page size and sort.
func (l *Loader[T]) Reset(ctx context.Context) (Snapshot[T], error) {
	l.mu.Lock()
	q := Query{Sort: l.query.Sort, Size: l.query.Size}
	l.mu.Unlock()
	return l.Load(ctx, q)
}

func (l *Loader[T]) load(ctx context.Context, q Query, force bool) (Snapshot[T], error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return Snapshot[T]{}, ErrViewClosed
	}

	if !force && l.state == Loaded && sameFetch(q, l.query) {
		if q == l.query {
			snap := l.snapshotLocked()
			l.mu.Unlock()
			return snap, nil
		}
		l.query = q
		l.recomputeLocked()
		snap := l.snapshotLocked()
		l.publishLocked()
		return snap, nil
	}

	l.gen++
	gen := l.gen
	l.state = Loading
	l.query = q
	l.err = nil
	l.publishLocked()

	page, err := l.fetch(ctx, q)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return Snapshot[T]{}, ErrViewClosed
	}
	if gen != l.gen {
		l.mu.Unlock()
		log.Printf("Dropping response of generation %d, current is %d", gen, l.gen)
		return Snapshot[T]{}, ErrStaleResponse
	}

	if err != nil {
		l.state = LoadFailed
		l.err = err
		l.fetched, l.items = nil, nil
		l.totalPages, l.totalElements = 0, 0
		snap := l.snapshotLocked()
		l.publishLocked()
		return snap, fmt.Errorf("failed to load collection: %w", err)
	}

	l.state = Loaded
	l.fetched = page.Content
	l.totalPages = page.TotalPages
	l.totalElements = page.TotalElements
	l.recomputeLocked()
	snap := l.snapshotLocked()
	l.publishLocked()
	return snap, nil
}

func (l *Loader[T]) fetch(ctx context.Context, q Query) (*models.Page[T], error) {
	criteria := q.serverCriteria()
	if criteria.IsEmpty() {
		return l.source.List(ctx, q.Page, q.Size)
	}
	if l.source.Search == nil {
		return nil, ErrFilterUnsupported
	}
	page, err := l.source.Search(ctx, criteria, q.Page, q.Size)
	if err != nil {
		return nil, err
	}
	return page.Paginate(q.Page, q.Size), nil
}

func (l *Loader[T]) recomputeLocked() {
	items := make([]T, 0, len(l.fetched))
	for _, item := range l.fetched {
		if l.opts.Refine != nil && !l.opts.Refine(item) {
			continue
		}
		if l.opts.Text != nil && !MatchKeyword(l.query.Criteria.Keyword, l.opts.Text(item)) {
			continue
		}
		items = append(items, item)
	}
	l.items = Sort(items, l.query.Sort, l.opts.Keys)
}

func (l *Loader[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(l.items))
	copy(items, l.items)
	return Snapshot[T]{
		State:         l.state,
		Query:         l.query,
		Items:         items,
		TotalPages:    l.totalPages,
		TotalElements: l.totalElements,
		Generation:    l.gen,
		Err:           l.err,
	}
}

// publishLocked hands the current snapshot to observers and releases mu.
// Observers are called in the order snapshots were taken.
func (l *Loader[T]) publishLocked() {
	snap := l.snapshotLocked()
	l.notifyMu.Lock()
	l.mu.Unlock()
	defer l.notifyMu.Unlock()
	for _, fn := range l.observers {
		fn(snap)
	}
}

// Snapshot returns the current view state.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Subscribe registers fn for every published snapshot and returns a function
// that removes it. fn must not call back into the Loader.
func (l *Loader[T]) Subscribe(fn func(Snapshot[T])) func() {
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	id := l.nextObs
	l.nextObs++
	l.observers[id] = fn
	return func() {
		l.notifyMu.Lock()
		defer l.notifyMu.Unlock()
		delete(l.observers, id)
	}
}

// Close marks the view as gone. Responses still in flight are dropped.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	l.closed = true
	l.gen++
	l.mu.Unlock()

	l.notifyMu.Lock()
	l.observers = make(map[int]func(Snapshot[T]))
	l.notifyMu.Unlock()
}

// Closed reports whether Close was called.
func (l *Loader[T]) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
