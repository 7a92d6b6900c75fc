package localstore

import (
	"context"
	"sync"
)

// MemoryStore keeps slots in process memory. It is what a single browser
// profile looks like: one storage area, any number of tabs.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string][]byte
	subs  map[string]map[chan struct{}]struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string][]byte),
		subs:  make(map[string]map[chan struct{}]struct{}),
	}
}

func (s *MemoryStore) Get(ctx context.Context, slot string) ([]byte, bool, error) {
	if slot == "" {
		return nil, false, ErrEmptySlotName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.slots[slot]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, slot string, value []byte) error {
	if slot == "" {
		return ErrEmptySlotName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = clone(value)
	s.notifyLocked(slot)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, slot string) error {
	if slot == "" {
		return ErrEmptySlotName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[slot]; ok {
		delete(s.slots, slot)
		s.notifyLocked(slot)
	}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, slot string, fn UpdateFunc) ([]byte, error) {
	if slot == "" {
		return nil, ErrEmptySlotName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.slots[slot]
	next, err := fn(clone(current), exists)
	if err != nil {
		return nil, err
	}
	if next == nil {
		delete(s.slots, slot)
	} else {
		s.slots[slot] = clone(next)
	}
	s.notifyLocked(slot)
	return next, nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, slot string) (<-chan struct{}, error) {
	if slot == "" {
		return nil, ErrEmptySlotName
	}
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	if s.subs[slot] == nil {
		s.subs[slot] = make(map[chan struct{}]struct{})
	}
	s.subs[slot][ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs[slot], ch)
		s.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// notifyLocked wakes every subscriber of slot. A subscriber that has not yet
// drained its previous signal keeps the pending one; signals carry no data.
func (s *MemoryStore) notifyLocked(slot string) {
	for ch := range s.subs[slot] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
