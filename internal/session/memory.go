package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory storage.
// This is NOT suitable for distributed deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]*item
	now     func() time.Time
	stopCh  chan struct{}
	stopped bool
}

// item represents a single stored value.
type item struct {
	value     []byte
	expiresAt time.Time
	noExpiry  bool
}

func (i *item) isExpired(now time.Time) bool {
	if i.noExpiry {
		return false
	}
	return now.After(i.expiresAt)
}

// NewMemoryStore creates a new in-memory store that sweeps expired
// entries every interval. A non-positive interval disables sweeping.
func NewMemoryStore(interval time.Duration) *MemoryStore {
	s := &MemoryStore{
		items:  make(map[string]*item),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}

	if interval > 0 {
		go s.cleanupLoop(interval)
	}

	return s
}

// cleanupLoop periodically removes expired items.
func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, it := range s.items {
		if it.isExpired(now) {
			delete(s.items, key)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopped {
		close(s.stopCh)
		s.stopped = true
	}
	return nil
}

// Get retrieves a value by key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, exists := s.items[key]
	if !exists || it.isExpired(s.now()) {
		return nil, ErrNotFound
	}

	// Return a copy to prevent mutation.
	result := make([]byte, len(it.value))
	copy(result, it.value)
	return result, nil
}

// Set stores a value with an optional TTL.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	it := &item{value: valueCopy}
	if ttl > 0 {
		it.expiresAt = s.now().Add(ttl)
	} else {
		it.noExpiry = true
	}

	s.items[key] = it
	return nil
}

// Delete removes a value by key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
