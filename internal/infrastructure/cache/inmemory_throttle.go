package cache

import (
	"context"
	"sync"
	"time"
)

type throttleEntry struct {
	expiresAt time.Time
}

// InMemoryThrottle implements ReminderThrottle with an in-process map.
// Suitable for single-instance deployments and as a fallback when Redis
// is not configured.
type InMemoryThrottle struct {
	mu        sync.RWMutex
	entries   map[string]throttleEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryThrottle creates the store and starts its cleanup goroutine
func NewInMemoryThrottle() *InMemoryThrottle {
	t := &InMemoryThrottle{
		entries:  make(map[string]throttleEntry),
		stopChan: make(chan struct{}),
	}

	t.wg.Add(1)
	go t.cleanupLoop()

	return t
}

// Acquire claims the throttle window for the key.
// Returns false while an unexpired claim exists.
func (t *InMemoryThrottle) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, exists := t.entries[key]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil
		}
		// Expired claim gets overwritten
	}

	t.entries[key] = throttleEntry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (t *InMemoryThrottle) Close() error {
	t.closeOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
	return nil
}

func (t *InMemoryThrottle) cleanupLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.cleanup()
		}
	}
}

func (t *InMemoryThrottle) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for key, e := range t.entries {
		if now.After(e.expiresAt) {
			delete(t.entries, key)
		}
	}
}

// Size returns the number of live entries (for tests)
func (t *InMemoryThrottle) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

var _ ReminderThrottle = (*InMemoryThrottle)(nil)
