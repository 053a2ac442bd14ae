package swipe

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type counterKey struct {
	user uuid.UUID
	day  string
}

// MemoryCounter is a process-local Counter for tests
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[counterKey]int
}

var _ Counter = (*MemoryCounter)(nil)

// NewMemoryCounter creates an empty counter
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[counterKey]int)}
}

// Increment adds one swipe for the day and returns the new total
func (c *MemoryCounter) Increment(_ context.Context, userID uuid.UUID, day time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := counterKey{userID, DayKey(day)}
	c.counts[k]++
	return c.counts[k], nil
}

// Decrement removes one swipe for the day, never going below zero
func (c *MemoryCounter) Decrement(_ context.Context, userID uuid.UUID, day time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := counterKey{userID, DayKey(day)}
	if c.counts[k] <= 1 {
		delete(c.counts, k)
		return nil
	}
	c.counts[k]--
	return nil
}

// Count returns the swipes recorded for the day
func (c *MemoryCounter) Count(_ context.Context, userID uuid.UUID, day time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[counterKey{userID, DayKey(day)}], nil
}
