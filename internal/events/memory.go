package events

import (
	"context"
	"sync"
)

type subscription struct {
	id int
	fn func(ChangeEvent)
}

// MemoryFeed is an in-process ChangeFeed and Publisher.
// Publish delivers synchronously, in subscription order.
type MemoryFeed struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Kind][]subscription
}

var (
	_ ChangeFeed = (*MemoryFeed)(nil)
	_ Publisher  = (*MemoryFeed)(nil)
)

// NewMemoryFeed creates an empty feed
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[Kind][]subscription)}
}

// Subscribe registers fn for kind until ctx is done
func (f *MemoryFeed) Subscribe(ctx context.Context, kind Kind, fn func(ChangeEvent)) error {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.subs[kind] = append(f.subs[kind], subscription{id: id, fn: fn})
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.remove(kind, id)
	}()
	return nil
}

func (f *MemoryFeed) remove(kind Kind, id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := f.subs[kind]
	for i, s := range subs {
		if s.id == id {
			f.subs[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every subscriber of its kind
func (f *MemoryFeed) Publish(_ context.Context, ev ChangeEvent) error {
	f.mu.RLock()
	subs := append([]subscription(nil), f.subs[ev.Kind]...)
	f.mu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
	return nil
}
