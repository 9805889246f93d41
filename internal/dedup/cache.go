// Package dedup remembers which sources were already evaluated so a run
// never spends network calls on them twice.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var ErrUnknownBackend = errors.New("dedup: unknown backend")

// Backend persists visited source IDs with the time they were marked.
// SaveVisited receives only new or refreshed entries and must merge them.
type Backend interface {
	LoadVisited(ctx context.Context) (map[string]time.Time, error)
	SaveVisited(ctx context.Context, entries map[string]time.Time) error
}

// Pruner is implemented by backends that can drop expired entries.
type Pruner interface {
	PruneVisited(ctx context.Context, before time.Time) (int64, error)
}

// Cache is the in-memory visited set. A TTL of zero keeps entries forever.
type Cache struct {
	mu      sync.Mutex
	backend Backend
	ttl     time.Duration
	now     func() time.Time
	seen    map[string]time.Time
	pending map[string]time.Time
}

func New(b Backend, ttl time.Duration) *Cache {
	return &Cache{
		backend: b,
		ttl:     ttl,
		now:     time.Now,
		seen:    map[string]time.Time{},
		pending: map[string]time.Time{},
	}
}

// Load builds a cache from the backend snapshot. Expired entries are skipped.
func Load(ctx context.Context, b Backend, ttl time.Duration) (*Cache, error) {
	return load(ctx, b, ttl, time.Now)
}

func load(ctx context.Context, b Backend, ttl time.Duration, now func() time.Time) (*Cache, error) {
	c := New(b, ttl)
	c.now = now
	if b == nil {
		return c, nil
	}
	snap, err := b.LoadVisited(ctx)
	if err != nil {
		return nil, fmt.Errorf("load visited sources: %w", err)
	}
	for id, at := range snap {
		if !c.expired(at) {
			c.seen[id] = at
		}
	}
	return c, nil
}

func (c *Cache) expired(at time.Time) bool {
	return c.ttl > 0 && c.now().Sub(at) > c.ttl
}

func (c *Cache) Seen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	at, ok := c.seen[id]
	return ok && !c.expired(at)
}

func (c *Cache) MarkSeen(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	at := c.now().UTC()
	c.seen[id] = at
	c.pending[id] = at
}

// Save writes entries marked since the last successful Save. On failure the
// entries stay pending and go out with the next call.
func (c *Cache) Save(ctx context.Context) error {
	c.mu.Lock()
	if len(c.pending) == 0 || c.backend == nil {
		c.mu.Unlock()
		return nil
	}
	batch := make(map[string]time.Time, len(c.pending))
	for id, at := range c.pending {
		batch[id] = at
	}
	c.mu.Unlock()

	if err := c.backend.SaveVisited(ctx, batch); err != nil {
		return fmt.Errorf("save visited sources: %w", err)
	}

	c.mu.Lock()
	for id, at := range batch {
		if c.pending[id].Equal(at) {
			delete(c.pending, id)
		}
	}
	c.mu.Unlock()
	return nil
}

// Prune removes expired entries from the backend when it supports that.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	p, ok := c.backend.(Pruner)
	if !ok || c.ttl <= 0 {
		return 0, nil
	}
	return p.PruneVisited(ctx, c.now().Add(-c.ttl))
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, at := range c.seen {
		if !c.expired(at) {
			n++
		}
	}
	return n
}

func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// IDs returns the live entries sorted.
func (c *Cache) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.seen))
	for id, at := range c.seen {
		if !c.expired(at) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
