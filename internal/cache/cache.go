// Package cache keeps rendered dashboard fragments between data changes.
//
// Fragments are keyed by view name and table revision, so a stale revision
// simply stops being asked for. Purge exists for backends without a revision
// counter, where the server clears everything after a mutation.
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// Fragments is an LRU cache with TTL and size-based eviction. Expired entries
// are dropped lazily on access.
type Fragments[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List
}

type fragment[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func New[T any](maxSize int, ttl time.Duration) *Fragments[T] {
	return &Fragments[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Key builds the cache key for one view of one table revision.
func Key(view string, revision uint64) string {
	return fmt.Sprintf("%s@%d", view, revision)
}

// Get returns the cached fragment if present and not expired.
func (c *Fragments[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	item := elem.Value.(*fragment[T])
	if time.Now().After(item.expiresAt) {
		c.remove(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return item.data, true
}

// Set stores a fragment, evicting the least recently used entry when full.
func (c *Fragments[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &fragment[T]{key: key, data: data, expiresAt: time.Now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = item
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(item)
	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

// Purge drops every entry. Called after mutations when keys do not embed a
// revision.
func (c *Fragments[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Size returns the current number of entries.
func (c *Fragments[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Fragments[T]) remove(elem *list.Element) {
	item := elem.Value.(*fragment[T])
	delete(c.items, item.key)
	c.order.Remove(elem)
}
