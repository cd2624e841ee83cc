package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// CachedFetcher wraps a Fetcher with an in-memory TTL+LRU cache keyed by URL.
// The regional feed endpoints change slowly and the provider rate-limits
// aggressive pollers, so repeat fetches within the TTL are served locally.
type CachedFetcher struct {
	inner Fetcher
	ttl   time.Duration
	cache *lruCache
	clock clockwork.Clock
}

// NewCachedFetcher creates a cache decorator around a fetcher. A nil clock
// uses real time.
func NewCachedFetcher(inner Fetcher, maxEntries int, ttl time.Duration, clock clockwork.Clock) *CachedFetcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedFetcher{
		inner: inner,
		ttl:   ttl,
		cache: newLRUCache(maxEntries),
		clock: clock,
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (Body, error) {
	if body, ok := c.cache.get(url, c.clock.Now()); ok {
		return body, nil
	}
	body, err := c.inner.Fetch(ctx, url, headers)
	if err != nil {
		return body, err
	}
	// Only successful responses are cached so failures can be retried by the
	// next cycle.
	c.cache.put(url, body, c.clock.Now().Add(c.ttl))
	return body, nil
}

// lruCache is a thread-safe LRU cache of fetched bodies with per-entry expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     Body
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string, now time.Time) (Body, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Body{}, false
	}
	if now.After(e.expiresAt) {
		delete(c.entries, e.key)
		c.remove(e)
		return Body{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value Body, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
