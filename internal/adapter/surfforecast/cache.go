package surfforecast

import (
	"context"
	"sync"
	"time"

	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Extractor is the subset of Client the cache decorates.
type Extractor interface {
	ExtractSpot(ctx context.Context, spot string) (domain.RawSpotTable, error)
}

// CachedExtractor wraps an Extractor with an in-memory LRU cache whose
// entries expire after a TTL. A run triggered over HTTP shortly after a
// scheduled one reuses the pages already downloaded.
type CachedExtractor struct {
	inner Extractor
	ttl   time.Duration
	clock clockwork.Clock
	cache *lruCache
}

// NewCachedExtractor creates a cache decorator around an extractor.
func NewCachedExtractor(inner Extractor, maxEntries int, ttl time.Duration, clock clockwork.Clock) *CachedExtractor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedExtractor{
		inner: inner,
		ttl:   ttl,
		clock: clock,
		cache: newLRUCache(maxEntries),
	}
}

func (c *CachedExtractor) ExtractSpot(ctx context.Context, spot string) (domain.RawSpotTable, error) {
	now := c.clock.Now()
	if table, ok := c.cache.get(spot, now); ok {
		return table, nil
	}
	table, err := c.inner.ExtractSpot(ctx, spot)
	if err != nil {
		return table, err
	}
	// Tables without ratings are retried on the next run.
	if len(table.Ratings) > 0 {
		c.cache.put(spot, table, now.Add(c.ttl))
	}
	return table, nil
}

// lruCache is a thread-safe LRU cache of spot tables with per-entry expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key     string
	value   domain.RawSpotTable
	expires time.Time
	prev    *entry
	next    *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: max(1, maxEntries),
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string, now time.Time) (domain.RawSpotTable, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.RawSpotTable{}, false
	}
	if !now.Before(e.expires) {
		delete(c.entries, key)
		c.remove(e)
		return domain.RawSpotTable{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.RawSpotTable, expires time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expires: expires}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
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
