package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/simplelru"
)

// EntryOverhead is the bookkeeping charge added to the footprint of every
// entry, on top of the length of its key and value.
const EntryOverhead = 8

// ErrObjectTooLarge is the panic value used when Put is called with an entry
// that Fits() rejects.
var ErrObjectTooLarge = errors.New("cache: object exceeds the per-object limit or the capacity")

// Cache is a size-bounded, least-recently-used store of origin responses keyed
// by the rewritten request that produced them.
//
// Any number of Get calls may read concurrently. Put takes exclusive access.
// Promoting a hit to the head of the recency list is serialized separately, so
// concurrent hits never interleave list updates while still copying their
// values in parallel.
type Cache struct {
	capacity    int
	objectLimit int

	gate    sync.RWMutex // readers: Get; writer: Put, Destroy, Keys
	promote sync.Mutex   // serializes head promotion among readers

	lru  *simplelru.LRU
	size int

	hits      uint64
	misses    uint64
	evictions uint64
}

// Stats is a point-in-time summary of cache activity.
type Stats struct {
	Entries   int
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// New returns an empty cache that holds at most capacity bytes, and accepts
// objects of at most objectLimit bytes.
func New(capacity, objectLimit int) (*Cache, error) {
	if objectLimit <= 0 {
		return nil, fmt.Errorf("cache: object limit must be positive, got %d", objectLimit)
	}

	if capacity < objectLimit+EntryOverhead {
		return nil, fmt.Errorf(
			"cache: capacity (%d) is too small for an object of %d bytes",
			capacity,
			objectLimit,
		)
	}

	c := &Cache{
		capacity:    capacity,
		objectLimit: objectLimit,
	}

	// Entries are bounded by size, not count, so the count limit is never the
	// reason for an eviction.
	lru, err := simplelru.NewLRU(capacity, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.lru = lru

	return c, nil
}

// Capacity returns the maximum total footprint of all entries.
func (c *Cache) Capacity() int {
	return c.capacity
}

// ObjectLimit returns the largest value that may be passed to Put.
func (c *Cache) ObjectLimit() int {
	return c.objectLimit
}

// Fits returns true if value is within the per-object limit and the entry for
// key and value is no larger than the whole cache.
func (c *Cache) Fits(key string, value []byte) bool {
	return len(value) <= c.objectLimit && footprint(key, value) <= c.capacity
}

// Get returns a copy of the value stored under key and marks it as the most
// recently used entry.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.gate.RLock()
	defer c.gate.RUnlock()

	if c.lru == nil {
		return nil, false
	}

	v, ok := c.lru.Peek(key)
	if !ok {
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}

	c.promote.Lock()
	c.lru.Get(key)
	c.promote.Unlock()

	value := v.([]byte)
	buf := make([]byte, len(value))
	copy(buf, value)

	atomic.AddUint64(&c.hits, 1)

	return buf, true
}

// Put stores value under key as the most recently used entry, evicting least
// recently used entries until the total footprint fits within the capacity.
//
// It panics with ErrObjectTooLarge if the entry does not fit. Callers are
// expected to check Fits() before calling Put.
func (c *Cache) Put(key string, value []byte) {
	if !c.Fits(key, value) {
		panic(ErrObjectTooLarge)
	}

	buf := make([]byte, len(value))
	copy(buf, value)

	c.gate.Lock()
	defer c.gate.Unlock()

	if c.lru == nil {
		return
	}

	// Replace rather than duplicate when two misses for the same request both
	// complete.
	c.lru.Remove(key)

	c.size += footprint(key, buf)

	for c.size > c.capacity {
		if _, _, ok := c.lru.RemoveOldest(); !ok {
			break
		}
		c.evictions++
	}

	c.lru.Add(key, buf)
}

// Keys returns the keys in recency order, most recently used first.
func (c *Cache) Keys() []string {
	c.gate.Lock()
	defer c.gate.Unlock()

	if c.lru == nil {
		return nil
	}

	oldest := c.lru.Keys()
	keys := make([]string, len(oldest))
	for i, k := range oldest {
		keys[len(oldest)-1-i] = k.(string)
	}

	return keys
}

// Size returns the total footprint of all entries.
func (c *Cache) Size() int {
	c.gate.RLock()
	defer c.gate.RUnlock()

	return c.size
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.gate.RLock()
	defer c.gate.RUnlock()

	if c.lru == nil {
		return 0
	}

	return c.lru.Len()
}

// Stats returns a summary of the cache's contents and activity.
func (c *Cache) Stats() Stats {
	c.gate.Lock()
	defer c.gate.Unlock()

	s := Stats{
		Size:      c.size,
		Capacity:  c.capacity,
		Hits:      atomic.LoadUint64(&c.hits),
		Misses:    atomic.LoadUint64(&c.misses),
		Evictions: c.evictions,
	}

	if c.lru != nil {
		s.Entries = c.lru.Len()
	}

	return s
}

// Destroy releases every entry. The cache must not be used afterwards; Get
// always misses and Put is ignored.
func (c *Cache) Destroy() {
	c.gate.Lock()
	defer c.gate.Unlock()

	if c.lru == nil {
		return
	}

	c.lru.Purge()
	c.lru = nil
}

// onEvict keeps the running size in step with entries leaving the list. It is
// only ever called with the gate held for writing.
func (c *Cache) onEvict(key, value interface{}) {
	c.size -= footprint(key.(string), value.([]byte))
}

func footprint(key string, value []byte) int {
	return len(key) + len(value) + EntryOverhead
}
