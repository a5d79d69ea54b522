package intelligence

import (
	"fmt"
	"sync"
	"time"
)

// Cache is a process-wide TTL cache shared by all signal fetchers. Entries
// carry their write timestamp; validity is judged against the TTL supplied
// at read time, and stale entries are evicted lazily on the next read.
// There is no size bound: key cardinality is bounded by active store count.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	payload  any
	storedAt time.Time
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the payload at key if it was stored less than ttl ago.
// An expired entry is deleted and reported as a miss.
func (c *Cache) Get(key string, ttl time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.payload, true
}

// Set stores a payload at key, stamping it with the current time.
func (c *Cache) Set(key string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, storedAt: c.now()}
}

// Delete removes a key outright.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cache key builders. Keys are provider-scoped so signals expire
// independently per store.

func weatherKey(storeID string) string  { return "weather_" + storeID }
func trafficKey(storeID string) string  { return "traffic_" + storeID }
func eventsKey(storeID string) string   { return "events_" + storeID }
func boostKey(storeID string) string    { return "boost_week_" + storeID }
func classifyKey(storeID string) string { return "classification_" + storeID }

func holidaysKey(year int, country string) string {
	return fmt.Sprintf("holidays_%d_%s", year, country)
}
