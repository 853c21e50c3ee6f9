package cache

import (
	"sort"
	"time"
)

type entry struct {
	key       string
	data      []byte
	createdAt time.Time
}

// memoryTier is the bounded volatile tier. It is not synchronized itself;
// every access goes through the Manager's mutex.
type memoryTier struct {
	entries  map[string]*entry
	capacity int
}

func newMemoryTier(capacity int) *memoryTier {
	return &memoryTier{
		entries:  make(map[string]*entry),
		capacity: capacity,
	}
}

func (t *memoryTier) get(key string) (*entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// put inserts or replaces an entry with the given creation timestamp.
// Promotion passes "now" here, which deliberately resets the entry's age.
func (t *memoryTier) put(key string, data []byte, createdAt time.Time) {
	t.entries[key] = &entry{key: key, data: data, createdAt: createdAt}
}

func (t *memoryTier) delete(key string) bool {
	if _, ok := t.entries[key]; !ok {
		return false
	}
	delete(t.entries, key)
	return true
}

// evictOverCapacity removes oldest-by-timestamp entries until the tier fits
// its capacity. Strict FIFO by creation timestamp, not LRU.
func (t *memoryTier) evictOverCapacity() int {
	evicted := 0
	for len(t.entries) > t.capacity {
		var oldest *entry
		for _, e := range t.entries {
			if oldest == nil || e.createdAt.Before(oldest.createdAt) {
				oldest = e
			}
		}
		delete(t.entries, oldest.key)
		evicted++
	}
	return evicted
}

func (t *memoryTier) evictExpired(now time.Time, ttl time.Duration) int {
	evicted := 0
	for key, e := range t.entries {
		if now.Sub(e.createdAt) >= ttl {
			delete(t.entries, key)
			evicted++
		}
	}
	return evicted
}

func (t *memoryTier) clear() int {
	n := len(t.entries)
	t.entries = make(map[string]*entry)
	return n
}

func (t *memoryTier) keys() []string {
	keys := make([]string, 0, len(t.entries))
	for key := range t.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
