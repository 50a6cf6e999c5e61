package cache

import (
	"fmt"
	"os"
	"sort"
)

// EvictIfNeeded enforces the three limits in order: age, entry count, total
// body size. Count and size eviction drop entries in least-used order:
// strictly lower hit count first, ties broken by older timestamp.
func (c *Cache) EvictIfNeeded() {
	if c.cfg.MaxAge > 0 {
		cutoff := c.now().Unix() - int64(c.cfg.MaxAge.Seconds())
		var expired []string
		for key, entry := range c.entries {
			if entry.Timestamp < cutoff {
				expired = append(expired, key)
			}
		}
		for _, key := range expired {
			c.evict(key)
		}
		if len(expired) > 0 {
			c.log.Info(fmt.Sprintf("evicted %d expired cache entries", len(expired)))
		}
	}

	if excess := len(c.entries) - c.cfg.MaxEntries; excess > 0 {
		order := c.evictionOrder()
		for _, key := range order[:excess] {
			c.evict(key)
		}
		c.log.Info(fmt.Sprintf("evicted %d cache entries over the count limit", excess))
	}

	evicted := 0
	for c.TotalBodyBytes() > c.cfg.MaxSizeBytes && len(c.entries) > 0 {
		c.evict(c.evictionOrder()[0])
		evicted++
	}
	if evicted > 0 {
		c.log.Info(fmt.Sprintf("evicted %d cache entries over the size limit", evicted))
	}
}

// evictionOrder returns all keys sorted least-used first: ascending hit
// count, then ascending timestamp, then key for determinism.
func (c *Cache) evictionOrder() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := c.entries[keys[i]], c.entries[keys[j]]
		if a.HitCount != b.HitCount {
			return a.HitCount < b.HitCount
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return keys[i] < keys[j]
	})
	return keys
}

// evict removes one entry and unlinks its body file.
func (c *Cache) evict(key string) {
	_ = os.Remove(c.bodyPath(key))
	delete(c.entries, key)
	delete(c.bodies, key)
	c.dirty = true
}

func (c *Cache) sortedKeys() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
