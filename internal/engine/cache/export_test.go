package cache

import "time"

// SetNowFunc overrides the cache's clock. Test-only.
func (c *Cache) SetNowFunc(now func() time.Time) {
	c.now = now
}

// Dirty reports the dirty flag. Test-only.
func (c *Cache) Dirty() bool {
	return c.dirty
}
