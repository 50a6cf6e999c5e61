// Package cache implements the persistent per-module content cache: a
// two-tier (in-memory + on-disk) store keyed on (module name, content hash,
// pass sequence), bounded by entry count, total body bytes, and entry age.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zyphar/internal/core/domain"
	"go.trai.ch/zyphar/internal/core/ports"
)

const (
	// DefaultMaxEntries bounds the number of cache entries.
	DefaultMaxEntries = 1000
	// DefaultMaxSizeBytes bounds the total in-memory body bytes.
	DefaultMaxSizeBytes = 500 << 20
	// DefaultMaxAge bounds entry age. Zero disables age eviction.
	DefaultMaxAge = 30 * 24 * time.Hour
)

// Config holds the cache limits and directory.
type Config struct {
	Dir          string
	MaxEntries   int
	MaxSizeBytes int64
	MaxAge       time.Duration
}

// DefaultConfig returns the default limits with an unset directory.
func DefaultConfig() Config {
	return Config{
		MaxEntries:   DefaultMaxEntries,
		MaxSizeBytes: DefaultMaxSizeBytes,
		MaxAge:       DefaultMaxAge,
	}
}

// Cache is the two-tier module cache. It is single-threaded by design: one
// process owns a cache directory at a time, and concurrent writers produce
// undefined results.
type Cache struct {
	cfg      Config
	backend  ports.TextBackend
	frontend ports.TextFrontend
	log      ports.Logger
	now      func() time.Time

	dir         string
	initialized bool
	dirty       bool

	entries map[string]*domain.CacheEntry
	bodies  map[string][]byte

	hits   uint64
	misses uint64
}

// New creates a cache with the given limits and IR codec. Init must be
// called before any disk-touching operation.
func New(cfg Config, backend ports.TextBackend, frontend ports.TextFrontend, log ports.Logger) *Cache {
	return &Cache{
		cfg:      cfg,
		backend:  backend,
		frontend: frontend,
		log:      log,
		now:      time.Now,
		entries:  make(map[string]*domain.CacheEntry),
		bodies:   make(map[string][]byte),
	}
}

// DefaultDir returns the cache directory used when none is configured:
// $HOME/.cache/zyphar, or /tmp/zyphar_cache when HOME is unset.
func DefaultDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache", "zyphar")
	}
	return "/tmp/zyphar_cache"
}

// Init creates the cache directory structure if absent and loads the index
// if present. The directory defaults to the configured one, then to
// DefaultDir. Init is idempotent; a failure to create the directory is
// reported as a warning and returns false.
func (c *Cache) Init(dir string) bool {
	if c.initialized {
		return true
	}

	switch {
	case dir != "":
		c.dir = dir
	case c.cfg.Dir != "":
		c.dir = c.cfg.Dir
	default:
		c.dir = DefaultDir()
	}

	if err := os.MkdirAll(filepath.Join(c.dir, domain.BodyDirName), 0o755); err != nil {
		c.log.Warn(fmt.Sprintf("failed to create cache directory %s: %v", c.dir, err))
		return false
	}

	c.LoadFromDisk()
	c.initialized = true
	c.log.Info(fmt.Sprintf("cache initialized at %s (%d entries)", c.dir, len(c.entries)))
	return true
}

// Initialized reports whether Init succeeded.
func (c *Cache) Initialized() bool { return c.initialized }

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Has reports whether an entry for the triple exists, updating the
// aggregate hit/miss counters.
func (c *Cache) Has(name string, hash uint64, seq string) bool {
	key, err := domain.MakeKey(name, hash, seq)
	if err != nil {
		c.log.Warn(fmt.Sprintf("invalid cache key: %v", err))
		return false
	}

	if _, ok := c.entries[key]; ok {
		c.hits++
		return true
	}
	c.misses++
	return false
}

// Get returns the entry for the triple, or nil. A successful lookup bumps
// the entry's hit count and the aggregate counters; the side effect is part
// of the contract, since eviction orders on observed use.
func (c *Cache) Get(name string, hash uint64, seq string) *domain.CacheEntry {
	key, err := domain.MakeKey(name, hash, seq)
	if err != nil {
		c.log.Warn(fmt.Sprintf("invalid cache key: %v", err))
		return nil
	}

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil
	}
	c.hits++
	entry.HitCount++
	return entry
}

// Put serializes the module through the text backend and stores it under
// the triple. Nil modules and empty serializations are rejected with a
// warning. Returns true iff the entry was stored.
func (c *Cache) Put(name string, hash uint64, seq string, m ports.Module) bool {
	if !c.initialized {
		c.log.Warn("cache not initialized, dropping put")
		return false
	}
	if m == nil {
		c.log.Warn(fmt.Sprintf("refusing to cache nil module %s", name))
		return false
	}

	key, err := domain.MakeKey(name, hash, seq)
	if err != nil {
		c.log.Warn(fmt.Sprintf("invalid cache key: %v", err))
		return false
	}

	body, err := c.backend.DumpModule(m)
	if err != nil {
		c.log.Warn(fmt.Sprintf("failed to serialize module %s: %v", name, err))
		return false
	}
	if len(body) == 0 {
		c.log.Warn(fmt.Sprintf("refusing to cache empty serialization of %s", name))
		return false
	}

	c.entries[key] = &domain.CacheEntry{
		Key:          key,
		ModuleName:   name,
		ContentHash:  hash,
		PassSequence: seq,
		Body:         body,
		Timestamp:    c.now().Unix(),
	}
	c.bodies[key] = body
	c.dirty = true

	c.log.Info(fmt.Sprintf("cached module %s (hash 0x%016x, pass %s)", name, hash, seq))
	c.EvictIfNeeded()
	return true
}

// Restore deserializes the cached body for the triple into the design via
// the text frontend. The body is loaded lazily from disk when not already
// in memory. The temp file used for the frontend call is unlinked on every
// exit path. Returns true iff parsing succeeded.
func (c *Cache) Restore(name string, hash uint64, seq string, into ports.Design) bool {
	if !c.initialized {
		c.log.Warn("cache not initialized, cannot restore")
		return false
	}

	key, err := domain.MakeKey(name, hash, seq)
	if err != nil {
		c.log.Warn(fmt.Sprintf("invalid cache key: %v", err))
		return false
	}
	entry, ok := c.entries[key]
	if !ok {
		return false
	}

	body := c.bodies[key]
	if len(body) == 0 {
		body = entry.Body
	}
	if len(body) == 0 {
		loaded, err := os.ReadFile(c.bodyPath(key)) //nolint:gosec // path derives from the key hash
		if err == nil {
			body = loaded
		}
		c.bodies[key] = body
	}
	if len(body) == 0 {
		c.log.Warn(fmt.Sprintf("cache entry exists but module body is empty: %s", key))
		return false
	}

	temp := filepath.Join(c.dir, fmt.Sprintf("temp_restore_%d.rtlil", os.Getpid()))
	data := append([]byte("autoidx 1\n"), body...)
	if err := os.WriteFile(temp, data, 0o644); err != nil { //nolint:gosec // body is not secret
		c.log.Warn(fmt.Sprintf("failed to write restore temp file: %v", err))
		_ = os.Remove(temp)
		return false
	}

	parseErr := c.frontend.Call(into, "rtlil", temp)
	_ = os.Remove(temp)
	if parseErr != nil {
		c.log.Warn(fmt.Sprintf("failed to restore module %s from cache: %v", name, parseErr))
		return false
	}

	c.log.Info(fmt.Sprintf("restored module %s from cache (hash 0x%016x)", name, hash))
	return true
}

// Invalidate removes every entry for the module, across all hashes and
// pass sequences.
func (c *Cache) Invalidate(name string) {
	var toRemove []string
	for key, entry := range c.entries {
		if entry.ModuleName == name {
			toRemove = append(toRemove, key)
		}
	}
	for _, key := range toRemove {
		delete(c.entries, key)
		delete(c.bodies, key)
	}
	if len(toRemove) > 0 {
		c.dirty = true
		c.log.Info(fmt.Sprintf("invalidated %d cache entries for module %s", len(toRemove), name))
	}
}

// InvalidateEntry removes exactly one entry.
func (c *Cache) InvalidateEntry(name string, hash uint64, seq string) {
	key, err := domain.MakeKey(name, hash, seq)
	if err != nil {
		return
	}
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		delete(c.bodies, key)
		c.dirty = true
	}
}

// InvalidateAffected invalidates every module in the transitive closure of
// the changed set under the dependents map.
func (c *Cache) InvalidateAffected(changed []string, dependents map[string][]string) {
	affected := make(map[string]struct{}, len(changed))
	worklist := append([]string(nil), changed...)
	for _, name := range changed {
		affected[name] = struct{}{}
	}

	for len(worklist) > 0 {
		name := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, dep := range dependents[name] {
			if _, seen := affected[dep]; !seen {
				affected[dep] = struct{}{}
				worklist = append(worklist, dep)
			}
		}
	}

	for name := range affected {
		c.Invalidate(name)
	}
}

// Clear drops every entry and resets the statistics.
func (c *Cache) Clear() {
	c.entries = make(map[string]*domain.CacheEntry)
	c.bodies = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
	c.dirty = true
}

// SetMaxEntries updates the entry-count ceiling.
func (c *Cache) SetMaxEntries(n int) { c.cfg.MaxEntries = n }

// SetMaxSizeBytes updates the total body-bytes ceiling.
func (c *Cache) SetMaxSizeBytes(n int64) { c.cfg.MaxSizeBytes = n }

// SetMaxAge updates the age ceiling. Zero disables age eviction.
func (c *Cache) SetMaxAge(d time.Duration) { c.cfg.MaxAge = d }

// EntryCount returns the number of entries.
func (c *Cache) EntryCount() int { return len(c.entries) }

// HitCount returns the aggregate lookup hits.
func (c *Cache) HitCount() uint64 { return c.hits }

// MissCount returns the aggregate lookup misses.
func (c *Cache) MissCount() uint64 { return c.misses }

// HitRate returns the hit percentage over all lookups.
func (c *Cache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total) * 100
}

// TotalBodyBytes returns the summed size of all entry bodies.
func (c *Cache) TotalBodyBytes() int64 {
	var total int64
	for key := range c.entries {
		total += c.bodyLen(key)
	}
	return total
}

// Entries returns the entries ordered by key, for listings.
func (c *Cache) Entries() []*domain.CacheEntry {
	keys := c.sortedKeys()
	out := make([]*domain.CacheEntry, len(keys))
	for i, key := range keys {
		out[i] = c.entries[key]
	}
	return out
}

// CloseAndSave persists the cache if it is initialized and dirty,
// swallowing all errors. It is meant for process-exit paths where a failed
// save must never abort shutdown.
func (c *Cache) CloseAndSave() {
	if c.initialized && c.dirty {
		_ = c.SaveToDisk()
	}
}

func (c *Cache) bodyPath(key string) string {
	return filepath.Join(c.dir, domain.BodyDirName, domain.BodyFilename(key))
}

func (c *Cache) bodyLen(key string) int64 {
	if body, ok := c.bodies[key]; ok {
		return int64(len(body))
	}
	if entry, ok := c.entries[key]; ok {
		return entry.BodySize()
	}
	return 0
}
