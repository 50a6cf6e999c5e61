package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zyphar/internal/core/domain"
)

// indexVersion is the only index schema this build reads and writes.
// Future versions must provide migration elsewhere.
const indexVersion = 1

type indexFile struct {
	Version int          `json:"version"`
	Entries []indexEntry `json:"entries"`
}

type indexEntry struct {
	Key        string `json:"key"`
	ModuleName string `json:"module_name"`
	Hash       uint64 `json:"hash"`
	PassSeq    string `json:"pass_seq"`
	Timestamp  int64  `json:"timestamp"`
	Hits       uint64 `json:"hits"`
}

func (c *Cache) indexPath() string {
	return filepath.Join(c.dir, domain.IndexFilename)
}

// SaveToDisk writes every entry body to its per-entry file and the JSON
// index. The index is written through a temp file and renamed so a crash
// mid-save leaves the previous index intact. Clears the dirty flag on
// success.
func (c *Cache) SaveToDisk() error {
	if !c.initialized {
		c.log.Warn("cache not initialized, cannot save")
		return domain.ErrCacheNotInitialized
	}

	index := indexFile{Version: indexVersion}
	for _, key := range c.sortedKeys() {
		entry := c.entries[key]

		body := c.bodies[key]
		if len(body) == 0 {
			body = entry.Body
		}
		if err := os.WriteFile(c.bodyPath(key), body, 0o644); err != nil { //nolint:gosec // body is not secret
			c.log.Warn(fmt.Sprintf("failed to write cache body for %s: %v", key, err))
		}

		index.Entries = append(index.Entries, indexEntry{
			Key:        key,
			ModuleName: entry.ModuleName,
			Hash:       entry.ContentHash,
			PassSeq:    entry.PassSequence,
			Timestamp:  entry.Timestamp,
			Hits:       entry.HitCount,
		})
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		c.log.Warn(fmt.Sprintf("failed to encode cache index: %v", err))
		return err
	}

	temp := c.indexPath() + ".tmp"
	if err := os.WriteFile(temp, data, 0o644); err != nil { //nolint:gosec // index is not secret
		c.log.Warn(fmt.Sprintf("failed to write cache index: %v", err))
		_ = os.Remove(temp)
		return err
	}
	if err := os.Rename(temp, c.indexPath()); err != nil {
		c.log.Warn(fmt.Sprintf("failed to move cache index into place: %v", err))
		_ = os.Remove(temp)
		return err
	}

	c.dirty = false
	c.log.Info(fmt.Sprintf("saved cache index with %d entries", len(c.entries)))
	return nil
}

// LoadFromDisk populates the cache from the index file. An absent index is
// not an error. A malformed index or an unsupported version leaves the
// cache empty with a warning. Entries whose body file is missing are kept
// with an empty body; their restore fails later and forces re-synthesis.
func (c *Cache) LoadFromDisk() {
	data, err := os.ReadFile(c.indexPath()) //nolint:gosec // path is cache-owned
	if err != nil {
		return
	}

	var index indexFile
	if err := json.Unmarshal(data, &index); err != nil {
		c.log.Warn(fmt.Sprintf("failed to parse cache index, starting empty: %v", err))
		return
	}
	if index.Version != indexVersion {
		c.log.Warn(fmt.Sprintf("unsupported cache index version %d (want %d), starting empty",
			index.Version, indexVersion))
		return
	}

	c.entries = make(map[string]*domain.CacheEntry, len(index.Entries))
	c.bodies = make(map[string][]byte, len(index.Entries))

	for _, ie := range index.Entries {
		if ie.ModuleName == "" {
			continue
		}
		entry := &domain.CacheEntry{
			Key:          ie.Key,
			ModuleName:   ie.ModuleName,
			ContentHash:  ie.Hash,
			PassSequence: ie.PassSeq,
			Timestamp:    ie.Timestamp,
			HitCount:     ie.Hits,
		}
		if body, err := os.ReadFile(c.bodyPath(ie.Key)); err == nil { //nolint:gosec // path derives from the key hash
			entry.Body = body
			c.bodies[ie.Key] = body
		}
		c.entries[ie.Key] = entry
	}
}
