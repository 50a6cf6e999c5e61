package domain

// Pass sequence tags. The tag is part of the cache key, so the same module
// can carry one artifact per pipeline stage.
const (
	// PassPostHierarchy names the artifact produced after hierarchy
	// resolution and the synthesis pipeline; it is the stage the
	// incremental driver caches.
	PassPostHierarchy = "post_hierarchy"
)

// CacheEntry is one cached artifact of a module at a given pipeline stage.
// The triple (ModuleName, ContentHash, PassSequence) uniquely identifies an
// entry; Body may be empty in a loaded index and is then read lazily from
// the entry's body file.
type CacheEntry struct {
	Key          string
	ModuleName   string
	ContentHash  uint64
	PassSequence string
	Body         []byte
	Timestamp    int64
	HitCount     uint64
}

// BodySize returns the size in bytes of the entry's in-memory body.
func (e *CacheEntry) BodySize() int64 {
	return int64(len(e.Body))
}
