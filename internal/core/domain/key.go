// Package domain contains the core domain types for the incremental
// synthesis cache: cache entries, the lookup-key algebra, and sentinel
// errors shared across components.
package domain

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// KeySeparator joins the three parts of a cache key. Module names and pass
// sequence tags must not contain it.
const KeySeparator = "|"

// IndexFilename is the name of the cache index file inside the cache directory.
const IndexFilename = "index.json"

// BodyDirName is the subdirectory of the cache directory holding per-entry
// body files.
const BodyDirName = "modules"

// MakeKey canonicalizes a (module name, content hash, pass sequence) triple
// into the stable lookup key "name|<16-digit hex hash>|seq".
//
// Keys are collision-free as long as neither name nor seq contains the
// separator, so both are rejected if they do.
func MakeKey(name string, hash uint64, seq string) (string, error) {
	if strings.Contains(name, KeySeparator) {
		return "", zerr.With(ErrKeySeparator, "module", name)
	}
	if strings.Contains(seq, KeySeparator) {
		return "", zerr.With(ErrKeySeparator, "pass_seq", seq)
	}
	return fmt.Sprintf("%s%s%016x%s%s", name, KeySeparator, hash, KeySeparator, seq), nil
}

// BodyFilename derives the on-disk body filename for a key.
//
// The filename is a deterministic 64-bit hash of the key. Two keys may map
// to the same filename; the index file holds the authoritative key->entry
// mapping, so a collision only means two entries share a disk file and the
// later writer wins. Once the index is reloaded, both colliding entries
// read the later writer's body from the shared file.
func BodyFilename(key string) string {
	return fmt.Sprintf("%016x.json", xxhash.Sum64String(key))
}
