// Package cache keeps decoded input files in memory so batch jobs that
// share an input read and decode it once
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Cache stores decoded inputs. Add never replaces an existing entry, so
// every caller of Load sees the same stored value for a key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte, ttl time.Duration) bool
}

// Load returns the value cached under key, calling load on a miss. hit
// reports whether the value came from the cache. Two callers missing at
// the same time both load; the first stored value is returned to both.
func Load(c Cache, key string, ttl time.Duration, load func() ([]byte, error)) (value []byte, hit bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	v, err := load()
	if err != nil {
		return nil, false, err
	}

	if !c.Add(key, v, ttl) {
		if existing, ok := c.Get(key); ok {
			return existing, true, nil
		}
	}
	return v, false, nil
}

// InputKey identifies the decoded content of an input file. Size and
// modification time are part of the key, so an edited file is read again.
func InputKey(path, encoding string, size int64, modTime time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d", path, strings.ToLower(encoding), size, modTime.UnixNano())
	return "pollev:input:v1:" + hex.EncodeToString(h.Sum(nil))
}
