// Package cache provides the layered (memory + disk) cache used to
// store fact-check verdicts, so identical claims are not re-sent to
// the verification oracle across runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from arbitrary content. Verdicts are keyed
// by claim content (quote + value + source hash), not by signal id, so
// re-extracted duplicates of the same claim share one verdict.
func Key(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "factgate:v1:" + hex.EncodeToString(hash[:])
}
