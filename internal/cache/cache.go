// Package cache stores verdicts keyed by normalized URL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"linkshield/internal/model"
)

// Cache defines the verdict cache interface. Stored verdicts are copies;
// mutating a returned verdict never changes what later readers see.
type Cache interface {
	Get(key string) (*model.RiskVerdict, bool)
	Set(key string, verdict *model.RiskVerdict, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a URL. Case and surrounding whitespace are
// normalized first so trivially different spellings share one entry.
func Key(rawURL string) string {
	normalized := strings.ToLower(strings.TrimSpace(rawURL))
	hash := sha256.Sum256([]byte(normalized))
	return "linkshield:v1:" + hex.EncodeToString(hash[:])
}
