package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// VerdictKey derives a cache key for a claim.
// Case and whitespace differences map to the same key.
func VerdictKey(provider, modelName, claim string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(claim), " "))
	hash := sha256.Sum256([]byte(provider + "\x00" + modelName + "\x00" + normalized))
	return "factcheck:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg. A disabled cache returns nil.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.Dir, cfg.TTL), nil
	case "layered":
		return NewLayeredCache(cfg.TTL, cfg.Dir, cfg.TTL), nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis cache requires redis_url")
		}
		return NewRedisCache(cfg.RedisURL, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache type: %s (supported: memory, disk, layered, redis)", cfg.Type)
	}
}
