package config

import "time"

// CacheConfig controls the Redis response cache on GET /events.  Listings are
// offset-paginated and writes invalidate the cache, so the TTL only bounds how
// long an entry survives when invalidation could not reach Redis.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string // key namespace; invalidation deletes <Prefix>:*
	MaxBodyBytes int    // larger listings are served but not cached
}

// LoadCacheConfig reads CACHE_* variables.  A non-positive TTL falls back to
// 5s and an empty prefix to "events-cache".
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 5*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "events-cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Second
	}
	return cfg
}
