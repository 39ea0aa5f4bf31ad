package config

import (
    "time"
)

// CacheConfig defines settings for the response cache middleware that
// fronts the public restaurant listing endpoints.  When Enabled is false
// or no Redis client is available, caching is a no-op.
type CacheConfig struct {
    Enabled      bool          // master switch
    TTL          time.Duration // lifetime of a cache entry
    Prefix       string        // key namespace
    MaxBodyBytes int           // largest response body worth caching
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      getenv("CACHE_ENABLED", "true") == "true",
        TTL:          parseDur(getenv("CACHE_TTL", "30s")),
        Prefix:       getenv("CACHE_PREFIX", "cache"),
        MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
    }
}
