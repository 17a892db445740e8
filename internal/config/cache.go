package config

import (
    "time"

    "github.com/spf13/viper"
)

// CacheConfig defines settings for the response cache placed in front of the
// public space catalog.  Spaces are reference data edited by an external
// admin tool, so a short TTL is acceptable there; availability and booking
// routes are never cached.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int // larger responses are served but not stored
}

func loadCache(v *viper.Viper) CacheConfig {
    return CacheConfig{
        Enabled:      boolOf(v, "CACHE_ENABLED", true),
        TTL:          durOf(v, "CACHE_TTL", 30*time.Second),
        Prefix:       strOf(v, "CACHE_PREFIX", "cache"),
        MaxBodyBytes: intOf(v, "CACHE_MAX_BODY_BYTES", 1048576),
    }
}
