package config

import (
    "strconv"
    "strings"
    "time"

    "github.com/spf13/viper"
)

// RateLimitConfig drives the token bucket in front of the authenticated
// booking routes.  When Redis is unreachable the middleware falls back to an
// in-process limiter built from the same numbers.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

func loadRateLimit(v *viper.Viper) RateLimitConfig {
    def := RateLimitConfig{
        Enabled:        boolOf(v, "RATE_LIMIT_ENABLED", true),
        Capacity:       intOf(v, "RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   intOf(v, "RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: durOf(v, "RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            durOf(v, "RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    strOf(v, "RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
        Prefix:         strOf(v, "RATE_LIMIT_PREFIX", "rl"),
        Debug:          boolOf(v, "RATE_LIMIT_DEBUG", false),
    }
    if b := intOf(v, "RATE_LIMIT_BURST", -1); b > 0 { def.Capacity = b }
    if every := durOf(v, "RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
        def.RefillTokens = 1
        def.RefillInterval = every
    }
    if def.Capacity < 1 { def.Capacity = 1 }
    if def.RefillTokens < 1 { def.RefillTokens = 1 }
    if def.RefillInterval <= 0 { def.RefillInterval = time.Second }
    minTTL := 5 * def.RefillInterval
    if def.TTL < minTTL { def.TTL = minTTL }
    return def
}

func strOf(v *viper.Viper, k, d string) string { if s := v.GetString(k); s != "" { return s }; return d }
func boolOf(v *viper.Viper, k string, d bool) bool {
    s := v.GetString(k)
    if s == "" { return d }
    switch strings.ToLower(s) {
    case "1", "true", "yes", "on": return true
    case "0", "false", "no", "off": return false
    }
    return d
}
func intOf(v *viper.Viper, k string, d int) int {
    s := v.GetString(k); if s == "" { return d }
    if n, err := strconv.Atoi(s); err == nil { return n }
    return d
}
func durOf(v *viper.Viper, k string, d time.Duration) time.Duration {
    s := v.GetString(k); if s == "" { return d }
    if dur, err := time.ParseDuration(s); err == nil { return dur }
    return d
}
