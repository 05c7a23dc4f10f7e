package config

import "time"

// CacheConfig defines settings for the read-through data cache kept in
// Redis.  When Enabled is false or no Redis client is configured, every
// read goes to the database.  TTL bounds the lifetime of each entry and is
// the backstop against a missed invalidation.  Prefix namespaces all keys
// written by this service.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.  CACHE_TTL accepts a Go
// duration; REDIS_KEY_TTL (whole seconds) is honoured when CACHE_TTL is
// absent.
func LoadCacheConfig() CacheConfig {
	ttl := time.Duration(envInt("REDIS_KEY_TTL", 600)) * time.Second
	cfg := CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", ttl),
		Prefix:  envStr("CACHE_PREFIX", "room-svc"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return cfg
}
