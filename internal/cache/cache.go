package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache interface for caching operations
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Close closes the cache connection
	Close() error
}

// Key prefixes for directory caching
const (
	// KeyPrefixSearch is the prefix for listing search results
	KeyPrefixSearch = "cache:directory:search:"

	// KeyPrefixIndustries is the key for the industries enumeration
	KeyPrefixIndustries = "cache:directory:industries"

	// KeyPrefixCities is the key for the cities enumeration
	KeyPrefixCities = "cache:directory:cities"
)

// TTL configurations for different cache types
const (
	// TTLSearch is the TTL for listing search results (30 seconds)
	TTLSearch = 30 * time.Second

	// TTLEnums is the TTL for industries/cities enumerations (10 minutes,
	// the lists rarely change)
	TTLEnums = 10 * time.Minute
)
