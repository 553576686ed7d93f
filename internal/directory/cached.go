package directory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mapleleads/directory-web/internal/cache"
	"github.com/mapleleads/directory-web/internal/domain"
)

// CachedAPI wraps an API with read-through caching for search results and
// the industries/cities enumerations. Lookups are never cached: renewal
// matches must reflect the live record.
type CachedAPI struct {
	api    API
	cache  cache.Cache
	logger *slog.Logger
}

// NewCachedAPI creates a caching decorator around api.
func NewCachedAPI(api API, c cache.Cache, logger *slog.Logger) *CachedAPI {
	if logger == nil {
		logger = slog.Default()
	}

	return &CachedAPI{api: api, cache: c, logger: logger}
}

// searchCacheKey generates a deterministic cache key from filter parameters.
func searchCacheKey(f domain.SearchFilters) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%.1f|%s|%s|%s|%d|%d",
		f.Query, f.Industry, f.City, f.PostalCode,
		f.MinRating, f.CompanyName, f.Phone, f.SortBy, f.Page, f.Limit)
	hash := sha256.Sum256([]byte(data))

	return cache.KeyPrefixSearch + hex.EncodeToString(hash[:8])
}

// Search runs a filtered listing query, serving repeats from cache.
func (c *CachedAPI) Search(ctx context.Context, filters domain.SearchFilters) (*domain.SearchResult, error) {
	filters = filters.Normalized()
	key := searchCacheKey(filters)

	if raw, err := c.cache.Get(ctx, key); err == nil {
		var result domain.SearchResult
		if err := json.Unmarshal(raw, &result); err == nil {
			return &result, nil
		}
		// Corrupt entry: drop it and fall through to the origin.
		_ = c.cache.Delete(ctx, key)
	}

	result, err := c.api.Search(ctx, filters)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, result, cache.TTLSearch)

	return result, nil
}

// Lookup passes through to the origin API.
func (c *CachedAPI) Lookup(ctx context.Context, industry, phone string) (*domain.BusinessRecord, error) {
	return c.api.Lookup(ctx, industry, phone)
}

// Industries returns the enumerated industry list, cached.
func (c *CachedAPI) Industries(ctx context.Context) ([]string, error) {
	return c.cachedStrings(ctx, cache.KeyPrefixIndustries, c.api.Industries)
}

// Cities returns the enumerated city list, cached.
func (c *CachedAPI) Cities(ctx context.Context) ([]string, error) {
	return c.cachedStrings(ctx, cache.KeyPrefixCities, c.api.Cities)
}

func (c *CachedAPI) cachedStrings(ctx context.Context, key string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	if raw, err := c.cache.Get(ctx, key); err == nil {
		var values []string
		if err := json.Unmarshal(raw, &values); err == nil {
			return values, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	values, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, values, cache.TTLEnums)

	return values, nil
}

func (c *CachedAPI) store(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}
