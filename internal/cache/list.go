// list.go provides a Valkey-backed cache for the category and tag list
// endpoints. Those lists are requested on every page of the UI but change
// only on admin mutations, so the serialized JSON response is cached and
// explicitly invalidated whenever a mutation touches the underlying rows
// or their denormalized counters.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix namespaces list-response keys in Valkey.
	listKeyPrefix = "list:"

	// DefaultListTTL bounds staleness if an invalidation is ever missed.
	DefaultListTTL = 5 * time.Minute

	// KeyCategories and KeyTags identify the two cached list responses.
	KeyCategories = "categories"
	KeyTags       = "tags"
)

// ListCache caches serialized JSON list responses in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns false on miss.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores a response body with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, key string, body []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// Invalidate removes one or more cached responses. Mutations call this
// with every key their counter side effects touch (a problem create
// changes both category problem counts and tag usage counts).
func (lc *ListCache) Invalidate(ctx context.Context, keys ...string) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = listKeyPrefix + k
	}
	if err := lc.client.Del(ctx, prefixed...).Err(); err != nil {
		slog.Warn("list cache invalidate error", "keys", keys, "error", err)
	}
	slog.Debug("list cache invalidated", "keys", keys)
}
