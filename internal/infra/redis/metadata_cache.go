package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"gengo-bot/internal/domain"
	"gengo-bot/internal/provider"
)

// MetadataCache wraps a metadata provider with a redis cache. Entries are
// stored as JSON under meta:{provider}:{id} with a jittered TTL;
// singleflight collapses concurrent misses for the same id into one
// upstream lookup.
type MetadataCache struct {
	client   *redis.Client
	upstream provider.Provider
	ttl      time.Duration
	sf       singleflight.Group
	rnd      *rand.Rand
}

func NewMetadataCache(client *redis.Client, upstream provider.Provider, ttl time.Duration) *MetadataCache {
	return &MetadataCache{
		client:   client,
		upstream: upstream,
		ttl:      ttl,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *MetadataCache) Name() string {
	return c.upstream.Name()
}

func (c *MetadataCache) Lookup(ctx context.Context, id string) (domain.ProviderMetadata, error) {
	key := c.key(id)

	if md, ok := c.fromCache(ctx, key); ok {
		return md, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if md, ok := c.fromCache(ctx, key); ok {
			return md, nil
		}

		md, err := c.upstream.Lookup(ctx, id)
		if err != nil {
			return domain.ProviderMetadata{}, err
		}

		raw, err := json.Marshal(md)
		if err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
		return md, nil
	})
	if err != nil {
		return domain.ProviderMetadata{}, err
	}
	return result.(domain.ProviderMetadata), nil
}

func (c *MetadataCache) fromCache(ctx context.Context, key string) (domain.ProviderMetadata, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) || err != nil {
		return domain.ProviderMetadata{}, false
	}
	var md domain.ProviderMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return domain.ProviderMetadata{}, false
	}
	return md, true
}

func (c *MetadataCache) key(id string) string {
	return "meta:" + c.upstream.Name() + ":" + id
}

func (c *MetadataCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
