package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gengo-bot/internal/domain"
	"gengo-bot/internal/provider"
)

// MetadataCache caches provider lookups in-process with a jittered TTL,
// for runs without redis.
type MetadataCache struct {
	upstream provider.Provider
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group
	rnd      *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedMetadata
}

type cachedMetadata struct {
	md        domain.ProviderMetadata
	expiresAt time.Time
}

func NewMetadataCache(upstream provider.Provider, ttl time.Duration) *MetadataCache {
	return &MetadataCache{
		upstream: upstream,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:    make(map[string]cachedMetadata),
	}
}

func (c *MetadataCache) Name() string {
	return c.upstream.Name()
}

func (c *MetadataCache) Lookup(ctx context.Context, id string) (domain.ProviderMetadata, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.md, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.md, nil
		}
		c.mu.RUnlock()

		md, err := c.upstream.Lookup(ctx, id)
		if err != nil {
			return domain.ProviderMetadata{}, err
		}

		c.mu.Lock()
		c.cache[id] = cachedMetadata{md: md, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return md, nil
	})
	if err != nil {
		return domain.ProviderMetadata{}, err
	}
	return result.(domain.ProviderMetadata), nil
}

func (c *MetadataCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
