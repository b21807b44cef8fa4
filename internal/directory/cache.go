package directory

import (
	"context"
	"sync"
	"time"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory/domain"
	directoryPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory/port"
)

type cacheEntry struct {
	identity *domain.Identity
	storedAt time.Time
}

// cachingResolver memoizes directory lookups with a bounded TTL so repeated
// names within one import run hit the directory once.
type cachingResolver struct {
	next directoryPort.Resolver
	ttl  time.Duration

	mu         sync.Mutex
	bySam      map[string]cacheEntry
	byDisplay  map[string]cacheEntry
	timeSource func() time.Time
}

func NewCachingResolver(next directoryPort.Resolver, ttl time.Duration) directoryPort.Resolver {
	return &cachingResolver{
		next:       next,
		ttl:        ttl,
		bySam:      map[string]cacheEntry{},
		byDisplay:  map[string]cacheEntry{},
		timeSource: time.Now,
	}
}

func (c *cachingResolver) ResolveBySamAccount(ctx context.Context, names []string) (map[string]*domain.Identity, error) {
	return c.resolve(ctx, names, c.bySam, c.next.ResolveBySamAccount)
}

func (c *cachingResolver) ResolveByDisplayName(ctx context.Context, names []string) (map[string]*domain.Identity, error) {
	return c.resolve(ctx, names, c.byDisplay, c.next.ResolveByDisplayName)
}

func (c *cachingResolver) resolve(
	ctx context.Context,
	names []string,
	cache map[string]cacheEntry,
	next func(context.Context, []string) (map[string]*domain.Identity, error),
) (map[string]*domain.Identity, error) {
	out := make(map[string]*domain.Identity, len(names))
	var misses []string

	c.mu.Lock()
	now := c.timeSource()
	for _, n := range names {
		if e, ok := cache[n]; ok && now.Sub(e.storedAt) < c.ttl {
			out[n] = e.identity
			continue
		}
		misses = append(misses, n)
	}
	c.mu.Unlock()

	if len(misses) == 0 {
		return out, nil
	}

	resolved, err := next(ctx, misses)
	if err != nil {
		// Partial result: cached hits are still usable.
		for _, n := range misses {
			out[n] = nil
		}
		return out, err
	}

	c.mu.Lock()
	for n, id := range resolved {
		cache[n] = cacheEntry{identity: id, storedAt: now}
		out[n] = id
	}
	c.mu.Unlock()

	return out, nil
}
