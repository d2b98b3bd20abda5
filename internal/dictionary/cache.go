package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// MemoryCache keeps entries in memory for the lifetime of a session.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]Entry),
	}
}

func (cache *MemoryCache) Get(_ context.Context, term string) ([]Entry, bool, error) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	entries, ok := cache.entries[term]
	if !ok {
		return nil, false, nil
	}
	return cloneEntries(entries), true, nil
}

func (cache *MemoryCache) Put(_ context.Context, term string, entries []Entry) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[term] = cloneEntries(entries)
	return nil
}

// CachedClient serves lookups from a cache before calling the client.
// Failed lookups are not cached.
type CachedClient struct {
	client Client
	cache  Cache
}

var _ Client = (*CachedClient)(nil)

func NewCachedClient(client Client, cache Cache) *CachedClient {
	return &CachedClient{
		client: client,
		cache:  cache,
	}
}

func (c *CachedClient) Lookup(ctx context.Context, term string) ([]Entry, error) {
	entries, ok, err := c.cache.Get(ctx, term)
	if err != nil {
		slog.Default().Warn("failed to read the dictionary cache",
			slog.String("term", term),
			slog.Any("error", err),
		)
	}
	if ok {
		return entries, nil
	}

	entries, err = c.client.Lookup(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("client.Lookup > %w", err)
	}
	if err := c.cache.Put(ctx, term, entries); err != nil {
		slog.Default().Warn("failed to write the dictionary cache",
			slog.String("term", term),
			slog.Any("error", err),
		)
	}
	return entries, nil
}
