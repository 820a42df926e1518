package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/dotplot/pkg/cache"
)

// CacheArchive keeps records in a cache as JSON.
type CacheArchive struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewCacheArchive archives into c. A nil keyer uses [cache.DefaultKeyer].
func NewCacheArchive(c cache.Cache, keyer cache.Keyer) *CacheArchive {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CacheArchive{cache: c, keyer: keyer}
}

func (a *CacheArchive) Save(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return a.cache.Set(ctx, a.keyer.RenderKey(r.ID), data, cache.TTLRender)
}

func (a *CacheArchive) Get(ctx context.Context, id string) (*Record, error) {
	data, hit, err := a.cache.Get(ctx, a.keyer.RenderKey(id))
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrNotFound
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &r, nil
}

// Close leaves the cache open; it is owned by the caller.
func (a *CacheArchive) Close(context.Context) error { return nil }

var _ Archive = (*CacheArchive)(nil)
