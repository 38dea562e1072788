package storage

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// URLCache fronts SignedURL with an in-process TTL cache so repeated
// preview/download clicks do not re-mint URLs. Cache TTL must stay below the
// URL lifetime; NewURLCache pins it to half.
type URLCache struct {
	store ObjectStore
	cache *ccache.Cache[string]
	ttl   time.Duration
}

func NewURLCache(store ObjectStore, urlTTL time.Duration) *URLCache {
	return &URLCache{
		store: store,
		cache: ccache.New(ccache.Configure[string]().MaxSize(4096)),
		ttl:   urlTTL / 2,
	}
}

var _ ObjectStore = (*URLCache)(nil)

func (c *URLCache) Put(ctx context.Context, path, contentType string, data []byte) error {
	return c.store.Put(ctx, path, contentType, data)
}

func (c *URLCache) Delete(ctx context.Context, path string) error {
	c.cache.Delete(path)
	return c.store.Delete(ctx, path)
}

func (c *URLCache) SignedURL(ctx context.Context, path string) (string, error) {
	if item := c.cache.Get(path); item != nil && !item.Expired() {
		return item.Value(), nil
	}
	url, err := c.store.SignedURL(ctx, path)
	if err != nil {
		// Failures are not cached: the next click may succeed.
		return "", err
	}
	c.cache.Set(path, url, c.ttl)
	return url, nil
}
