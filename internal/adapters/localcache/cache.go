// Package localcache is an in-process domain.Cache backed by ccache. Values
// are stored JSON-encoded so callers get the same copy semantics as Redis.
package localcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/karlseguin/ccache/v3"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type Cache struct {
	c *ccache.Cache[[]byte]
}

func New(maxEntries int64) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Cache{c: ccache.New(ccache.Configure[[]byte]().MaxSize(maxEntries))}
}

func (l *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	item := l.c.Get(key)
	if item == nil || item.Expired() {
		observability.ObserveCache("local", "miss")
		return false, nil
	}
	if err := json.Unmarshal(item.Value(), dst); err != nil {
		observability.ObserveCache("local", "error")
		l.c.Delete(key)
		return false, err
	}
	observability.ObserveCache("local", "hit")
	return true, nil
}

func (l *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("local", "set")
	l.c.Set(key, b, time.Duration(ttlSec)*time.Second)
	return nil
}

func (l *Cache) Del(_ context.Context, key string) error {
	observability.ObserveCache("local", "del")
	l.c.Delete(key)
	return nil
}

// Stop releases the cache's background worker.
func (l *Cache) Stop() { l.c.Stop() }

var _ domain.Cache = (*Cache)(nil)
