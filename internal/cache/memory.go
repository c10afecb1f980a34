package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
)

const defaultMemoryEntries = 512

// memoryKPICache keeps at most size result sets. Entries expire after ttl
// whether or not they are read again.
type memoryKPICache struct {
	entries *expirable.LRU[string, kpidomain.Data]
}

func newMemoryKPICache(size int, ttl time.Duration) *memoryKPICache {
	if size <= 0 {
		size = defaultMemoryEntries
	}
	return &memoryKPICache{entries: expirable.NewLRU[string, kpidomain.Data](size, nil, ttl)}
}

func (c *memoryKPICache) Get(_ context.Context, version string, filter kpidomain.Filter) (kpidomain.Data, bool) {
	return c.entries.Get(cacheKey(kpiKeyPrefix, version, filter.CacheKey()))
}

func (c *memoryKPICache) Set(_ context.Context, version string, filter kpidomain.Filter, data kpidomain.Data) {
	c.entries.Add(cacheKey(kpiKeyPrefix, version, filter.CacheKey()), data)
}

func (c *memoryKPICache) Len() int {
	return c.entries.Len()
}
