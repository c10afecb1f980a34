package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/workforcekpi/internal/config"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"go.uber.org/zap"
)

const (
	defaultKPITTL = 5 * time.Minute
	kpiKeyPrefix  = "kpi:data"
)

// KPICache stores computed KPI result sets keyed by dataset version and filter.
type KPICache interface {
	Get(ctx context.Context, version string, filter kpidomain.Filter) (kpidomain.Data, bool)
	Set(ctx context.Context, version string, filter kpidomain.Filter, data kpidomain.Data)
}

// NewKPICache uses redis when a client is available and an in-memory cache otherwise.
func NewKPICache(cfg config.Config, client *redis.Client, log *zap.Logger) KPICache {
	ttl := cfg.KPICacheTTL
	if ttl <= 0 {
		ttl = defaultKPITTL
	}
	if client == nil {
		return newMemoryKPICache(cfg.KPICacheSize, ttl)
	}
	return &redisKPICache{client: client, ttl: ttl, log: log.Named("kpi.cache")}
}

type redisKPICache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func (c *redisKPICache) Get(ctx context.Context, version string, filter kpidomain.Filter) (kpidomain.Data, bool) {
	raw, err := c.client.Get(ctx, cacheKey(kpiKeyPrefix, version, filter.CacheKey())).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("kpi cache read failed", zap.Error(err))
		}
		return kpidomain.Data{}, false
	}

	var data kpidomain.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		c.log.Warn("kpi cache entry corrupt", zap.Error(err))
		return kpidomain.Data{}, false
	}
	return data.Normalized(), true
}

func (c *redisKPICache) Set(ctx context.Context, version string, filter kpidomain.Filter, data kpidomain.Data) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(kpiKeyPrefix, version, filter.CacheKey()), raw, c.ttl).Err(); err != nil {
		c.log.Warn("kpi cache write failed", zap.Error(err))
	}
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
