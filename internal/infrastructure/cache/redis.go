package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bearcart-analytics/internal/domain/metrics"
	"bearcart-analytics/internal/infrastructure/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "bearcart:"

// Source 為被快取的指標來源。
type Source interface {
	FetchMetrics(ctx context.Context, timeRange string) (metrics.AggregateMetrics, error)
	FetchQuality(ctx context.Context) (*metrics.QualityReport, error)
}

// Connect 依 URL 建立 Redis 連線；URL 為空時回傳 nil。
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// MetricsCache 以 Redis 快取各區間的彙總 JSON；快取讀寫失敗只記錄，不影響回應。
type MetricsCache struct {
	rdb  *redis.Client
	next Source
	ttl  time.Duration
	log  logrus.FieldLogger
}

// NewMetricsCache 包裝 next。
func NewMetricsCache(rdb *redis.Client, next Source, ttl time.Duration, log logrus.FieldLogger) *MetricsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MetricsCache{rdb: rdb, next: next, ttl: ttl, log: log.WithField("component", "metrics_cache")}
}

// FetchMetrics 先查快取，未命中再呼叫來源並回寫。
func (c *MetricsCache) FetchMetrics(ctx context.Context, timeRange string) (metrics.AggregateMetrics, error) {
	timeRange = metrics.NormalizeRange(timeRange)
	key := metricsKey(timeRange)

	var m metrics.AggregateMetrics
	if c.get(ctx, key, &m) {
		return m, nil
	}
	m, err := c.next.FetchMetrics(ctx, timeRange)
	if err != nil {
		return m, err
	}
	c.set(ctx, key, m)
	return m, nil
}

// FetchQuality 同 FetchMetrics，以單一鍵快取稽核報告。
func (c *MetricsCache) FetchQuality(ctx context.Context) (*metrics.QualityReport, error) {
	key := keyPrefix + "quality"
	var rep metrics.QualityReport
	if c.get(ctx, key, &rep) {
		return &rep, nil
	}
	out, err := c.next.FetchQuality(ctx)
	if err != nil || out == nil {
		return out, err
	}
	c.set(ctx, key, out)
	return out, nil
}

func (c *MetricsCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache entry corrupt")
		return false
	}
	return true
}

func (c *MetricsCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func metricsKey(timeRange string) string {
	return keyPrefix + "metrics:" + timeRange
}
