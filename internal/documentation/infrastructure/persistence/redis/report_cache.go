// Package redis 提供待提交报告的 Redis 缓存
package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
)

const reportKey = "employeedocs:pending_report"

// jsonStore *cache.RedisCache 的最小子集
type jsonStore interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ReportCache 实现 domain.ReportCache
type ReportCache struct {
	store jsonStore
	ttl   time.Duration
}

var _ domain.ReportCache = (*ReportCache)(nil)

// NewReportCache 创建报告缓存，ttl 不大于 0 时使用 1 分钟
func NewReportCache(store jsonStore, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ReportCache{store: store, ttl: ttl}
}

func (c *ReportCache) Get(ctx context.Context, dest any) (bool, error) {
	return c.store.GetJSON(ctx, reportKey, dest)
}

func (c *ReportCache) Set(ctx context.Context, value any) error {
	return c.store.SetJSON(ctx, reportKey, value, c.ttl)
}

func (c *ReportCache) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, reportKey)
}
