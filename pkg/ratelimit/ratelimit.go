// Package ratelimit 提供基于 Redis 的分布式限流与进程内令牌桶限流
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter defines the interface for rate limiting
type RateLimiter interface {
	// Allow checks if the request is allowed for the given key and limit
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit defines the rate limit rule
type Limit struct {
	Rate   int
	Period time.Duration
	Burst  int
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// RedisRateLimiter implements RateLimiter using Redis
type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRedisRateLimiter creates a new RedisRateLimiter
func NewRedisRateLimiter(rdb *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		limiter: redis_rate.NewLimiter(rdb),
	}
}

// Allow checks if the request is allowed
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := r.limiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}

// 进程内限流器的 key 回收参数
const (
	defaultIdleTTL = 10 * time.Minute
	defaultMaxKeys = 10000
)

// LocalRateLimiter 进程内令牌桶，每个 key 一个 rate.Limiter，Redis 未启用时使用。
// 空闲超过 idleTTL 的 key 会被回收，key 数量不超过 maxKeys。
type LocalRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	idleTTL time.Duration
	maxKeys int
	now     func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalRateLimiter 创建进程内限流器
func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{
		entries: make(map[string]*localEntry),
		idleTTL: defaultIdleTTL,
		maxKeys: defaultMaxKeys,
		now:     time.Now,
	}
}

// Allow 检查是否允许请求
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit Limit) (*Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid limit: rate=%d period=%s", limit.Rate, limit.Period)
	}
	burst := limit.Burst
	if burst < 1 {
		burst = limit.Rate
	}
	every := rate.Every(limit.Period / time.Duration(limit.Rate))

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	lim := l.limiterFor(key, every, burst, now)

	reservation := lim.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return &Result{
			Allowed:    false,
			RetryAfter: delay,
			ResetAfter: untilFull(lim, burst, now),
		}, nil
	}

	return &Result{
		Allowed:    true,
		Remaining:  int(lim.TokensAt(now)),
		ResetAfter: untilFull(lim, burst, now),
	}, nil
}

// limiterFor 取出或创建 key 对应的限流器，调用方持有锁
func (l *LocalRateLimiter) limiterFor(key string, every rate.Limit, burst int, now time.Time) *rate.Limiter {
	if e, ok := l.entries[key]; ok {
		e.lastSeen = now
		if e.limiter.Limit() != every {
			e.limiter.SetLimitAt(now, every)
		}
		if e.limiter.Burst() != burst {
			e.limiter.SetBurstAt(now, burst)
		}
		return e.limiter
	}

	if len(l.entries) >= l.maxKeys {
		l.evict(now)
	}
	e := &localEntry{limiter: rate.NewLimiter(every, burst), lastSeen: now}
	l.entries[key] = e
	return e.limiter
}

// evict 先回收空闲 key，仍然满时淘汰最久未使用的 key
func (l *LocalRateLimiter) evict(now time.Time) {
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.entries, key)
		}
	}
	for len(l.entries) > 0 && len(l.entries) >= l.maxKeys {
		var oldestKey string
		var oldest time.Time
		for key, e := range l.entries {
			if oldestKey == "" || e.lastSeen.Before(oldest) {
				oldestKey, oldest = key, e.lastSeen
			}
		}
		delete(l.entries, oldestKey)
	}
}

// untilFull 令牌桶恢复满额所需时间
func untilFull(lim *rate.Limiter, burst int, now time.Time) time.Duration {
	missing := float64(burst) - lim.TokensAt(now)
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / float64(lim.Limit()) * float64(time.Second))
}
