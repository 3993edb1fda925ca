package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/employeedocs/pkg/config"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/ratelimit"
)

// 不参与限流的探活路径
var rateLimitExempt = map[string]bool{
	"/health": true,
}

// RateLimitKey 限流键：客户端 IP + 路由模板，同一客户端的不同接口互不影响
func RateLimitKey(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	return "employeedocs:ratelimit:" + c.ClientIP() + ":" + c.Request.Method + ":" + route
}

// RateLimitMiddleware 按 QPS/Burst 限流，限流器故障时放行
func RateLimitMiddleware(limiter ratelimit.RateLimiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	limit := ratelimit.Limit{
		Rate:   cfg.QPS,
		Period: time.Second,
		Burst:  cfg.Burst,
	}

	return func(c *gin.Context) {
		if !cfg.Enabled || rateLimitExempt[c.Request.URL.Path] {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		res, err := limiter.Allow(ctx, RateLimitKey(c), limit)
		if err != nil {
			logger.Warn(ctx, "Rate limiter unavailable, request allowed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(res.ResetAfter.Seconds())))

		if res.Allowed {
			c.Next()
			return
		}

		// 向上取整为秒
		retry := int(res.RetryAfter/time.Second) + 1
		c.Header("Retry-After", strconv.Itoa(retry))
		logger.Debug(ctx, "Request rate limited", "client_ip", c.ClientIP(), "retry_after", retry)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "too many requests",
			"code":  "RATE_LIMITED",
		})
	}
}
