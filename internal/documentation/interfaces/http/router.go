package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/employeedocs/pkg/config"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/metrics"
	"github.com/wyfcoding/employeedocs/pkg/middleware"
	"github.com/wyfcoding/employeedocs/pkg/ratelimit"
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterOptions 路由可选组件
type RouterOptions struct {
	Metrics   *metrics.Metrics
	Limiter   ratelimit.RateLimiter
	RateLimit config.RateLimitConfig
	Health    Pinger
	Version   string
}

// NewRouter 组装中间件、健康检查与业务路由
func NewRouter(h *Handler, opts RouterOptions) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
	)
	if opts.Metrics != nil {
		r.Use(middleware.GinMetricsMiddleware(opts.Metrics))
	}
	if opts.Limiter != nil && opts.RateLimit.Enabled {
		r.Use(middleware.RateLimitMiddleware(opts.Limiter, opts.RateLimit))
	}

	r.GET("/health", healthHandler(opts.Health, opts.Version))
	h.RegisterRoutes(r)
	return r, nil
}

func healthHandler(p Pinger, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok", "version": version, "timestamp": time.Now().UTC()}
		if p == nil {
			c.JSON(http.StatusOK, body)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			logger.Warn(ctx, "Health check failed", "error", err)
			body["status"] = "unavailable"
			body["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "up"
		c.JSON(http.StatusOK, body)
	}
}

// Server HTTP 服务
type Server struct {
	srv *http.Server
}

// NewServer 创建 HTTP 服务
func NewServer(cfg config.HTTPConfig, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start 阻塞运行，Shutdown 后返回 nil
func (s *Server) Start() error {
	logger.Info(context.Background(), "HTTP server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
