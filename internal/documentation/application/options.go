package application

import (
	"context"
	"time"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/metrics"
)

const defaultReportLimit = 100000

// Option 应用服务可选依赖
type Option func(*runtime)

// runtime 各服务共享的横切依赖
type runtime struct {
	tx        domain.Transactor
	publisher domain.EventPublisher
	cache     domain.ReportCache
	metrics   *metrics.Metrics
	storage   domain.FileStorage
	now       func() time.Time

	reportLimit int
}

func newRuntime(opts []Option) runtime {
	rt := runtime{
		tx:        noopTransactor{},
		publisher: noopPublisher{},
		cache:     noopCache{},
		now:       time.Now,

		reportLimit: defaultReportLimit,
	}
	for _, opt := range opts {
		opt(&rt)
	}
	return rt
}

// WithClock 注入时钟
func WithClock(now func() time.Time) Option {
	return func(rt *runtime) { rt.now = now }
}

// WithTransactor 注入事务执行器
func WithTransactor(tx domain.Transactor) Option {
	return func(rt *runtime) { rt.tx = tx }
}

// WithPublisher 注入事件发布器
func WithPublisher(p domain.EventPublisher) Option {
	return func(rt *runtime) { rt.publisher = p }
}

// WithReportCache 注入报告缓存
func WithReportCache(c domain.ReportCache) Option {
	return func(rt *runtime) { rt.cache = c }
}

// WithMetrics 注入业务指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(rt *runtime) { rt.metrics = m }
}

// WithFileStorage 注入文件存储，未注入时无法生成上传地址
func WithFileStorage(fs domain.FileStorage) Option {
	return func(rt *runtime) { rt.storage = fs }
}

// WithReportLimit 报告推导的最大条目数
func WithReportLimit(n int) Option {
	return func(rt *runtime) {
		if n > 0 {
			rt.reportLimit = n
		}
	}
}

// invalidateReport 失效报告缓存，失败只记录日志
func (rt runtime) invalidateReport(ctx context.Context) {
	if err := rt.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx, "failed to invalidate pending report cache", "error", err)
	}
}

func (rt runtime) countAssociations(action string, n int) {
	if rt.metrics != nil && n > 0 {
		rt.metrics.AssociationsChanged.WithLabelValues(action).Add(float64(n))
	}
}

func (rt runtime) countBulkFailures(operation string, n int) {
	if rt.metrics != nil && n > 0 {
		rt.metrics.BulkItemsFailed.WithLabelValues(operation).Add(float64(n))
	}
}

func (rt runtime) countSubmission(kind string) {
	if rt.metrics != nil {
		rt.metrics.DocumentsSubmitted.WithLabelValues(kind).Inc()
	}
}

type noopTransactor struct{}

func (noopTransactor) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, string, any) error { return nil }

type noopCache struct{}

func (noopCache) Get(context.Context, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, any) error         { return nil }
func (noopCache) Invalidate(context.Context) error       { return nil }
