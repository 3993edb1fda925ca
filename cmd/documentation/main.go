// DocumentationService 主程序
// 功能：员工入职文档管理，包括文档类型要求、提交、待提交推导与完成情况统计
// 架构：基于 DDD + Gin + gRPC health + Kafka outbox
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/employeedocs/internal/documentation/application"
	"github.com/wyfcoding/employeedocs/internal/documentation/infrastructure/messaging"
	"github.com/wyfcoding/employeedocs/internal/documentation/infrastructure/persistence/mysql"
	reportcache "github.com/wyfcoding/employeedocs/internal/documentation/infrastructure/persistence/redis"
	"github.com/wyfcoding/employeedocs/internal/documentation/infrastructure/storage/s3"
	grpcserver "github.com/wyfcoding/employeedocs/internal/documentation/interfaces/grpc"
	httpserver "github.com/wyfcoding/employeedocs/internal/documentation/interfaces/http"
	"github.com/wyfcoding/employeedocs/pkg/cache"
	"github.com/wyfcoding/employeedocs/pkg/config"
	"github.com/wyfcoding/employeedocs/pkg/db"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/metrics"
	"github.com/wyfcoding/employeedocs/pkg/mq"
	"github.com/wyfcoding/employeedocs/pkg/ratelimit"
	"github.com/wyfcoding/employeedocs/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", config.GetEnv("APP_CONFIG", "configs/documentation/config.toml"), "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "documentation service: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. 加载配置
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting DocumentationService",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. 初始化指标
	m := metrics.New(cfg.ServiceName)

	// 4. 初始化数据库，启动时等待数据库就绪
	var database *db.DB
	err = utils.RetryWithBackoff(ctx, cfg.Database.ConnectRetries, 500*time.Millisecond, 10*time.Second, func() error {
		var initErr error
		database, initErr = db.Init(ctx, db.Config{
			Driver:             cfg.Database.Driver,
			DSN:                cfg.Database.DSN,
			MaxOpenConns:       cfg.Database.MaxOpenConns,
			MaxIdleConns:       cfg.Database.MaxIdleConns,
			ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
			LogEnabled:         cfg.Database.LogEnabled,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		})
		if initErr != nil {
			logger.Warn(ctx, "Database not ready", "error", initErr)
		}
		return initErr
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	// 5. 表结构迁移
	if cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(ctx, database.DB, &messaging.OutboxMessage{}); err != nil {
			return err
		}
	}

	opts := []application.Option{
		application.WithTransactor(db.NewTransactor(database.DB)),
		application.WithPublisher(messaging.NewOutboxPublisher(database.DB)),
		application.WithMetrics(m),
		application.WithReportLimit(cfg.Documentation.ReportLimit),
	}

	// 6. 初始化 Redis 与限流器，Redis 不可用时退化为进程内限流
	var limiter ratelimit.RateLimiter = ratelimit.NewLocalRateLimiter()
	if cfg.Redis.Enabled {
		redisCache, err := cache.New(ctx, cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			logger.Warn(ctx, "Redis unavailable, report cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			limiter = ratelimit.NewRedisRateLimiter(redisCache.GetClient())
			if ttl := cfg.Documentation.ReportCacheDuration(); ttl > 0 {
				opts = append(opts, application.WithReportCache(reportcache.NewReportCache(redisCache, ttl)))
			}
		}
	}

	// 7. 对象存储
	if cfg.Storage.Enabled {
		storage, err := s3.New(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		opts = append(opts, application.WithFileStorage(storage))
	}

	// 8. Outbox 中继
	var sender messaging.Sender
	if cfg.Kafka.Enabled {
		producer := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		defer producer.Close()
		sender = producer
	}
	relay := messaging.NewRelay(database.DB, sender, messaging.RelayConfig{
		Topic:        cfg.Kafka.Topic,
		BatchSize:    cfg.Outbox.BatchSize,
		PollInterval: time.Duration(cfg.Outbox.PollInterval) * time.Second,
		Retention:    time.Duration(cfg.Outbox.RetentionHours) * time.Hour,
	}, m)

	// 9. 仓储与应用服务
	employees := mysql.NewEmployeeRepository(database.DB)
	types := mysql.NewDocumentTypeRepository(database.DB)
	requirements := mysql.NewRequirementRepository(database.DB)
	documents := mysql.NewDocumentRepository(database.DB)

	handler := httpserver.NewHandler(httpserver.Services{
		Employees:     application.NewEmployeeService(employees, opts...),
		DocumentTypes: application.NewDocumentTypeService(types, requirements, documents, opts...),
		Associations:  application.NewAssociationService(employees, types, requirements, documents, opts...),
		Documents:     application.NewDocumentService(employees, types, requirements, documents, opts...),
		Pending:       application.NewPendingService(employees, types, requirements, documents, opts...),
		Status:        application.NewStatusService(employees, requirements, documents, opts...),
	})

	// 10. HTTP / gRPC / 指标服务
	router, err := httpserver.NewRouter(handler, httpserver.RouterOptions{
		Metrics:   m,
		Limiter:   limiter,
		RateLimit: cfg.RateLimit,
		Health:    database,
		Version:   cfg.Version,
	})
	if err != nil {
		return err
	}
	httpSrv := httpserver.NewServer(cfg.HTTP, router)
	grpcSrv := grpcserver.NewServer(cfg.GRPC, database)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	g.Go(func() error { return grpcSrv.Start(gctx) })
	g.Go(func() error { return relay.Run(gctx) })

	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(m, cfg.Metrics.Port, cfg.Metrics.Path)
		g.Go(metricsSrv.Start)
	}

	// 11. 优雅关停
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "Shutting down DocumentationService")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		grpcSrv.Shutdown()
		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "DocumentationService stopped with error", "error", err)
		return err
	}
	logger.Info(context.Background(), "DocumentationService stopped")
	return nil
}
