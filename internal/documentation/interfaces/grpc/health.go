// Package grpc 暴露标准 gRPC 健康检查，状态跟随数据库连通性
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/wyfcoding/employeedocs/pkg/config"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中注册的服务名
const ServiceName = "employeedocs.documentation"

// Pinger 数据库连通性检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server gRPC 服务
type Server struct {
	addr     string
	srv      *grpc.Server
	health   *health.Server
	pinger   Pinger
	interval time.Duration
}

// NewServer 创建 gRPC 服务并注册健康检查与反射
func NewServer(cfg config.GRPCConfig, pinger Pinger) *Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.GRPCRecoveryInterceptor(),
		middleware.GRPCLoggingInterceptor(),
	))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	interval := time.Duration(cfg.HealthInterval) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Server{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		srv:      srv,
		health:   hs,
		pinger:   pinger,
		interval: interval,
	}
}

// Start 监听端口并阻塞服务，ctx 取消时停止健康探测
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.refresh(ctx)
	go s.watch(ctx)

	logger.Info(ctx, "gRPC server starting", "addr", s.addr)
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc server: %w", err)
	}
	return nil
}

// Shutdown 标记为 NOT_SERVING 后优雅停止
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh 根据数据库连通性更新服务状态
func (s *Server) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.pinger.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn(ctx, "Database unreachable, reporting NOT_SERVING", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
