// Package s3 基于 S3 兼容存储生成文档上传的预签名地址
package s3

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/config"
	"github.com/wyfcoding/employeedocs/pkg/logger"
)

const defaultPresignTTL = 15 * time.Minute

// Storage 实现 domain.FileStorage
type Storage struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
	now       func() time.Time
}

var _ domain.FileStorage = (*Storage)(nil)

// New 加载 AWS 配置并创建预签名客户端
func New(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	// 显式配置的密钥优先，否则走默认凭证链
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	ttl := time.Duration(cfg.PresignTTL) * time.Second
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	logger.Info(ctx, "S3 storage initialized", "bucket", cfg.Bucket, "region", cfg.Region, "endpoint", cfg.Endpoint)
	return &Storage{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// PresignUpload 生成 PUT 预签名地址
func (s *Storage) PresignUpload(ctx context.Context, key, contentType string) (*domain.PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(s.ttl))
	if err != nil {
		logger.Error(ctx, "Failed to presign upload", "bucket", s.bucket, "key", key, "error", err)
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodPut
	}
	return &domain.PresignedUpload{
		URL:       req.URL,
		Key:       key,
		Method:    method,
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}
