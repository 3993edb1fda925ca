package messaging

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/metrics"
	"github.com/wyfcoding/employeedocs/pkg/mq"
	"gorm.io/gorm"
)

// last_error 列最多保存的字节数
const maxErrorLength = 500

// Sender 消息投递接口，*mq.KafkaProducer 实现了它
type Sender interface {
	Send(ctx context.Context, messages ...mq.Message) error
}

// RelayConfig 中继配置
type RelayConfig struct {
	Topic        string
	BatchSize    int
	PollInterval time.Duration
	Retention    time.Duration
}

// Relay 轮询 outbox 并按写入顺序投递
type Relay struct {
	db      *gorm.DB
	sender  Sender
	cfg     RelayConfig
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRelay 创建中继，sender 为 nil 时只记录日志并标记为已发送
func NewRelay(db *gorm.DB, sender Sender, cfg RelayConfig, m *metrics.Metrics) *Relay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	return &Relay{db: db, sender: sender, cfg: cfg, metrics: m, now: time.Now}
}

// Run 阻塞运行直到 ctx 取消
func (r *Relay) Run(ctx context.Context) error {
	poll := time.NewTicker(r.cfg.PollInterval)
	defer poll.Stop()
	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	logger.Info(ctx, "Outbox relay started", "topic", r.cfg.Topic, "interval", r.cfg.PollInterval)
	for {
		select {
		case <-ctx.Done():
			logger.Info(context.Background(), "Outbox relay stopped")
			return nil
		case <-poll.C:
			if _, err := r.ProcessOnce(ctx); err != nil {
				logger.Error(ctx, "Outbox relay batch failed", "error", err)
			}
		case <-cleanup.C:
			if _, err := r.Cleanup(ctx); err != nil {
				logger.Error(ctx, "Outbox cleanup failed", "error", err)
			}
		}
	}
}

// ProcessOnce 投递一批待发送消息，遇到失败即停止以保持顺序
func (r *Relay) ProcessOnce(ctx context.Context) (int, error) {
	var messages []OutboxMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(r.cfg.BatchSize).
		Find(&messages).Error
	if err != nil {
		return 0, fmt.Errorf("load outbox messages: %w", err)
	}

	sent := 0
	for i := range messages {
		msg := &messages[i]
		if err := r.deliver(ctx, msg); err != nil {
			r.observe("failed")
			r.markFailed(ctx, msg, err)
			return sent, fmt.Errorf("deliver outbox message %s: %w", msg.ID, err)
		}
		if err := r.markSent(ctx, msg); err != nil {
			return sent, err
		}
		r.observe("sent")
		sent++
	}
	return sent, nil
}

// Cleanup 清理超过保留期的已发送消息
func (r *Relay) Cleanup(ctx context.Context) (int64, error) {
	before := r.now().Add(-r.cfg.Retention)
	res := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", StatusSent, before).
		Delete(&OutboxMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("cleanup outbox: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Info(ctx, "Outbox messages purged", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

func (r *Relay) deliver(ctx context.Context, msg *OutboxMessage) error {
	if r.sender == nil {
		logger.Info(ctx, "Domain event", "event_type", msg.EventType, "aggregate_id", msg.AggregateID, "payload", msg.Payload)
		return nil
	}
	return r.sender.Send(ctx, toKafkaMessage(r.cfg.Topic, msg))
}

func (r *Relay) markSent(ctx context.Context, msg *OutboxMessage) error {
	now := r.now()
	err := r.db.WithContext(ctx).Model(msg).Updates(map[string]any{
		"status":     StatusSent,
		"sent_at":    now,
		"updated_at": now,
	}).Error
	if err != nil {
		return fmt.Errorf("mark outbox message %s sent: %w", msg.ID, err)
	}
	return nil
}

func (r *Relay) markFailed(ctx context.Context, msg *OutboxMessage, cause error) {
	reason := truncateUTF8(cause.Error(), maxErrorLength)
	err := r.db.WithContext(ctx).Model(msg).Updates(map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": reason,
		"updated_at": r.now(),
	}).Error
	if err != nil {
		logger.Error(ctx, "Failed to record outbox failure", "id", msg.ID, "error", err)
	}
}

// truncateUTF8 截断到最多 n 字节，不切开多字节字符
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 {
		if r, size := utf8.DecodeLastRuneInString(s); r != utf8.RuneError || size != 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

func (r *Relay) observe(result string) {
	if r.metrics != nil {
		r.metrics.OutboxPublished.WithLabelValues(result).Inc()
	}
}

// toKafkaMessage 按聚合 id 分区，事件类型放在 header
func toKafkaMessage(topic string, msg *OutboxMessage) mq.Message {
	return mq.Message{
		Topic: topic,
		Key:   msg.AggregateID,
		Value: []byte(msg.Payload),
		Headers: map[string]string{
			"event_id":   msg.ID,
			"event_type": msg.EventType,
		},
	}
}
