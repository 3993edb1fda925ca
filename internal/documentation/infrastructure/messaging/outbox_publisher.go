// Package messaging 实现领域事件的事务性 outbox 写入与 Kafka 中继
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/db"
	"gorm.io/gorm"
)

// 消息状态
const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// OutboxMessage outbox 表
type OutboxMessage struct {
	ID          string     `gorm:"type:varchar(36);primaryKey"`
	EventType   string     `gorm:"type:varchar(100);index;not null"`
	AggregateID string     `gorm:"type:varchar(64);index;not null"`
	Payload     string     `gorm:"type:text;not null"`
	Status      string     `gorm:"type:varchar(20);index;default:'pending'"`
	Attempts    int        `gorm:"default:0"`
	LastError   string     `gorm:"type:varchar(500)"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time  `gorm:"index"`
	SentAt      *time.Time
}

// TableName 指定表名
func (OutboxMessage) TableName() string {
	return "outbox_messages"
}

// OutboxPublisher 实现 domain.EventPublisher，消息随业务事务一起提交
type OutboxPublisher struct {
	db  *gorm.DB
	now func() time.Time
}

var _ domain.EventPublisher = (*OutboxPublisher)(nil)

// NewOutboxPublisher 创建 outbox 发布器
func NewOutboxPublisher(db *gorm.DB) *OutboxPublisher {
	return &OutboxPublisher{db: db, now: time.Now}
}

// Publish 写入 outbox，ctx 中有事务时复用事务
func (p *OutboxPublisher) Publish(ctx context.Context, eventType, aggregateID string, payload any) error {
	msg, err := newOutboxMessage(eventType, aggregateID, payload, p.now())
	if err != nil {
		return err
	}
	return db.Conn(ctx, p.db).Create(msg).Error
}

func newOutboxMessage(eventType, aggregateID string, payload any, now time.Time) (*OutboxMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &OutboxMessage{
		ID:          uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     string(data),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
