package messaging

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
)

func TestNewOutboxMessage(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	event := domain.AssociationEvent{EmployeeID: 7, DocumentTypeIDs: []uint{1, 2}, Timestamp: now}

	msg, err := newOutboxMessage(domain.EventAssociationCreated, "7", event, now)
	require.NoError(t, err)

	assert.Len(t, msg.ID, 36)
	assert.Equal(t, StatusPending, msg.Status)
	assert.Equal(t, now, msg.CreatedAt)

	var decoded domain.AssociationEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &decoded))
	assert.Equal(t, []uint{1, 2}, decoded.DocumentTypeIDs)

	_, err = newOutboxMessage("bad", "1", make(chan int), now)
	assert.Error(t, err)
}

func TestToKafkaMessage(t *testing.T) {
	msg := &OutboxMessage{ID: "abc", EventType: domain.EventDocumentSubmitted, AggregateID: "42", Payload: `{"document_id":42}`}

	out := toKafkaMessage("documentation.events", msg)
	assert.Equal(t, "documentation.events", out.Topic)
	assert.Equal(t, "42", out.Key)
	assert.JSONEq(t, `{"document_id":42}`, string(out.Value))
	assert.Equal(t, map[string]string{"event_id": "abc", "event_type": domain.EventDocumentSubmitted}, out.Headers)
}

func TestNewRelayDefaults(t *testing.T) {
	r := NewRelay(nil, nil, RelayConfig{Topic: "t"}, nil)
	assert.Equal(t, 100, r.cfg.BatchSize)
	assert.Equal(t, time.Second, r.cfg.PollInterval)
	assert.Equal(t, 7*24*time.Hour, r.cfg.Retention)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))

	// "ã" 占两个字节，截断点落在字符中间时整体丢弃
	reason := strings.Repeat("a", 499) + "ão"
	got := truncateUTF8(reason, maxErrorLength)
	assert.Equal(t, strings.Repeat("a", 499), got)
	assert.True(t, utf8.ValidString(got))

	got = truncateUTF8(strings.Repeat("文", 200), maxErrorLength)
	assert.Len(t, got, 498)
	assert.True(t, utf8.ValidString(got))
}
