package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/platform/metrics"
)

var ErrPublisherClosed = errors.New("kafka publisher closed")

// KafkaPublisher forwards console messages to a single audit topic. Writes
// are asynchronous; delivery results are logged and counted on completion.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisher returns nil when no brokers or topic are configured so
// callers can treat publishing as optional.
func NewKafkaPublisher(brokers []string, topic string, batchTimeout time.Duration) *KafkaPublisher {
	addrs := make([]string, 0, len(brokers))
	for _, broker := range brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			addrs = append(addrs, trimmed)
		}
	}
	topic = strings.TrimSpace(topic)
	if len(addrs) == 0 || topic == "" {
		return nil
	}
	if batchTimeout <= 0 {
		batchTimeout = 50 * time.Millisecond
	}
	return &KafkaPublisher{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(addrs...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           batchTimeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			Async:                  true,
			Completion:             completion,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg *domain.Message) error {
	if p == nil || p.writer == nil {
		return ErrPublisherClosed
	}
	if msg == nil {
		return nil
	}
	value, err := json.Marshal(msg)
	if err != nil {
		metrics.OutcomesPublishedTotal.WithLabelValues("encode_error").Inc()
		return fmt.Errorf("encode message: %w", err)
	}
	record := kafka.Message{
		Key:   []byte(messageKey(msg)),
		Value: value,
		Time:  msg.Timestamp,
		Headers: []kafka.Header{
			{Key: "entity", Value: []byte(msg.Entity)},
			{Key: "action", Value: []byte(msg.Action)},
		},
	}
	if err := p.writer.WriteMessages(ctx, record); err != nil {
		metrics.OutcomesPublishedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func completion(messages []kafka.Message, err error) {
	if err != nil {
		metrics.OutcomesPublishedTotal.WithLabelValues("error").Add(float64(len(messages)))
		slog.Warn("kafka publish failed", slog.Int("messages", len(messages)), slog.Any("error", err))
		return
	}
	metrics.OutcomesPublishedTotal.WithLabelValues("ok").Add(float64(len(messages)))
	for _, m := range messages {
		slog.Debug("kafka message published",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("key", string(m.Key)),
		)
	}
}

// messageKey keeps every outcome for one record on the same partition.
func messageKey(msg *domain.Message) string {
	entity := strings.TrimSpace(msg.Entity)
	if id := strings.TrimSpace(msg.ResourceID); id != "" {
		return entity + ":" + id
	}
	return entity
}
