package broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminConsole/internal/modules/console/domain"
)

func TestNewKafkaPublisherIsOptional(t *testing.T) {
	assert.Nil(t, NewKafkaPublisher(nil, "admin-console.outcomes", 0))
	assert.Nil(t, NewKafkaPublisher([]string{" "}, "admin-console.outcomes", 0))
	assert.Nil(t, NewKafkaPublisher([]string{"kafka:9092"}, " ", 0))

	var publisher *KafkaPublisher
	assert.NoError(t, publisher.Close())
	assert.ErrorIs(t, publisher.Publish(context.Background(), &domain.Message{}), ErrPublisherClosed)
}

func TestNewKafkaPublisherConfiguresWriter(t *testing.T) {
	publisher := NewKafkaPublisher([]string{" kafka:9092 "}, "admin-console.outcomes", 0)
	require.NotNil(t, publisher)
	assert.Equal(t, "admin-console.outcomes", publisher.writer.Topic)
	assert.Equal(t, 50*time.Millisecond, publisher.writer.BatchTimeout)
	assert.True(t, publisher.writer.Async)
	assert.NotNil(t, publisher.writer.Completion)
}

func TestMessageKeyGroupsByRecord(t *testing.T) {
	assert.Equal(t, "departments:7", messageKey(&domain.Message{Entity: "departments", ResourceID: " 7 "}))
	assert.Equal(t, "users", messageKey(&domain.Message{Entity: "users"}))
}
