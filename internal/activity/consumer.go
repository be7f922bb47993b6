package activity

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/duckbin/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumerGroup subscribes store to every activity topic.
func NewConsumerGroup(subscriber message.Subscriber, store Store, logger *zap.Logger) *messaging.ConsumerGroup {
	group := messaging.NewConsumerGroup(subscriber, logger)

	for _, kind := range Kinds {
		group.Add(messaging.NewConsumer[SnippetEvent](subscriber, kind.Topic(), store.Record, logger))
	}

	return group
}
