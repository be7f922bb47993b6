package messaging

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// ConsumerGroupName is the Redis stream consumer group of the activity consumer.
const ConsumerGroupName = "duckbin-activity"

// NewRedisStreamPublisher publishes to Redis streams, one stream per topic.
func NewRedisStreamPublisher(client redis.UniversalClient, logger watermill.LoggerAdapter) (*redisstream.Publisher, error) {
	pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client:     client,
		Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating redis stream publisher: %w", err)
	}

	return pub, nil
}

// NewRedisStreamSubscriber reads Redis streams as a member of group.
func NewRedisStreamSubscriber(
	client redis.UniversalClient, group string, logger watermill.LoggerAdapter,
) (*redisstream.Subscriber, error) {
	sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
		ConsumerGroup: group,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating redis stream subscriber: %w", err)
	}

	return sub, nil
}

// NewInProcess returns an in-memory pub/sub for single-process setups and tests.
// Messages published with no subscriber are dropped.
func NewInProcess(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
}
