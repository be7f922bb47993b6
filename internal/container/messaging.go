package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/duckbin/internal/activity"
	activitystore "github.com/serroba/duckbin/internal/activity/store"
	"github.com/serroba/duckbin/internal/messaging"
	"go.uber.org/zap"
)

// PublisherGroupPackage provides the activity publisher. Events go to Redis
// streams when Redis is configured and to an in-process channel otherwise.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return messaging.NewInProcess(messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i))), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)

		if !opts.UseRedis() {
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		}

		logger := messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i))

		pub, err := messaging.NewRedisStreamPublisher(do.MustInvoke[*RedisConn](i).Client, logger)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(pub), nil
	})

	do.Provide(injector, func(i *do.Injector) (*activity.Publisher, error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return activity.NewPublisher(group.Publisher(), do.MustInvoke[*zap.Logger](i)), nil
	})
}

// ConsumerGroupPackage provides the activity consumers. With Redis they read
// the shared streams and keep counters; without it they only log events
// published in this process.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		stores := activity.MultiStore{activitystore.NewLog(logger)}

		var subscriber message.Subscriber

		if opts.UseRedis() {
			client := do.MustInvoke[*RedisConn](i).Client

			sub, err := messaging.NewRedisStreamSubscriber(client, messaging.ConsumerGroupName, messaging.NewZapLogger(logger))
			if err != nil {
				return nil, fmt.Errorf("activity consumers: %w", err)
			}

			subscriber = sub
			stores = append(stores, activitystore.NewRedis(client))
		} else {
			subscriber = do.MustInvoke[*gochannel.GoChannel](i)
		}

		return activity.NewConsumerGroup(subscriber, stores, logger), nil
	})
}
