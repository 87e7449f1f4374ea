package container

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/longmh299/mcbrother-sub000/internal/analytics"
	analyticsstore "github.com/longmh299/mcbrother-sub000/internal/analytics/store"
	"github.com/longmh299/mcbrother-sub000/internal/messaging"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// consumerGroupName identifies the analytics consumers on the stream.
const consumerGroupName = "registry-analytics"

// PublisherGroupPackage registers the event publisher and the typed
// publish functions the handlers use.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		redisClient := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.TokenRenamedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.TokenRenamedEvent](group.Publisher(), analytics.TopicTokenRenamed), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.TokenResolvedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.TokenResolvedEvent](group.Publisher(), analytics.TopicTokenResolved), nil
	})
}

// ConsumerGroupPackage registers the subscriber and the analytics
// consumers persisting events into Redis counters.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		redisClient := do.MustInvoke[*redis.Client](i)

		return redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: consumerGroupName,
			},
			watermill.NewStdLogger(false, false),
		)
	})

	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		return analyticsstore.NewRedis(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		subscriber := do.MustInvoke[message.Subscriber](i)
		eventStore := do.MustInvoke[analytics.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.NewRenameConsumer(subscriber, eventStore, logger))
		group.Add(analytics.NewResolveConsumer(subscriber, eventStore, logger))

		return group, nil
	})
}
