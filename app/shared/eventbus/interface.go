// Package eventbus defines the messaging contract shared by all modules.
package eventbus

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventBus is the publisher/subscriber pair backing the watermill router.
// Implementations must read the publish topic from message metadata when the
// topic argument is empty, so transformation handlers can fan out to multiple
// topics from a single registration.
type EventBus interface {
	message.Publisher
	message.Subscriber

	// CreateStream provisions the broker stream covering the given subjects.
	CreateStream(ctx context.Context, streamName string, subjects ...string) error
}

// TopicMetadataKey is the metadata key implementations consult when Publish is
// called with an empty topic.
const TopicMetadataKey = "topic"
