package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/pastryshop/backend/internal/entity"
)

// watermillPublisher adapts a watermill message.Publisher to the domain
// Publisher interface. Events are JSON-encoded; the event type and partition
// key travel as message metadata.
type watermillPublisher struct {
	pub message.Publisher
}

func NewWatermillPublisher(pub message.Publisher) Publisher {
	return &watermillPublisher{pub: pub}
}

func (p *watermillPublisher) PublishEvent(ctx context.Context, topic string, key string, event entity.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType(), err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.EventType())
	msg.Metadata.Set("key", key)

	if err := p.pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType(), err)
	}

	slog.Debug("Event published", "topic", topic, "event_type", event.EventType(), "key", key)
	return nil
}

// NewGoChannelPubSub creates the in-process Pub/Sub used by default and in
// tests. It implements both message.Publisher and message.Subscriber.
func NewGoChannelPubSub() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(slog.Default()))
}
