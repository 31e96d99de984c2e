package messaging

import (
	"context"

	"github.com/pastryshop/backend/internal/entity"
)

// Publisher defines an interface for publishing domain events to a broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event entity.Event) error
}
