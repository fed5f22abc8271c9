package ports

import (
	"context"

	"medmarket/internal/core/domain/model/kernel"
)

// EventPublisher delivers committed status changes to interested parties.
// Delivery is best effort; a failure never undoes the committed transition.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.StatusChanged) error
}
