package handlers

import (
	"context"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/events"

	"go.uber.org/zap"
)

// eventSource is implemented by entities that raise domain events
type eventSource interface {
	GetUncommittedEvents() []events.DomainEvent
	MarkEventsAsCommitted()
}

// publishEvents runs after the write is stored; a publish failure is logged, not returned
func publishEvents(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, sources ...eventSource) {
	var pending []events.DomainEvent
	for _, s := range sources {
		pending = append(pending, s.GetUncommittedEvents()...)
	}
	if len(pending) == 0 {
		return
	}

	if err := publisher.Publish(ctx, pending...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
		return
	}
	for _, s := range sources {
		s.MarkEventsAsCommitted()
	}
}
