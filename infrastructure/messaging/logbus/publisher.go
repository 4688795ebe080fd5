// Package logbus publishes domain events to the application log. It is the
// publisher used when no EventBridge bus is configured.
package logbus

import (
	"context"

	"techknowledgepills/domain/events"

	"go.uber.org/zap"
)

// Publisher writes each event as a structured log line
type Publisher struct {
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger.Named("events")}
}

func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	for _, e := range domainEvents {
		p.logger.Info("Domain event",
			zap.String("eventType", e.GetEventType()),
			zap.String("aggregateID", e.GetAggregateID()),
			zap.Time("timestamp", e.GetTimestamp()),
			zap.Any("event", e),
		)
	}
	return nil
}
