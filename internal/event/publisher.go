package event

import (
	"context"

	"go.uber.org/zap"

	"orderhub/internal/domain"
)

// Subscriber reacts to domain events. Implementations handle the event kinds
// they care about and return nil for everything else.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, evt domain.DomainEvent) error
}

// EventSource is anything that queues domain events, i.e. an aggregate.
type EventSource interface {
	PendingEvents() []domain.DomainEvent
	ClearEvents()
}

// Publisher fans domain events out to its subscribers, sequentially and in
// registration order. A failing subscriber is logged and never blocks the
// remaining subscribers or the caller.
type Publisher struct {
	subscribers []Subscriber
	logger      *zap.Logger
}

func NewPublisher(logger *zap.Logger, subscribers ...Subscriber) *Publisher {
	return &Publisher{
		subscribers: subscribers,
		logger:      logger.With(zap.String("component", "EventPublisher")),
	}
}

func (p *Publisher) Publish(ctx context.Context, evt domain.DomainEvent) {
	p.logger.Debug("Publishing domain event",
		zap.String("event_type", string(evt.Type())),
		zap.String("event_id", evt.ID()),
		zap.Time("occurred_at", evt.OccurredAt()))

	for _, sub := range p.subscribers {
		if err := sub.Handle(ctx, evt); err != nil {
			p.logger.Error("Event subscriber failed",
				zap.String("subscriber", sub.Name()),
				zap.String("event_type", string(evt.Type())),
				zap.String("event_id", evt.ID()),
				zap.Error(err))
		}
	}
}

// PublishAll drains the source's pending events in FIFO order and then clears
// them. The clear is unconditional: subscriber failures do not keep events
// queued.
func (p *Publisher) PublishAll(ctx context.Context, source EventSource) {
	events := source.PendingEvents()
	if len(events) == 0 {
		p.logger.Debug("No domain events to publish")
		return
	}

	p.logger.Info("Publishing domain events", zap.Int("event_count", len(events)))
	for _, evt := range events {
		p.Publish(ctx, evt)
	}
	source.ClearEvents()
}
