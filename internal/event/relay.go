package event

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"orderhub/internal/domain"
	"orderhub/internal/infrastructure/kafka"
)

type relayEnvelope struct {
	EventType string             `json:"event_type"`
	Event     domain.DomainEvent `json:"event"`
}

// Relay streams every domain event to a Kafka topic as JSON. Delivery is
// best-effort: the relay is just another subscriber, so a broker outage is
// logged and never fails the request that raised the event.
type Relay struct {
	producer kafka.Producer
	logger   *zap.Logger
}

func NewRelay(producer kafka.Producer, logger *zap.Logger) *Relay {
	return &Relay{
		producer: producer,
		logger:   logger.With(zap.String("component", "EventRelay")),
	}
}

func (r *Relay) Name() string { return "kafka-relay" }

func (r *Relay) Handle(ctx context.Context, evt domain.DomainEvent) error {
	payload, err := json.Marshal(relayEnvelope{
		EventType: string(evt.Type()),
		Event:     evt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal domain event %s: %w", evt.ID(), err)
	}

	if err := r.producer.Produce(ctx, []byte(evt.Type()), payload); err != nil {
		return fmt.Errorf("failed to relay domain event %s: %w", evt.ID(), err)
	}
	r.logger.Debug("Domain event relayed",
		zap.String("event_type", string(evt.Type())),
		zap.String("event_id", evt.ID()))
	return nil
}
