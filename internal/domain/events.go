package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	OrderCreatedEventName      EventType = "OrderCreated"
	OrderItemAddedEventName    EventType = "OrderItemAdded"
	PaymentInitiatedEventName  EventType = "PaymentInitiated"
	PaymentSuccessfulEventName EventType = "PaymentSuccessful"
	PaymentFailedEventName     EventType = "PaymentFailed"
)

// DomainEvent is an immutable record of a state transition on the Order
// aggregate, queued in memory until the publisher drains it.
type DomainEvent interface {
	Type() EventType
	ID() string
	OccurredAt() time.Time
}

type BaseEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func newBaseEvent() BaseEvent {
	return BaseEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}
}

func (e BaseEvent) ID() string            { return e.EventID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

type OrderCreatedEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	ItemCount     int    `json:"item_count"`
}

func (e *OrderCreatedEvent) Type() EventType { return OrderCreatedEventName }

type OrderItemAddedEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	CustomerEmail string `json:"customer_email"`
}

func (e *OrderItemAddedEvent) Type() EventType { return OrderItemAddedEventName }

type PaymentInitiatedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CustomerEmail string          `json:"customer_email"`
	PaymentMethod string          `json:"payment_method"`
}

func (e *PaymentInitiatedEvent) Type() EventType { return PaymentInitiatedEventName }

type PaymentSuccessfulEvent struct {
	BaseEvent
	OrderID         int64           `json:"order_id"`
	TransactionID   string          `json:"transaction_id"`
	ProcessedAmount decimal.Decimal `json:"processed_amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	CustomerEmail   string          `json:"customer_email"`
}

func (e *PaymentSuccessfulEvent) Type() EventType { return PaymentSuccessfulEventName }

type PaymentFailedEvent struct {
	BaseEvent
	OrderID         int64           `json:"order_id"`
	AttemptedAmount decimal.Decimal `json:"attempted_amount"`
	Currency        string          `json:"currency"`
	CustomerEmail   string          `json:"customer_email"`
	FailureReason   string          `json:"failure_reason"`
	PaymentMethod   string          `json:"payment_method"`
}

func (e *PaymentFailedEvent) Type() EventType { return PaymentFailedEventName }
