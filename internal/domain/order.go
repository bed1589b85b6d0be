package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// unitPrice is the fixed per-item price used for total calculation. A real
// pricing service would replace this.
var unitPrice = decimal.NewFromInt(10)

type OrderItem struct {
	ID          int64
	ProductName string
	Quantity    int
}

// Order is the aggregate root. All mutations go through its methods, which
// queue domain events in memory; the events stay with the instance until a
// publisher drains and clears them.
type Order struct {
	ID            int64
	CustomerEmail string
	IsPaid        bool
	TransactionID string
	PaymentDate   *time.Time
	TotalAmount   decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem

	pendingEvents []DomainEvent
}

func NewOrder(customerEmail string) (*Order, error) {
	customerEmail = strings.TrimSpace(customerEmail)
	if customerEmail == "" {
		return nil, NewInvalidCustomerEmailError(customerEmail)
	}

	now := time.Now()
	order := &Order{
		CustomerEmail: customerEmail,
		TotalAmount:   decimal.Zero,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	order.raiseEvent(&OrderCreatedEvent{
		BaseEvent:     newBaseEvent(),
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		ItemCount:     len(order.Items),
	})
	return order, nil
}

func (o *Order) raiseEvent(evt DomainEvent) {
	o.pendingEvents = append(o.pendingEvents, evt)
}

// PendingEvents returns the queued domain events in the order they were raised.
func (o *Order) PendingEvents() []DomainEvent {
	return o.pendingEvents
}

// ClearEvents drops all queued domain events, typically after publishing.
func (o *Order) ClearEvents() {
	o.pendingEvents = nil
}

func (o *Order) AddItem(productName string, quantity int) error {
	if strings.TrimSpace(productName) == "" {
		return NewInvalidOrderItemError(productName, quantity, "product name cannot be empty")
	}
	if quantity <= 0 {
		return NewInvalidOrderItemError(productName, quantity, "quantity must be positive")
	}

	o.Items = append(o.Items, OrderItem{ProductName: productName, Quantity: quantity})
	o.UpdatedAt = time.Now()

	o.raiseEvent(&OrderItemAddedEvent{
		BaseEvent:     newBaseEvent(),
		OrderID:       o.ID,
		ProductName:   productName,
		Quantity:      quantity,
		CustomerEmail: o.CustomerEmail,
	})
	return nil
}

// CalculateTotalAmount sums quantity * unit price over the items and stores
// the result as the order total.
func (o *Order) CalculateTotalAmount() (decimal.Decimal, error) {
	if len(o.Items) == 0 {
		return decimal.Zero, NewOrderCalculationError("cannot calculate total for order with no items", 0)
	}

	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	o.TotalAmount = total
	o.UpdatedAt = time.Now()
	return total, nil
}

func (o *Order) SetTotalAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewInvalidOrderOperationError("set total amount", "total amount cannot be negative", o.ID).
			With("attempted_amount", amount.String())
	}
	o.TotalAmount = amount
	o.UpdatedAt = time.Now()
	return nil
}

// InitiatePayment queues a PaymentInitiated event. It does not change any
// payment state; the outcome is recorded later via MarkPaid or
// RecordPaymentFailure.
func (o *Order) InitiatePayment(amount decimal.Decimal, currency, paymentMethod string) {
	o.raiseEvent(&PaymentInitiatedEvent{
		BaseEvent:     newBaseEvent(),
		OrderID:       o.ID,
		Amount:        amount,
		Currency:      currency,
		CustomerEmail: o.CustomerEmail,
		PaymentMethod: paymentMethod,
	})
}

func (o *Order) MarkPaid(transactionID string, paymentDate time.Time) error {
	if o.IsPaid {
		return NewInvalidPaymentStateError("mark paid", o.TransactionID)
	}
	if strings.TrimSpace(transactionID) == "" {
		return NewInvalidPaymentError("transaction ID cannot be empty")
	}

	o.IsPaid = true
	o.TransactionID = transactionID
	o.PaymentDate = &paymentDate
	o.UpdatedAt = time.Now()

	o.raiseEvent(&PaymentSuccessfulEvent{
		BaseEvent:       newBaseEvent(),
		OrderID:         o.ID,
		TransactionID:   transactionID,
		ProcessedAmount: o.TotalAmount,
		PaymentDate:     paymentDate,
		CustomerEmail:   o.CustomerEmail,
	})
	return nil
}

// RecordPaymentFailure queues a PaymentFailed event. The order stays unpaid
// and remains payable.
func (o *Order) RecordPaymentFailure(attemptedAmount decimal.Decimal, currency, paymentMethod, failureReason string) {
	o.raiseEvent(&PaymentFailedEvent{
		BaseEvent:       newBaseEvent(),
		OrderID:         o.ID,
		AttemptedAmount: attemptedAmount,
		Currency:        currency,
		CustomerEmail:   o.CustomerEmail,
		FailureReason:   failureReason,
		PaymentMethod:   paymentMethod,
	})
}

// Rename changes the customer email on the order.
func (o *Order) Rename(customerEmail string) error {
	customerEmail = strings.TrimSpace(customerEmail)
	if customerEmail == "" {
		return NewInvalidCustomerEmailError(customerEmail)
	}
	o.CustomerEmail = customerEmail
	o.UpdatedAt = time.Now()
	return nil
}

// Deactivate flags the order as logically deleted.
func (o *Order) Deactivate() {
	o.Active = false
	o.UpdatedAt = time.Now()
}
