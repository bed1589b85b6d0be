package event

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"orderhub/internal/domain"
)

func observedLogger(t *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func TestFraudScreener_HandlesPaymentInitiated(t *testing.T) {
	logger, logs := observedLogger(t)
	sub := NewFraudScreener(logger)

	err := sub.Handle(context.Background(), &domain.PaymentInitiatedEvent{
		OrderID:       7,
		Amount:        decimal.NewFromInt(2500),
		Currency:      "USD",
		CustomerEmail: "a@b.com",
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	screening := logs.FilterMessage("Fraud screening started").All()
	require.Len(t, screening, 1)
	assert.Equal(t, "HIGH", screening[0].ContextMap()["risk_level"])
}

func TestFraudScreener_LowRisk(t *testing.T) {
	logger, logs := observedLogger(t)
	sub := NewFraudScreener(logger)

	err := sub.Handle(context.Background(), &domain.PaymentInitiatedEvent{
		OrderID: 7,
		Amount:  decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	screening := logs.FilterMessage("Fraud screening started").All()
	require.Len(t, screening, 1)
	assert.Equal(t, "LOW", screening[0].ContextMap()["risk_level"])
}

func TestFulfillmentTrigger_HandlesPaymentSuccessful(t *testing.T) {
	logger, logs := observedLogger(t)
	sub := NewFulfillmentTrigger(logger)

	err := sub.Handle(context.Background(), &domain.PaymentSuccessfulEvent{
		OrderID:         7,
		TransactionID:   "TXN_abc",
		ProcessedAmount: decimal.NewFromInt(600),
		PaymentDate:     time.Now(),
		CustomerEmail:   "a@b.com",
	})
	require.NoError(t, err)

	fulfillment := logs.FilterMessage("Fulfillment workflow initiated").All()
	require.Len(t, fulfillment, 1)
	assert.Equal(t, "HIGH", fulfillment[0].ContextMap()["fulfillment_priority"])
	assert.Len(t, logs.FilterMessage("Payment confirmation queued").All(), 1)
}

func TestPaymentFailureNotifier_HandlesPaymentFailed(t *testing.T) {
	logger, logs := observedLogger(t)
	sub := NewPaymentFailureNotifier(logger)

	err := sub.Handle(context.Background(), &domain.PaymentFailedEvent{
		OrderID:         7,
		AttemptedAmount: decimal.NewFromInt(50),
		FailureReason:   "Payment method declined",
		CustomerEmail:   "a@b.com",
	})
	require.NoError(t, err)
	assert.Len(t, logs.FilterMessage("Payment failed").All(), 1)
	assert.Len(t, logs.FilterMessage("Payment failure notice queued").All(), 1)
}

// Subscribers ignore event kinds they do not handle.
func TestSubscribers_IgnoreOtherEventKinds(t *testing.T) {
	logger, logs := observedLogger(t)

	subs := []Subscriber{
		NewWelcomeNotifier(logger),
		NewInventoryWatcher(logger),
		NewFraudScreener(logger),
		NewFulfillmentTrigger(logger),
		NewPaymentFailureNotifier(logger),
	}
	evt := &domain.PaymentInitiatedEvent{OrderID: 1, Amount: decimal.NewFromInt(1)}

	for _, sub := range subs {
		if sub.Name() == "fraud-screener" {
			continue
		}
		require.NoError(t, sub.Handle(context.Background(), evt))
	}
	assert.Zero(t, logs.Len())
}

func TestWelcomeNotifier_HandlesOrderCreated(t *testing.T) {
	logger, logs := observedLogger(t)
	sub := NewWelcomeNotifier(logger)

	err := sub.Handle(context.Background(), &domain.OrderCreatedEvent{
		OrderID:       3,
		CustomerEmail: "a@b.com",
	})
	require.NoError(t, err)
	assert.Len(t, logs.FilterMessage("Welcome email queued").All(), 1)
}

func TestInventoryWatcher_HandlesOrderItemAdded(t *testing.T) {
	logger, logs := observedLogger(t)
	sub := NewInventoryWatcher(logger)

	err := sub.Handle(context.Background(), &domain.OrderItemAddedEvent{
		OrderID:     3,
		ProductName: "Widget",
		Quantity:    2,
	})
	require.NoError(t, err)

	checks := logs.FilterMessage("Inventory availability check scheduled").All()
	require.Len(t, checks, 1)
	assert.Equal(t, int64(2), checks[0].ContextMap()["requested_quantity"])
}
