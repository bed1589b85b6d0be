package event

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orderhub/internal/domain"
)

// The subscribers below stand in for future integrations (email, fraud
// scoring, fulfillment, support). Their only side effect is structured log
// output.

var (
	highRiskThreshold     = decimal.NewFromInt(1000)
	priorityFulfillThresh = decimal.NewFromInt(500)
	transactionFeeRate    = decimal.NewFromFloat(0.029)
)

// WelcomeNotifier reacts to OrderCreated.
type WelcomeNotifier struct {
	logger *zap.Logger
}

func NewWelcomeNotifier(logger *zap.Logger) *WelcomeNotifier {
	return &WelcomeNotifier{logger: logger.With(zap.String("component", "WelcomeNotifier"))}
}

func (s *WelcomeNotifier) Name() string { return "welcome-notifier" }

func (s *WelcomeNotifier) Handle(_ context.Context, evt domain.DomainEvent) error {
	created, ok := evt.(*domain.OrderCreatedEvent)
	if !ok {
		return nil
	}
	s.logger.Info("Order created",
		zap.Int64("order_id", created.OrderID),
		zap.String("customer_email", created.CustomerEmail),
		zap.Int("item_count", created.ItemCount),
		zap.String("event_id", created.EventID))
	s.logger.Info("Welcome email queued",
		zap.String("customer_email", created.CustomerEmail),
		zap.String("channel", "EMAIL"))
	return nil
}

// InventoryWatcher reacts to OrderItemAdded.
type InventoryWatcher struct {
	logger *zap.Logger
}

func NewInventoryWatcher(logger *zap.Logger) *InventoryWatcher {
	return &InventoryWatcher{logger: logger.With(zap.String("component", "InventoryWatcher"))}
}

func (s *InventoryWatcher) Name() string { return "inventory-watcher" }

func (s *InventoryWatcher) Handle(_ context.Context, evt domain.DomainEvent) error {
	added, ok := evt.(*domain.OrderItemAddedEvent)
	if !ok {
		return nil
	}
	s.logger.Info("Order item added",
		zap.Int64("order_id", added.OrderID),
		zap.String("product_name", added.ProductName),
		zap.Int("quantity", added.Quantity),
		zap.String("event_id", added.EventID))
	s.logger.Info("Inventory availability check scheduled",
		zap.String("product_name", added.ProductName),
		zap.Int("requested_quantity", added.Quantity))
	return nil
}

// FraudScreener reacts to PaymentInitiated.
type FraudScreener struct {
	logger *zap.Logger
}

func NewFraudScreener(logger *zap.Logger) *FraudScreener {
	return &FraudScreener{logger: logger.With(zap.String("component", "FraudScreener"))}
}

func (s *FraudScreener) Name() string { return "fraud-screener" }

func (s *FraudScreener) Handle(_ context.Context, evt domain.DomainEvent) error {
	initiated, ok := evt.(*domain.PaymentInitiatedEvent)
	if !ok {
		return nil
	}
	riskLevel := "LOW"
	if initiated.Amount.GreaterThan(highRiskThreshold) {
		riskLevel = "HIGH"
	}
	s.logger.Info("Payment initiated",
		zap.Int64("order_id", initiated.OrderID),
		zap.String("customer_email", initiated.CustomerEmail),
		zap.String("amount", initiated.Amount.String()),
		zap.String("currency", initiated.Currency),
		zap.String("payment_method", initiated.PaymentMethod),
		zap.String("event_id", initiated.EventID))
	s.logger.Info("Fraud screening started",
		zap.Int64("order_id", initiated.OrderID),
		zap.String("risk_level", riskLevel))
	s.logger.Info("Payment audit record written",
		zap.String("audit_type", "PAYMENT_INITIATED"),
		zap.String("payment_method", initiated.PaymentMethod))
	return nil
}

// FulfillmentTrigger reacts to PaymentSuccessful.
type FulfillmentTrigger struct {
	logger *zap.Logger
}

func NewFulfillmentTrigger(logger *zap.Logger) *FulfillmentTrigger {
	return &FulfillmentTrigger{logger: logger.With(zap.String("component", "FulfillmentTrigger"))}
}

func (s *FulfillmentTrigger) Name() string { return "fulfillment-trigger" }

func (s *FulfillmentTrigger) Handle(_ context.Context, evt domain.DomainEvent) error {
	paid, ok := evt.(*domain.PaymentSuccessfulEvent)
	if !ok {
		return nil
	}
	priority := "STANDARD"
	if paid.ProcessedAmount.GreaterThan(priorityFulfillThresh) {
		priority = "HIGH"
	}
	s.logger.Info("Payment successful",
		zap.Int64("order_id", paid.OrderID),
		zap.String("transaction_id", paid.TransactionID),
		zap.String("processed_amount", paid.ProcessedAmount.String()),
		zap.Time("payment_date", paid.PaymentDate),
		zap.String("customer_email", paid.CustomerEmail),
		zap.String("event_id", paid.EventID))
	s.logger.Info("Fulfillment workflow initiated",
		zap.Int64("order_id", paid.OrderID),
		zap.String("fulfillment_priority", priority),
		zap.String("delivery_window", "3-5 business days"))
	s.logger.Info("Payment confirmation queued",
		zap.String("customer_email", paid.CustomerEmail),
		zap.String("notification_type", "PAYMENT_CONFIRMATION"),
		zap.String("channel", "EMAIL"))
	s.logger.Info("Revenue metrics updated",
		zap.String("revenue_amount", paid.ProcessedAmount.String()),
		zap.String("revenue_category", "ORDER_PAYMENT"),
		zap.String("transaction_fee", paid.ProcessedAmount.Mul(transactionFeeRate).String()))
	return nil
}

// PaymentFailureNotifier reacts to PaymentFailed.
type PaymentFailureNotifier struct {
	logger *zap.Logger
}

func NewPaymentFailureNotifier(logger *zap.Logger) *PaymentFailureNotifier {
	return &PaymentFailureNotifier{logger: logger.With(zap.String("component", "PaymentFailureNotifier"))}
}

func (s *PaymentFailureNotifier) Name() string { return "payment-failure-notifier" }

func (s *PaymentFailureNotifier) Handle(_ context.Context, evt domain.DomainEvent) error {
	failed, ok := evt.(*domain.PaymentFailedEvent)
	if !ok {
		return nil
	}
	s.logger.Warn("Payment failed",
		zap.Int64("order_id", failed.OrderID),
		zap.String("attempted_amount", failed.AttemptedAmount.String()),
		zap.String("currency", failed.Currency),
		zap.String("customer_email", failed.CustomerEmail),
		zap.String("failure_reason", failed.FailureReason),
		zap.String("payment_method", failed.PaymentMethod),
		zap.String("event_id", failed.EventID))
	s.logger.Info("Payment failure notice queued",
		zap.String("customer_email", failed.CustomerEmail),
		zap.String("notification_type", "PAYMENT_FAILED"),
		zap.String("channel", "EMAIL"))
	return nil
}
