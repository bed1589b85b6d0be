package fake

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orderhub/internal/gateway"
)

var transactionLimit = decimal.NewFromInt(10000)

// TransactionIDGenerator produces transaction ids for the simulated
// processor. Injectable so tests can supply deterministic ids.
type TransactionIDGenerator func(prefix string) string

func defaultTransactionID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

type Option func(*Gateway)

// WithTransactionIDGenerator replaces the random id generator.
func WithTransactionIDGenerator(gen TransactionIDGenerator) Option {
	return func(g *Gateway) { g.generateID = gen }
}

// WithProcessingDelay sets the simulated processing latency.
func WithProcessingDelay(d time.Duration) Option {
	return func(g *Gateway) { g.processingDelay = d }
}

// Gateway simulates an external payment processor. Outcomes depend only on
// the request: non-positive amounts, amounts over the transaction limit and
// customer emails containing "fail" are declined, everything else succeeds.
type Gateway struct {
	logger          *zap.Logger
	generateID      TransactionIDGenerator
	processingDelay time.Duration
}

func NewGateway(logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		logger:          logger.With(zap.String("component", "FakePaymentGateway")),
		generateID:      defaultTransactionID,
		processingDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (g *Gateway) ProcessPayment(ctx context.Context, req gateway.PaymentRequest) (*gateway.PaymentResult, error) {
	g.logger.Info("Processing payment",
		zap.String("order_reference", req.OrderReference),
		zap.String("amount", req.Amount.String()),
		zap.String("currency", req.Currency))

	if err := g.sleep(ctx, g.processingDelay); err != nil {
		return nil, err
	}

	result := &gateway.PaymentResult{
		TransactionID:   g.generateID("TXN"),
		ProcessedAmount: req.Amount,
		ProcessedAt:     time.Now().UTC(),
	}

	switch {
	case req.Amount.LessThanOrEqual(decimal.Zero):
		result.Status = gateway.StatusFailed
		result.Message = "Invalid payment amount"
		g.logger.Warn("Payment declined: invalid amount",
			zap.String("order_reference", req.OrderReference))
	case req.Amount.GreaterThan(transactionLimit):
		result.Status = gateway.StatusFailed
		result.Message = "Amount exceeds transaction limit"
		g.logger.Warn("Payment declined: amount exceeds limit",
			zap.String("order_reference", req.OrderReference))
	case strings.Contains(strings.ToLower(req.CustomerEmail), "fail"):
		result.Status = gateway.StatusFailed
		result.Message = "Payment method declined"
		g.logger.Warn("Payment declined: simulated failure",
			zap.String("order_reference", req.OrderReference))
	default:
		result.Status = gateway.StatusSuccess
		result.Message = "Payment processed successfully"
		g.logger.Info("Payment successful",
			zap.String("order_reference", req.OrderReference),
			zap.String("transaction_id", result.TransactionID))
	}

	return result, nil
}

func (g *Gateway) Refund(ctx context.Context, transactionID string, amount decimal.Decimal) (*gateway.PaymentResult, error) {
	g.logger.Info("Processing refund",
		zap.String("transaction_id", transactionID),
		zap.String("amount", amount.String()))

	if err := g.sleep(ctx, g.processingDelay/2); err != nil {
		return nil, err
	}

	return &gateway.PaymentResult{
		Status:          gateway.StatusSuccess,
		TransactionID:   g.generateID("REF"),
		Message:         "Refund processed successfully",
		ProcessedAmount: amount,
		ProcessedAt:     time.Now().UTC(),
	}, nil
}

func (g *Gateway) PaymentStatus(ctx context.Context, transactionID string) (*gateway.PaymentResult, error) {
	g.logger.Info("Checking payment status", zap.String("transaction_id", transactionID))

	if err := g.sleep(ctx, g.processingDelay/4); err != nil {
		return nil, err
	}

	// The simulation assumes every known transaction completed.
	return &gateway.PaymentResult{
		Status:        gateway.StatusSuccess,
		TransactionID: transactionID,
		Message:       "Transaction found and completed",
		ProcessedAt:   time.Now().UTC().Add(-5 * time.Minute),
	}, nil
}
