package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSuccess   Status = "SUCCESS"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

type PaymentRequest struct {
	Amount         decimal.Decimal
	Currency       string
	CustomerEmail  string
	OrderReference string
	PaymentMethod  string
}

type PaymentResult struct {
	Status          Status
	TransactionID   string
	Message         string
	ProcessedAmount decimal.Decimal
	ProcessedAt     time.Time
}

// PaymentGateway is the external payment processor. A declined payment is a
// Failed result, not an error; errors are reserved for transport problems.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
	Refund(ctx context.Context, transactionID string, amount decimal.Decimal) (*PaymentResult, error)
	PaymentStatus(ctx context.Context, transactionID string) (*PaymentResult, error)
}
