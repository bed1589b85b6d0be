package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerEmail string             `json:"customer_email"`
	Items         []OrderItemRequest `json:"items,omitempty"`
}

type UpdateOrderRequest struct {
	CustomerEmail string `json:"customer_email"`
}

type OrderItemResponse struct {
	ID          int64  `json:"id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type OrderResponse struct {
	ID            int64               `json:"id"`
	CustomerEmail string              `json:"customer_email"`
	IsPaid        bool                `json:"is_paid"`
	TransactionID string              `json:"transaction_id,omitempty"`
	PaymentDate   *time.Time          `json:"payment_date,omitempty"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type ProcessPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
}

type PaymentResultResponse struct {
	Status          string          `json:"status"`
	TransactionID   string          `json:"transaction_id"`
	Message         string          `json:"message"`
	ProcessedAmount decimal.Decimal `json:"processed_amount"`
	ProcessedAt     time.Time       `json:"processed_at"`
}

// ListOrdersQuery filters, sorts and pages the order list. Page numbers are
// 1-based; PageSize is clamped to [1,100].
type ListOrdersQuery struct {
	CustomerEmail string
	MinTotal      *decimal.Decimal
	MaxTotal      *decimal.Decimal
	SortBy        string
	SortOrder     string
	Page          int
	PageSize      int
}

type PaginatedOrders struct {
	Items       []*OrderResponse `json:"items"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
	TotalCount  int              `json:"total_count"`
	TotalPages  int              `json:"total_pages"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
	SortBy      string           `json:"sort_by,omitempty"`
	SortOrder   string           `json:"sort_order"`
}
