package order_repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"orderhub/internal/domain"
)

var ErrNotFound = errors.New("order not found")

// ListFilter narrows and pages the order list. Page is 1-based; SortBy must
// be one of the whitelisted column names validated by the caller.
type ListFilter struct {
	CustomerEmail string
	MinTotal      *decimal.Decimal
	MaxTotal      *decimal.Decimal
	SortBy        string
	Descending    bool
	Page          int
	PageSize      int
}

type OrderRepository interface {
	// Create persists a new order with its items and assigns the order ID.
	Create(ctx context.Context, order *domain.Order) error
	// GetByID returns an active order with its items, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// Update saves the order row and inserts any items added since the last
	// save.
	Update(ctx context.Context, order *domain.Order) error
	// SoftDelete marks the order inactive; reads no longer return it.
	SoftDelete(ctx context.Context, order *domain.Order) error
	// List returns one page of active orders plus the total match count.
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, int, error)
}
