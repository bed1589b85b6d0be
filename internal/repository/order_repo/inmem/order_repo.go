package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"

	"orderhub/internal/domain"
	"orderhub/internal/repository/order_repo"
)

// Repository is a map-backed OrderRepository with the same semantics as the
// Postgres implementation. It backs tests and local runs without a database.
type Repository struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: make(map[int64]*domain.Order)}
}

// clone detaches stored state from the caller's aggregate instance. Pending
// events are transient and never stored.
func clone(order *domain.Order) *domain.Order {
	copied := *order
	copied.ClearEvents()
	copied.Items = make([]domain.OrderItem, len(order.Items))
	copy(copied.Items, order.Items)
	return &copied
}

func (r *Repository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	for i := range order.Items {
		order.Items[i].ID = int64(i + 1)
	}
	r.orders[order.ID] = clone(order)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || !order.Active {
		return nil, order_repo.ErrNotFound
	}
	return clone(order), nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return order_repo.ErrNotFound
	}
	nextItemID := int64(0)
	for i := range order.Items {
		if order.Items[i].ID > nextItemID {
			nextItemID = order.Items[i].ID
		}
	}
	for i := range order.Items {
		if order.Items[i].ID == 0 {
			nextItemID++
			order.Items[i].ID = nextItemID
		}
	}
	r.orders[order.ID] = clone(order)
	return nil
}

func (r *Repository) SoftDelete(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok || !stored.Active {
		return order_repo.ErrNotFound
	}
	stored.Active = false
	stored.UpdatedAt = order.UpdatedAt
	order.Active = false
	return nil
}

func (r *Repository) List(_ context.Context, filter order_repo.ListFilter) ([]*domain.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Order
	for _, order := range r.orders {
		if !order.Active {
			continue
		}
		if filter.CustomerEmail != "" &&
			!strings.Contains(strings.ToLower(order.CustomerEmail), strings.ToLower(filter.CustomerEmail)) {
			continue
		}
		if filter.MinTotal != nil && order.TotalAmount.LessThan(*filter.MinTotal) {
			continue
		}
		if filter.MaxTotal != nil && order.TotalAmount.GreaterThan(*filter.MaxTotal) {
			continue
		}
		matched = append(matched, order)
	}

	sort.Slice(matched, func(i, j int) bool {
		less := compareOrders(matched[i], matched[j], filter.SortBy)
		if filter.Descending {
			return !less
		}
		return less
	})

	totalCount := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start > totalCount {
		start = totalCount
	}
	end := start + filter.PageSize
	if end > totalCount {
		end = totalCount
	}

	page := make([]*domain.Order, 0, end-start)
	for _, order := range matched[start:end] {
		page = append(page, clone(order))
	}
	return page, totalCount, nil
}

func compareOrders(a, b *domain.Order, sortBy string) bool {
	switch sortBy {
	case "customer_email":
		return a.CustomerEmail < b.CustomerEmail
	case "total_amount":
		return a.TotalAmount.LessThan(b.TotalAmount)
	case "is_paid":
		return !a.IsPaid && b.IsPaid
	case "payment_date":
		if a.PaymentDate == nil {
			return b.PaymentDate != nil
		}
		if b.PaymentDate == nil {
			return false
		}
		return a.PaymentDate.Before(*b.PaymentDate)
	default:
		return a.ID < b.ID
	}
}
