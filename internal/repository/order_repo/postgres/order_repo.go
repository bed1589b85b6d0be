package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"orderhub/internal/domain"
	"orderhub/internal/repository/order_repo"
)

// sortColumns maps the exposed sort fields onto real columns. Anything else
// is rejected before the query is built.
var sortColumns = map[string]string{
	"id":             "id",
	"customer_email": "customer_email",
	"total_amount":   "total_amount",
	"is_paid":        "is_paid",
	"payment_date":   "payment_date",
}

type pgOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOrderRepository(db *sql.DB, l *zap.Logger) order_repo.OrderRepository {
	return &pgOrderRepository{db: db, logger: l}
}

func (r *pgOrderRepository) Create(ctx context.Context, order *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction for order creation", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
			if err != nil {
				r.logger.Error("Failed to commit transaction for order creation", zap.Error(err))
			}
		}
	}()

	orderQuery := `INSERT INTO orders (customer_email, is_paid, transaction_id, payment_date, total_amount, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err = tx.QueryRowContext(ctx, orderQuery,
		order.CustomerEmail, order.IsPaid, order.TransactionID, order.PaymentDate,
		order.TotalAmount, order.Active, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("tx failed to create order: %w", err)
	}

	for i := range order.Items {
		if err = r.insertItemTx(ctx, tx, order.ID, &order.Items[i]); err != nil {
			return err
		}
	}
	r.logger.Debug("Order inserted in transaction",
		zap.Int64("order_id", order.ID),
		zap.Int("item_count", len(order.Items)))
	return err
}

func (r *pgOrderRepository) insertItemTx(ctx context.Context, tx *sql.Tx, orderID int64, item *domain.OrderItem) error {
	itemQuery := `INSERT INTO order_items (order_id, product_name, quantity) VALUES ($1, $2, $3) RETURNING id`
	if err := tx.QueryRowContext(ctx, itemQuery, orderID, item.ProductName, item.Quantity).Scan(&item.ID); err != nil {
		return fmt.Errorf("tx failed to create order item: %w", err)
	}
	return nil
}

func (r *pgOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}
	query := `SELECT id, customer_email, is_paid, transaction_id, payment_date, total_amount, active, created_at, updated_at
		FROM orders WHERE id = $1 AND active = TRUE`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.CustomerEmail, &order.IsPaid, &order.TransactionID, &order.PaymentDate,
		&order.TotalAmount, &order.Active, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order_repo.ErrNotFound
		}
		r.logger.Error("Failed to get order by ID", zap.Int64("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}

	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	return order, nil
}

func (r *pgOrderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	itemsByOrder := make(map[int64][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return itemsByOrder, nil
	}

	query := `SELECT id, order_id, product_name, quantity FROM order_items WHERE order_id = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		r.logger.Error("Failed to query order items", zap.Error(err))
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var orderID int64
		if err := rows.Scan(&item.ID, &orderID, &item.ProductName, &item.Quantity); err != nil {
			r.logger.Error("Failed to scan order item row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}
		itemsByOrder[orderID] = append(itemsByOrder[orderID], item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return itemsByOrder, nil
}

func (r *pgOrderRepository) Update(ctx context.Context, order *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction for order update", zap.Int64("order_id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
			if err != nil {
				r.logger.Error("Failed to commit transaction for order update", zap.Int64("order_id", order.ID), zap.Error(err))
			}
		}
	}()

	query := `UPDATE orders SET customer_email = $2, is_paid = $3, transaction_id = $4, payment_date = $5,
		total_amount = $6, active = $7, updated_at = $8 WHERE id = $1`
	res, err := tx.ExecContext(ctx, query,
		order.ID, order.CustomerEmail, order.IsPaid, order.TransactionID, order.PaymentDate,
		order.TotalAmount, order.Active, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order %d: %w", order.ID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("No rows affected when updating order", zap.Int64("order_id", order.ID))
		err = order_repo.ErrNotFound
		return err
	}

	// Items are append-only; unsaved ones have no ID yet.
	for i := range order.Items {
		if order.Items[i].ID != 0 {
			continue
		}
		if err = r.insertItemTx(ctx, tx, order.ID, &order.Items[i]); err != nil {
			return err
		}
	}
	r.logger.Debug("Order updated successfully", zap.Int64("order_id", order.ID))
	return err
}

func (r *pgOrderRepository) SoftDelete(ctx context.Context, order *domain.Order) error {
	query := `UPDATE orders SET active = FALSE, updated_at = $2 WHERE id = $1 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, order.ID, order.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to soft delete order", zap.Int64("order_id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to soft delete order %d: %w", order.ID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check soft delete result: %w", err)
	}
	if rowsAffected == 0 {
		return order_repo.ErrNotFound
	}
	order.Active = false
	r.logger.Debug("Order soft deleted", zap.Int64("order_id", order.ID))
	return nil
}

func (r *pgOrderRepository) List(ctx context.Context, filter order_repo.ListFilter) ([]*domain.Order, int, error) {
	conditions := []string{"active = TRUE"}
	args := []any{}

	if filter.CustomerEmail != "" {
		args = append(args, "%"+filter.CustomerEmail+"%")
		conditions = append(conditions, fmt.Sprintf("customer_email ILIKE $%d", len(args)))
	}
	if filter.MinTotal != nil {
		args = append(args, *filter.MinTotal)
		conditions = append(conditions, fmt.Sprintf("total_amount >= $%d", len(args)))
	}
	if filter.MaxTotal != nil {
		args = append(args, *filter.MaxTotal)
		conditions = append(conditions, fmt.Sprintf("total_amount <= $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM orders WHERE " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		r.logger.Error("Failed to count orders", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	offset := (filter.Page - 1) * filter.PageSize
	args = append(args, filter.PageSize, offset)
	listQuery := fmt.Sprintf(
		`SELECT id, customer_email, is_paid, transaction_id, payment_date, total_amount, active, created_at, updated_at
		FROM orders WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, column, direction, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		r.logger.Error("Failed to query orders", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	var orderIDs []int64
	for rows.Next() {
		order := &domain.Order{}
		if err := rows.Scan(
			&order.ID, &order.CustomerEmail, &order.IsPaid, &order.TransactionID, &order.PaymentDate,
			&order.TotalAmount, &order.Active, &order.CreatedAt, &order.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan order row", zap.Error(err))
			return nil, 0, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	itemsByOrder, err := r.loadItems(ctx, orderIDs)
	if err != nil {
		return nil, 0, err
	}
	for _, order := range orders {
		order.Items = itemsByOrder[order.ID]
	}
	return orders, totalCount, nil
}
