package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orderhub/internal/domain"
	"orderhub/internal/event"
	"orderhub/internal/gateway"
	"orderhub/internal/repository/order_repo"
)

const (
	defaultCurrency = "USD"
	defaultPageSize = 10
	maxPageSize     = 100
)

var validSortFields = map[string]struct{}{
	"id":             {},
	"customer_email": {},
	"total_amount":   {},
	"is_paid":        {},
	"payment_date":   {},
}

type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, orderID int64) (*OrderResponse, error)
	ListOrders(ctx context.Context, query *ListOrdersQuery) (*PaginatedOrders, error)
	UpdateOrder(ctx context.Context, orderID int64, req *UpdateOrderRequest) (*OrderResponse, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	ProcessPayment(ctx context.Context, orderID int64, req *ProcessPaymentRequest) (*PaymentResultResponse, error)
}

type orderService struct {
	orderRepo      order_repo.OrderRepository
	gateway        gateway.PaymentGateway
	publisher      *event.Publisher
	gatewayTimeout time.Duration
	logger         *zap.Logger
}

func NewOrderService(
	orderRepo order_repo.OrderRepository,
	paymentGateway gateway.PaymentGateway,
	publisher *event.Publisher,
	gatewayTimeout time.Duration,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		gateway:        paymentGateway,
		publisher:      publisher,
		gatewayTimeout: gatewayTimeout,
		logger:         logger,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	order, err := domain.NewOrder(req.CustomerEmail)
	if err != nil {
		s.logger.Warn("Rejected order creation", zap.Error(err))
		return nil, err
	}
	for _, item := range req.Items {
		if err := order.AddItem(item.ProductName, item.Quantity); err != nil {
			s.logger.Warn("Rejected order item",
				zap.String("product_name", item.ProductName),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			return nil, err
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to save new order", zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publisher.PublishAll(ctx, order)

	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("customer_email", order.CustomerEmail),
		zap.Int("item_count", len(order.Items)))
	return mapOrderToResponse(order), nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*OrderResponse, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return mapOrderToResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, query *ListOrdersQuery) (*PaginatedOrders, error) {
	sortBy := strings.ToLower(query.SortBy)
	if sortBy != "" {
		if _, ok := validSortFields[sortBy]; !ok {
			return nil, domain.NewInvalidSortFieldError(query.SortBy)
		}
	}
	sortOrder := strings.ToLower(query.SortOrder)
	if sortOrder == "" {
		sortOrder = "asc"
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := order_repo.ListFilter{
		CustomerEmail: query.CustomerEmail,
		MinTotal:      query.MinTotal,
		MaxTotal:      query.MaxTotal,
		SortBy:        sortBy,
		Descending:    sortOrder == "desc",
		Page:          page,
		PageSize:      pageSize,
	}
	orders, totalCount, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	items := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, mapOrderToResponse(order))
	}
	totalPages := (totalCount + pageSize - 1) / pageSize
	return &PaginatedOrders{
		Items:       items,
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		SortBy:      sortBy,
		SortOrder:   sortOrder,
	}, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID int64, req *UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Rename(req.CustomerEmail); err != nil {
		s.logger.Warn("Rejected order update", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("Failed to update order", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	s.logger.Info("Order updated",
		zap.Int64("order_id", orderID),
		zap.String("customer_email", order.CustomerEmail))
	return mapOrderToResponse(order), nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID int64) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	order.Deactivate()
	if err := s.orderRepo.SoftDelete(ctx, order); err != nil {
		if errors.Is(err, order_repo.ErrNotFound) {
			return domain.NewOrderNotFoundError(orderID)
		}
		s.logger.Error("Failed to soft delete order", zap.Int64("order_id", orderID), zap.Error(err))
		return fmt.Errorf("failed to delete order: %w", err)
	}
	s.logger.Info("Order soft deleted", zap.Int64("order_id", orderID))
	return nil
}

// ProcessPayment runs the payment workflow: load and validate the order,
// publish the initiation event, call the gateway, record the outcome and
// publish the resulting events. A declined payment is a normal result with
// FAILED status; the order stays payable.
//
// There is no lock between load and save, so two concurrent calls for the
// same order can both pass the already-paid check. The last write wins.
func (s *orderService) ProcessPayment(ctx context.Context, orderID int64, req *ProcessPaymentRequest) (*PaymentResultResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	s.logger.Info("Processing payment",
		zap.Int64("order_id", orderID),
		zap.String("requested_amount", req.Amount.String()),
		zap.String("currency", currency),
		zap.String("payment_method", req.PaymentMethod))

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		s.logger.Warn("Duplicate payment attempt",
			zap.Int64("order_id", orderID),
			zap.String("existing_transaction_id", order.TransactionID),
			zap.Timep("payment_date", order.PaymentDate))
		return nil, domain.NewDuplicatePaymentError(orderID, order.TransactionID, order.PaymentDate)
	}

	if order.TotalAmount.IsZero() {
		s.logger.Debug("Calculating total amount", zap.Int64("order_id", orderID))
		if _, err := order.CalculateTotalAmount(); err != nil {
			s.logger.Warn("Payment rejected: cannot calculate order total",
				zap.Int64("order_id", orderID), zap.Error(err))
			return nil, err
		}
	}

	amountToProcess := order.TotalAmount
	if req.Amount.IsPositive() {
		amountToProcess = req.Amount
	}
	s.logger.Info("Initiating payment",
		zap.Int64("order_id", orderID),
		zap.String("customer_email", order.CustomerEmail),
		zap.String("final_amount", amountToProcess.String()),
		zap.String("currency", currency))

	order.InitiatePayment(amountToProcess, currency, req.PaymentMethod)
	s.publisher.PublishAll(ctx, order)

	result := s.callGateway(ctx, order, amountToProcess, currency, req.PaymentMethod)

	if result.Status == gateway.StatusSuccess {
		if err := order.MarkPaid(result.TransactionID, result.ProcessedAt); err != nil {
			return nil, err
		}
		if err := order.SetTotalAmount(result.ProcessedAmount); err != nil {
			return nil, err
		}
		if err := s.orderRepo.Update(ctx, order); err != nil {
			s.logger.Error("Failed to save paid order",
				zap.Int64("order_id", orderID),
				zap.String("transaction_id", result.TransactionID),
				zap.Error(err))
			return nil, fmt.Errorf("failed to save paid order: %w", err)
		}
		s.publisher.PublishAll(ctx, order)
		s.logger.Info("Payment successful",
			zap.Int64("order_id", orderID),
			zap.String("transaction_id", result.TransactionID),
			zap.String("processed_amount", result.ProcessedAmount.String()))
	} else {
		s.logger.Warn("Payment failed",
			zap.Int64("order_id", orderID),
			zap.String("status", string(result.Status)),
			zap.String("message", result.Message),
			zap.String("attempted_amount", amountToProcess.String()))
		reason := result.Message
		if reason == "" {
			reason = "payment processing failed"
		}
		order.RecordPaymentFailure(amountToProcess, currency, req.PaymentMethod, reason)
		s.publisher.PublishAll(ctx, order)
	}

	return &PaymentResultResponse{
		Status:          string(result.Status),
		TransactionID:   result.TransactionID,
		Message:         result.Message,
		ProcessedAmount: result.ProcessedAmount,
		ProcessedAt:     result.ProcessedAt,
	}, nil
}

// callGateway invokes the payment gateway under a bounded timeout. Transport
// errors and timeouts surface as a FAILED result, not as an error: a dead
// gateway is an expected business outcome for the caller.
func (s *orderService) callGateway(ctx context.Context, order *domain.Order, amount decimal.Decimal, currency, paymentMethod string) *gateway.PaymentResult {
	gatewayCtx := ctx
	if s.gatewayTimeout > 0 {
		var cancel context.CancelFunc
		gatewayCtx, cancel = context.WithTimeout(ctx, s.gatewayTimeout)
		defer cancel()
	}

	result, err := s.gateway.ProcessPayment(gatewayCtx, gateway.PaymentRequest{
		Amount:         amount,
		Currency:       currency,
		CustomerEmail:  order.CustomerEmail,
		OrderReference: fmt.Sprintf("ORDER_%d", order.ID),
		PaymentMethod:  paymentMethod,
	})
	if err != nil {
		s.logger.Error("Payment gateway call failed",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return &gateway.PaymentResult{
			Status:      gateway.StatusFailed,
			Message:     "payment gateway unavailable",
			ProcessedAt: time.Now().UTC(),
		}
	}
	return result
}

func (s *orderService) loadOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order_repo.ErrNotFound) {
			s.logger.Debug("Order not found", zap.Int64("order_id", orderID))
			return nil, domain.NewOrderNotFoundError(orderID)
		}
		s.logger.Error("Failed to load order", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	return order, nil
}

func mapOrderToResponse(order *domain.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	return &OrderResponse{
		ID:            order.ID,
		CustomerEmail: order.CustomerEmail,
		IsPaid:        order.IsPaid,
		TransactionID: order.TransactionID,
		PaymentDate:   order.PaymentDate,
		TotalAmount:   order.TotalAmount,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
