package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orderhub/internal/app/orders"
	"orderhub/internal/domain"
)

type OrderHandler struct {
	service orders.OrderService
	logger  *zap.Logger
}

func NewOrderHandler(s orders.OrderService, l *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, logger: l}
}

type errorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (h *OrderHandler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response body", zap.Error(err))
	}
}

// respondError maps domain error kinds onto HTTP statuses: validation → 400,
// not found → 404, state conflict → 409. Everything else is a 500 with a
// generic body.
func (h *OrderHandler) respondError(w http.ResponseWriter, err error) {
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		status := http.StatusInternalServerError
		switch domErr.Kind {
		case domain.KindValidation:
			status = http.StatusBadRequest
		case domain.KindNotFound:
			status = http.StatusNotFound
		case domain.KindStateConflict:
			status = http.StatusConflict
		}
		h.respondJSON(w, status, errorResponse{
			Error:   domErr.Message,
			Code:    domErr.Code,
			Context: domErr.Context,
		})
		return
	}
	h.logger.Error("Unhandled error in HTTP handler", zap.Error(err))
	h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "orderID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		h.logger.Warn("Invalid order ID in request", zap.String("order_id", idStr))
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order ID"})
		return 0, false
	}
	return id, true
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for CreateOrder", zap.Error(err))
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	res, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, res)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	res, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		h.logger.Warn("Invalid list query", zap.Error(err))
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := h.service.ListOrders(r.Context(), query)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req orders.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for UpdateOrder", zap.Error(err))
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	res, err := h.service.UpdateOrder(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	var req orders.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for ProcessPayment", zap.Error(err))
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	res, err := h.service.ProcessPayment(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func parseListQuery(r *http.Request) (*orders.ListOrdersQuery, error) {
	q := r.URL.Query()
	query := &orders.ListOrdersQuery{
		CustomerEmail: q.Get("customer_email"),
		SortBy:        q.Get("sort_by"),
		SortOrder:     q.Get("sort_order"),
	}

	var err error
	if query.MinTotal, err = parseDecimalParam(q.Get("min_total"), "min_total"); err != nil {
		return nil, err
	}
	if query.MaxTotal, err = parseDecimalParam(q.Get("max_total"), "max_total"); err != nil {
		return nil, err
	}
	if query.Page, err = parseIntParam(q.Get("page"), "page"); err != nil {
		return nil, err
	}
	if query.PageSize, err = parseIntParam(q.Get("page_size"), "page_size"); err != nil {
		return nil, err
	}
	return query, nil
}

func parseDecimalParam(raw, name string) (*decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	return &value, nil
}

func parseIntParam(raw, name string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return value, nil
}
