package domain

import (
	"errors"
	"fmt"
	"time"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindStateConflict
)

// Error is the error type returned by the order domain and use-case layer.
// Context carries key/value diagnostics for structured logging; it is never
// part of the error identity.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// With attaches a diagnostic key/value pair and returns the same error.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Context: make(map[string]any)}
}

// IsKind reports whether err is (or wraps) a domain Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

func NewOrderNotFoundError(orderID int64) *Error {
	return newError(KindNotFound, "ORDER_NOT_FOUND",
		fmt.Sprintf("order with ID %d was not found", orderID)).
		With("order_id", orderID)
}

func NewInvalidCustomerEmailError(email string) *Error {
	return newError(KindValidation, "INVALID_CUSTOMER_EMAIL",
		"customer email cannot be empty").
		With("customer_email", email)
}

func NewInvalidOrderItemError(productName string, quantity int, reason string) *Error {
	return newError(KindValidation, "INVALID_ORDER_ITEM",
		fmt.Sprintf("invalid order item: %s", reason)).
		With("product_name", productName).
		With("quantity", quantity)
}

func NewOrderCalculationError(reason string, itemCount int) *Error {
	return newError(KindValidation, "ORDER_CALCULATION_ERROR",
		fmt.Sprintf("order calculation failed: %s", reason)).
		With("item_count", itemCount)
}

func NewInvalidOrderOperationError(operation, reason string, orderID int64) *Error {
	return newError(KindValidation, "INVALID_ORDER_OPERATION",
		fmt.Sprintf("cannot perform operation %q: %s", operation, reason)).
		With("operation", operation).
		With("order_id", orderID)
}

func NewInvalidSortFieldError(field string) *Error {
	return newError(KindValidation, "INVALID_SORT_FIELD",
		fmt.Sprintf("invalid sort field: %s", field)).
		With("sort_field", field)
}

func NewInvalidPaymentError(reason string) *Error {
	return newError(KindValidation, "INVALID_PAYMENT",
		fmt.Sprintf("invalid payment: %s", reason))
}

func NewInvalidPaymentStateError(operation, transactionID string) *Error {
	return newError(KindStateConflict, "INVALID_PAYMENT_STATE",
		fmt.Sprintf("cannot perform %q on an already paid order", operation)).
		With("existing_transaction_id", transactionID)
}

func NewDuplicatePaymentError(orderID int64, transactionID string, paymentDate *time.Time) *Error {
	e := newError(KindStateConflict, "DUPLICATE_PAYMENT_ATTEMPT", "order is already paid").
		With("order_id", orderID).
		With("existing_transaction_id", transactionID)
	if paymentDate != nil {
		e.With("payment_date", paymentDate.UTC())
	}
	return e
}
