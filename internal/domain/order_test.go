package domain

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", order.CustomerEmail)
	assert.False(t, order.IsPaid)
	assert.Empty(t, order.TransactionID)
	assert.Nil(t, order.PaymentDate)
	assert.True(t, order.Active)
	assert.True(t, order.TotalAmount.IsZero())

	events := order.PendingEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", created.CustomerEmail)
	assert.Zero(t, created.ItemCount)
	assert.NotEmpty(t, created.EventID)
	assert.False(t, created.OccurredAt().IsZero())
}

func TestNewOrder_EmptyEmail(t *testing.T) {
	for _, email := range []string{"", "   ", "\t"} {
		_, err := NewOrder(email)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindValidation))
	}
}

func TestAddItem(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	order.ClearEvents()

	require.NoError(t, order.AddItem("Widget", 2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Quantity)

	events := order.PendingEvents()
	require.Len(t, events, 1)
	added, ok := events[0].(*OrderItemAddedEvent)
	require.True(t, ok)
	assert.Equal(t, "Widget", added.ProductName)
	assert.Equal(t, 2, added.Quantity)
	assert.Equal(t, "a@b.com", added.CustomerEmail)
}

func TestAddItem_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		quantity    int
	}{
		{"blank name", "   ", 1},
		{"empty name", "", 1},
		{"zero quantity", "Widget", 0},
		{"negative quantity", "Widget", -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder("a@b.com")
			require.NoError(t, err)
			order.ClearEvents()

			err = order.AddItem(tt.productName, tt.quantity)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindValidation))

			// rejection leaves the aggregate untouched
			assert.Empty(t, order.Items)
			assert.Empty(t, order.PendingEvents())
		})
	}
}

func TestCalculateTotalAmount(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	require.NoError(t, order.AddItem("Widget", 2))

	total, err := order.CalculateTotalAmount()
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(20)), "expected 20.00, got %s", total)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(20)))
}

func TestCalculateTotalAmount_MultipleItems(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	require.NoError(t, order.AddItem("Widget", 2))
	require.NoError(t, order.AddItem("Gadget", 3))

	total, err := order.CalculateTotalAmount()
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(50)))
}

func TestCalculateTotalAmount_NoItems(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)

	_, err = order.CalculateTotalAmount()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.True(t, order.TotalAmount.IsZero())
}

func TestSetTotalAmount(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)

	require.NoError(t, order.SetTotalAmount(decimal.NewFromFloat(12.34)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(12.34)))

	err = order.SetTotalAmount(decimal.NewFromInt(-1))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(12.34)))
}

func TestInitiatePayment_QueuesEventOnly(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	order.ClearEvents()

	order.InitiatePayment(decimal.NewFromInt(50), "USD", "card")

	assert.False(t, order.IsPaid)
	assert.Empty(t, order.TransactionID)

	events := order.PendingEvents()
	require.Len(t, events, 1)
	initiated, ok := events[0].(*PaymentInitiatedEvent)
	require.True(t, ok)
	assert.True(t, initiated.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "USD", initiated.Currency)
	assert.Equal(t, "card", initiated.PaymentMethod)
}

func TestMarkPaid(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	require.NoError(t, order.SetTotalAmount(decimal.NewFromInt(50)))
	order.ClearEvents()

	paymentDate := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, order.MarkPaid("TXN_abc", paymentDate))

	assert.True(t, order.IsPaid)
	assert.Equal(t, "TXN_abc", order.TransactionID)
	require.NotNil(t, order.PaymentDate)
	assert.Equal(t, paymentDate, *order.PaymentDate)

	events := order.PendingEvents()
	require.Len(t, events, 1)
	paid, ok := events[0].(*PaymentSuccessfulEvent)
	require.True(t, ok)
	assert.Equal(t, "TXN_abc", paid.TransactionID)
	assert.True(t, paid.ProcessedAmount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, paymentDate, paid.PaymentDate)
}

func TestMarkPaid_AlreadyPaid(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	require.NoError(t, order.MarkPaid("TXN_first", time.Now()))
	order.ClearEvents()

	err = order.MarkPaid("TXN_second", time.Now())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindStateConflict))

	var domErr *Error
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "TXN_first", domErr.Context["existing_transaction_id"])

	assert.Equal(t, "TXN_first", order.TransactionID)
	assert.Empty(t, order.PendingEvents())
}

func TestMarkPaid_BlankTransactionID(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	order.ClearEvents()

	err = order.MarkPaid("   ", time.Now())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, order.IsPaid)
	assert.Empty(t, order.PendingEvents())
}

func TestRecordPaymentFailure(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	order.ClearEvents()

	order.RecordPaymentFailure(decimal.NewFromInt(50), "USD", "card", "Payment method declined")

	assert.False(t, order.IsPaid)
	assert.Empty(t, order.TransactionID)

	events := order.PendingEvents()
	require.Len(t, events, 1)
	failed, ok := events[0].(*PaymentFailedEvent)
	require.True(t, ok)
	assert.Equal(t, "Payment method declined", failed.FailureReason)
	assert.True(t, failed.AttemptedAmount.Equal(decimal.NewFromInt(50)))
}

func TestRename(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)

	require.NoError(t, order.Rename("new@b.com"))
	assert.Equal(t, "new@b.com", order.CustomerEmail)

	err = order.Rename("  ")
	require.Error(t, err)
	assert.Equal(t, "new@b.com", order.CustomerEmail)
}

func TestDeactivate(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	order.Deactivate()
	assert.False(t, order.Active)
}

func TestEventsAccumulateInOrder(t *testing.T) {
	order, err := NewOrder("a@b.com")
	require.NoError(t, err)
	require.NoError(t, order.AddItem("Widget", 1))
	order.InitiatePayment(decimal.NewFromInt(10), "USD", "card")

	events := order.PendingEvents()
	require.Len(t, events, 3)
	assert.Equal(t, OrderCreatedEventName, events[0].Type())
	assert.Equal(t, OrderItemAddedEventName, events[1].Type())
	assert.Equal(t, PaymentInitiatedEventName, events[2].Type())

	order.ClearEvents()
	assert.Empty(t, order.PendingEvents())
}

// TestPaymentInvariants drives the aggregate through random transition
// sequences and checks the payment invariants after every step.
func TestPaymentInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		order, err := NewOrder("a@b.com")
		require.NoError(t, err)

		for step := 0; step < 20; step++ {
			switch rng.Intn(6) {
			case 0:
				_ = order.AddItem(fmt.Sprintf("Product-%d", step), rng.Intn(5)-1)
			case 1:
				_, _ = order.CalculateTotalAmount()
			case 2:
				_ = order.SetTotalAmount(decimal.NewFromInt(int64(rng.Intn(200) - 50)))
			case 3:
				order.InitiatePayment(decimal.NewFromInt(int64(rng.Intn(100))), "USD", "card")
			case 4:
				_ = order.MarkPaid(fmt.Sprintf("TXN_%d", rng.Intn(3)), time.Now())
			case 5:
				order.RecordPaymentFailure(decimal.NewFromInt(int64(rng.Intn(100))), "USD", "card", "declined")
			}

			if order.IsPaid {
				require.NotEmpty(t, order.TransactionID)
				require.NotNil(t, order.PaymentDate)
			}
			require.False(t, order.TotalAmount.IsNegative())
		}
	}
}
