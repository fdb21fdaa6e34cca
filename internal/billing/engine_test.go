package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-frontdesk-server/internal/apperr"
	"hospital-frontdesk-server/internal/models"
)

func testEngine() *Engine {
	return &Engine{Now: func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	}}
}

func TestEngine_AddItemComputesTotals(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{TaxRate: 0.05}

	err := e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 2, UnitPrice: 50.00})
	require.NoError(t, err)

	assert.Equal(t, 100.00, inv.Subtotal)
	assert.Equal(t, 100.00, inv.Items[0].TotalPrice)
	assert.Equal(t, 5.00, inv.TaxAmount)
	assert.Equal(t, 105.00, inv.TotalAmount)
	assert.Equal(t, 105.00, inv.BalanceAmount)
	assert.Equal(t, models.InvoicePending, inv.Status)
}

func TestEngine_FixedDiscountAndTax(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{TaxRate: 0.05}
	require.NoError(t, e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 2, UnitPrice: 50.00}))
	require.NoError(t, e.ApplyDiscount(inv, models.DiscountFixed, 10.00))

	assert.Equal(t, 100.00, inv.Subtotal)
	assert.Equal(t, 10.00, inv.DiscountAmount)
	// Tax applies to the post-discount subtotal: (100-10) * 0.05
	assert.Equal(t, 4.50, inv.TaxAmount)
	assert.Equal(t, 94.50, inv.TotalAmount)
	assert.Equal(t, 94.50, inv.BalanceAmount)
}

func TestEngine_PercentageDiscountNormalized(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{}
	require.NoError(t, e.AddItem(inv, models.InvoiceItem{Description: "Lab panel", Quantity: 1, UnitPrice: 200.00}))

	// Given on the 0-100 scale, stored as a fraction.
	require.NoError(t, e.ApplyDiscount(inv, models.DiscountPercentage, 25))
	assert.Equal(t, 0.25, inv.DiscountValue)
	assert.Equal(t, 50.00, inv.DiscountAmount)
	assert.Equal(t, 150.00, inv.TotalAmount)

	// Given as a fraction, stored as-is.
	require.NoError(t, e.ApplyDiscount(inv, models.DiscountPercentage, 0.1))
	assert.Equal(t, 20.00, inv.DiscountAmount)
	assert.Equal(t, 180.00, inv.TotalAmount)
}

func TestEngine_DiscountValidation(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{}
	require.NoError(t, e.AddItem(inv, models.InvoiceItem{Description: "X-ray", Quantity: 1, UnitPrice: 80.00}))

	assert.ErrorIs(t, e.ApplyDiscount(inv, models.DiscountPercentage, -5), apperr.ErrInvalidAmount)
	assert.ErrorIs(t, e.ApplyDiscount(inv, models.DiscountPercentage, 101), apperr.ErrInvalidAmount)
	assert.ErrorIs(t, e.ApplyDiscount(inv, models.DiscountFixed, -1), apperr.ErrInvalidAmount)
	assert.ErrorIs(t, e.ApplyDiscount(inv, models.DiscountFixed, 80.01), apperr.ErrInvalidAmount)
	assert.ErrorIs(t, e.ApplyDiscount(inv, models.DiscountType("weird"), 1), apperr.ErrInvalidAmount)
}

func TestEngine_AddItemValidation(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{}

	err := e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 0, UnitPrice: 50})
	assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	err = e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: -1, UnitPrice: 50})
	assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	err = e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 1, UnitPrice: -0.01})
	assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	assert.Empty(t, inv.Items)
	assert.Equal(t, models.InvoiceDraft, inv.Status)
}

func TestEngine_PaymentsDriveStatus(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{TaxRate: 0.05}
	require.NoError(t, e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 2, UnitPrice: 50.00}))
	require.NoError(t, e.ApplyDiscount(inv, models.DiscountFixed, 10.00))
	require.Equal(t, 94.50, inv.TotalAmount)

	// Partial payment
	p, err := e.RecordPayment(inv, 50.00, models.PaymentCash, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, p.PaymentNumber)
	assert.Equal(t, 50.00, inv.PaidAmount)
	assert.Equal(t, 44.50, inv.BalanceAmount)
	assert.Equal(t, models.InvoicePartiallyPaid, inv.Status)

	// Settling payment
	_, err = e.RecordPayment(inv, 44.50, models.PaymentCard, "txn-991", "")
	require.NoError(t, err)
	assert.Equal(t, 94.50, inv.PaidAmount)
	assert.Equal(t, 0.00, inv.BalanceAmount)
	assert.Equal(t, models.InvoicePaid, inv.Status)
}

func TestEngine_OverpaymentRejectedByDefault(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{TaxRate: 0.05}
	require.NoError(t, e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 2, UnitPrice: 50.00}))
	require.NoError(t, e.ApplyDiscount(inv, models.DiscountFixed, 10.00))
	_, err := e.RecordPayment(inv, 50.00, models.PaymentCash, "", "")
	require.NoError(t, err)

	_, err = e.RecordPayment(inv, 100.00, models.PaymentCash, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrOverpaymentNotAllowed)
	assert.Equal(t, 50.00, inv.PaidAmount, "rejected payment must not change paidAmount")
	assert.Equal(t, 44.50, inv.BalanceAmount)
	assert.Len(t, inv.Payments, 1)
}

func TestEngine_OverpaymentAcceptedWhenConfigured(t *testing.T) {
	e := testEngine()
	e.AllowOverpayment = true
	inv := &models.Invoice{}
	require.NoError(t, e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 1, UnitPrice: 40.00}))

	_, err := e.RecordPayment(inv, 100.00, models.PaymentCash, "", "")
	require.NoError(t, err)
	assert.Equal(t, -60.00, inv.BalanceAmount, "credit stays on the invoice")
	assert.Equal(t, models.InvoicePaid, inv.Status)
}

func TestEngine_PaymentValidation(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{}
	require.NoError(t, e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 1, UnitPrice: 40.00}))

	_, err := e.RecordPayment(inv, 0, models.PaymentCash, "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	_, err = e.RecordPayment(inv, -5, models.PaymentCash, "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
}

func TestEngine_LockedInvoices(t *testing.T) {
	e := testEngine()

	// Paid invoices refuse more items.
	paid := &models.Invoice{}
	require.NoError(t, e.AddItem(paid, models.InvoiceItem{Description: "Consultation", Quantity: 1, UnitPrice: 40.00}))
	_, err := e.RecordPayment(paid, 40.00, models.PaymentCash, "", "")
	require.NoError(t, err)
	require.Equal(t, models.InvoicePaid, paid.Status)
	assert.ErrorIs(t, e.AddItem(paid, models.InvoiceItem{Description: "Extra", Quantity: 1, UnitPrice: 1}), apperr.ErrInvoiceLocked)
	assert.ErrorIs(t, e.ApplyDiscount(paid, models.DiscountFixed, 1), apperr.ErrInvoiceLocked)

	// Cancelled invoices refuse everything.
	cancelled := &models.Invoice{}
	require.NoError(t, e.AddItem(cancelled, models.InvoiceItem{Description: "Consultation", Quantity: 1, UnitPrice: 40.00}))
	require.NoError(t, e.CancelInvoice(cancelled))
	require.Equal(t, models.InvoiceCancelled, cancelled.Status)
	assert.ErrorIs(t, e.AddItem(cancelled, models.InvoiceItem{Description: "Extra", Quantity: 1, UnitPrice: 1}), apperr.ErrInvoiceLocked)
	_, err = e.RecordPayment(cancelled, 10, models.PaymentCash, "", "")
	assert.ErrorIs(t, err, apperr.ErrInvoiceLocked)
}

func TestEngine_CancelPaidInvoiceRejected(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{}
	require.NoError(t, e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 1, UnitPrice: 40.00}))
	_, err := e.RecordPayment(inv, 40.00, models.PaymentCash, "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, e.CancelInvoice(inv), apperr.ErrInvoiceLocked)
	assert.Equal(t, models.InvoicePaid, inv.Status)
}

func TestEngine_InvariantsHoldAcrossMutations(t *testing.T) {
	e := testEngine()
	inv := &models.Invoice{TaxRate: 0.075}

	steps := []func() error{
		func() error { return e.AddItem(inv, models.InvoiceItem{Description: "Consultation", Quantity: 1, UnitPrice: 120.00}) },
		func() error { return e.AddItem(inv, models.InvoiceItem{Description: "Blood test", Quantity: 3, UnitPrice: 15.33}) },
		func() error { return e.ApplyDiscount(inv, models.DiscountPercentage, 10) },
		func() error { _, err := e.RecordPayment(inv, 25.00, models.PaymentCash, "", ""); return err },
		func() error { return e.AddItem(inv, models.InvoiceItem{Description: "Dressing", Quantity: 2, UnitPrice: 4.25}) },
		func() error { _, err := e.RecordPayment(inv, 60.00, models.PaymentTransfer, "ref", ""); return err },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assert.InDelta(t, inv.Subtotal-inv.DiscountAmount+inv.TaxAmount, inv.TotalAmount, 0.001, "step %d", i)
		assert.InDelta(t, inv.TotalAmount-inv.PaidAmount, inv.BalanceAmount, 0.001, "step %d", i)
	}
}

func TestComputeTotals_RoundsToCents(t *testing.T) {
	items := []models.InvoiceItem{{Quantity: 3, UnitPrice: 33.333}}
	totals := ComputeTotals(items, models.DiscountPercentage, 0.1, 0.07, nil)

	assert.Equal(t, 100.00, totals.Subtotal)
	assert.Equal(t, 10.00, totals.DiscountAmount)
	assert.Equal(t, 6.30, totals.TaxAmount)
	assert.Equal(t, 96.30, totals.TotalAmount)
}

func TestDeriveStatus(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		inv  models.Invoice
		want models.InvoiceStatus
	}{
		{"empty", models.Invoice{}, models.InvoiceDraft},
		{"items unpaid", models.Invoice{Items: []models.InvoiceItem{{}}, TotalAmount: 50, BalanceAmount: 50}, models.InvoicePending},
		{"partial", models.Invoice{Items: []models.InvoiceItem{{}}, TotalAmount: 50, PaidAmount: 20, BalanceAmount: 30}, models.InvoicePartiallyPaid},
		{"paid", models.Invoice{Items: []models.InvoiceItem{{}}, TotalAmount: 50, PaidAmount: 50, BalanceAmount: 0}, models.InvoicePaid},
		{"cancelled wins", models.Invoice{CancelledAt: &now, Items: []models.InvoiceItem{{}}, TotalAmount: 50, PaidAmount: 20, BalanceAmount: 30}, models.InvoiceCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(&tt.inv))
		})
	}
}
