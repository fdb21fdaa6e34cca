package billing

import (
	"math"
	"time"

	"hospital-frontdesk-server/internal/apperr"
	"hospital-frontdesk-server/internal/models"
)

// Engine owns the monetary fields of an invoice. Every mutation recomputes
// subtotal, discountAmount, taxAmount, totalAmount, paidAmount and
// balanceAmount, then re-derives status, so the fields can never drift
// apart. AllowOverpayment switches the payment policy: strict (reject a
// payment above the open balance) by default, or accept and leave the
// balance negative as patient credit.
type Engine struct {
	AllowOverpayment bool
	Now              func() time.Time
}

// NewEngine returns an Engine with the strict overpayment policy, running
// on the wall clock.
func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

// AddItem appends a line item and recomputes the derived fields.
func (e *Engine) AddItem(inv *models.Invoice, item models.InvoiceItem) error {
	if err := checkOpen(inv); err != nil {
		return err
	}
	if item.Quantity <= 0 {
		return apperr.InvalidAmount("quantity", item.Quantity, "quantity must be positive")
	}
	if item.UnitPrice < 0 {
		return apperr.InvalidAmount("unitPrice", item.UnitPrice, "unit price cannot be negative")
	}
	item.InvoiceID = inv.ID
	item.TotalPrice = round2(float64(item.Quantity) * item.UnitPrice)
	inv.Items = append(inv.Items, item)
	Recalculate(inv)
	return nil
}

// ApplyDiscount sets the discount specification and recomputes the derived
// fields. Percentage values given on the 0-100 scale are normalized to a
// fraction.
func (e *Engine) ApplyDiscount(inv *models.Invoice, discountType models.DiscountType, value float64) error {
	if err := checkOpen(inv); err != nil {
		return err
	}
	switch discountType {
	case models.DiscountPercentage:
		if value < 0 || value > 100 {
			return apperr.InvalidAmount("discountValue", value, "percentage discount must be between 0 and 100")
		}
		if value > 1 {
			value = value / 100
		}
	case models.DiscountFixed:
		if value < 0 || value > inv.Subtotal {
			return apperr.InvalidAmount("discountValue", value, "fixed discount must be between 0 and the subtotal")
		}
	default:
		return apperr.InvalidAmount("discountType", string(discountType), "unknown discount type")
	}
	inv.DiscountType = discountType
	inv.DiscountValue = value
	Recalculate(inv)
	return nil
}

// RecordPayment appends a payment and recomputes the derived fields. The
// returned payment carries its generated number and PaidAt stamp.
func (e *Engine) RecordPayment(inv *models.Invoice, amount float64, method models.PaymentMethod, reference, notes string) (*models.Payment, error) {
	if inv.Status == models.InvoiceCancelled {
		return nil, apperr.InvoiceLocked(string(inv.Status))
	}
	if amount <= 0 {
		return nil, apperr.InvalidAmount("amount", amount, "payment amount must be positive")
	}
	if !e.AllowOverpayment && round2(amount) > inv.BalanceAmount {
		return nil, apperr.Overpayment(amount, inv.BalanceAmount)
	}
	payment := models.Payment{
		PaymentNumber: models.NewEntityNumber("PAY"),
		InvoiceID:     inv.ID,
		Amount:        round2(amount),
		Method:        method,
		Reference:     reference,
		Notes:         notes,
		PaidAt:        e.Now(),
	}
	inv.Payments = append(inv.Payments, payment)
	Recalculate(inv)
	return &inv.Payments[len(inv.Payments)-1], nil
}

// CancelInvoice marks the invoice cancelled. Legal unless already paid;
// irreversible, items and payments become immutable.
func (e *Engine) CancelInvoice(inv *models.Invoice) error {
	if inv.Status == models.InvoicePaid {
		return apperr.InvoiceLocked(string(inv.Status))
	}
	if inv.Status == models.InvoiceCancelled {
		return nil
	}
	now := e.Now()
	inv.CancelledAt = &now
	Recalculate(inv)
	return nil
}

// Totals is the result of a pure preview computation.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	TotalAmount    float64 `json:"totalAmount"`
	PaidAmount     float64 `json:"paidAmount"`
	BalanceAmount  float64 `json:"balanceAmount"`
}

// ComputeTotals derives the monetary fields from scratch. Tax always
// applies to the post-discount subtotal, never on amounts already
// including tax. Everything is rounded to cents.
func ComputeTotals(items []models.InvoiceItem, discountType models.DiscountType, discountValue, taxRate float64, payments []models.Payment) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += float64(item.Quantity) * item.UnitPrice
	}
	t.Subtotal = round2(t.Subtotal)

	switch discountType {
	case models.DiscountPercentage:
		frac := discountValue
		if frac > 1 {
			frac = frac / 100
		}
		t.DiscountAmount = round2(t.Subtotal * frac)
	case models.DiscountFixed:
		t.DiscountAmount = round2(math.Min(discountValue, t.Subtotal))
	}

	t.TaxAmount = round2((t.Subtotal - t.DiscountAmount) * taxRate)
	t.TotalAmount = round2(t.Subtotal - t.DiscountAmount + t.TaxAmount)

	for _, p := range payments {
		t.PaidAmount += p.Amount
	}
	t.PaidAmount = round2(t.PaidAmount)
	t.BalanceAmount = round2(t.TotalAmount - t.PaidAmount)
	return t
}

// Recalculate refreshes the derived fields and status of an invoice in
// place.
func Recalculate(inv *models.Invoice) {
	t := ComputeTotals(inv.Items, inv.DiscountType, inv.DiscountValue, inv.TaxRate, inv.Payments)
	inv.Subtotal = t.Subtotal
	inv.DiscountAmount = t.DiscountAmount
	inv.TaxAmount = t.TaxAmount
	inv.TotalAmount = t.TotalAmount
	inv.PaidAmount = t.PaidAmount
	inv.BalanceAmount = t.BalanceAmount
	inv.Status = DeriveStatus(inv)
}

// DeriveStatus computes invoice status purely from the cancellation flag,
// the balance and the presence of items/payments.
func DeriveStatus(inv *models.Invoice) models.InvoiceStatus {
	switch {
	case inv.CancelledAt != nil:
		return models.InvoiceCancelled
	case inv.BalanceAmount <= 0 && inv.PaidAmount > 0:
		return models.InvoicePaid
	case inv.PaidAmount > 0 && inv.PaidAmount < inv.TotalAmount:
		return models.InvoicePartiallyPaid
	case len(inv.Items) > 0:
		return models.InvoicePending
	default:
		return models.InvoiceDraft
	}
}

func checkOpen(inv *models.Invoice) error {
	if inv.Status == models.InvoicePaid || inv.Status == models.InvoiceCancelled {
		return apperr.InvoiceLocked(string(inv.Status))
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
