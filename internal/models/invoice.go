package models

import (
	"time"
)

// InvoiceStatus is derived from the invoice balance and cancellation flag.
// It is recomputed after every mutation, never edited directly.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoicePending       InvoiceStatus = "PENDING"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage" // value is a fraction in [0,1]
	DiscountFixed      DiscountType = "fixed"      // value is an absolute amount
)

// PaymentMethod enumerates how money was received at the desk.
type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "cash"
	PaymentCard      PaymentMethod = "card"
	PaymentTransfer  PaymentMethod = "transfer"
	PaymentInsurance PaymentMethod = "insurance"
)

// Invoice is the billing document for a patient visit. The five derived
// monetary fields are maintained by the billing engine; after every
// mutation totalAmount = subtotal - discountAmount + taxAmount and
// balanceAmount = totalAmount - paidAmount.
type Invoice struct {
	BaseModel
	InvoiceNumber string `gorm:"uniqueIndex;size:32" json:"invoiceNumber"`
	PatientID     uint   `gorm:"index" json:"patientId"`
	AppointmentID *uint  `gorm:"index" json:"appointmentId,omitempty"`

	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments"`

	DiscountType  DiscountType `gorm:"size:20;default:'fixed'" json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	TaxRate       float64      `json:"taxRate"` // fraction, e.g. 0.05

	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	TotalAmount    float64 `json:"totalAmount"`
	PaidAmount     float64 `json:"paidAmount"`
	BalanceAmount  float64 `json:"balanceAmount"`

	Status      InvoiceStatus `gorm:"size:20;default:'DRAFT'" json:"status"`
	CancelledAt *time.Time    `json:"cancelledAt,omitempty"`

	// Relations
	Patient     Patient      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}

// InvoiceItem is one billed line. Description and price are copied from the
// service catalog at billing time.
type InvoiceItem struct {
	BaseModel
	InvoiceID   uint    `gorm:"index" json:"invoiceId"`
	ServiceID   *uint   `json:"serviceId,omitempty"`
	Description string  `gorm:"size:255;not null" json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"` // quantity * unitPrice
}

// Payment records money received against an invoice. Immutable once
// created; ordering by PaidAt is preserved for payment history.
type Payment struct {
	BaseModel
	PaymentNumber string        `gorm:"uniqueIndex;size:32" json:"paymentNumber"`
	InvoiceID     uint          `gorm:"index" json:"invoiceId"`
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `gorm:"size:20" json:"method"`
	Reference     string        `gorm:"size:100" json:"reference,omitempty"`
	Notes         string        `gorm:"size:255" json:"notes,omitempty"`
	PaidAt        time.Time     `json:"paidAt"`
}
