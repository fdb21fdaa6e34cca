package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a category of domain rejection.
type Kind string

const (
	KindInvalidTransition     Kind = "INVALID_TRANSITION"
	KindInvalidAmount         Kind = "INVALID_AMOUNT"
	KindInvoiceLocked         Kind = "INVOICE_LOCKED"
	KindOverpaymentNotAllowed Kind = "OVERPAYMENT_NOT_ALLOWED"
	KindSlotConflict          Kind = "SLOT_CONFLICT"
)

// Sentinels for errors.Is checks.
var (
	ErrInvalidTransition     = &Error{Kind: KindInvalidTransition}
	ErrInvalidAmount         = &Error{Kind: KindInvalidAmount}
	ErrInvoiceLocked         = &Error{Kind: KindInvoiceLocked}
	ErrOverpaymentNotAllowed = &Error{Kind: KindOverpaymentNotAllowed}
	ErrSlotConflict          = &Error{Kind: KindSlotConflict}
)

// Error is a structured, recoverable domain rejection. Field and Value
// identify the offending input so the caller can highlight the exact
// control that caused it.
type Error struct {
	Kind    Kind        `json:"kind"`
	Field   string      `json:"field,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s, value %v)", e.Kind, e.Message, e.Field, e.Value)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

// Is matches on Kind so callers can test against the sentinels above.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// InvalidTransition reports an illegal status change.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Field:   "status",
		Value:   from,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// InvalidAmount reports a non-positive or out-of-range numeric input.
func InvalidAmount(field string, value interface{}, message string) *Error {
	return &Error{Kind: KindInvalidAmount, Field: field, Value: value, Message: message}
}

// InvoiceLocked reports a mutation against a paid or cancelled invoice.
func InvoiceLocked(status string) *Error {
	return &Error{
		Kind:    KindInvoiceLocked,
		Field:   "status",
		Value:   status,
		Message: "invoice is " + status + " and can no longer be modified",
	}
}

// Overpayment reports a payment exceeding the open balance under the
// strict policy.
func Overpayment(amount, balance float64) *Error {
	return &Error{
		Kind:    KindOverpaymentNotAllowed,
		Field:   "amount",
		Value:   amount,
		Message: fmt.Sprintf("payment %.2f exceeds open balance %.2f", amount, balance),
	}
}

// SlotTaken reports a booking collision on an exact (doctor, date, time) slot.
func SlotTaken(doctorID uint, date, timeStr string) *Error {
	return &Error{
		Kind:    KindSlotConflict,
		Field:   "scheduledTime",
		Value:   timeStr,
		Message: fmt.Sprintf("doctor %d already has an appointment on %s at %s", doctorID, date, timeStr),
	}
}
