package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is derived from the detail sum and never written directly.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "Completed"
	PaymentPending   PaymentStatus = "Pending"
	PaymentInactive  PaymentStatus = "Inactive"
)

// Payment tracks what a payer owes. AmountPaid, RemainingBalance and Status
// are recomputed from the detail rows on every mutation that touches them.
type Payment struct {
	ID               int64           `json:"id"`
	Payer            string          `json:"payer"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	MaintenanceFee   decimal.Decimal `json:"maintenance_fee"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           PaymentStatus   `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PaymentDetail is a single transaction against a payment.
type PaymentDetail struct {
	ID          int64           `json:"id"`
	PaymentID   int64           `json:"payment_id"`
	ReceiptNo   string          `json:"receipt_no"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreatePaymentRequest is the body for POST /api/payments/create-new.
type CreatePaymentRequest struct {
	Payer          string          `json:"payer"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	MaintenanceFee decimal.Decimal `json:"maintenance_fee"`
}

// UpdatePaymentRequest is the body for PUT /api/payments/edit.
type UpdatePaymentRequest struct {
	Payer          *string          `json:"payer,omitempty"`
	AmountDue      *decimal.Decimal `json:"amount_due,omitempty"`
	MaintenanceFee *decimal.Decimal `json:"maintenance_fee,omitempty"`
}

// AddPaymentDetailRequest is the body for POST /api/payments/:id/add-payment.
type AddPaymentDetailRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date,omitempty"` // YYYY-MM-DD, defaults to today
	Note        string          `json:"note,omitempty"`
}

// UpdatePaymentDetailRequest is the body for PUT /api/payments/detail/:id/edit.
type UpdatePaymentDetailRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	PaymentDate *string          `json:"payment_date,omitempty"`
	Note        *string          `json:"note,omitempty"`
}
