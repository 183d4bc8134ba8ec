// Package payment contains the payment ledger domain model.
// The ledger is append-only: a payment is recorded once and only its
// status moves (pending -> received). Balances are always derived from
// received payments, never from pending ones.
package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// PaymentID represents the unique identifier of a ledger entry.
type PaymentID int64

// IsValid checks that the ID is positive.
func (id PaymentID) IsValid() bool {
	return id > 0
}

// Status is the confirmation state of a payment.
type Status string

const (
	// StatusPending - recorded by an agent, awaiting accounting validation.
	// Pending payments never count toward a student's balance.
	StatusPending Status = "pending"

	// StatusReceived - validated by accounting; counts toward the balance.
	StatusReceived Status = "received"
)

// IsValid checks that the status is a known value.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusReceived
}

// Payment is one entry in a student's payment ledger.
type Payment struct {
	// ID - internal unique identifier.
	ID PaymentID

	// StudentID - the student this payment belongs to.
	StudentID student.StudentID

	// Type - payment purpose (free text: tuition, visa fee, ...).
	Type string

	// Amount - non-negative amount in minor currency units.
	Amount student.Amount

	// Currency - opaque currency code.
	Currency string

	// Mode - how the payment was made (cash, transfer, ...).
	Mode string

	// Date - the payment date as reported by the payer (form input,
	// kept as a date-only value).
	Date string

	// Status - pending or received.
	Status Status

	// Receipt reference (optional upload, stored by the file layer).
	ReceiptOriginalFilename string
	ReceiptStoredPath       string

	// CreatedByUserID - back-office user who recorded the payment.
	CreatedByUserID *int64

	CreatedAt time.Time
}

var (
	// ErrInvalidAmount - payment amount is negative.
	ErrInvalidAmount = errors.New("invalid payment amount: must be non-negative")

	// ErrInvalidStatus - unknown payment status.
	ErrInvalidStatus = errors.New("invalid payment status")

	// ErrPaymentNotFound - ledger entry not found.
	ErrPaymentNotFound = errors.New("payment not found")
)

// NewPaymentParams contains the data needed to record a payment.
type NewPaymentParams struct {
	StudentID               student.StudentID
	Type                    string
	Amount                  student.Amount
	Currency                string
	Mode                    string
	Date                    string
	Status                  Status
	ReceiptOriginalFilename string
	ReceiptStoredPath       string
	CreatedByUserID         *int64
	Now                     time.Time
}

// NewPayment creates a validated ledger entry.
func NewPayment(params NewPaymentParams) (*Payment, error) {
	if !params.Amount.IsValid() {
		return nil, ErrInvalidAmount
	}
	if !params.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	return &Payment{
		StudentID:               params.StudentID,
		Type:                    strings.TrimSpace(params.Type),
		Amount:                  params.Amount,
		Currency:                strings.TrimSpace(params.Currency),
		Mode:                    strings.TrimSpace(params.Mode),
		Date:                    strings.TrimSpace(params.Date),
		Status:                  params.Status,
		ReceiptOriginalFilename: params.ReceiptOriginalFilename,
		ReceiptStoredPath:       params.ReceiptStoredPath,
		CreatedByUserID:         params.CreatedByUserID,
		CreatedAt:               now,
	}, nil
}

// IsReceived reports whether the payment counts toward the balance.
func (p *Payment) IsReceived() bool {
	return p.Status == StatusReceived
}

// Balance is the derived financial position of one student.
type Balance struct {
	// TotalAmount - the student's stated total owed.
	TotalAmount student.Amount

	// Paid - sum of received payments. Pending payments are excluded.
	Paid student.Amount

	// Balance - TotalAmount - Paid. Negative means overpayment; no clamping.
	Balance int64
}

// ComputeBalance derives the balance from a total and the paid sum.
func ComputeBalance(totalAmount, paid student.Amount) Balance {
	return Balance{
		TotalAmount: totalAmount,
		Paid:        paid,
		Balance:     int64(totalAmount) - int64(paid),
	}
}
