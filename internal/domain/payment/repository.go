package payment

import (
	"context"

	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// Repository defines the storage contract for the payment ledger.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// Create appends a ledger entry. Sets p.ID on success.
	Create(ctx context.Context, p *Payment) error

	// GetByID returns a payment by id.
	// Returns shared.ErrNotFound if no such payment exists.
	GetByID(ctx context.Context, id PaymentID) (*Payment, error)

	// Confirm unconditionally marks the payment as received and returns the
	// updated entry. No prior-state check: confirming twice leaves the
	// ledger identical to confirming once.
	// Returns shared.ErrNotFound if no such payment exists.
	Confirm(ctx context.Context, id PaymentID) (*Payment, error)

	// List returns all payments, newest first (payment date, then id).
	List(ctx context.Context) ([]*Payment, error)

	// ListByStudent returns one student's payments, newest first.
	ListByStudent(ctx context.Context, studentID student.StudentID) ([]*Payment, error)

	// SumReceivedByStudent returns the sum of received payment amounts for
	// one student. Pending payments are excluded.
	SumReceivedByStudent(ctx context.Context, studentID student.StudentID) (student.Amount, error)
}
