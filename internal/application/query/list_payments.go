package query

import (
	"context"
	"fmt"

	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// PAYMENT QUERIES
// Ledger reads: the full ledger for accounting views, or one student's
// entries for the student card. Both newest first.
// ══════════════════════════════════════════════════════════════════════════════

// ListPaymentsQuery narrows the ledger listing.
type ListPaymentsQuery struct {
	// StudentID restricts to one student's ledger when set.
	StudentID *student.StudentID

	// PendingOnly restricts to entries awaiting accounting validation.
	PendingOnly bool
}

// Validate validates the query.
func (q ListPaymentsQuery) Validate() error {
	if q.StudentID != nil && !q.StudentID.IsValid() {
		return shared.NewDomainError("payment", "List", shared.ErrInvalidID, "student id must be positive or absent")
	}
	return nil
}

// ListPaymentsResult contains the matching ledger entries.
type ListPaymentsResult struct {
	Payments []*payment.Payment
}

// ListPaymentsHandler handles ledger listings.
type ListPaymentsHandler struct {
	paymentRepo payment.Repository
}

// NewListPaymentsHandler creates a new handler.
func NewListPaymentsHandler(paymentRepo payment.Repository) *ListPaymentsHandler {
	return &ListPaymentsHandler{paymentRepo: paymentRepo}
}

// Handle runs the listing.
func (h *ListPaymentsHandler) Handle(ctx context.Context, q ListPaymentsQuery) (*ListPaymentsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("list_payments: validation failed: %w", err)
	}

	var (
		payments []*payment.Payment
		err      error
	)
	if q.StudentID != nil {
		payments, err = h.paymentRepo.ListByStudent(ctx, *q.StudentID)
	} else {
		payments, err = h.paymentRepo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list_payments: %w", err)
	}

	if q.PendingOnly {
		pending := payments[:0]
		for _, p := range payments {
			if p.Status == payment.StatusPending {
				pending = append(pending, p)
			}
		}
		payments = pending
	}

	return &ListPaymentsResult{Payments: payments}, nil
}
