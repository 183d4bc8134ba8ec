// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPUTE BALANCE QUERY
// Derives one student's financial position on read. Nothing is stored:
// the figure is always the stated total minus the sum of received ledger
// entries at the moment of the query. Pending payments never count.
// ══════════════════════════════════════════════════════════════════════════════

// ComputeBalanceQuery identifies the student whose balance is wanted.
type ComputeBalanceQuery struct {
	StudentID student.StudentID
}

// Validate validates the query.
func (q ComputeBalanceQuery) Validate() error {
	if !q.StudentID.IsValid() {
		return shared.NewDomainError("payment", "ComputeBalance", shared.ErrInvalidID, "student id must be positive")
	}
	return nil
}

// ComputeBalanceResult contains the derived position.
type ComputeBalanceResult struct {
	StudentID student.StudentID

	// Currency is the student's stated currency.
	Currency string

	// Balance holds total owed, paid-so-far and the remainder. The
	// remainder goes negative on overpayment; it is never clamped.
	Balance payment.Balance
}

// ComputeBalanceHandler handles balance derivation.
type ComputeBalanceHandler struct {
	studentRepo student.Repository
	paymentRepo payment.Repository
}

// NewComputeBalanceHandler creates a new handler.
func NewComputeBalanceHandler(studentRepo student.Repository, paymentRepo payment.Repository) *ComputeBalanceHandler {
	return &ComputeBalanceHandler{studentRepo: studentRepo, paymentRepo: paymentRepo}
}

// Handle derives the balance.
// Returns shared.ErrNotFound (wrapped) when the student does not exist.
func (h *ComputeBalanceHandler) Handle(ctx context.Context, q ComputeBalanceQuery) (*ComputeBalanceResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("compute_balance: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("compute_balance: %w", err)
	}

	paid, err := h.paymentRepo.SumReceivedByStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("compute_balance: sum received: %w", err)
	}

	return &ComputeBalanceResult{
		StudentID: stud.ID,
		Currency:  stud.Currency,
		Balance:   payment.ComputeBalance(stud.TotalAmount, paid),
	}, nil
}
