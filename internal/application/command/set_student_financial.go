package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET STUDENT FINANCIAL COMMAND
// Sets the student's stated total owed and currency. The balance is never
// stored: it is derived on read from this total and the received ledger.
// ══════════════════════════════════════════════════════════════════════════════

// SetStudentFinancialCommand contains the financial terms for a student.
type SetStudentFinancialCommand struct {
	StudentID student.StudentID

	// TotalAmount is the stated total owed, in minor currency units.
	TotalAmount student.Amount

	// Currency is an opaque currency code; empty defaults to FCFA.
	Currency string
}

// Validate validates the command.
func (c SetStudentFinancialCommand) Validate() error {
	if !c.StudentID.IsValid() {
		return shared.NewDomainError("student", "SetFinancial", shared.ErrInvalidID, "student id must be positive")
	}
	if !c.TotalAmount.IsValid() {
		return shared.NewDomainError("student", "SetFinancial", shared.ErrNegativeValue, "total amount must be non-negative")
	}
	return nil
}

// SetStudentFinancialResult reports whether the update took effect.
type SetStudentFinancialResult struct {
	// Applied is false when the student does not exist.
	Applied bool
}

// SetStudentFinancialHandler handles financial-terms updates.
type SetStudentFinancialHandler struct {
	studentRepo student.Repository
	logger      *slog.Logger
}

// NewSetStudentFinancialHandler creates a new handler.
func NewSetStudentFinancialHandler(studentRepo student.Repository, logger *slog.Logger) *SetStudentFinancialHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetStudentFinancialHandler{studentRepo: studentRepo, logger: logger}
}

// Handle stores the financial terms.
func (h *SetStudentFinancialHandler) Handle(ctx context.Context, cmd SetStudentFinancialCommand) (*SetStudentFinancialResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("set_student_financial: validation failed: %w", err)
	}

	currency := strings.TrimSpace(cmd.Currency)
	if currency == "" {
		currency = student.DefaultCurrency
	}

	if err := h.studentRepo.SetFinancial(ctx, cmd.StudentID, cmd.TotalAmount, currency); err != nil {
		if shared.IsNotFound(err) {
			h.logger.Warn("financial update on missing student", "student_id", int64(cmd.StudentID))
			return &SetStudentFinancialResult{Applied: false}, nil
		}
		return nil, fmt.Errorf("set_student_financial: %w", err)
	}

	return &SetStudentFinancialResult{Applied: true}, nil
}
