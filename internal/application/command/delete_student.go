package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE STUDENT COMMAND
// Removes a student record. History entries and ledger entries cascade
// with the row.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteStudentCommand identifies the student to remove.
type DeleteStudentCommand struct {
	StudentID student.StudentID

	ActingUserID *int64
}

// Validate validates the command.
func (c DeleteStudentCommand) Validate() error {
	if !c.StudentID.IsValid() {
		return shared.NewDomainError("student", "Delete", shared.ErrInvalidID, "student id must be positive")
	}
	return nil
}

// DeleteStudentResult reports whether the delete took effect.
type DeleteStudentResult struct {
	// Applied is false when the student did not exist.
	Applied bool
}

// DeleteStudentHandler handles student removal.
type DeleteStudentHandler struct {
	studentRepo student.Repository
	logger      *slog.Logger
}

// NewDeleteStudentHandler creates a new handler.
func NewDeleteStudentHandler(studentRepo student.Repository, logger *slog.Logger) *DeleteStudentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteStudentHandler{studentRepo: studentRepo, logger: logger}
}

// Handle removes the student.
func (h *DeleteStudentHandler) Handle(ctx context.Context, cmd DeleteStudentCommand) (*DeleteStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("delete_student: validation failed: %w", err)
	}

	if err := h.studentRepo.Delete(ctx, cmd.StudentID); err != nil {
		if shared.IsNotFound(err) {
			h.logger.Warn("delete on missing student", "student_id", int64(cmd.StudentID))
			return &DeleteStudentResult{Applied: false}, nil
		}
		return nil, fmt.Errorf("delete_student: %w", err)
	}

	h.logger.Info("student deleted", "student_id", int64(cmd.StudentID))
	return &DeleteStudentResult{Applied: true}, nil
}
