// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET STUDENT STATUS COMMAND
// The transition engine. Applies a pipeline status change to one student:
// the current status is observed, the student row updated and one history
// entry appended - all as a single transaction in the repository. Any
// status, including "no status", is accepted from any prior status; the
// pipeline ordering is informational, not a constraint.
// ══════════════════════════════════════════════════════════════════════════════

// SetStudentStatusCommand contains the data for a status transition.
type SetStudentStatusCommand struct {
	// StudentID is the student to transition.
	StudentID student.StudentID

	// ToStatusID is the new status. Nil clears the status.
	ToStatusID *status.StatusID

	// ActingUserID is the back-office user making the change, when known.
	// Recorded in the history entry.
	ActingUserID *int64
}

// Validate validates the command.
func (c SetStudentStatusCommand) Validate() error {
	if !c.StudentID.IsValid() {
		return shared.NewDomainError("student", "SetStatus", shared.ErrInvalidID, "student id must be positive")
	}
	if c.ToStatusID != nil && !c.ToStatusID.IsValid() {
		return shared.NewDomainError("student", "SetStatus", shared.ErrInvalidID, "status id must be positive or absent")
	}
	return nil
}

// SetStudentStatusResult contains the result of a transition.
type SetStudentStatusResult struct {
	// Applied is false when the student does not exist. Missing students
	// are a silent no-op at the operation boundary: no error, no history
	// row. The flag keeps the condition observable to callers.
	Applied bool

	// Student is the updated record (nil when not applied).
	Student *student.Student

	// Change is the appended history entry (nil when not applied).
	Change *student.StatusChange
}

// SetStudentStatusHandler handles status transitions.
type SetStudentStatusHandler struct {
	studentRepo student.Repository
	eventBus    shared.EventPublisher
	logger      *slog.Logger
}

// NewSetStudentStatusHandler creates a new handler.
func NewSetStudentStatusHandler(
	studentRepo student.Repository,
	eventBus shared.EventPublisher,
	logger *slog.Logger,
) *SetStudentStatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetStudentStatusHandler{
		studentRepo: studentRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle applies the transition and publishes the status-changed event.
func (h *SetStudentStatusHandler) Handle(ctx context.Context, cmd SetStudentStatusCommand) (*SetStudentStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("set_student_status: validation failed: %w", err)
	}

	stud, change, err := h.studentRepo.ChangeStatus(ctx, cmd.StudentID, cmd.ToStatusID, cmd.ActingUserID)
	if err != nil {
		if shared.IsNotFound(err) {
			h.logger.Warn("status transition on missing student",
				"student_id", int64(cmd.StudentID))
			return &SetStudentStatusResult{Applied: false}, nil
		}
		return nil, fmt.Errorf("set_student_status: %w", err)
	}

	h.publish(stud, change)

	return &SetStudentStatusResult{
		Applied: true,
		Student: stud,
		Change:  change,
	}, nil
}

func (h *SetStudentStatusHandler) publish(stud *student.Student, change *student.StatusChange) {
	if h.eventBus == nil {
		return
	}
	if err := h.eventBus.Publish(student.NewStatusChangedEvent(stud, change)); err != nil {
		// Fan-out failures never fail the transition itself.
		h.logger.Error("failed to publish status change event",
			"student_id", int64(stud.ID), "error", err)
	}
}
