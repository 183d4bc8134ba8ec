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
// UPDATE STUDENT COMMAND
// Full-profile update. When the submitted status differs from the stored
// one, the status change and its history entry ride in the same
// transaction as the profile update; an unchanged status writes no
// history.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand contains the replacement profile for a student.
type UpdateStudentCommand struct {
	StudentID student.StudentID

	FullName      string
	Phone         string
	Email         string
	Country       string
	StudyLevel    string
	ProgramChoice string
	University    string

	// StatusID is the submitted pipeline status. Differing from the stored
	// value triggers a transition; nil clears the status.
	StatusID *status.StatusID

	AgentName   string
	TotalAmount student.Amount
	Currency    string
	Notes       string

	ActingUserID *int64
}

// Validate validates the command.
func (c UpdateStudentCommand) Validate() error {
	if !c.StudentID.IsValid() {
		return shared.NewDomainError("student", "Update", shared.ErrInvalidID, "student id must be positive")
	}
	if c.StatusID != nil && !c.StatusID.IsValid() {
		return shared.NewDomainError("student", "Update", shared.ErrInvalidID, "status id must be positive or absent")
	}
	if _, err := student.NewStudent(c.toParams()); err != nil {
		return shared.WrapError("student", "Update", err, "invalid student data")
	}
	return nil
}

func (c UpdateStudentCommand) toParams() student.NewStudentParams {
	return student.NewStudentParams{
		FullName:      c.FullName,
		Phone:         c.Phone,
		Email:         c.Email,
		Country:       c.Country,
		StudyLevel:    c.StudyLevel,
		ProgramChoice: c.ProgramChoice,
		University:    c.University,
		AgentName:     c.AgentName,
		TotalAmount:   c.TotalAmount,
		Currency:      c.Currency,
		Notes:         c.Notes,
	}
}

// UpdateStudentResult contains the result of a profile update.
type UpdateStudentResult struct {
	// Applied is false when the student does not exist.
	Applied bool

	// Student is the updated record (nil when not applied).
	Student *student.Student

	// Change is the history entry written when the status changed, nil
	// otherwise.
	Change *student.StatusChange
}

// UpdateStudentHandler handles profile updates.
type UpdateStudentHandler struct {
	studentRepo student.Repository
	eventBus    shared.EventPublisher
	logger      *slog.Logger
}

// NewUpdateStudentHandler creates a new handler.
func NewUpdateStudentHandler(
	studentRepo student.Repository,
	eventBus shared.EventPublisher,
	logger *slog.Logger,
) *UpdateStudentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateStudentHandler{
		studentRepo: studentRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle applies the update and, when the status changed, publishes the
// status-changed event.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*UpdateStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_student: validation failed: %w", err)
	}

	stud, err := student.NewStudent(cmd.toParams())
	if err != nil {
		return nil, fmt.Errorf("update_student: validation failed: %w", err)
	}
	stud.ID = cmd.StudentID

	change, err := h.studentRepo.UpdateProfile(ctx, stud, cmd.StatusID, cmd.ActingUserID)
	if err != nil {
		if shared.IsNotFound(err) {
			h.logger.Warn("update on missing student", "student_id", int64(cmd.StudentID))
			return &UpdateStudentResult{Applied: false}, nil
		}
		return nil, fmt.Errorf("update_student: %w", err)
	}
	stud.StatusID = cmd.StatusID

	if change != nil && h.eventBus != nil {
		if err := h.eventBus.Publish(student.NewStatusChangedEvent(stud, change)); err != nil {
			h.logger.Error("failed to publish status change event",
				"student_id", int64(stud.ID), "error", err)
		}
	}

	return &UpdateStudentResult{Applied: true, Student: stud, Change: change}, nil
}
