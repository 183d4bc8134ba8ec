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
// CREATE STUDENT COMMAND
// Registers a new student in the placement pipeline. When an initial
// status is given, the first history entry (from: none, to: initial) is
// written in the same transaction as the student row.
// ══════════════════════════════════════════════════════════════════════════════

// CreateStudentCommand contains the data for creating a student record.
type CreateStudentCommand struct {
	FullName      string
	Phone         string
	Email         string
	Country       string
	StudyLevel    string
	ProgramChoice string
	University    string

	// InitialStatusID is the pipeline status the student starts in.
	// Nil creates the student without a status.
	InitialStatusID *status.StatusID

	AgentName   string
	TotalAmount student.Amount
	Currency    string
	Notes       string

	// ActingUserID is the back-office user creating the record, when known.
	ActingUserID *int64
}

// Validate validates the command.
func (c CreateStudentCommand) Validate() error {
	if _, err := student.NewStudent(c.toParams()); err != nil {
		return shared.WrapError("student", "Create", err, "invalid student data")
	}
	if c.InitialStatusID != nil && !c.InitialStatusID.IsValid() {
		return shared.NewDomainError("student", "Create", shared.ErrInvalidID, "status id must be positive or absent")
	}
	return nil
}

func (c CreateStudentCommand) toParams() student.NewStudentParams {
	return student.NewStudentParams{
		FullName:      c.FullName,
		Phone:         c.Phone,
		Email:         c.Email,
		Country:       c.Country,
		StudyLevel:    c.StudyLevel,
		ProgramChoice: c.ProgramChoice,
		University:    c.University,
		StatusID:      c.InitialStatusID,
		AgentName:     c.AgentName,
		TotalAmount:   c.TotalAmount,
		Currency:      c.Currency,
		Notes:         c.Notes,
	}
}

// CreateStudentResult contains the result of creating a student.
type CreateStudentResult struct {
	// Student is the created record with its assigned ID.
	Student *student.Student

	// InitialChange is the first history entry, nil when the student was
	// created without a status.
	InitialChange *student.StatusChange
}

// CreateStudentHandler handles student creation.
type CreateStudentHandler struct {
	studentRepo student.Repository
	statusRepo  status.Repository
	eventBus    shared.EventPublisher
	logger      *slog.Logger
}

// NewCreateStudentHandler creates a new handler.
func NewCreateStudentHandler(
	studentRepo student.Repository,
	statusRepo status.Repository,
	eventBus shared.EventPublisher,
	logger *slog.Logger,
) *CreateStudentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateStudentHandler{
		studentRepo: studentRepo,
		statusRepo:  statusRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle creates the student and publishes the created event.
func (h *CreateStudentHandler) Handle(ctx context.Context, cmd CreateStudentCommand) (*CreateStudentResult, error) {
	stud, err := student.NewStudent(cmd.toParams())
	if err != nil {
		return nil, fmt.Errorf("create_student: validation failed: %w", err)
	}

	if cmd.InitialStatusID != nil {
		if _, err := h.statusRepo.GetByID(ctx, *cmd.InitialStatusID); err != nil {
			if shared.IsNotFound(err) {
				return nil, shared.NewDomainError("student", "Create", shared.ErrValidation,
					fmt.Sprintf("unknown status id %d", int64(*cmd.InitialStatusID)))
			}
			return nil, fmt.Errorf("create_student: check status: %w", err)
		}
	}

	change, err := h.studentRepo.Create(ctx, stud, cmd.ActingUserID)
	if err != nil {
		return nil, fmt.Errorf("create_student: %w", err)
	}

	h.logger.Info("student created",
		"student_id", int64(stud.ID),
		"full_name", stud.FullName,
		"agent", stud.AgentName)

	if h.eventBus != nil {
		if err := h.eventBus.Publish(student.NewCreatedEvent(stud, cmd.ActingUserID)); err != nil {
			h.logger.Error("failed to publish student created event",
				"student_id", int64(stud.ID), "error", err)
		}
	}

	return &CreateStudentResult{Student: stud, InitialChange: change}, nil
}
