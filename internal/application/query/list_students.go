package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT QUERIES
// Listing with pipeline filters, plus single-record fetch.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery narrows the student listing.
type ListStudentsQuery struct {
	// StatusID filters by current pipeline status when set.
	StatusID *status.StatusID

	// Search matches full name, phone or email (case-insensitive).
	Search string

	// AgentName restricts to one agent's students.
	AgentName string
}

// Validate validates the query.
func (q ListStudentsQuery) Validate() error {
	if q.StatusID != nil && !q.StatusID.IsValid() {
		return shared.NewDomainError("student", "List", shared.ErrInvalidID, "status id must be positive or absent")
	}
	return nil
}

// ListStudentsResult contains the matching students, newest first.
type ListStudentsResult struct {
	Students []*student.Student
}

// ListStudentsHandler handles student listings.
type ListStudentsHandler struct {
	studentRepo student.Repository
}

// NewListStudentsHandler creates a new handler.
func NewListStudentsHandler(studentRepo student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{studentRepo: studentRepo}
}

// Handle runs the listing.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) (*ListStudentsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("list_students: validation failed: %w", err)
	}

	students, err := h.studentRepo.List(ctx, student.ListFilter{
		StatusID:  q.StatusID,
		Search:    strings.TrimSpace(q.Search),
		AgentName: strings.TrimSpace(q.AgentName),
	})
	if err != nil {
		return nil, fmt.Errorf("list_students: %w", err)
	}

	return &ListStudentsResult{Students: students}, nil
}

// GetStudentQuery identifies one student.
type GetStudentQuery struct {
	StudentID student.StudentID
}

// Validate validates the query.
func (q GetStudentQuery) Validate() error {
	if !q.StudentID.IsValid() {
		return shared.NewDomainError("student", "Get", shared.ErrInvalidID, "student id must be positive")
	}
	return nil
}

// GetStudentHandler handles single-record reads.
type GetStudentHandler struct {
	studentRepo student.Repository
}

// NewGetStudentHandler creates a new handler.
func NewGetStudentHandler(studentRepo student.Repository) *GetStudentHandler {
	return &GetStudentHandler{studentRepo: studentRepo}
}

// Handle fetches the student.
// Returns shared.ErrNotFound (wrapped) when no such student exists.
func (h *GetStudentHandler) Handle(ctx context.Context, q GetStudentQuery) (*student.Student, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_student: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_student: %w", err)
	}
	return stud, nil
}
