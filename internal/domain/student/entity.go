// Package student contains the student record domain model.
// A student holds exactly one current pipeline status at a time; every
// status change is recorded as an immutable history entry.
package student

import (
	"errors"
	"strings"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentID represents the unique identifier of a student record.
type StudentID int64

// IsValid checks that the ID is positive.
func (id StudentID) IsValid() bool {
	return id > 0
}

// Amount represents a monetary amount in minor currency units.
// FCFA carries no subunit in practice, so the integer is the amount itself.
type Amount int64

// IsValid checks that the amount is non-negative.
func (a Amount) IsValid() bool {
	return a >= 0
}

// DefaultCurrency is used when no currency is supplied.
// Currency codes are opaque free text, not a validated enum.
const DefaultCurrency = "FCFA"

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student is the aggregate root of the placement pipeline.
type Student struct {
	// ID - internal unique identifier.
	ID StudentID

	// FullName - student's full name.
	FullName string

	// Contact and application fields.
	Phone         string
	Email         string
	Country       string
	StudyLevel    string
	ProgramChoice string
	University    string

	// StatusID - current pipeline status. Nil means "no status" (unset).
	StatusID *status.StatusID

	// AgentName - name of the agent responsible for this student.
	AgentName string

	// TotalAmount - total owed, in minor currency units.
	TotalAmount Amount

	// Currency - currency code for TotalAmount (opaque string).
	Currency string

	// Notes - free-form notes.
	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidFullName - full name is empty or too long.
	ErrInvalidFullName = errors.New("invalid full name: must be 1-200 chars")

	// ErrInvalidAmount - negative monetary amount.
	ErrInvalidAmount = errors.New("invalid amount: must be non-negative")

	// ErrStudentNotFound - student record not found.
	ErrStudentNotFound = errors.New("student not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTRUCTOR
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams contains the data needed to create a student.
type NewStudentParams struct {
	FullName      string
	Phone         string
	Email         string
	Country       string
	StudyLevel    string
	ProgramChoice string
	University    string
	StatusID      *status.StatusID
	AgentName     string
	TotalAmount   Amount
	Currency      string
	Notes         string
	Now           time.Time
}

// NewStudent creates a validated student record.
// Normalization mirrors intake forms: fields are trimmed, email lowercased,
// currency defaults to FCFA.
func NewStudent(params NewStudentParams) (*Student, error) {
	fullName := strings.TrimSpace(params.FullName)
	if len(fullName) == 0 || len(fullName) > 200 {
		return nil, ErrInvalidFullName
	}

	if !params.TotalAmount.IsValid() {
		return nil, ErrInvalidAmount
	}

	currency := strings.TrimSpace(params.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	return &Student{
		FullName:      fullName,
		Phone:         strings.TrimSpace(params.Phone),
		Email:         strings.ToLower(strings.TrimSpace(params.Email)),
		Country:       strings.TrimSpace(params.Country),
		StudyLevel:    strings.TrimSpace(params.StudyLevel),
		ProgramChoice: strings.TrimSpace(params.ProgramChoice),
		University:    strings.TrimSpace(params.University),
		StatusID:      params.StatusID,
		AgentName:     strings.TrimSpace(params.AgentName),
		TotalAmount:   params.TotalAmount,
		Currency:      currency,
		Notes:         strings.TrimSpace(params.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// HasStatus reports whether the student currently has a pipeline status.
func (s *Student) HasStatus() bool {
	return s.StatusID != nil
}

// StatusEquals compares the student's current status with another value,
// treating two nils as equal.
func (s *Student) StatusEquals(other *status.StatusID) bool {
	if s.StatusID == nil || other == nil {
		return s.StatusID == nil && other == nil
	}
	return *s.StatusID == *other
}
