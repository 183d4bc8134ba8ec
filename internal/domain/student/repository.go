package student

import (
	"context"

	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The contract for student storage. Implementations live in
// infrastructure/persistence and must honor the atomicity notes below:
// the (current status, new status) pair written to history is one atomic
// observation, never two independent reads.
// ══════════════════════════════════════════════════════════════════════════════

// ListFilter narrows student listings.
type ListFilter struct {
	// StatusID filters by current status when set.
	StatusID *status.StatusID

	// Search matches full name, phone or email (substring, case-insensitive).
	Search string

	// AgentName restricts to students handled by one agent.
	AgentName string
}

// Repository defines the storage contract for student records and their
// status history.
type Repository interface {
	// Create inserts a student and, when the student carries an initial
	// status, the corresponding history entry - both in one transaction.
	// Sets s.ID on success and returns the initial history entry (nil when
	// the student was created without a status).
	Create(ctx context.Context, s *Student, actorUserID *int64) (*StatusChange, error)

	// GetByID returns a student by id.
	// Returns shared.ErrNotFound if no such student exists.
	GetByID(ctx context.Context, id StudentID) (*Student, error)

	// List returns students matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Student, error)

	// UpdateProfile updates the student's profile fields (everything except
	// status and financials) and, when toStatusID differs from the stored
	// status, applies the status change with its history entry in the same
	// transaction. Returns the history entry when the status changed.
	// Returns shared.ErrNotFound if no such student exists.
	UpdateProfile(ctx context.Context, s *Student, toStatusID *status.StatusID, actorUserID *int64) (*StatusChange, error)

	// ChangeStatus applies a status transition: within a single transaction
	// it reads the current status with the row locked, updates the student
	// row (status + updated_at) and appends exactly one history entry.
	// Any status, including nil (unset), is accepted from any prior status.
	// The transition is applied unconditionally even when the new status
	// equals the current one. Returns the updated student and the entry.
	// Returns shared.ErrNotFound if no such student exists.
	ChangeStatus(ctx context.Context, id StudentID, toStatusID *status.StatusID, actorUserID *int64) (*Student, *StatusChange, error)

	// SetFinancial updates the student's stated total owed and currency.
	// Returns shared.ErrNotFound if no such student exists.
	SetFinancial(ctx context.Context, id StudentID, totalAmount Amount, currency string) error

	// Delete removes the student and cascades its history entries.
	// Returns shared.ErrNotFound if no such student exists.
	Delete(ctx context.Context, id StudentID) error

	// History returns the student's status history, oldest first.
	History(ctx context.Context, id StudentID) ([]*StatusChange, error)
}
