package student

import (
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS HISTORY
// The history is append-only: entries are never mutated, never deleted
// except by the student-deletion cascade. For any student the entries form
// a chain: each entry's FromStatusID equals the previous entry's ToStatusID.
// ══════════════════════════════════════════════════════════════════════════════

// StatusChange is one immutable entry in a student's status history.
type StatusChange struct {
	// ID - unique identifier of the history row.
	ID int64

	// StudentID - the student this entry belongs to.
	StudentID StudentID

	// FromStatusID - status before the change. Nil means the student had
	// no status (initial transition at creation, or status was unset).
	FromStatusID *status.StatusID

	// ToStatusID - status after the change. Nil means status was cleared.
	ToStatusID *status.StatusID

	// ChangedByUserID - back-office user who made the change, when known.
	ChangedByUserID *int64

	// ChangedAt - when the change was applied.
	ChangedAt time.Time
}

// IsInitial reports whether this entry records a creation with an
// initial status (no prior status).
func (c *StatusChange) IsInitial() bool {
	return c.FromStatusID == nil
}

// IsClearing reports whether this entry cleared the status.
func (c *StatusChange) IsClearing() bool {
	return c.ToStatusID == nil
}
