package query

import (
	"context"
	"fmt"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HISTORY QUERY
// Returns a student's full status trail, oldest first, with status ids
// resolved to display names. The trail is append-only: every applied
// transition left exactly one entry, and consecutive entries chain - each
// from-status equals the previous entry's to-status.
// ══════════════════════════════════════════════════════════════════════════════

// StudentHistoryQuery identifies the student whose trail is wanted.
type StudentHistoryQuery struct {
	StudentID student.StudentID
}

// Validate validates the query.
func (q StudentHistoryQuery) Validate() error {
	if !q.StudentID.IsValid() {
		return shared.NewDomainError("student", "History", shared.ErrInvalidID, "student id must be positive")
	}
	return nil
}

// HistoryEntry is one trail row with resolved status names.
type HistoryEntry struct {
	ID int64

	// FromStatusID / FromStatusName - the status before the change.
	// Nil/empty on the initial entry.
	FromStatusID   *status.StatusID
	FromStatusName string

	// ToStatusID / ToStatusName - the status after the change. Nil/empty
	// when the change cleared the status.
	ToStatusID   *status.StatusID
	ToStatusName string

	// ChangedByUserID - acting back-office user, when recorded.
	ChangedByUserID *int64

	ChangedAt time.Time
}

// StudentHistoryResult contains the resolved trail.
type StudentHistoryResult struct {
	StudentID student.StudentID
	Entries   []HistoryEntry
}

// StudentHistoryHandler handles history reads.
type StudentHistoryHandler struct {
	studentRepo student.Repository
	statusRepo  status.Repository
}

// NewStudentHistoryHandler creates a new handler.
func NewStudentHistoryHandler(studentRepo student.Repository, statusRepo status.Repository) *StudentHistoryHandler {
	return &StudentHistoryHandler{studentRepo: studentRepo, statusRepo: statusRepo}
}

// Handle loads the trail and resolves status names.
// A missing student yields an empty trail, not an error: the trail of a
// nonexistent record is simply empty.
func (h *StudentHistoryHandler) Handle(ctx context.Context, q StudentHistoryQuery) (*StudentHistoryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("student_history: validation failed: %w", err)
	}

	changes, err := h.studentRepo.History(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("student_history: %w", err)
	}

	names := map[status.StatusID]string{}
	resolve := func(id *status.StatusID) string {
		if id == nil {
			return ""
		}
		if name, ok := names[*id]; ok {
			return name
		}
		name := ""
		if st, err := h.statusRepo.GetByID(ctx, *id); err == nil {
			name = st.Name
		}
		names[*id] = name
		return name
	}

	entries := make([]HistoryEntry, 0, len(changes))
	for _, c := range changes {
		entries = append(entries, HistoryEntry{
			ID:              c.ID,
			FromStatusID:    c.FromStatusID,
			FromStatusName:  resolve(c.FromStatusID),
			ToStatusID:      c.ToStatusID,
			ToStatusName:    resolve(c.ToStatusID),
			ChangedByUserID: c.ChangedByUserID,
			ChangedAt:       c.ChangedAt,
		})
	}

	return &StudentHistoryResult{StudentID: q.StudentID, Entries: entries}, nil
}
