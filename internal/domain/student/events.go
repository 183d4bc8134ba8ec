package student

import (
	"strconv"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
)

// ═══════════════════════════════════════════════════════════════════════════
// Student Events
// ═══════════════════════════════════════════════════════════════════════════

// CreatedEvent is emitted when a new student record is created.
type CreatedEvent struct {
	shared.BaseEvent
	StudentID       StudentID        `json:"student_id"`
	FullName        string           `json:"full_name"`
	AgentName       string           `json:"agent_name"`
	InitialStatusID *status.StatusID `json:"initial_status_id,omitempty"`
	ActorUserID     *int64           `json:"actor_user_id,omitempty"`
}

// Payload implements shared.Event.
func (e CreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":        int64(e.StudentID),
		"full_name":         e.FullName,
		"agent_name":        e.AgentName,
		"initial_status_id": e.InitialStatusID,
	}
}

// NewCreatedEvent creates a new CreatedEvent.
func NewCreatedEvent(s *Student, actorUserID *int64) CreatedEvent {
	return CreatedEvent{
		BaseEvent:       shared.NewBaseEvent(shared.EventStudentCreated, strconv.FormatInt(int64(s.ID), 10)),
		StudentID:       s.ID,
		FullName:        s.FullName,
		AgentName:       s.AgentName,
		InitialStatusID: s.StatusID,
		ActorUserID:     actorUserID,
	}
}

// StatusChangedEvent is emitted when a student's pipeline status changes.
// It carries the atomic (from, to) observation captured by the transition.
type StatusChangedEvent struct {
	shared.BaseEvent
	StudentID    StudentID        `json:"student_id"`
	FullName     string           `json:"full_name"`
	FromStatusID *status.StatusID `json:"from_status_id,omitempty"`
	ToStatusID   *status.StatusID `json:"to_status_id,omitempty"`
	ActorUserID  *int64           `json:"actor_user_id,omitempty"`
}

// Payload implements shared.Event.
func (e StatusChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":     int64(e.StudentID),
		"full_name":      e.FullName,
		"from_status_id": e.FromStatusID,
		"to_status_id":   e.ToStatusID,
	}
}

// NewStatusChangedEvent creates a new StatusChangedEvent from a history entry.
func NewStatusChangedEvent(s *Student, change *StatusChange) StatusChangedEvent {
	return StatusChangedEvent{
		BaseEvent:    shared.NewBaseEvent(shared.EventStudentStatusChanged, strconv.FormatInt(int64(s.ID), 10)),
		StudentID:    s.ID,
		FullName:     s.FullName,
		FromStatusID: change.FromStatusID,
		ToStatusID:   change.ToStatusID,
		ActorUserID:  change.ChangedByUserID,
	}
}
