package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON STUDENT CHANGED HANDLER
// Notifies admins when a student enters the pipeline with an initial
// status or moves through it. Status ids are resolved to display names
// at notice time; a creation without a status stays silent.
// ═══════════════════════════════════════════════════════════════════════════

// noStatusLabel is shown when a transition endpoint has no status.
const noStatusLabel = "Sans statut"

// OnStudentChangedHandler turns student lifecycle events into admin notices.
type OnStudentChangedHandler struct {
	notifier   *Notifier
	statusRepo status.Repository
	logger     *slog.Logger
}

// NewOnStudentChangedHandler creates a new handler.
func NewOnStudentChangedHandler(notifier *Notifier, statusRepo status.Repository, logger *slog.Logger) *OnStudentChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnStudentChangedHandler{
		notifier:   notifier,
		statusRepo: statusRepo,
		logger:     logger.With("handler", "on_student_changed"),
	}
}

// Register subscribes the handler on the bus.
func (h *OnStudentChangedHandler) Register(bus shared.EventSubscriber) error {
	if err := bus.Subscribe(shared.EventStudentCreated, h.Handle); err != nil {
		return err
	}
	return bus.Subscribe(shared.EventStudentStatusChanged, h.Handle)
}

// Handle implements shared.EventHandler.
func (h *OnStudentChangedHandler) Handle(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	switch e := event.(type) {
	case student.CreatedEvent:
		h.onCreated(ctx, e)
	case student.StatusChangedEvent:
		h.onStatusChanged(ctx, e)
	default:
		h.logger.Warn("received unexpected event", "event_type", event.EventType())
	}
	return nil
}

func (h *OnStudentChangedHandler) onCreated(ctx context.Context, e student.CreatedEvent) {
	// Creations without an initial status write no history and no notice.
	if e.InitialStatusID == nil {
		return
	}

	message := fmt.Sprintf("%s a été enregistré avec le statut initial « %s ».",
		e.FullName, h.statusName(ctx, e.InitialStatusID))
	if e.AgentName != "" {
		message = fmt.Sprintf("%s a été enregistré par %s avec le statut initial « %s ».",
			e.FullName, e.AgentName, h.statusName(ctx, e.InitialStatusID))
	}

	h.notifier.NotifyRole(ctx, user.RoleAdmin,
		"Nouvel Étudiant",
		message,
		notification.TypeStatus,
		fmt.Sprintf("/students/%d", int64(e.StudentID)))
}

func (h *OnStudentChangedHandler) onStatusChanged(ctx context.Context, e student.StatusChangedEvent) {
	message := fmt.Sprintf("%s : « %s » → « %s ».",
		e.FullName,
		h.statusName(ctx, e.FromStatusID),
		h.statusName(ctx, e.ToStatusID))

	h.notifier.NotifyRole(ctx, user.RoleAdmin,
		"Changement de Statut",
		message,
		notification.TypeStatus,
		fmt.Sprintf("/students/%d", int64(e.StudentID)))
}

func (h *OnStudentChangedHandler) statusName(ctx context.Context, id *status.StatusID) string {
	if id == nil {
		return noStatusLabel
	}
	st, err := h.statusRepo.GetByID(ctx, *id)
	if err != nil {
		h.logger.Warn("failed to resolve status name", "status_id", int64(*id), "error", err)
		return fmt.Sprintf("statut #%d", int64(*id))
	}
	return st.Name
}
