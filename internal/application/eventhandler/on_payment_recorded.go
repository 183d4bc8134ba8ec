package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON PAYMENT RECORDED HANDLER
// A new ledger entry fans out twice: secretaries get the validation
// request, admins get the cash-in notice. The two fan-outs are
// independent; either can partially fail without affecting the other.
// ═══════════════════════════════════════════════════════════════════════════

// OnPaymentRecordedHandler turns ledger appends into role notices.
type OnPaymentRecordedHandler struct {
	notifier *Notifier
	userRepo user.Repository
	logger   *slog.Logger
}

// NewOnPaymentRecordedHandler creates a new handler.
func NewOnPaymentRecordedHandler(notifier *Notifier, userRepo user.Repository, logger *slog.Logger) *OnPaymentRecordedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnPaymentRecordedHandler{
		notifier: notifier,
		userRepo: userRepo,
		logger:   logger.With("handler", "on_payment_recorded"),
	}
}

// Register subscribes the handler on the bus.
func (h *OnPaymentRecordedHandler) Register(bus shared.EventSubscriber) error {
	return bus.Subscribe(shared.EventPaymentRecorded, h.Handle)
}

// Handle implements shared.EventHandler.
func (h *OnPaymentRecordedHandler) Handle(event shared.Event) error {
	e, ok := event.(payment.RecordedEvent)
	if !ok {
		h.logger.Warn("received non-RecordedEvent", "event_type", event.EventType())
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	h.notifier.NotifyRole(ctx, user.RoleSecretary,
		"Nouveau Paiement à Valider",
		fmt.Sprintf("Un versement de %d %s a été enregistré pour %s.",
			int64(e.Amount), e.Currency, e.StudentName),
		notification.TypePayment,
		"/accounting/pending")

	h.notifier.NotifyRole(ctx, user.RoleAdmin,
		"Encaissement Enregistré",
		fmt.Sprintf("%s a enregistré %d %s pour %s.",
			h.actorName(ctx, e.CreatedByUserID), int64(e.Amount), e.Currency, e.StudentName),
		notification.TypePayment,
		fmt.Sprintf("/payments/student/%d", int64(e.StudentID)))

	return nil
}

func (h *OnPaymentRecordedHandler) actorName(ctx context.Context, userID *int64) string {
	if userID == nil {
		return "Le bureau"
	}
	u, err := h.userRepo.GetByID(ctx, *userID)
	if err != nil {
		h.logger.Warn("failed to resolve acting user", "user_id", *userID, "error", err)
		return "Le bureau"
	}
	return u.FullName
}
