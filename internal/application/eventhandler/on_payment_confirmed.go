package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON PAYMENT CONFIRMED HANDLER
// Accounting's validation closes the loop: the user who recorded the
// payment gets a success notice. Payments recorded without an acting
// user have nobody to tell.
// ═══════════════════════════════════════════════════════════════════════════

// OnPaymentConfirmedHandler notifies the recording user of validation.
type OnPaymentConfirmedHandler struct {
	notifier *Notifier
	logger   *slog.Logger
}

// NewOnPaymentConfirmedHandler creates a new handler.
func NewOnPaymentConfirmedHandler(notifier *Notifier, logger *slog.Logger) *OnPaymentConfirmedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnPaymentConfirmedHandler{
		notifier: notifier,
		logger:   logger.With("handler", "on_payment_confirmed"),
	}
}

// Register subscribes the handler on the bus.
func (h *OnPaymentConfirmedHandler) Register(bus shared.EventSubscriber) error {
	return bus.Subscribe(shared.EventPaymentConfirmed, h.Handle)
}

// Handle implements shared.EventHandler.
func (h *OnPaymentConfirmedHandler) Handle(event shared.Event) error {
	e, ok := event.(payment.ConfirmedEvent)
	if !ok {
		h.logger.Warn("received non-ConfirmedEvent", "event_type", event.EventType())
		return nil
	}

	if e.CreatedByUserID == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	studentName := e.StudentName
	if studentName == "" {
		studentName = "étudiant"
	}

	h.notifier.NotifyUser(ctx, *e.CreatedByUserID,
		"Paiement Confirmé",
		fmt.Sprintf("Le versement de %d %s pour %s a été validé par la comptabilité.",
			int64(e.Amount), e.Currency, studentName),
		notification.TypeSuccess,
		fmt.Sprintf("/payments/student/%d", int64(e.StudentID)))

	return nil
}
