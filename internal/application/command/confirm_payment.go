package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIRM PAYMENT COMMAND
// Accounting validates a ledger entry: pending -> received. The write is
// unconditional, so confirming an already-received payment is a no-op on
// the data and the operation stays idempotent. From the moment the entry
// reads received, it counts toward the student's balance.
// ══════════════════════════════════════════════════════════════════════════════

// ConfirmPaymentCommand identifies the payment to confirm.
type ConfirmPaymentCommand struct {
	PaymentID payment.PaymentID

	// ActingUserID is the accounting user confirming the payment.
	ActingUserID *int64
}

// Validate validates the command.
func (c ConfirmPaymentCommand) Validate() error {
	if !c.PaymentID.IsValid() {
		return shared.NewDomainError("payment", "Confirm", shared.ErrInvalidID, "payment id must be positive")
	}
	return nil
}

// ConfirmPaymentResult contains the result of a confirmation.
type ConfirmPaymentResult struct {
	// Applied is false when the payment does not exist.
	Applied bool

	// Payment is the updated entry (nil when not applied).
	Payment *payment.Payment
}

// ConfirmPaymentHandler handles payment confirmations.
type ConfirmPaymentHandler struct {
	paymentRepo payment.Repository
	studentRepo student.Repository
	eventBus    shared.EventPublisher
	logger      *slog.Logger
}

// NewConfirmPaymentHandler creates a new handler.
func NewConfirmPaymentHandler(
	paymentRepo payment.Repository,
	studentRepo student.Repository,
	eventBus shared.EventPublisher,
	logger *slog.Logger,
) *ConfirmPaymentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfirmPaymentHandler{
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle confirms the payment and publishes the confirmed event.
func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*ConfirmPaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("confirm_payment: validation failed: %w", err)
	}

	p, err := h.paymentRepo.Confirm(ctx, cmd.PaymentID)
	if err != nil {
		if shared.IsNotFound(err) {
			h.logger.Warn("confirm on missing payment", "payment_id", int64(cmd.PaymentID))
			return &ConfirmPaymentResult{Applied: false}, nil
		}
		return nil, fmt.Errorf("confirm_payment: %w", err)
	}

	studentName := ""
	if stud, err := h.studentRepo.GetByID(ctx, p.StudentID); err == nil {
		studentName = stud.FullName
	} else if !shared.IsNotFound(err) {
		h.logger.Error("failed to load student for confirmation notice",
			"student_id", int64(p.StudentID), "error", err)
	}

	h.logger.Info("payment confirmed",
		"payment_id", int64(p.ID),
		"student_id", int64(p.StudentID),
		"amount", int64(p.Amount))

	if h.eventBus != nil {
		if err := h.eventBus.Publish(payment.NewConfirmedEvent(p, studentName)); err != nil {
			h.logger.Error("failed to publish payment confirmed event",
				"payment_id", int64(p.ID), "error", err)
		}
	}

	return &ConfirmPaymentResult{Applied: true, Payment: p}, nil
}
