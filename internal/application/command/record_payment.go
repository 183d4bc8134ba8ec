package command

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
	"github.com/afcalink/afcalink-backoffice/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD PAYMENT COMMAND
// Appends one ledger entry. The caller chooses the initial status: agents
// record pending payments that accounting must validate; accounting can
// record received payments directly. A pending entry never moves the
// student's balance.
// ══════════════════════════════════════════════════════════════════════════════

// RecordPaymentCommand contains the data for one ledger entry.
type RecordPaymentCommand struct {
	StudentID student.StudentID

	// Type is the payment purpose (tuition, visa fee, ...). Free text.
	Type string

	// Amount in minor currency units, non-negative.
	Amount student.Amount

	// Currency is an opaque code; empty inherits the student's currency.
	Currency string

	// Mode is how the payment was made (cash, transfer, ...). Free text.
	Mode string

	// Date is the payer-reported payment date (date-only form value).
	Date string

	// Status is the initial ledger state: pending or received.
	Status payment.Status

	// Receipt reference from the upload layer, when a receipt was attached.
	ReceiptOriginalFilename string
	ReceiptStoredPath       string

	// ActingUserID is the back-office user recording the payment.
	ActingUserID *int64
}

// Validate validates the command.
func (c RecordPaymentCommand) Validate() error {
	if !c.StudentID.IsValid() {
		return shared.NewDomainError("payment", "Record", shared.ErrInvalidID, "student id must be positive")
	}
	if !c.Amount.IsValid() {
		return shared.NewDomainError("payment", "Record", shared.ErrNegativeValue, "amount must be non-negative")
	}
	if !c.Status.IsValid() {
		return shared.NewDomainError("payment", "Record", shared.ErrValidation,
			fmt.Sprintf("unknown payment status %q", string(c.Status)))
	}
	if date := strings.TrimSpace(c.Date); date != "" {
		if _, err := timeutil.ParseDate(date); err != nil {
			return shared.NewDomainError("payment", "Record", shared.ErrValidation,
				fmt.Sprintf("payment date %q is not a valid YYYY-MM-DD value", date))
		}
	}
	return nil
}

// RecordPaymentResult contains the result of recording a payment.
type RecordPaymentResult struct {
	// Applied is false when the student does not exist.
	Applied bool

	// Payment is the appended entry with its assigned ID (nil when not
	// applied).
	Payment *payment.Payment
}

// RecordPaymentHandler handles ledger appends.
type RecordPaymentHandler struct {
	paymentRepo payment.Repository
	studentRepo student.Repository
	eventBus    shared.EventPublisher
	logger      *slog.Logger
}

// NewRecordPaymentHandler creates a new handler.
func NewRecordPaymentHandler(
	paymentRepo payment.Repository,
	studentRepo student.Repository,
	eventBus shared.EventPublisher,
	logger *slog.Logger,
) *RecordPaymentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordPaymentHandler{
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle appends the entry and publishes the recorded event.
func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*RecordPaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_payment: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		if shared.IsNotFound(err) {
			h.logger.Warn("payment on missing student", "student_id", int64(cmd.StudentID))
			return &RecordPaymentResult{Applied: false}, nil
		}
		return nil, fmt.Errorf("record_payment: load student: %w", err)
	}

	currency := strings.TrimSpace(cmd.Currency)
	if currency == "" {
		currency = stud.Currency
	}

	// Undated payments are stamped with the recording day.
	date := strings.TrimSpace(cmd.Date)
	if date == "" {
		date = timeutil.FormatDate(timeutil.Now())
	}

	// When the upload layer hands over a receipt without a storage key,
	// assign one; the original filename is kept for download headers.
	receiptPath := strings.TrimSpace(cmd.ReceiptStoredPath)
	if receiptPath == "" && strings.TrimSpace(cmd.ReceiptOriginalFilename) != "" {
		receiptPath = "receipts/" + uuid.New().String() + strings.ToLower(filepath.Ext(cmd.ReceiptOriginalFilename))
	}

	p, err := payment.NewPayment(payment.NewPaymentParams{
		StudentID:               cmd.StudentID,
		Type:                    cmd.Type,
		Amount:                  cmd.Amount,
		Currency:                currency,
		Mode:                    cmd.Mode,
		Date:                    date,
		Status:                  cmd.Status,
		ReceiptOriginalFilename: cmd.ReceiptOriginalFilename,
		ReceiptStoredPath:       receiptPath,
		CreatedByUserID:         cmd.ActingUserID,
	})
	if err != nil {
		return nil, fmt.Errorf("record_payment: validation failed: %w", err)
	}

	if err := h.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("record_payment: %w", err)
	}

	h.logger.Info("payment recorded",
		"payment_id", int64(p.ID),
		"student_id", int64(p.StudentID),
		"amount", int64(p.Amount),
		"currency", p.Currency,
		"status", string(p.Status))

	if h.eventBus != nil {
		if err := h.eventBus.Publish(payment.NewRecordedEvent(p, stud.FullName)); err != nil {
			h.logger.Error("failed to publish payment recorded event",
				"payment_id", int64(p.ID), "error", err)
		}
	}

	return &RecordPaymentResult{Applied: true, Payment: p}, nil
}
