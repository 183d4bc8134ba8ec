package payment

import (
	"strconv"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// Payment Events
// ═══════════════════════════════════════════════════════════════════════════

// RecordedEvent is emitted when a payment is appended to the ledger.
type RecordedEvent struct {
	shared.BaseEvent
	PaymentID       PaymentID         `json:"payment_id"`
	StudentID       student.StudentID `json:"student_id"`
	StudentName     string            `json:"student_name"`
	Amount          student.Amount    `json:"amount"`
	Currency        string            `json:"currency"`
	Status          Status            `json:"status"`
	CreatedByUserID *int64            `json:"created_by_user_id,omitempty"`
}

// Payload implements shared.Event.
func (e RecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"payment_id": int64(e.PaymentID),
		"student_id": int64(e.StudentID),
		"amount":     int64(e.Amount),
		"currency":   e.Currency,
		"status":     string(e.Status),
	}
}

// NewRecordedEvent creates a new RecordedEvent.
func NewRecordedEvent(p *Payment, studentName string) RecordedEvent {
	return RecordedEvent{
		BaseEvent:       shared.NewBaseEvent(shared.EventPaymentRecorded, strconv.FormatInt(int64(p.ID), 10)),
		PaymentID:       p.ID,
		StudentID:       p.StudentID,
		StudentName:     studentName,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          p.Status,
		CreatedByUserID: p.CreatedByUserID,
	}
}

// ConfirmedEvent is emitted when a payment is validated by accounting.
type ConfirmedEvent struct {
	shared.BaseEvent
	PaymentID       PaymentID         `json:"payment_id"`
	StudentID       student.StudentID `json:"student_id"`
	StudentName     string            `json:"student_name"`
	Amount          student.Amount    `json:"amount"`
	Currency        string            `json:"currency"`
	CreatedByUserID *int64            `json:"created_by_user_id,omitempty"`
}

// Payload implements shared.Event.
func (e ConfirmedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"payment_id": int64(e.PaymentID),
		"student_id": int64(e.StudentID),
		"amount":     int64(e.Amount),
		"currency":   e.Currency,
	}
}

// NewConfirmedEvent creates a new ConfirmedEvent.
func NewConfirmedEvent(p *Payment, studentName string) ConfirmedEvent {
	return ConfirmedEvent{
		BaseEvent:       shared.NewBaseEvent(shared.EventPaymentConfirmed, strconv.FormatInt(int64(p.ID), 10)),
		PaymentID:       p.ID,
		StudentID:       p.StudentID,
		StudentName:     studentName,
		Amount:          p.Amount,
		Currency:        p.Currency,
		CreatedByUserID: p.CreatedByUserID,
	}
}
