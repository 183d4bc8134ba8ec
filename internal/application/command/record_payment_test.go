package command

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
	"github.com/afcalink/afcalink-backoffice/pkg/timeutil"
)

func TestRecordPayment_Pending(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	paymentRepo := newFakePaymentRepo()
	bus := &capturingBus{}
	handler := NewRecordPaymentHandler(paymentRepo, studentRepo, bus, nil)

	stud := seedStudent(t, studentRepo, "Aminata Diallo")

	result, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID:    stud.ID,
		Type:         "Scolarité",
		Amount:       200000,
		Mode:         "espèces",
		Date:         "2026-02-14",
		Status:       payment.StatusPending,
		ActingUserID: userID(5),
	})
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.True(t, result.Payment.ID.IsValid())
	assert.Equal(t, payment.StatusPending, result.Payment.Status)
	assert.Equal(t, int64(5), *result.Payment.CreatedByUserID)

	require.Len(t, bus.events, 1)
	event, ok := bus.events[0].(payment.RecordedEvent)
	require.True(t, ok)
	assert.Equal(t, shared.EventPaymentRecorded, event.EventType())
	assert.Equal(t, "Aminata Diallo", event.StudentName)
}

func TestRecordPayment_InheritsStudentCurrency(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	paymentRepo := newFakePaymentRepo()
	handler := NewRecordPaymentHandler(paymentRepo, studentRepo, nil, nil)

	stud := seedStudent(t, studentRepo, "Aminata Diallo")
	require.Equal(t, "FCFA", stud.Currency)

	result, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID: stud.ID,
		Amount:    1000,
		Status:    payment.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "FCFA", result.Payment.Currency)

	result, err = handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID: stud.ID,
		Amount:    1000,
		Currency:  "EUR",
		Status:    payment.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", result.Payment.Currency)
}

func TestRecordPayment_MissingStudentIsNoOp(t *testing.T) {
	paymentRepo := newFakePaymentRepo()
	bus := &capturingBus{}
	handler := NewRecordPaymentHandler(paymentRepo, newFakeStudentRepo(), bus, nil)

	result, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID: 404,
		Amount:    1000,
		Status:    payment.StatusPending,
	})
	require.NoError(t, err)

	assert.False(t, result.Applied)
	assert.Nil(t, result.Payment)
	assert.Empty(t, paymentRepo.entries)
	assert.Empty(t, bus.events)
}

func TestRecordPayment_RejectsNegativeAmount(t *testing.T) {
	handler := NewRecordPaymentHandler(newFakePaymentRepo(), newFakeStudentRepo(), nil, nil)

	_, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID: 1,
		Amount:    student.Amount(-100),
		Status:    payment.StatusPending,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNegativeValue)
}

func TestRecordPayment_RejectsUnknownStatus(t *testing.T) {
	handler := NewRecordPaymentHandler(newFakePaymentRepo(), newFakeStudentRepo(), nil, nil)

	_, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID: 1,
		Amount:    100,
		Status:    "cancelled",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestRecordPayment_RejectsMalformedDate(t *testing.T) {
	handler := NewRecordPaymentHandler(newFakePaymentRepo(), newFakeStudentRepo(), nil, nil)

	_, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID: 1,
		Amount:    100,
		Status:    payment.StatusPending,
		Date:      "12/03/2026",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestRecordPayment_EmptyDateStampedWithToday(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	seedStudent(t, studentRepo, "Aminata Diallo")
	handler := NewRecordPaymentHandler(newFakePaymentRepo(), studentRepo, nil, nil)

	result, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID: 1,
		Amount:    100,
		Status:    payment.StatusPending,
	})
	require.NoError(t, err)

	require.True(t, result.Applied)
	assert.Equal(t, timeutil.FormatDate(timeutil.Now()), result.Payment.Date)
}

func TestRecordPayment_AssignsReceiptStorageKey(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	seedStudent(t, studentRepo, "Aminata Diallo")
	handler := NewRecordPaymentHandler(newFakePaymentRepo(), studentRepo, nil, nil)

	result, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID:               1,
		Amount:                  100,
		Status:                  payment.StatusPending,
		ReceiptOriginalFilename: "Reçu Scolarité.PDF",
	})
	require.NoError(t, err)
	require.True(t, result.Applied)

	assert.Equal(t, "Reçu Scolarité.PDF", result.Payment.ReceiptOriginalFilename)
	assert.True(t, strings.HasPrefix(result.Payment.ReceiptStoredPath, "receipts/"))
	assert.True(t, strings.HasSuffix(result.Payment.ReceiptStoredPath, ".pdf"))
}

func TestRecordPayment_KeepsSuppliedStorageKey(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	seedStudent(t, studentRepo, "Aminata Diallo")
	handler := NewRecordPaymentHandler(newFakePaymentRepo(), studentRepo, nil, nil)

	result, err := handler.Handle(context.Background(), RecordPaymentCommand{
		StudentID:               1,
		Amount:                  100,
		Status:                  payment.StatusPending,
		ReceiptOriginalFilename: "recu.pdf",
		ReceiptStoredPath:       "receipts/fixed-key.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "receipts/fixed-key.pdf", result.Payment.ReceiptStoredPath)
}
