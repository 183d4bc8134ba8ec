package eventhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
)

func confirmedEvent(studentName string, createdBy *int64) payment.ConfirmedEvent {
	return payment.NewConfirmedEvent(&payment.Payment{
		ID:              21,
		StudentID:       3,
		Amount:          100000,
		Currency:        "FCFA",
		Status:          payment.StatusReceived,
		CreatedByUserID: createdBy,
	}, studentName)
}

func TestOnPaymentConfirmed_NotifiesRecordingUser(t *testing.T) {
	noticeRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(newFakeUserRepo(), noticeRepo, nil, nil)
	handler := NewOnPaymentConfirmedHandler(notifier, nil)

	err := handler.Handle(confirmedEvent("Aminata Diallo", userID(5)))
	require.NoError(t, err)

	require.Len(t, noticeRepo.notices, 1)
	notice := noticeRepo.notices[0]
	assert.Equal(t, int64(5), notice.UserID)
	assert.Equal(t, "Paiement Confirmé", notice.Title)
	assert.Contains(t, notice.Message, "100000 FCFA")
	assert.Contains(t, notice.Message, "Aminata Diallo")
	assert.Equal(t, notification.TypeSuccess, notice.Type)
	assert.Equal(t, "/payments/student/3", notice.Link)
}

func TestOnPaymentConfirmed_AnonymousRecorderStaysSilent(t *testing.T) {
	noticeRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(newFakeUserRepo(), noticeRepo, nil, nil)
	handler := NewOnPaymentConfirmedHandler(notifier, nil)

	err := handler.Handle(confirmedEvent("Aminata Diallo", nil))
	require.NoError(t, err)
	assert.Empty(t, noticeRepo.notices)
}

func TestOnPaymentConfirmed_MissingStudentNameFallsBack(t *testing.T) {
	noticeRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(newFakeUserRepo(), noticeRepo, nil, nil)
	handler := NewOnPaymentConfirmedHandler(notifier, nil)

	err := handler.Handle(confirmedEvent("", userID(5)))
	require.NoError(t, err)

	require.Len(t, noticeRepo.notices, 1)
	assert.Contains(t, noticeRepo.notices[0].Message, "étudiant")
}

func TestOnPaymentConfirmed_IgnoresForeignEvent(t *testing.T) {
	noticeRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(newFakeUserRepo(), noticeRepo, nil, nil)
	handler := NewOnPaymentConfirmedHandler(notifier, nil)

	err := handler.Handle(payment.NewRecordedEvent(&payment.Payment{ID: 1, StudentID: 3, CreatedByUserID: userID(5)}, "X"))
	require.NoError(t, err)
	assert.Empty(t, noticeRepo.notices)
}
