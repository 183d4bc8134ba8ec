package eventhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

func recordedEvent(createdBy *int64) payment.RecordedEvent {
	return payment.NewRecordedEvent(&payment.Payment{
		ID:              11,
		StudentID:       3,
		Amount:          250000,
		Currency:        "FCFA",
		Status:          payment.StatusPending,
		CreatedByUserID: createdBy,
	}, "Aminata Diallo")
}

func TestOnPaymentRecorded_NotifiesSecretariesAndAdmins(t *testing.T) {
	userRepo := newFakeUserRepo(
		backofficeUser(1, "Martine Essomba", user.RoleSecretary, true),
		backofficeUser(2, "Jean Mbarga", user.RoleAdmin, true),
		backofficeUser(5, "Agent Douala", user.RoleAgent, true),
	)
	noticeRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(userRepo, noticeRepo, nil, nil)
	handler := NewOnPaymentRecordedHandler(notifier, userRepo, nil)

	err := handler.Handle(recordedEvent(userID(5)))
	require.NoError(t, err)

	require.Len(t, noticeRepo.notices, 2)

	secretary := noticeRepo.notices[0]
	assert.Equal(t, int64(1), secretary.UserID)
	assert.Equal(t, "Nouveau Paiement à Valider", secretary.Title)
	assert.Contains(t, secretary.Message, "250000 FCFA")
	assert.Contains(t, secretary.Message, "Aminata Diallo")
	assert.Equal(t, notification.TypePayment, secretary.Type)
	assert.Equal(t, "/accounting/pending", secretary.Link)

	admin := noticeRepo.notices[1]
	assert.Equal(t, int64(2), admin.UserID)
	assert.Equal(t, "Encaissement Enregistré", admin.Title)
	assert.Contains(t, admin.Message, "Agent Douala")
	assert.Equal(t, "/payments/student/3", admin.Link)
}

func TestOnPaymentRecorded_AnonymousActorFallsBack(t *testing.T) {
	userRepo := newFakeUserRepo(backofficeUser(2, "Jean Mbarga", user.RoleAdmin, true))
	noticeRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(userRepo, noticeRepo, nil, nil)
	handler := NewOnPaymentRecordedHandler(notifier, userRepo, nil)

	err := handler.Handle(recordedEvent(nil))
	require.NoError(t, err)

	require.Len(t, noticeRepo.notices, 1)
	assert.Contains(t, noticeRepo.notices[0].Message, "Le bureau")
}

func TestOnPaymentRecorded_UnresolvableActorFallsBack(t *testing.T) {
	userRepo := newFakeUserRepo(backofficeUser(2, "Jean Mbarga", user.RoleAdmin, true))
	noticeRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(userRepo, noticeRepo, nil, nil)
	handler := NewOnPaymentRecordedHandler(notifier, userRepo, nil)

	err := handler.Handle(recordedEvent(userID(99)))
	require.NoError(t, err)

	require.Len(t, noticeRepo.notices, 1)
	assert.Contains(t, noticeRepo.notices[0].Message, "Le bureau")
}

func TestOnPaymentRecorded_IgnoresForeignEvent(t *testing.T) {
	userRepo := newFakeUserRepo(backofficeUser(2, "Jean Mbarga", user.RoleAdmin, true))
	noticeRepo := &fakeNotificationRepo{}
	notifier := NewNotifier(userRepo, noticeRepo, nil, nil)
	handler := NewOnPaymentRecordedHandler(notifier, userRepo, nil)

	err := handler.Handle(payment.NewConfirmedEvent(&payment.Payment{ID: 1, StudentID: 3}, "X"))
	require.NoError(t, err)
	assert.Empty(t, noticeRepo.notices)
}
