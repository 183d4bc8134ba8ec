package query

import (
	"context"
	"strings"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// Read-side repository fakes backing the query handler tests. Write methods
// exist only to satisfy the interfaces; the tests seed the maps directly.
// ══════════════════════════════════════════════════════════════════════════════

type fakeStudentRepo struct {
	students map[student.StudentID]*student.Student
	history  []*student.StatusChange
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[student.StudentID]*student.Student)}
}

func (r *fakeStudentRepo) notFound(op string) error {
	return shared.NewDomainError("student", op, shared.ErrNotFound, "student not found")
}

func (r *fakeStudentRepo) Create(_ context.Context, s *student.Student, actorUserID *int64) (*student.StatusChange, error) {
	r.students[s.ID] = s
	return nil, nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id student.StudentID) (*student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, r.notFound("GetByID")
	}
	copied := *s
	return &copied, nil
}

func (r *fakeStudentRepo) List(_ context.Context, filter student.ListFilter) ([]*student.Student, error) {
	var out []*student.Student
	for _, s := range r.students {
		if filter.StatusID != nil && !s.StatusEquals(filter.StatusID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.AgentName != "" && s.AgentName != filter.AgentName {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudentRepo) UpdateProfile(_ context.Context, s *student.Student, toStatusID *status.StatusID, actorUserID *int64) (*student.StatusChange, error) {
	return nil, nil
}

func (r *fakeStudentRepo) ChangeStatus(_ context.Context, id student.StudentID, toStatusID *status.StatusID, actorUserID *int64) (*student.Student, *student.StatusChange, error) {
	return nil, nil, r.notFound("ChangeStatus")
}

func (r *fakeStudentRepo) SetFinancial(_ context.Context, id student.StudentID, totalAmount student.Amount, currency string) error {
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id student.StudentID) error {
	return nil
}

func (r *fakeStudentRepo) History(_ context.Context, id student.StudentID) ([]*student.StatusChange, error) {
	var out []*student.StatusChange
	for _, e := range r.history {
		if e.StudentID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────

type fakePaymentRepo struct {
	entries []*payment.Payment
}

func (r *fakePaymentRepo) notFound(op string) error {
	return shared.NewDomainError("payment", op, shared.ErrNotFound, "payment not found")
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	p.ID = payment.PaymentID(len(r.entries) + 1)
	r.entries = append(r.entries, p)
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id payment.PaymentID) (*payment.Payment, error) {
	for _, p := range r.entries {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, r.notFound("GetByID")
}

func (r *fakePaymentRepo) Confirm(_ context.Context, id payment.PaymentID) (*payment.Payment, error) {
	return nil, r.notFound("Confirm")
}

func (r *fakePaymentRepo) List(_ context.Context) ([]*payment.Payment, error) {
	out := make([]*payment.Payment, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *fakePaymentRepo) ListByStudent(_ context.Context, studentID student.StudentID) ([]*payment.Payment, error) {
	var out []*payment.Payment
	for _, p := range r.entries {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) SumReceivedByStudent(_ context.Context, studentID student.StudentID) (student.Amount, error) {
	var sum student.Amount
	for _, p := range r.entries {
		if p.StudentID == studentID && p.IsReceived() {
			sum += p.Amount
		}
	}
	return sum, nil
}

// ─────────────────────────────────────────────────────────────────────────────

type fakeStatusRepo struct {
	statuses map[status.StatusID]*status.Status
}

func newFakeStatusRepo(names ...string) *fakeStatusRepo {
	r := &fakeStatusRepo{statuses: make(map[status.StatusID]*status.Status)}
	for i, name := range names {
		id := status.StatusID(i + 1)
		r.statuses[id] = &status.Status{ID: id, Name: name, Active: true, SortOrder: (i + 1) * 10}
	}
	return r
}

func (r *fakeStatusRepo) GetByID(_ context.Context, id status.StatusID) (*status.Status, error) {
	s, ok := r.statuses[id]
	if !ok {
		return nil, shared.NewDomainError("status", "GetByID", shared.ErrNotFound, "status not found")
	}
	return s, nil
}

func (r *fakeStatusRepo) ListActive(_ context.Context) ([]*status.Status, error) {
	var out []*status.Status
	for _, s := range r.statuses {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStatusRepo) Seed(_ context.Context) error {
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type fakeNotificationRepo struct {
	notices []*notification.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	n.ID = notification.NotificationID(len(r.notices) + 1)
	r.notices = append(r.notices, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID int64, opts notification.ListOptions) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range r.notices {
		if n.UserID != userID {
			continue
		}
		if opts.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id notification.NotificationID) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) error {
	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, n := range r.notices {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────

func statusID(v int64) *status.StatusID {
	id := status.StatusID(v)
	return &id
}

func historyEntry(id int64, studentID student.StudentID, from, to *status.StatusID) *student.StatusChange {
	return &student.StatusChange{
		ID:           id,
		StudentID:    studentID,
		FromStatusID: from,
		ToStatusID:   to,
		ChangedAt:    time.Now().UTC(),
	}
}
