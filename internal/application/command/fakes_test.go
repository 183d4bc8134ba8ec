package command

import (
	"context"
	"strings"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// Minimal repository implementations backing the command handler tests.
// ══════════════════════════════════════════════════════════════════════════════

type fakeStudentRepo struct {
	students      map[student.StudentID]*student.Student
	history       []*student.StatusChange
	nextID        student.StudentID
	nextHistoryID int64
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		students: make(map[student.StudentID]*student.Student),
		nextID:   1,
	}
}

func (r *fakeStudentRepo) notFound(op string) error {
	return shared.NewDomainError("student", op, shared.ErrNotFound, "student not found")
}

func (r *fakeStudentRepo) appendHistory(id student.StudentID, from, to *status.StatusID, actor *int64) *student.StatusChange {
	r.nextHistoryID++
	entry := &student.StatusChange{
		ID:              r.nextHistoryID,
		StudentID:       id,
		FromStatusID:    from,
		ToStatusID:      to,
		ChangedByUserID: actor,
		ChangedAt:       time.Now().UTC(),
	}
	r.history = append(r.history, entry)
	return entry
}

func (r *fakeStudentRepo) Create(_ context.Context, s *student.Student, actorUserID *int64) (*student.StatusChange, error) {
	s.ID = r.nextID
	r.nextID++
	r.students[s.ID] = s

	if s.StatusID == nil {
		return nil, nil
	}
	return r.appendHistory(s.ID, nil, s.StatusID, actorUserID), nil
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
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudentRepo) UpdateProfile(_ context.Context, s *student.Student, toStatusID *status.StatusID, actorUserID *int64) (*student.StatusChange, error) {
	current, ok := r.students[s.ID]
	if !ok {
		return nil, r.notFound("UpdateProfile")
	}

	from := current.StatusID
	updated := *s
	updated.StatusID = toStatusID
	r.students[s.ID] = &updated

	if current.StatusEquals(toStatusID) {
		return nil, nil
	}
	return r.appendHistory(s.ID, from, toStatusID, actorUserID), nil
}

func (r *fakeStudentRepo) ChangeStatus(_ context.Context, id student.StudentID, toStatusID *status.StatusID, actorUserID *int64) (*student.Student, *student.StatusChange, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, nil, r.notFound("ChangeStatus")
	}

	from := s.StatusID
	s.StatusID = toStatusID
	s.UpdatedAt = time.Now().UTC()

	entry := r.appendHistory(id, from, toStatusID, actorUserID)
	copied := *s
	return &copied, entry, nil
}

func (r *fakeStudentRepo) SetFinancial(_ context.Context, id student.StudentID, totalAmount student.Amount, currency string) error {
	s, ok := r.students[id]
	if !ok {
		return r.notFound("SetFinancial")
	}
	s.TotalAmount = totalAmount
	s.Currency = currency
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id student.StudentID) error {
	if _, ok := r.students[id]; !ok {
		return r.notFound("Delete")
	}
	delete(r.students, id)

	var kept []*student.StatusChange
	for _, e := range r.history {
		if e.StudentID != id {
			kept = append(kept, e)
		}
	}
	r.history = kept
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
	entries map[payment.PaymentID]*payment.Payment
	nextID  payment.PaymentID
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		entries: make(map[payment.PaymentID]*payment.Payment),
		nextID:  1,
	}
}

func (r *fakePaymentRepo) notFound(op string) error {
	return shared.NewDomainError("payment", op, shared.ErrNotFound, "payment not found")
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	p.ID = r.nextID
	r.nextID++
	r.entries[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id payment.PaymentID) (*payment.Payment, error) {
	p, ok := r.entries[id]
	if !ok {
		return nil, r.notFound("GetByID")
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) Confirm(_ context.Context, id payment.PaymentID) (*payment.Payment, error) {
	p, ok := r.entries[id]
	if !ok {
		return nil, r.notFound("Confirm")
	}
	p.Status = payment.StatusReceived
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) List(_ context.Context) ([]*payment.Payment, error) {
	var out []*payment.Payment
	for _, p := range r.entries {
		out = append(out, p)
	}
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
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id notification.NotificationID) error {
	for _, n := range r.notices {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return shared.NewDomainError("notification", "MarkRead", shared.ErrNotFound, "notification not found")
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range r.notices {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
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

type fakeUserRepo struct {
	users  map[int64]*user.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*user.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return shared.NewDomainError("user", "Create", shared.ErrAlreadyExists, "email already registered")
		}
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.NewDomainError("user", "GetByID", shared.ErrNotFound, "user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.NewDomainError("user", "GetByEmail", shared.ErrNotFound, "user not found")
}

func (r *fakeUserRepo) ListActiveByRole(_ context.Context, role user.Role) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.users {
		if u.Active && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(r.users), nil
}

// ─────────────────────────────────────────────────────────────────────────────

// capturingBus records published events for assertions.
type capturingBus struct {
	events []shared.Event
}

func (b *capturingBus) Publish(event shared.Event) error {
	b.events = append(b.events, event)
	return nil
}

func statusID(v int64) *status.StatusID {
	id := status.StatusID(v)
	return &id
}

func userID(v int64) *int64 {
	return &v
}
