package eventhandler

import (
	"context"
	"fmt"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// Fan-out tests need a recipient directory, a notification sink with
// injectable insert failures, and a status name source.
// ══════════════════════════════════════════════════════════════════════════════

type fakeUserRepo struct {
	users map[int64]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
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

// fakeNotificationRepo records inserts and can fail them for chosen users.
type fakeNotificationRepo struct {
	notices []*notification.Notification
	failFor map[int64]bool
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	if r.failFor[n.UserID] {
		return fmt.Errorf("insert failed for user %d", n.UserID)
	}
	n.ID = notification.NotificationID(len(r.notices) + 1)
	r.notices = append(r.notices, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID int64, _ notification.ListOptions) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range r.notices {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _ notification.NotificationID) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ int64) error {
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

// recipients returns the user ids that received a notice, in insert order.
func (r *fakeNotificationRepo) recipients() []int64 {
	out := make([]int64, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.UserID)
	}
	return out
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
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStatusRepo) Seed(_ context.Context) error {
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

// spyInvalidator records the user ids whose unread counters were dropped.
type spyInvalidator struct {
	invalidated []int64
}

func (s *spyInvalidator) InvalidateUnread(_ context.Context, userID int64) {
	s.invalidated = append(s.invalidated, userID)
}

func backofficeUser(id int64, name string, role user.Role, active bool) *user.User {
	return &user.User{
		ID:       id,
		FullName: name,
		Email:    fmt.Sprintf("user%d@afcalink.example", id),
		Role:     role,
		Active:   active,
	}
}

func statusID(v int64) *status.StatusID {
	id := status.StatusID(v)
	return &id
}

func userID(v int64) *int64 {
	return &v
}
