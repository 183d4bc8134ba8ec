package query

import (
	"context"
	"fmt"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION QUERIES
// The bell menu: a user's recent notices and the unread counter. The
// counter read can be served by a cache layer that satisfies UnreadCounter.
// ══════════════════════════════════════════════════════════════════════════════

// UnreadCounter reads a user's unread count, possibly through a cache.
// The plain repository satisfies it; the redis layer wraps it with a
// short-TTL read-through.
type UnreadCounter interface {
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// ListNotificationsQuery narrows one user's notification listing.
type ListNotificationsQuery struct {
	UserID int64

	// UnreadOnly restricts to unread notices.
	UnreadOnly bool

	// Limit caps the listing (0 applies the default).
	Limit int
}

// Validate validates the query.
func (q ListNotificationsQuery) Validate() error {
	if q.UserID <= 0 {
		return shared.NewDomainError("notification", "List", shared.ErrInvalidID, "user id must be positive")
	}
	return nil
}

// ListNotificationsResult contains the notices, newest first.
type ListNotificationsResult struct {
	Notifications []*notification.Notification
}

// ListNotificationsHandler handles per-user notification reads.
type ListNotificationsHandler struct {
	notificationRepo notification.Repository
	unreadCounter    UnreadCounter
}

// NewListNotificationsHandler creates a new handler. A nil unreadCounter
// falls back to the repository.
func NewListNotificationsHandler(notificationRepo notification.Repository, unreadCounter UnreadCounter) *ListNotificationsHandler {
	if unreadCounter == nil {
		unreadCounter = notificationRepo
	}
	return &ListNotificationsHandler{
		notificationRepo: notificationRepo,
		unreadCounter:    unreadCounter,
	}
}

// Handle runs the listing.
func (h *ListNotificationsHandler) Handle(ctx context.Context, q ListNotificationsQuery) (*ListNotificationsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("list_notifications: validation failed: %w", err)
	}

	notices, err := h.notificationRepo.ListByUser(ctx, q.UserID, notification.ListOptions{
		UnreadOnly: q.UnreadOnly,
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list_notifications: %w", err)
	}

	return &ListNotificationsResult{Notifications: notices}, nil
}

// CountUnread returns the user's unread counter.
func (h *ListNotificationsHandler) CountUnread(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, shared.NewDomainError("notification", "CountUnread", shared.ErrInvalidID, "user id must be positive")
	}

	count, err := h.unreadCounter.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count_unread: %w", err)
	}
	return count, nil
}
