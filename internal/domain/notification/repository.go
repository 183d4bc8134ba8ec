package notification

import "context"

// ListOptions narrows per-user notification listings.
type ListOptions struct {
	// UnreadOnly restricts the listing to unread notices.
	UnreadOnly bool

	// Limit caps the number of entries returned (0 means the default).
	Limit int
}

// DefaultListLimit is applied when no limit is given.
const DefaultListLimit = 10

// Repository defines the storage contract for notifications.
// Implementations live in infrastructure/persistence.
//
// Fan-out note: callers deliver to N recipients as N independent Create
// calls. Partial delivery (some inserts succeed, some fail) is accepted
// behavior and must not be wrapped in a surrounding transaction.
type Repository interface {
	// Create inserts one notification. Sets n.ID on success.
	Create(ctx context.Context, n *Notification) error

	// ListByUser returns a user's notifications, newest first.
	ListByUser(ctx context.Context, userID int64, opts ListOptions) ([]*Notification, error)

	// MarkRead flags one notification as read.
	MarkRead(ctx context.Context, id NotificationID) error

	// MarkAllRead flags all of a user's notifications as read.
	MarkAllRead(ctx context.Context, userID int64) error

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, userID int64) (int, error)
}
