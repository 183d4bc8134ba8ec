// Package notification contains the in-app notification domain model.
// Notifications are written once per recipient and consumed by polling
// (list view plus unread counter on page load); there is no push delivery.
package notification

import (
	"errors"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// NotificationID represents the unique identifier of a notification.
type NotificationID int64

// Type tags a notification for rendering (badge color, icon).
type Type string

const (
	// TypeInfo - neutral informational notice.
	TypeInfo Type = "info"

	// TypeSuccess - positive outcome (e.g. payment validated).
	TypeSuccess Type = "success"

	// TypePayment - payment-related notice for accounting roles.
	TypePayment Type = "payment"

	// TypeStatus - student pipeline status change notice.
	TypeStatus Type = "status"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Notification is one per-recipient notice.
type Notification struct {
	// ID - internal unique identifier.
	ID NotificationID

	// UserID - the recipient back-office user.
	UserID int64

	// Title - short headline.
	Title string

	// Message - notice body.
	Message string

	// Type - rendering tag.
	Type Type

	// Link - optional deep link into the back office.
	Link string

	// IsRead - read flag, false on creation.
	IsRead bool

	CreatedAt time.Time
}

var (
	// ErrInvalidRecipient - recipient user id is not positive.
	ErrInvalidRecipient = errors.New("invalid recipient: user id must be positive")

	// ErrEmptyTitle - notification title is empty.
	ErrEmptyTitle = errors.New("notification title is required")
)

// New creates a validated unread notification.
func New(userID int64, title, message string, typ Type, link string, now time.Time) (*Notification, error) {
	if userID <= 0 {
		return nil, ErrInvalidRecipient
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if typ == "" {
		typ = TypeInfo
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	return &Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Link:      link,
		IsRead:    false,
		CreatedAt: now,
	}, nil
}
