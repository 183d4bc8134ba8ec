package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK NOTIFICATION READ COMMANDS
// Read-flag maintenance for the notification bell: one notice, or a
// user's whole inbox at once.
// ══════════════════════════════════════════════════════════════════════════════

// UnreadInvalidator drops a user's cached unread counter after a write.
// Implemented by the redis cache layer; nil disables invalidation.
type UnreadInvalidator interface {
	InvalidateUnread(ctx context.Context, userID int64)
}

// MarkNotificationReadCommand flags one notification as read.
type MarkNotificationReadCommand struct {
	NotificationID notification.NotificationID

	// UserID is the notification's recipient, used for cache invalidation.
	UserID int64
}

// Validate validates the command.
func (c MarkNotificationReadCommand) Validate() error {
	if c.NotificationID <= 0 {
		return shared.NewDomainError("notification", "MarkRead", shared.ErrInvalidID, "notification id must be positive")
	}
	return nil
}

// MarkAllNotificationsReadCommand flags a user's whole inbox as read.
type MarkAllNotificationsReadCommand struct {
	UserID int64
}

// Validate validates the command.
func (c MarkAllNotificationsReadCommand) Validate() error {
	if c.UserID <= 0 {
		return shared.NewDomainError("notification", "MarkAllRead", shared.ErrInvalidID, "user id must be positive")
	}
	return nil
}

// MarkNotificationReadHandler handles read-flag updates.
type MarkNotificationReadHandler struct {
	notificationRepo notification.Repository
	invalidator      UnreadInvalidator
	logger           *slog.Logger
}

// NewMarkNotificationReadHandler creates a new handler.
func NewMarkNotificationReadHandler(
	notificationRepo notification.Repository,
	invalidator UnreadInvalidator,
	logger *slog.Logger,
) *MarkNotificationReadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkNotificationReadHandler{
		notificationRepo: notificationRepo,
		invalidator:      invalidator,
		logger:           logger,
	}
}

// Handle flags one notification as read.
func (h *MarkNotificationReadHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("mark_notification_read: validation failed: %w", err)
	}

	if err := h.notificationRepo.MarkRead(ctx, cmd.NotificationID); err != nil {
		return fmt.Errorf("mark_notification_read: %w", err)
	}

	if h.invalidator != nil && cmd.UserID > 0 {
		h.invalidator.InvalidateUnread(ctx, cmd.UserID)
	}
	return nil
}

// HandleAll flags a user's whole inbox as read.
func (h *MarkNotificationReadHandler) HandleAll(ctx context.Context, cmd MarkAllNotificationsReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("mark_all_notifications_read: validation failed: %w", err)
	}

	if err := h.notificationRepo.MarkAllRead(ctx, cmd.UserID); err != nil {
		return fmt.Errorf("mark_all_notifications_read: %w", err)
	}

	if h.invalidator != nil {
		h.invalidator.InvalidateUnread(ctx, cmd.UserID)
	}
	return nil
}
