// Package eventhandler contains the domain event handlers that drive the
// notification fan-out.
package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

// ═══════════════════════════════════════════════════════════════════════════
// NOTIFICATION FAN-OUT
// Translates "notify role X" into per-user inserts. Recipients are
// resolved through the user repository at trigger time - there is no
// subscription list, so users activated a minute ago are included and
// deactivated ones are skipped. Each recipient is one independent insert;
// a failed insert is logged and skipped, never retried, and never blocks
// the remaining recipients.
// ═══════════════════════════════════════════════════════════════════════════

// handlerTimeout bounds the repository work done inside a bus callback.
const handlerTimeout = 10 * time.Second

// UnreadInvalidator drops a user's cached unread counter after an insert.
type UnreadInvalidator interface {
	InvalidateUnread(ctx context.Context, userID int64)
}

// Notifier performs the fan-out writes shared by all event handlers.
type Notifier struct {
	userRepo         user.Repository
	notificationRepo notification.Repository
	invalidator      UnreadInvalidator
	logger           *slog.Logger
}

// NewNotifier creates a fan-out notifier. invalidator may be nil.
func NewNotifier(
	userRepo user.Repository,
	notificationRepo notification.Repository,
	invalidator UnreadInvalidator,
	logger *slog.Logger,
) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		invalidator:      invalidator,
		logger:           logger.With("component", "notifier"),
	}
}

// NotifyRole writes one notification per active user holding the role.
// Returns the number of recipients actually written. Never returns an
// error: failures degrade to delivery gaps, which is the accepted
// behavior for best-effort in-app notices.
func (n *Notifier) NotifyRole(ctx context.Context, role user.Role, title, message string, typ notification.Type, link string) int {
	recipients, err := n.userRepo.ListActiveByRole(ctx, role)
	if err != nil {
		n.logger.Error("failed to resolve recipients",
			"role", string(role), "error", err)
		return 0
	}

	delivered := 0
	for _, recipient := range recipients {
		if n.NotifyUser(ctx, recipient.ID, title, message, typ, link) {
			delivered++
		}
	}

	n.logger.Info("fan-out complete",
		"role", string(role),
		"recipients", len(recipients),
		"delivered", delivered,
		"title", title)
	return delivered
}

// NotifyUser writes one notification for one user. Reports success.
func (n *Notifier) NotifyUser(ctx context.Context, userID int64, title, message string, typ notification.Type, link string) bool {
	notice, err := notification.New(userID, title, message, typ, link, time.Now().UTC())
	if err != nil {
		n.logger.Error("invalid notification", "user_id", userID, "error", err)
		return false
	}

	if err := n.notificationRepo.Create(ctx, notice); err != nil {
		n.logger.Error("failed to write notification",
			"user_id", userID, "title", title, "error", err)
		return false
	}

	if n.invalidator != nil {
		n.invalidator.InvalidateUnread(ctx, userID)
	}
	return true
}
