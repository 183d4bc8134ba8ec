package postgres

import (
	"context"
	"fmt"

	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// Each fan-out recipient is one independent INSERT. There is deliberately
// no batch write: partial delivery is the documented behavior.
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// Create inserts one notification.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.conn.QueryRow(ctx, query,
		n.UserID,
		n.Title,
		n.Message,
		string(n.Type),
		n.Link,
		n.IsRead,
		n.CreatedAt,
	).Scan(&id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.NewDomainError("notification", "Create", shared.ErrNotFound, "recipient not found")
		}
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	n.ID = notification.NotificationID(id)
	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, opts notification.ListOptions) ([]*notification.Notification, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = notification.DefaultListLimit
	}

	query := `
		SELECT id, user_id, title, message, type, link, is_read, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if opts.UnreadOnly {
		query += " AND NOT is_read"
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT $2"

	rows, err := r.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notices []*notification.Notification
	for rows.Next() {
		var (
			n   notification.Notification
			id  int64
			typ string
		)
		if err := rows.Scan(&id, &n.UserID, &n.Title, &n.Message, &typ, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.ID = notification.NotificationID(id)
		n.Type = notification.Type(typ)
		notices = append(notices, &n)
	}

	return notices, rows.Err()
}

// MarkRead flags one notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id notification.NotificationID) error {
	tag, err := r.conn.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("notification", "MarkRead", shared.ErrNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead flags all of a user's notifications as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// CountUnread returns the user's unread counter.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
