package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StatusRepository implements status.Repository for PostgreSQL.
type StatusRepository struct {
	conn *Connection
}

// NewStatusRepository creates a new StatusRepository.
func NewStatusRepository(conn *Connection) *StatusRepository {
	return &StatusRepository{conn: conn}
}

// GetByID returns a status by id.
func (r *StatusRepository) GetByID(ctx context.Context, id status.StatusID) (*status.Status, error) {
	var s status.Status
	var rawID int64

	err := r.conn.QueryRow(ctx,
		`SELECT id, name, active, sort_order FROM statuses WHERE id = $1`,
		int64(id)).Scan(&rawID, &s.Name, &s.Active, &s.SortOrder)
	if IsNoRows(err) {
		return nil, shared.NewDomainError("status", "Get", shared.ErrNotFound, "status not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan status: %w", err)
	}

	s.ID = status.StatusID(rawID)
	return &s, nil
}

// ListActive returns all active statuses in pipeline order.
func (r *StatusRepository) ListActive(ctx context.Context) ([]*status.Status, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT id, name, active, sort_order FROM statuses WHERE active ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []*status.Status
	for rows.Next() {
		var s status.Status
		var rawID int64
		if err := rows.Scan(&rawID, &s.Name, &s.Active, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		s.ID = status.StatusID(rawID)
		statuses = append(statuses, &s)
	}

	return statuses, rows.Err()
}

// Seed inserts the default pipeline statuses into an empty registry.
// The emptiness check and inserts share one transaction so concurrent
// boots cannot double-seed.
func (r *StatusRepository) Seed(ctx context.Context) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM statuses`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count statuses: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, s := range status.DefaultStatuses() {
			_, err := tx.Exec(ctx,
				`INSERT INTO statuses (name, active, sort_order) VALUES ($1, $2, $3)`,
				s.Name, s.Active, s.SortOrder)
			if err != nil {
				return fmt.Errorf("failed to seed status %q: %w", s.Name, err)
			}
		}
		return nil
	})
}
