package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// Transition atomicity lives here: ChangeStatus reads the current status
// with the row locked, updates it and appends the history entry inside
// one transaction, so the (from, to) pair in the trail is a single
// observation even under concurrent writers.
// ══════════════════════════════════════════════════════════════════════════════

const studentColumns = `
	id, full_name, phone, email, country, study_level, program_choice,
	university, status_id, agent_name, total_amount, currency, notes,
	created_at, updated_at
`

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// Create inserts the student and, when an initial status is set, the
// opening history entry in the same transaction.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student, actorUserID *int64) (*student.StatusChange, error) {
	var change *student.StatusChange

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `
			INSERT INTO students (
				full_name, phone, email, country, study_level, program_choice,
				university, status_id, agent_name, total_amount, currency, notes,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id
		`

		var id int64
		err := tx.QueryRow(ctx, query,
			s.FullName,
			s.Phone,
			s.Email,
			s.Country,
			s.StudyLevel,
			s.ProgramChoice,
			s.University,
			statusIDValue(s.StatusID),
			s.AgentName,
			int64(s.TotalAmount),
			s.Currency,
			s.Notes,
			s.CreatedAt,
			s.UpdatedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert student: %w", err)
		}
		s.ID = student.StudentID(id)

		if s.StatusID == nil {
			return nil
		}

		c, err := insertHistory(ctx, tx, s.ID, nil, s.StatusID, actorUserID, s.CreatedAt)
		if err != nil {
			return err
		}
		change = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

// GetByID returns a student by id.
func (r *StudentRepository) GetByID(ctx context.Context, id student.StudentID) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudent(r.conn.QueryRow(ctx, query, int64(id)))
}

// List returns students matching the filter, newest first.
func (r *StudentRepository) List(ctx context.Context, filter student.ListFilter) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE TRUE`
	args := make([]interface{}, 0, 3)

	if filter.StatusID != nil {
		args = append(args, int64(*filter.StatusID))
		query += fmt.Sprintf(" AND status_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (full_name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)", n, n, n)
	}
	if filter.AgentName != "" {
		args = append(args, filter.AgentName)
		query += fmt.Sprintf(" AND agent_name = $%d", len(args))
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// UpdateProfile updates the profile fields and, when the submitted status
// differs from the stored one, applies the transition in the same
// transaction.
func (r *StudentRepository) UpdateProfile(ctx context.Context, s *student.Student, toStatusID *status.StatusID, actorUserID *int64) (*student.StatusChange, error) {
	var change *student.StatusChange
	now := time.Now().UTC()

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		current, err := lockCurrentStatus(ctx, tx, s.ID)
		if err != nil {
			return err
		}

		query := `
			UPDATE students SET
				full_name = $2, phone = $3, email = $4, country = $5,
				study_level = $6, program_choice = $7, university = $8,
				agent_name = $9, total_amount = $10, currency = $11,
				notes = $12, status_id = $13, updated_at = $14
			WHERE id = $1
		`
		_, err = tx.Exec(ctx, query,
			int64(s.ID),
			s.FullName,
			s.Phone,
			s.Email,
			s.Country,
			s.StudyLevel,
			s.ProgramChoice,
			s.University,
			s.AgentName,
			int64(s.TotalAmount),
			s.Currency,
			s.Notes,
			statusIDValue(toStatusID),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to update student: %w", err)
		}
		s.UpdatedAt = now

		// Unchanged status leaves no trail.
		if statusEqual(current, toStatusID) {
			return nil
		}

		c, err := insertHistory(ctx, tx, s.ID, current, toStatusID, actorUserID, now)
		if err != nil {
			return err
		}
		change = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

// ChangeStatus applies a transition unconditionally, locking the row for
// the duration of the (read, update, append) sequence.
func (r *StudentRepository) ChangeStatus(ctx context.Context, id student.StudentID, toStatusID *status.StatusID, actorUserID *int64) (*student.Student, *student.StatusChange, error) {
	var (
		updated *student.Student
		change  *student.StatusChange
	)
	now := time.Now().UTC()

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1 FOR UPDATE`
		s, err := scanStudent(tx.QueryRow(ctx, query, int64(id)))
		if err != nil {
			return err
		}
		from := s.StatusID

		_, err = tx.Exec(ctx,
			`UPDATE students SET status_id = $2, updated_at = $3 WHERE id = $1`,
			int64(id), statusIDValue(toStatusID), now)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		c, err := insertHistory(ctx, tx, id, from, toStatusID, actorUserID, now)
		if err != nil {
			return err
		}

		s.StatusID = toStatusID
		s.UpdatedAt = now
		updated = s
		change = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return updated, change, nil
}

// SetFinancial updates the stated total owed and currency.
func (r *StudentRepository) SetFinancial(ctx context.Context, id student.StudentID, totalAmount student.Amount, currency string) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE students SET total_amount = $2, currency = $3, updated_at = $4 WHERE id = $1`,
		int64(id), int64(totalAmount), currency, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set financials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("student", "SetFinancial", shared.ErrNotFound, "student not found")
	}
	return nil
}

// Delete removes the student; history and ledger entries cascade.
func (r *StudentRepository) Delete(ctx context.Context, id student.StudentID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("student", "Delete", shared.ErrNotFound, "student not found")
	}
	return nil
}

// History returns the student's status trail, oldest first.
func (r *StudentRepository) History(ctx context.Context, id student.StudentID) ([]*student.StatusChange, error) {
	query := `
		SELECT id, student_id, from_status_id, to_status_id, changed_by_user_id, changed_at
		FROM student_status_history
		WHERE student_id = $1
		ORDER BY changed_at, id
	`

	rows, err := r.conn.Query(ctx, query, int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var changes []*student.StatusChange
	for rows.Next() {
		var (
			c         student.StatusChange
			studentID int64
			fromID    *int64
			toID      *int64
		)
		if err := rows.Scan(&c.ID, &studentID, &fromID, &toID, &c.ChangedByUserID, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		c.StudentID = student.StudentID(studentID)
		c.FromStatusID = toStatusID(fromID)
		c.ToStatusID = toStatusID(toID)
		changes = append(changes, &c)
	}

	return changes, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// lockCurrentStatus reads the stored status with the row locked.
func lockCurrentStatus(ctx context.Context, tx pgx.Tx, id student.StudentID) (*status.StatusID, error) {
	var raw *int64
	err := tx.QueryRow(ctx, `SELECT status_id FROM students WHERE id = $1 FOR UPDATE`, int64(id)).Scan(&raw)
	if IsNoRows(err) {
		return nil, shared.NewDomainError("student", "Get", shared.ErrNotFound, "student not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read current status: %w", err)
	}
	return toStatusID(raw), nil
}

// insertHistory appends one trail entry on the caller's transaction.
func insertHistory(ctx context.Context, tx pgx.Tx, id student.StudentID, from, to *status.StatusID, actorUserID *int64, at time.Time) (*student.StatusChange, error) {
	var entryID int64
	err := tx.QueryRow(ctx, `
		INSERT INTO student_status_history (student_id, from_status_id, to_status_id, changed_by_user_id, changed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, int64(id), statusIDValue(from), statusIDValue(to), actorUserID, at).Scan(&entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}

	return &student.StatusChange{
		ID:              entryID,
		StudentID:       id,
		FromStatusID:    from,
		ToStatusID:      to,
		ChangedByUserID: actorUserID,
		ChangedAt:       at,
	}, nil
}

func scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		s           student.Student
		id          int64
		statusID    *int64
		totalAmount int64
	)

	err := row.Scan(
		&id,
		&s.FullName,
		&s.Phone,
		&s.Email,
		&s.Country,
		&s.StudyLevel,
		&s.ProgramChoice,
		&s.University,
		&statusID,
		&s.AgentName,
		&totalAmount,
		&s.Currency,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.NewDomainError("student", "Get", shared.ErrNotFound, "student not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.ID = student.StudentID(id)
	s.StatusID = toStatusID(statusID)
	s.TotalAmount = student.Amount(totalAmount)

	return &s, nil
}

func scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	var students []*student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// statusIDValue converts an optional status id for binding (nil maps to NULL).
func statusIDValue(id *status.StatusID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}

func toStatusID(raw *int64) *status.StatusID {
	if raw == nil {
		return nil
	}
	v := status.StatusID(*raw)
	return &v
}

func statusEqual(a, b *status.StatusID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
