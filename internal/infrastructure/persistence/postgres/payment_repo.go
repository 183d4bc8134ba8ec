package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// PAYMENT REPOSITORY IMPLEMENTATION
// The ledger is append-only: Create and Confirm are the only writes, and
// Confirm touches nothing but the status column.
// ══════════════════════════════════════════════════════════════════════════════

const paymentColumns = `
	id, student_id, type, amount, currency, mode, date, status,
	receipt_original_filename, receipt_stored_path, created_by_user_id, created_at
`

// PaymentRepository implements payment.Repository for PostgreSQL.
type PaymentRepository struct {
	conn *Connection
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(conn *Connection) *PaymentRepository {
	return &PaymentRepository{conn: conn}
}

// Create appends a ledger entry.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (
			student_id, type, amount, currency, mode, date, status,
			receipt_original_filename, receipt_stored_path, created_by_user_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := r.conn.QueryRow(ctx, query,
		int64(p.StudentID),
		p.Type,
		int64(p.Amount),
		p.Currency,
		p.Mode,
		p.Date,
		string(p.Status),
		p.ReceiptOriginalFilename,
		p.ReceiptStoredPath,
		p.CreatedByUserID,
		p.CreatedAt,
	).Scan(&id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.NewDomainError("payment", "Create", shared.ErrNotFound, "student not found")
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	p.ID = payment.PaymentID(id)
	return nil
}

// GetByID returns a payment by id.
func (r *PaymentRepository) GetByID(ctx context.Context, id payment.PaymentID) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.conn.QueryRow(ctx, query, int64(id)))
}

// Confirm unconditionally marks the payment as received.
func (r *PaymentRepository) Confirm(ctx context.Context, id payment.PaymentID) (*payment.Payment, error) {
	query := `
		UPDATE payments SET status = $2 WHERE id = $1
		RETURNING ` + paymentColumns

	return scanPayment(r.conn.QueryRow(ctx, query, int64(id), string(payment.StatusReceived)))
}

// List returns all ledger entries, newest first.
func (r *PaymentRepository) List(ctx context.Context) ([]*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY date DESC, id DESC`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// ListByStudent returns one student's ledger, newest first.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID student.StudentID) ([]*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE student_id = $1 ORDER BY date DESC, id DESC`

	rows, err := r.conn.Query(ctx, query, int64(studentID))
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// SumReceivedByStudent sums the received entries for one student.
func (r *PaymentRepository) SumReceivedByStudent(ctx context.Context, studentID student.StudentID) (student.Amount, error) {
	var sum int64
	err := r.conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE student_id = $1 AND status = $2`,
		int64(studentID), string(payment.StatusReceived)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum received payments: %w", err)
	}
	return student.Amount(sum), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var (
		p         payment.Payment
		id        int64
		studentID int64
		amount    int64
		status    string
	)

	err := row.Scan(
		&id,
		&studentID,
		&p.Type,
		&amount,
		&p.Currency,
		&p.Mode,
		&p.Date,
		&status,
		&p.ReceiptOriginalFilename,
		&p.ReceiptStoredPath,
		&p.CreatedByUserID,
		&p.CreatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.NewDomainError("payment", "Get", shared.ErrNotFound, "payment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	p.ID = payment.PaymentID(id)
	p.StudentID = student.StudentID(studentID)
	p.Amount = student.Amount(amount)
	p.Status = payment.Status(status)

	return &p, nil
}

func scanPayments(rows pgx.Rows) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
