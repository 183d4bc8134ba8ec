package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const userColumns = `id, full_name, email, password_hash, role, active`

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create inserts a user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (full_name, email, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		u.FullName,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Active,
	).Scan(&u.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("user", "Create", shared.ErrAlreadyExists, "email already registered")
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.conn.QueryRow(ctx, query, id))
}

// GetByEmail returns a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.conn.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// ListActiveByRole returns all active users holding the role.
func (r *UserRepository) ListActiveByRole(ctx context.Context, role user.Role) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND active ORDER BY id`

	rows, err := r.conn.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var role string

	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &role, &u.Active)
	if IsNoRows(err) {
		return nil, shared.NewDomainError("user", "Get", shared.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.Role = user.Role(role)
	return &u, nil
}
