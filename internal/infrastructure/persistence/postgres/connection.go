// Package postgres implements the PostgreSQL persistence layer for the
// back office: students and their status history, the payment ledger,
// the status registry, users and notifications.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION POOL
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNoRows mirrors pgx.ErrNoRows so repositories can depend on this
	// package alone.
	ErrNoRows = pgx.ErrNoRows

	// ErrConnectionClosed is returned when a query is attempted after Close.
	ErrConnectionClosed = errors.New("postgres: connection closed")
)

// Config describes how the pool connects when no DATABASE_URL is given.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultConfig targets a local development database. Production deployments
// supply DATABASE_URL instead and go through NewConnectionFromURL.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Password:        "postgres",
		Database:        "afcalink",
		SSLMode:         "disable",
		MaxConns:        25,
		MinConns:        2,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}

func (c Config) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// Connection wraps a pgx pool. All repositories share one Connection; it is
// safe for concurrent use and must be closed exactly once at shutdown.
type Connection struct {
	pool *pgxpool.Pool

	mu     sync.Mutex
	closed bool
}

// NewConnection opens a pool from an explicit Config.
func NewConnection(ctx context.Context, cfg Config) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	return newConnection(ctx, poolCfg)
}

// NewConnectionFromURL opens a pool from a postgres:// URL, taking pool
// sizing from the URL's query parameters or pgx defaults.
func NewConnectionFromURL(ctx context.Context, url string) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse url: %w", err)
	}
	return newConnection(ctx, poolCfg)
}

func newConnection(ctx context.Context, poolCfg *pgxpool.Config) (*Connection, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	return &Connection{pool: pool}, nil
}

// Ping verifies the database is reachable. The HTTP health endpoint calls
// this on every probe.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}
	return c.pool.Ping(ctx)
}

// Close releases the pool. Subsequent queries fail with ErrConnectionClosed.
// Calling Close twice is a no-op.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.pool.Close()
}

func (c *Connection) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Query helpers
// ─────────────────────────────────────────────────────────────────────────────

func (c *Connection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if err := c.guard(); err != nil {
		return pgconn.CommandTag{}, err
	}
	return c.pool.Exec(ctx, sql, args...)
}

func (c *Connection) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	return c.pool.Query(ctx, sql, args...)
}

func (c *Connection) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	// pgx.Row carries its error to Scan, so a closed pool surfaces there.
	return c.pool.QueryRow(ctx, sql, args...)
}

// DefaultTxOptions is the read-committed, read-write transaction every
// multi-statement write in this package runs under.
func DefaultTxOptions() pgx.TxOptions {
	return pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	}
}

// WithTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic.
func (c *Connection) WithTx(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) error {
	if err := c.guard(); err != nil {
		return err
	}

	tx, err := c.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit tx: %w", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one versioned schema step, embedded in the binary.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// Migrator applies embedded migrations in version order, tracking progress in
// a schema_migrations table it creates on first run.
type Migrator struct {
	conn       *Connection
	migrations []Migration
}

func NewMigrator(conn *Connection) *Migrator {
	ms := GetMigrations()
	sort.Slice(ms, func(i, j int) bool { return ms[i].Version < ms[j].Version })
	return &Migrator{conn: conn, migrations: ms}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("postgres: create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Query(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("postgres: read schema_migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, err
		}
		out[version] = at
	}
	return out, rows.Err()
}

// Migrate applies every pending migration. Each step runs in its own
// transaction together with its schema_migrations bookkeeping row.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, ok := done[mig.Version]; ok {
			continue
		}
		err := m.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("postgres: migration %03d %s: %w", mig.Version, mig.Name, err)
		}
	}
	return nil
}

// Rollback undoes the most recently applied migration. Operational tooling
// only; the server never calls this.
func (m *Migrator) Rollback(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}
	if len(done) == 0 {
		return errors.New("postgres: no migrations to roll back")
	}

	var latest *Migration
	for i := len(m.migrations) - 1; i >= 0; i-- {
		if _, ok := done[m.migrations[i].Version]; ok {
			latest = &m.migrations[i]
			break
		}
	}
	if latest == nil {
		return errors.New("postgres: applied migration not found in embedded set")
	}

	err = m.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, latest.DownSQL); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, latest.Version)
		return err
	})
	if err != nil {
		return fmt.Errorf("postgres: rollback %03d %s: %w", latest.Version, latest.Name, err)
	}
	return nil
}

// Status reports every embedded migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Migration, len(m.migrations))
	copy(out, m.migrations)
	for i := range out {
		if at, ok := done[out[i].Version]; ok {
			out[i].IsApplied = true
			out[i].AppliedAt = at
		}
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR CLASSIFICATION
// ══════════════════════════════════════════════════════════════════════════════

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool { return pgErrCode(err) == "23505" }

// IsForeignKeyViolation reports whether err is a foreign key violation, which
// repositories translate into the domain's not-found error for the referenced
// aggregate.
func IsForeignKeyViolation(err error) bool { return pgErrCode(err) == "23503" }

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool { return errors.Is(err, ErrNoRows) }
