package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: USERS AND STATUS REGISTRY
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users and statuses
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    full_name VARCHAR(200) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role VARCHAR(30) NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('admin', 'agent', 'secretary', 'admission_director'))
);

-- Fan-out resolves "all active users with role X" on every trigger
CREATE INDEX IF NOT EXISTS idx_users_role_active ON users(role) WHERE active;

CREATE TABLE IF NOT EXISTS statuses (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_statuses_sort ON statuses(sort_order, name) WHERE active;
`

const migration001Down = `
DROP TABLE IF EXISTS statuses;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: STUDENTS AND STATUS HISTORY
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create students and their status trail
-- Version: 002

CREATE TABLE IF NOT EXISTS students (
    id BIGSERIAL PRIMARY KEY,
    full_name VARCHAR(200) NOT NULL,
    phone VARCHAR(50) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL DEFAULT '',
    country VARCHAR(100) NOT NULL DEFAULT '',
    study_level VARCHAR(100) NOT NULL DEFAULT '',
    program_choice VARCHAR(200) NOT NULL DEFAULT '',
    university VARCHAR(200) NOT NULL DEFAULT '',
    status_id BIGINT REFERENCES statuses(id),
    agent_name VARCHAR(200) NOT NULL DEFAULT '',
    total_amount BIGINT NOT NULL DEFAULT 0,
    currency VARCHAR(10) NOT NULL DEFAULT 'FCFA',
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_total_amount CHECK (total_amount >= 0)
);

CREATE INDEX IF NOT EXISTS idx_students_status ON students(status_id);
CREATE INDEX IF NOT EXISTS idx_students_agent ON students(agent_name);
CREATE INDEX IF NOT EXISTS idx_students_created ON students(created_at DESC);

-- Append-only status trail. Rows are never updated; the only delete path
-- is the student-deletion cascade.
CREATE TABLE IF NOT EXISTS student_status_history (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    from_status_id BIGINT REFERENCES statuses(id),
    to_status_id BIGINT REFERENCES statuses(id),
    changed_by_user_id BIGINT REFERENCES users(id),
    changed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_history_student ON student_status_history(student_id, changed_at, id);
`

const migration002Down = `
DROP TABLE IF EXISTS student_status_history;
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: PAYMENT LEDGER AND NOTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create the payment ledger and notification inbox
-- Version: 003

CREATE TABLE IF NOT EXISTS payments (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    type VARCHAR(100) NOT NULL DEFAULT '',
    amount BIGINT NOT NULL,
    currency VARCHAR(10) NOT NULL DEFAULT 'FCFA',
    mode VARCHAR(50) NOT NULL DEFAULT '',
    date VARCHAR(20) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    receipt_original_filename TEXT NOT NULL DEFAULT '',
    receipt_stored_path TEXT NOT NULL DEFAULT '',
    created_by_user_id BIGINT REFERENCES users(id),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_amount CHECK (amount >= 0),
    CONSTRAINT valid_payment_status CHECK (status IN ('pending', 'received'))
);

CREATE INDEX IF NOT EXISTS idx_payments_student ON payments(student_id, date DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status) WHERE status = 'pending';
-- Balance derivation: SUM(amount) over received rows per student
CREATE INDEX IF NOT EXISTS idx_payments_received ON payments(student_id) WHERE status = 'received';

CREATE TABLE IF NOT EXISTS notifications (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    type VARCHAR(20) NOT NULL DEFAULT 'info',
    link TEXT NOT NULL DEFAULT '',
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE NOT is_read;
`

const migration003Down = `
DROP TABLE IF EXISTS notifications;
DROP TABLE IF EXISTS payments;
`

// GetMigrations returns all embedded migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users_and_statuses",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_students_and_history",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_payments_and_notifications",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
