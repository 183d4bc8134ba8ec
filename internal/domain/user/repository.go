package user

import "context"

// Repository defines the storage contract for back-office users.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// Create inserts a user. Sets u.ID on success.
	// Returns shared.ErrAlreadyExists on a duplicate email.
	Create(ctx context.Context, u *User) error

	// GetByID returns a user by id.
	// Returns shared.ErrNotFound if no such user exists.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail returns a user by normalized email.
	// Returns shared.ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ListActiveByRole returns all active users holding the given role.
	// Fan-out resolves its recipients through this at trigger time; there
	// is no subscription cache.
	ListActiveByRole(ctx context.Context, role Role) ([]*User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)
}
