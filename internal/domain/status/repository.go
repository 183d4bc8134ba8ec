package status

import "context"

// Repository defines the storage contract for the status registry.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// GetByID returns a status by id.
	// Returns shared.ErrNotFound if no such status exists.
	GetByID(ctx context.Context, id StatusID) (*Status, error)

	// ListActive returns all active statuses ordered by sort order, then name.
	ListActive(ctx context.Context) ([]*Status, error)

	// Seed inserts the default pipeline statuses when the registry is empty.
	// Idempotent: a non-empty registry is left untouched.
	Seed(ctx context.Context) error
}
