package domain

import "context"

// UserRepository defines the data-access contract for user records.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx
// directly. Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	// Create inserts a new user and returns the stored row with
	// server-assigned fields (ID, CreatedAt, UpdatedAt) populated.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByID returns the user with the given id regardless of status.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetActiveByUsername returns the active user with the given username.
	// Disabled accounts are treated as absent.
	GetActiveByUsername(ctx context.Context, username string) (*User, error)

	// CountByUsername counts users with the given username, any status.
	// Used as the application-level uniqueness pre-check; there is no
	// unique constraint at the storage layer, so concurrent registrations
	// can still race (see DESIGN.md).
	CountByUsername(ctx context.Context, username string) (int64, error)

	// ListActive returns active users ordered by id.
	ListActive(ctx context.Context, limit, offset int) ([]*User, error)

	// CountActive counts active users.
	CountActive(ctx context.Context) (int64, error)

	// Update overwrites the non-zero fields of the row identified by
	// user.ID and returns the number of rows affected.
	Update(ctx context.Context, user *User) (int64, error)

	// Delete removes the row with the given id (hard delete) and returns
	// the number of rows affected. Zero is not an error.
	Delete(ctx context.Context, id int64) (int64, error)
}
