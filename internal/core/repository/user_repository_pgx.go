package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yys/user-service/internal/core/domain"
)

const userColumns = "id, username, password, nickname, email, phone, status, created_at, updated_at"

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Password, &u.Nickname, &u.Email, &u.Phone,
		&u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and returns the stored row with server-assigned
// fields populated.
func (r *PgxUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, password, nickname, email, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query,
		user.Username, user.Password, user.Nickname, user.Email, user.Phone, user.Status,
	))
}

// GetByID returns the user with the given id regardless of status.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetActiveByUsername returns the active user with the given username.
// Returns (nil, nil) when no active user matches.
func (r *PgxUserRepository) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND status = $2`
	return scanUser(r.pool.QueryRow(ctx, query, username, domain.StatusActive))
}

// CountByUsername counts users with the given username, any status.
func (r *PgxUserRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, username).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListActive returns active users ordered by id.
func (r *PgxUserRepository) ListActive(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status = $1 ORDER BY id LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, domain.StatusActive, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0, limit)
	for rows.Next() {
		var u domain.User
		err := rows.Scan(
			&u.ID, &u.Username, &u.Password, &u.Nickname, &u.Email, &u.Phone,
			&u.Status, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// CountActive counts active users.
func (r *PgxUserRepository) CountActive(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE status = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, domain.StatusActive).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Update overwrites the non-zero fields of the row identified by user.ID.
// Returns the number of rows affected; zero means the id does not exist.
func (r *PgxUserRepository) Update(ctx context.Context, user *domain.User) (int64, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if user.Nickname != "" {
		add("nickname", user.Nickname)
	}
	if user.Email != "" {
		add("email", user.Email)
	}
	if user.Phone != "" {
		add("phone", user.Phone)
	}
	if user.Password != "" {
		add("password", user.Password)
	}
	// Always touch updated_at, so an update with no settable fields still
	// reports whether the row exists.
	sets = append(sets, "updated_at = now()")

	args = append(args, user.ID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes the row with the given id. Zero rows affected is not an
// error.
func (r *PgxUserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
