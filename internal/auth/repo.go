package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armada-fleet/armada/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindActiveByID(ctx context.Context, id shared.ID) (*User, error)
}

// PGRepository implements Repository using PostgreSQL. Both lookups apply
// the active-only predicate: soft-deleted users cannot log in and are
// locked out of existing tokens immediately.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userBaseQuery = `
SELECT u.id, u.user_uuid, u.username, u.email, u.password, u.status, u.role_id,
       r.id, r.role_uuid, r.name, r.status,
       u.created_at, u.updated_at
FROM users u
LEFT JOIN roles r ON r.id = u.role_id AND r.deleted_at IS NULL
WHERE u.deleted_at IS NULL`

// FindByUsername fetches a non-deleted user by username for login.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, userBaseQuery+` AND u.username = $1`, username))
}

// FindActiveByID resolves a verified token subject to a live user record.
func (r *PGRepository) FindActiveByID(ctx context.Context, id shared.ID) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, userBaseQuery+` AND u.id = $1`, id.Int64()))
}

func (r *PGRepository) scanUser(row pgx.Row) (*User, error) {
	var (
		user      User
		roleID    *int64
		rID       *int64
		rPublicID *string
		rName     *string
		rStatus   *string
	)
	err := row.Scan(
		&user.ID, &user.PublicID, &user.Username, &user.Email, &user.PasswordHash, &user.Status, &roleID,
		&rID, &rPublicID, &rName, &rStatus,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if roleID != nil {
		id := shared.ID(*roleID)
		user.RoleID = &id
	}
	if rID != nil {
		user.Role = &shared.RoleSummary{
			ID:       shared.ID(*rID),
			PublicID: derefString(rPublicID),
			Name:     derefString(rName),
			Status:   derefString(rStatus),
		}
	}
	return &user, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ Repository = (*PGRepository)(nil)
